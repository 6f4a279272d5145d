package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyhall/session-service/internal/services"
	"github.com/studyhall/session-service/internal/utils"
	"github.com/studyhall/session-service/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// StartSession starts a new timed session for an assessment definition
// @Summary Start session
// @Description Starts a new assessment session and returns its first snapshot
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Assessment definition"
// @Success 201 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	studentID, ok := requireStudentID(c)
	if !ok {
		return
	}

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting session", "assessment_id", req.Definition.ID)

	resp, err := h.sessionService.Start(c.Request.Context(), &req, studentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RecordAnswer saves or replaces the answer for one question
// @Summary Record answer
// @Description Stores the latest answer for a question in an active session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answer body services.RecordAnswerRequest true "Answer payload"
// @Success 200 {object} models.SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID, ok := requireStudentID(c)
	if !ok {
		return
	}

	var req services.RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snapshot, err := h.sessionService.RecordAnswer(c.Request.Context(), sessionID, &req, studentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Navigate moves the session's question cursor
// @Summary Navigate
// @Description Moves to the next/previous question or jumps to an index
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param navigation body services.NavigateRequest true "Navigation request"
// @Success 200 {object} models.SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/navigate [post]
func (h *SessionHandler) Navigate(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID, ok := requireStudentID(c)
	if !ok {
		return
	}

	var req services.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snapshot, err := h.sessionService.Navigate(c.Request.Context(), sessionID, &req, studentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Heartbeat refreshes the countdown and expires overdue sessions
// @Summary Heartbeat
// @Description Returns a fresh snapshot; an overdue session comes back expired
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/heartbeat [post]
func (h *SessionHandler) Heartbeat(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID, ok := requireStudentID(c)
	if !ok {
		return
	}

	snapshot, err := h.sessionService.Heartbeat(c.Request.Context(), sessionID, studentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// SubmitSession finishes the session and returns the graded report
// @Summary Submit session
// @Description Submits an active session for grading
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.ResultReport
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID, ok := requireStudentID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting session", "session_id", sessionID)

	report, err := h.sessionService.Submit(c.Request.Context(), sessionID, studentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetSnapshot returns the current projection of a session
// @Summary Get snapshot
// @Description Returns the session's snapshot, live or finished
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSnapshot(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID, ok := requireStudentID(c)
	if !ok {
		return
	}

	snapshot, err := h.sessionService.GetSnapshot(c.Request.Context(), sessionID, studentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetResult returns the graded report of a finished session
// @Summary Get result
// @Description Returns the result report once the session has terminated
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.ResultReport
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID, ok := requireStudentID(c)
	if !ok {
		return
	}

	report, err := h.sessionService.GetResult(c.Request.Context(), sessionID, studentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
