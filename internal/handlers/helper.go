package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studyhall/session-service/internal/services"
	sessionpkg "github.com/studyhall/session-service/internal/session"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func ParseUintParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

// requireStudentID pulls the authenticated student out of the request
// context; the auth middleware put it there.
func requireStudentID(c *gin.Context) (string, bool) {
	studentID := c.GetString(ContextStudentID)
	if studentID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return studentID, true
}

// handleServiceError maps service-layer errors to HTTP status codes
func handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"session_id": permissionError.SessionID,
				"action":     permissionError.Action,
				"reason":     permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrResultNotReady):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Session has not finished yet",
			Details: err.Error(),
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Session not found",
			Details: err.Error(),
		})
	case errors.Is(err, sessionpkg.ErrAlreadyTerminal), errors.Is(err, sessionpkg.ErrNotActive), errors.Is(err, sessionpkg.ErrAlreadyStarted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Session is not in a state that allows this operation",
			Details: err.Error(),
		})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Details: err.Error(),
		})
	}
}
