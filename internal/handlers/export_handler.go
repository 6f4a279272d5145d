package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyhall/session-service/internal/models"
	"github.com/studyhall/session-service/internal/repositories"
	"github.com/studyhall/session-service/internal/services"
	"github.com/studyhall/session-service/internal/utils"
)

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ExportSessions downloads finished sessions of an assessment as CSV or Excel
// @Summary Export sessions
// @Description Exports finished session records; format=csv (default) or xlsx
// @Tags exports
// @Produce octet-stream
// @Param assessment_id path uint true "Assessment ID"
// @Param format query string false "csv or xlsx"
// @Success 200 {file} byte
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exports/assessments/{assessment_id}/sessions [get]
func (h *ExportHandler) ExportSessions(c *gin.Context) {
	assessmentID := ParseUintParam(c, "assessment_id")
	if assessmentID == 0 {
		return
	}

	filters := parseSessionFilters(c)
	format := c.DefaultQuery("format", "csv")

	h.LogRequest(c, "Exporting sessions", "assessment_id", assessmentID, "format", format)

	var (
		data        []byte
		err         error
		contentType string
		extension   string
	)

	switch format {
	case "csv":
		data, err = h.exportService.ExportSessionsToCSV(c.Request.Context(), assessmentID, filters)
		contentType = "text/csv"
		extension = "csv"
	case "xlsx":
		data, err = h.exportService.ExportSessionsToExcel(c.Request.Context(), assessmentID, filters)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		extension = "xlsx"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
		return
	}

	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("sessions_%d_%s.%s", assessmentID, time.Now().Format("20060102"), extension)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// GetSessionStats returns aggregate statistics for an assessment
// @Summary Session stats
// @Description Returns totals, status breakdown, average score and expiry rate
// @Tags exports
// @Produce json
// @Param assessment_id path uint true "Assessment ID"
// @Success 200 {object} repositories.SessionStats
// @Failure 400 {object} ErrorResponse
// @Router /exports/assessments/{assessment_id}/stats [get]
func (h *ExportHandler) GetSessionStats(c *gin.Context) {
	assessmentID := ParseUintParam(c, "assessment_id")
	if assessmentID == 0 {
		return
	}

	stats, err := h.exportService.GetSessionStats(c.Request.Context(), assessmentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseSessionFilters(c *gin.Context) repositories.SessionFilters {
	filters := repositories.SessionFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.SessionStatus(statusStr)
		filters.Status = &status
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	return filters
}
