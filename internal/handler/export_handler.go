package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/timetable-intake-api/internal/service"
	"github.com/campus-hub/timetable-intake-api/pkg/response"
)

// ExportHandler serves CSV and PDF downloads of the persisted dataset.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export the dataset
// @Description Download teachers, subjects, rooms, divisions or fixed-slots as CSV, or summary.pdf for the PDF overview
// @Tags Export
// @Produce text/csv
// @Param entity path string true "Entity name with .csv suffix, or summary.pdf"
// @Success 200 {string} string "File payload"
// @Failure 400 {object} response.Envelope
// @Router /export/{entity} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	raw := c.Param("entity")
	if raw == "summary.pdf" {
		payload, err := h.service.SummaryPDF(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=summary.pdf")
		c.Data(http.StatusOK, "application/pdf", payload)
		return
	}

	entity := strings.TrimSuffix(raw, ".csv")
	payload, filename, err := h.service.CSV(c.Request.Context(), entity)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", payload)
}
