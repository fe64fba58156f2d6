package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/timetable-intake-api/internal/service"
	"github.com/campus-hub/timetable-intake-api/pkg/response"
)

// TimetableHandler exposes the scheduler projection and relay endpoints.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler creates a new handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Preview godoc
// @Summary Preview the scheduler payload
// @Description Return the dataset projected into the shape sent to the scheduling engine
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/payload [get]
func (h *TimetableHandler) Preview(c *gin.Context) {
	res, err := h.service.BuildPayload(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Generate godoc
// @Summary Generate a timetable
// @Description Relay the full dataset to the scheduling engine and return its response
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /timetable [get]
// @Router /timetable [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	res, err := h.service.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
