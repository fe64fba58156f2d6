package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/timetable-intake-api/internal/dto"
	"github.com/campus-hub/timetable-intake-api/internal/service"
	appErrors "github.com/campus-hub/timetable-intake-api/pkg/errors"
	"github.com/campus-hub/timetable-intake-api/pkg/response"
)

// AssignmentHandler exposes the teacher-to-subject assignment endpoints.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// ListTeachersSubjects godoc
// @Summary List teachers and subjects
// @Description Return the option lists for the assignment screen
// @Tags Assignment
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers-subjects [get]
func (h *AssignmentHandler) ListTeachersSubjects(c *gin.Context) {
	res, err := h.service.ListTeachersSubjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Assign godoc
// @Summary Apply teacher assignments
// @Description Replace the assigned-teacher list of every subject in the request
// @Tags Assignment
// @Accept json
// @Produce json
// @Param payload body dto.AssignRequest true "Assignment map"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assign [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	res, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// AssignOne godoc
// @Summary Assign one teacher to one subject
// @Description Set a single teacher as the sole assignee of the subject
// @Tags Assignment
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body dto.AssignOneRequest true "Teacher assignment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id}/assign [put]
func (h *AssignmentHandler) AssignOne(c *gin.Context) {
	var req dto.AssignOneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	res, err := h.service.AssignOne(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
