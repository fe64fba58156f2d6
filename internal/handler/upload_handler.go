package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/timetable-intake-api/internal/service"
	appErrors "github.com/campus-hub/timetable-intake-api/pkg/errors"
	"github.com/campus-hub/timetable-intake-api/pkg/response"
)

// UploadHandler accepts the four-sheet multipart upload.
type UploadHandler struct {
	service     *service.UploadService
	metrics     *service.MetricsService
	maxFileSize int64
}

// NewUploadHandler creates a new handler. maxFileSize caps each part in bytes.
func NewUploadHandler(svc *service.UploadService, metrics *service.MetricsService, maxFileSize int64) *UploadHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 << 20
	}
	return &UploadHandler{service: svc, metrics: metrics, maxFileSize: maxFileSize}
}

// Upload godoc
// @Summary Upload the full dataset
// @Description Ingest teachers, subjects, rooms and fixed-slots sheets in one atomic cycle
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param teachersFile formData file true "Teachers sheet (xlsx)"
// @Param subjectsFile formData file true "Subjects sheet (xlsx)"
// @Param roomsFile formData file true "Rooms sheet (xlsx)"
// @Param fixedSlotsFile formData file true "Fixed slots sheet (xlsx)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	sheets := service.UploadSheets{}
	parts := []struct {
		field string
		dest  *[]byte
	}{
		{"teachersFile", &sheets.Teachers},
		{"subjectsFile", &sheets.Subjects},
		{"roomsFile", &sheets.Rooms},
		{"fixedSlotsFile", &sheets.FixedSlots},
	}
	for _, part := range parts {
		data, err := h.readPart(c, part.field)
		if err != nil {
			h.recordOutcome(false)
			response.Error(c, err)
			return
		}
		*part.dest = data
	}

	result, err := h.service.Ingest(c.Request.Context(), sheets)
	if err != nil {
		h.recordOutcome(false)
		response.Error(c, err)
		return
	}

	h.recordOutcome(true)
	response.JSON(c, http.StatusOK, result, nil)
}

func (h *UploadHandler) readPart(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing upload file %q", field))
	}
	if fileHeader.Size > h.maxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %q exceeds the size limit", field))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("failed to open file %q", field))
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("failed to read file %q", field))
	}
	if int64(len(data)) > h.maxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %q exceeds the size limit", field))
	}
	return data, nil
}

func (h *UploadHandler) recordOutcome(success bool) {
	if h.metrics != nil {
		h.metrics.RecordUploadCycle(success)
	}
}
