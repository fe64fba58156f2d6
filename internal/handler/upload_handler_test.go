package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/timetable-intake-api/internal/service"
)

func multipartRequest(t *testing.T, files map[string][]byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, data := range files {
		part, err := writer.CreateFormFile(field, field+".xlsx")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadHandlerMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUploadHandler(&service.UploadService{}, nil, 1<<20)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = multipartRequest(t, map[string][]byte{
		"teachersFile": []byte("x"),
		"subjectsFile": []byte("x"),
		"roomsFile":    []byte("x"),
	})

	handler.Upload(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "fixedSlotsFile")
}

func TestUploadHandlerOversizedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUploadHandler(&service.UploadService{}, nil, 4)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = multipartRequest(t, map[string][]byte{
		"teachersFile":   []byte("too large"),
		"subjectsFile":   []byte("x"),
		"roomsFile":      []byte("x"),
		"fixedSlotsFile": []byte("x"),
	})

	handler.Upload(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "size limit")
}
