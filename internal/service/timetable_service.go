package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/campus-hub/timetable-intake-api/internal/dto"
	"github.com/campus-hub/timetable-intake-api/internal/models"
	appErrors "github.com/campus-hub/timetable-intake-api/pkg/errors"
)

type timetableTeacherRepo interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

type timetableSubjectRepo interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type timetableRoomRepo interface {
	List(ctx context.Context) ([]models.Room, error)
}

type timetableDivisionRepo interface {
	List(ctx context.Context) ([]models.Division, error)
}

// TimetableService projects the persisted dataset into the wire shape the
// external scheduling engine expects and relays generation requests to it.
type TimetableService struct {
	teachers  timetableTeacherRepo
	subjects  timetableSubjectRepo
	rooms     timetableRoomRepo
	divisions timetableDivisionRepo
	client    *http.Client
	baseURL   string
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService. The client carries the
// relay timeout; metrics is optional.
func NewTimetableService(
	teachers timetableTeacherRepo,
	subjects timetableSubjectRepo,
	rooms timetableRoomRepo,
	divisions timetableDivisionRepo,
	client *http.Client,
	baseURL string,
	metrics *MetricsService,
	logger *zap.Logger,
) *TimetableService {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		teachers:  teachers,
		subjects:  subjects,
		rooms:     rooms,
		divisions: divisions,
		client:    client,
		baseURL:   baseURL,
		metrics:   metrics,
		logger:    logger,
	}
}

// BuildPayload loads every collection and projects it for the scheduler.
func (s *TimetableService) BuildPayload(ctx context.Context) (*dto.TimetablePayload, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	divisions, err := s.divisions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list divisions")
	}

	payload := &dto.TimetablePayload{
		Teachers:  make([]dto.TimetableTeacher, 0, len(teachers)),
		Subjects:  make([]dto.TimetableSubject, 0, len(subjects)),
		Rooms:     make([]dto.TimetableRoom, 0, len(rooms)),
		Divisions: make([]dto.TimetableDivision, 0, len(divisions)),
	}
	for _, teacher := range teachers {
		payload.Teachers = append(payload.Teachers, dto.TimetableTeacher{
			ID:    teacher.ID,
			Name:  teacher.Name,
			Email: teacher.Email,
		})
	}
	for _, subject := range subjects {
		assigned := []string(subject.AssignedTeachers)
		if assigned == nil {
			assigned = []string{}
		}
		payload.Subjects = append(payload.Subjects, dto.TimetableSubject{
			ID:               subject.ID,
			Code:             subject.Code,
			Name:             subject.Name,
			AssignedTeachers: assigned,
		})
	}
	for _, room := range rooms {
		payload.Rooms = append(payload.Rooms, dto.TimetableRoom{
			ID:       room.ID,
			Name:     room.RoomID,
			Capacity: room.Capacity,
		})
	}
	for _, division := range divisions {
		payload.Divisions = append(payload.Divisions, dto.TimetableDivision{
			ID:   division.ID,
			Name: division.Name,
		})
	}

	return payload, nil
}

// Generate relays the projected dataset to the scheduling engine and returns
// its response body untouched.
func (s *TimetableService) Generate(ctx context.Context) (json.RawMessage, error) {
	payload, err := s.BuildPayload(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode scheduler payload")
	}

	url := s.baseURL + "/generate-timetable"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build scheduler request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.recordRelay(false)
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to reach scheduling engine")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.recordRelay(false)
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to read scheduler response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.recordRelay(false)
		s.logger.Warn("scheduler rejected generation request",
			zap.Int("status", resp.StatusCode),
			zap.String("url", url),
		)
		return nil, appErrors.Clone(appErrors.ErrUpstream,
			fmt.Sprintf("scheduling engine returned status %d", resp.StatusCode))
	}

	s.recordRelay(true)
	s.logger.Info("timetable generation relayed",
		zap.Int("teachers", len(payload.Teachers)),
		zap.Int("subjects", len(payload.Subjects)),
		zap.Int("rooms", len(payload.Rooms)),
		zap.Int("divisions", len(payload.Divisions)),
	)

	return json.RawMessage(respBody), nil
}

func (s *TimetableService) recordRelay(success bool) {
	if s.metrics != nil {
		s.metrics.RecordSchedulerRequest(success)
	}
}
