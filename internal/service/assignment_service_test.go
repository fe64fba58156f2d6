package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-hub/timetable-intake-api/internal/dto"
	"github.com/campus-hub/timetable-intake-api/internal/models"
	appErrors "github.com/campus-hub/timetable-intake-api/pkg/errors"
)

type teacherListStub struct {
	teachers []models.Teacher
}

func (s *teacherListStub) List(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type subjectStoreStub struct {
	subjects map[string]*models.Subject
	updates  map[string][]string
}

func newSubjectStoreStub(subjects ...*models.Subject) *subjectStoreStub {
	s := &subjectStoreStub{subjects: map[string]*models.Subject{}, updates: map[string][]string{}}
	for _, subject := range subjects {
		s.subjects[subject.ID] = subject
	}
	return s
}

func (s *subjectStoreStub) List(ctx context.Context) ([]models.Subject, error) {
	out := make([]models.Subject, 0, len(s.subjects))
	for _, subject := range s.subjects {
		out = append(out, *subject)
	}
	return out, nil
}

func (s *subjectStoreStub) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if subject, ok := s.subjects[id]; ok {
		cp := *subject
		return &cp, nil
	}
	return nil, fmt.Errorf("subject %s not found", id)
}

func (s *subjectStoreStub) UpdateAssignedTeachers(ctx context.Context, id string, teacherIDs []string) error {
	subject, ok := s.subjects[id]
	if !ok {
		return fmt.Errorf("subject %s not found", id)
	}
	subject.AssignedTeachers = teacherIDs
	s.updates[id] = teacherIDs
	return nil
}

func newAssignmentFixture(subjects ...*models.Subject) (*AssignmentService, *subjectStoreStub) {
	store := newSubjectStoreStub(subjects...)
	svc := NewAssignmentService(&teacherListStub{}, store, nil, validator.New(), zap.NewNop(), time.Minute)
	return svc, store
}

func TestAssignRequestAcceptsScalarListAndNull(t *testing.T) {
	var req dto.AssignRequest
	payload := `{"assignments":{"s1":"t1","s2":["t1","t2"],"s3":null}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	assert.Equal(t, dto.TeacherIDs{"t1"}, req.Assignments["s1"])
	assert.Equal(t, dto.TeacherIDs{"t1", "t2"}, req.Assignments["s2"])
	assert.Equal(t, dto.TeacherIDs{}, req.Assignments["s3"])
}

func TestApplyWritesEveryAssignment(t *testing.T) {
	svc, store := newAssignmentFixture(
		&models.Subject{ID: "s1", Code: "CS101", Name: "Programming"},
		&models.Subject{ID: "s2", Code: "CS102", Name: "Data Structures", AssignedTeachers: []string{"old"}},
	)

	result, err := svc.Apply(context.Background(), dto.AssignRequest{Assignments: map[string]dto.TeacherIDs{
		"s1": {"t1", "t2"},
		"s2": {},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, []string{"t1", "t2"}, store.updates["s1"])
	assert.Empty(t, store.updates["s2"])
	assert.Empty(t, store.subjects["s2"].AssignedTeachers)
}

func TestApplyRejectsEmptyRequest(t *testing.T) {
	svc, _ := newAssignmentFixture()
	_, err := svc.Apply(context.Background(), dto.AssignRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestApplyUnknownSubject(t *testing.T) {
	svc, _ := newAssignmentFixture(&models.Subject{ID: "s1", Name: "Programming"})
	_, err := svc.Apply(context.Background(), dto.AssignRequest{Assignments: map[string]dto.TeacherIDs{
		"missing": {"t1"},
	}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAssignOneReplacesAssignees(t *testing.T) {
	svc, store := newAssignmentFixture(&models.Subject{ID: "s1", Name: "Programming", AssignedTeachers: []string{"t9"}})

	subject, err := svc.AssignOne(context.Background(), "s1", dto.AssignOneRequest{TeacherID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, store.updates["s1"])
	assert.Equal(t, []string{"t1"}, []string(subject.AssignedTeachers))
}

func TestAssignOneValidatesPayload(t *testing.T) {
	svc, _ := newAssignmentFixture(&models.Subject{ID: "s1"})
	_, err := svc.AssignOne(context.Background(), "s1", dto.AssignOneRequest{})
	require.Error(t, err)
}

func TestListTeachersSubjectsProjection(t *testing.T) {
	store := newSubjectStoreStub(&models.Subject{ID: "s1", Code: "CS101", Name: "Programming", AssignedTeachers: []string{"t1"}})
	teachers := &teacherListStub{teachers: []models.Teacher{
		{ID: "t1", MISID: "T100", Name: "Alice Smith", Email: "alice@example.edu"},
	}}
	svc := NewAssignmentService(teachers, store, nil, validator.New(), zap.NewNop(), time.Minute)

	listing, err := svc.ListTeachersSubjects(context.Background())
	require.NoError(t, err)
	require.Len(t, listing.Teachers, 1)
	require.Len(t, listing.Subjects, 1)
	assert.Equal(t, "T100", listing.Teachers[0].MISID)
	assert.Equal(t, []string{"t1"}, listing.Subjects[0].AssignedTeachers)
}
