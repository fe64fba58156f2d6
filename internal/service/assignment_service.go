package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-hub/timetable-intake-api/internal/dto"
	"github.com/campus-hub/timetable-intake-api/internal/models"
	appErrors "github.com/campus-hub/timetable-intake-api/pkg/errors"
)

const teachersSubjectsCacheKey = "intake:teachers-subjects"

type assignmentTeacherRepo interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

type assignmentSubjectRepo interface {
	List(ctx context.Context) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	UpdateAssignedTeachers(ctx context.Context, id string, teacherIDs []string) error
}

// AssignmentService maps teachers onto subjects ahead of timetable generation.
type AssignmentService struct {
	teachers  assignmentTeacherRepo
	subjects  assignmentSubjectRepo
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewAssignmentService constructs an AssignmentService. The cache is optional.
func NewAssignmentService(teachers assignmentTeacherRepo, subjects assignmentSubjectRepo, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{teachers: teachers, subjects: subjects, cache: cache, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// ListTeachersSubjects returns the option lists the assignment screen needs.
func (s *AssignmentService) ListTeachersSubjects(ctx context.Context) (*dto.TeachersSubjects, error) {
	if s.cache.Enabled() {
		var cached dto.TeachersSubjects
		if hit, err := s.cache.Get(ctx, teachersSubjectsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	result := &dto.TeachersSubjects{
		Teachers: make([]dto.TeacherOption, 0, len(teachers)),
		Subjects: make([]dto.SubjectOption, 0, len(subjects)),
	}
	for _, teacher := range teachers {
		result.Teachers = append(result.Teachers, dto.TeacherOption{
			ID:    teacher.ID,
			MISID: teacher.MISID,
			Name:  teacher.Name,
			Email: teacher.Email,
		})
	}
	for _, subject := range subjects {
		result.Subjects = append(result.Subjects, dto.SubjectOption{
			ID:               subject.ID,
			Code:             subject.Code,
			Name:             subject.Name,
			AssignedTeachers: subject.AssignedTeachers,
		})
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, teachersSubjectsCacheKey, result, s.cacheTTL)
	}

	return result, nil
}

// Apply writes the assigned-teacher list for every subject in the request.
// Each list is normalized before the write: a scalar becomes a singleton and
// a missing value becomes an empty list, so reassigning a subject to nobody
// clears its previous teachers.
func (s *AssignmentService) Apply(ctx context.Context, req dto.AssignRequest) (*dto.AssignResult, error) {
	if len(req.Assignments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no assignments provided")
	}

	updated := 0
	for subjectID, teacherIDs := range req.Assignments {
		if subjectID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "assignment with empty subject id")
		}
		ids := []string(teacherIDs)
		if ids == nil {
			ids = []string{}
		}
		if err := s.subjects.UpdateAssignedTeachers(ctx, subjectID, ids); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status,
				fmt.Sprintf("failed to assign teachers to subject %s", subjectID))
		}
		updated++
	}

	s.invalidateListing(ctx)

	s.logger.Info("teacher assignments applied", zap.Int("subjects", updated))

	return &dto.AssignResult{Updated: updated, Redirect: "/timetable"}, nil
}

// AssignOne sets a single teacher as the sole assignee of one subject.
func (s *AssignmentService) AssignOne(ctx context.Context, subjectID string, req dto.AssignOneRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if err := s.subjects.UpdateAssignedTeachers(ctx, subjectID, []string{req.TeacherID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status,
			fmt.Sprintf("failed to assign teacher to subject %s", subjectID))
	}

	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	s.invalidateListing(ctx)

	return subject, nil
}

func (s *AssignmentService) invalidateListing(ctx context.Context) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, teachersSubjectsCacheKey)
	}
}
