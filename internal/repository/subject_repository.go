package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus-hub/timetable-intake-api/internal/models"
)

// SubjectRepository manages persistence for uploaded subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectColumns = "id, code, name, department, semester, theory_hours, lab_hours, total_hours, assigned_teachers, weekly_schedule, created_at"

// List returns all subjects in sheet order.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects ORDER BY created_at, code", subjectColumns)
	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns one subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ReplaceAll deletes the whole collection and inserts the staged records.
func (r *SubjectRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, subjects []models.Subject) error {
	if _, err := exec.ExecContext(ctx, "DELETE FROM subjects"); err != nil {
		return fmt.Errorf("delete subjects: %w", err)
	}

	const query = `INSERT INTO subjects (id, code, name, department, semester, theory_hours, lab_hours, total_hours, assigned_teachers, weekly_schedule, created_at)
		VALUES (:id, :code, :name, :department, :semester, :theory_hours, :lab_hours, :total_hours, :assigned_teachers, :weekly_schedule, :created_at)`
	now := time.Now().UTC()
	for i := range subjects {
		if subjects[i].ID == "" {
			subjects[i].ID = uuid.NewString()
		}
		subjects[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, exec, query, subjects[i]); err != nil {
			return fmt.Errorf("insert subject %s: %w", subjects[i].Code, err)
		}
	}
	return nil
}

// ListNameIDs returns the subject-name to id mapping used by the fixed-slot
// linker. Names are assumed unique; a later duplicate overwrites the earlier.
func (r *SubjectRepository) ListNameIDs(ctx context.Context, exec sqlx.ExtContext) (map[string]string, error) {
	rows := []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}{}
	if err := sqlx.SelectContext(ctx, exec, &rows, "SELECT id, name FROM subjects"); err != nil {
		return nil, fmt.Errorf("list subject names: %w", err)
	}
	byName := make(map[string]string, len(rows))
	for _, row := range rows {
		byName[row.Name] = row.ID
	}
	return byName, nil
}

// UpdateAssignedTeachers writes the assigned-teachers relation of one subject.
func (r *SubjectRepository) UpdateAssignedTeachers(ctx context.Context, id string, teacherIDs []string) error {
	const query = `UPDATE subjects SET assigned_teachers = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, pq.StringArray(teacherIDs))
	if err != nil {
		return fmt.Errorf("update assigned teachers: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("subject %s not found", id)
	}
	return nil
}

// UpdateWeeklySchedule stores the rebuilt weekly schedule for one subject.
func (r *SubjectRepository) UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error {
	const query = `UPDATE subjects SET weekly_schedule = $2 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, ws); err != nil {
		return fmt.Errorf("update subject schedule: %w", err)
	}
	return nil
}
