package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-hub/timetable-intake-api/internal/models"
)

// TeacherRepository manages persistence for uploaded teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = "id, mis_id, name, email, designation, assigned_slot, subject_preferences, weekly_schedule, created_at"

// List returns all teachers in sheet order.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers ORDER BY created_at, mis_id", teacherColumns)
	teachers := []models.Teacher{}
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ReplaceAll deletes the whole collection and inserts the staged records.
func (r *TeacherRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, teachers []models.Teacher) error {
	if _, err := exec.ExecContext(ctx, "DELETE FROM teachers"); err != nil {
		return fmt.Errorf("delete teachers: %w", err)
	}

	const query = `INSERT INTO teachers (id, mis_id, name, email, designation, assigned_slot, subject_preferences, weekly_schedule, created_at)
		VALUES (:id, :mis_id, :name, :email, :designation, :assigned_slot, :subject_preferences, :weekly_schedule, :created_at)`
	now := time.Now().UTC()
	for i := range teachers {
		if teachers[i].ID == "" {
			teachers[i].ID = uuid.NewString()
		}
		teachers[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, exec, query, teachers[i]); err != nil {
			return fmt.Errorf("insert teacher %s: %w", teachers[i].MISID, err)
		}
	}
	return nil
}

// UpdateWeeklySchedule stores the rebuilt weekly schedule for one teacher.
func (r *TeacherRepository) UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error {
	const query = `UPDATE teachers SET weekly_schedule = $2 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, ws); err != nil {
		return fmt.Errorf("update teacher schedule: %w", err)
	}
	return nil
}
