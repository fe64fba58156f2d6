package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-hub/timetable-intake-api/internal/models"
)

// FixedSlotRepository manages the per-division fixed slot groups.
type FixedSlotRepository struct {
	db *sqlx.DB
}

// NewFixedSlotRepository constructs a FixedSlotRepository.
func NewFixedSlotRepository(db *sqlx.DB) *FixedSlotRepository {
	return &FixedSlotRepository{db: db}
}

// List returns all fixed slot groups ordered by division name.
func (r *FixedSlotRepository) List(ctx context.Context) ([]models.FixedSlotGroup, error) {
	const query = `SELECT id, division, slots, created_at FROM fixed_slots ORDER BY division`
	groups := []models.FixedSlotGroup{}
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list fixed slots: %w", err)
	}
	return groups, nil
}

// ReplaceAll deletes the whole collection and inserts the staged groups.
func (r *FixedSlotRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, groups []models.FixedSlotGroup) error {
	if _, err := exec.ExecContext(ctx, "DELETE FROM fixed_slots"); err != nil {
		return fmt.Errorf("delete fixed slots: %w", err)
	}

	const query = `INSERT INTO fixed_slots (id, division, slots, created_at)
		VALUES (:id, :division, :slots, :created_at)`
	now := time.Now().UTC()
	for i := range groups {
		if groups[i].ID == "" {
			groups[i].ID = uuid.NewString()
		}
		groups[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, exec, query, groups[i]); err != nil {
			return fmt.Errorf("insert fixed slots for %s: %w", groups[i].Division, err)
		}
	}
	return nil
}
