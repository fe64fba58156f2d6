package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-hub/timetable-intake-api/internal/models"
)

// DivisionRepository manages the fixed division seed set.
type DivisionRepository struct {
	db *sqlx.DB
}

// NewDivisionRepository constructs a DivisionRepository.
func NewDivisionRepository(db *sqlx.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

// List returns all divisions ordered by name.
func (r *DivisionRepository) List(ctx context.Context) ([]models.Division, error) {
	const query = `SELECT id, name, created_at FROM divisions ORDER BY name`
	divisions := []models.Division{}
	if err := r.db.SelectContext(ctx, &divisions, query); err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return divisions, nil
}

// Reseed deletes every division and recreates the fixed five.
func (r *DivisionRepository) Reseed(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := exec.ExecContext(ctx, "DELETE FROM divisions"); err != nil {
		return fmt.Errorf("delete divisions: %w", err)
	}

	const query = `INSERT INTO divisions (id, name, created_at) VALUES ($1, $2, $3)`
	now := time.Now().UTC()
	for _, name := range models.SeedDivisionNames {
		if _, err := exec.ExecContext(ctx, query, uuid.NewString(), name, now); err != nil {
			return fmt.Errorf("insert division %s: %w", name, err)
		}
	}
	return nil
}
