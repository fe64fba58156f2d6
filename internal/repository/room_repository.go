package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-hub/timetable-intake-api/internal/models"
)

// RoomRepository manages persistence for uploaded rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns all rooms in sheet order.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, room_id, capacity, weekly_schedule, created_at FROM rooms ORDER BY created_at, room_id`
	rooms := []models.Room{}
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ReplaceAll deletes the whole collection and inserts the staged records.
func (r *RoomRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rooms []models.Room) error {
	if _, err := exec.ExecContext(ctx, "DELETE FROM rooms"); err != nil {
		return fmt.Errorf("delete rooms: %w", err)
	}

	const query = `INSERT INTO rooms (id, room_id, capacity, weekly_schedule, created_at)
		VALUES (:id, :room_id, :capacity, :weekly_schedule, :created_at)`
	now := time.Now().UTC()
	for i := range rooms {
		if rooms[i].ID == "" {
			rooms[i].ID = uuid.NewString()
		}
		rooms[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, exec, query, rooms[i]); err != nil {
			return fmt.Errorf("insert room %s: %w", rooms[i].RoomID, err)
		}
	}
	return nil
}

// UpdateWeeklySchedule stores the rebuilt weekly schedule for one room.
func (r *RoomRepository) UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error {
	const query = `UPDATE rooms SET weekly_schedule = $2 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, ws); err != nil {
		return fmt.Errorf("update room schedule: %w", err)
	}
	return nil
}
