package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/timetable-intake-api/internal/models"
)

func TestFixedSlotRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFixedSlotRepository(db)

	mock.ExpectExec("DELETE FROM fixed_slots").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO fixed_slots").WillReturnResult(sqlmock.NewResult(1, 1))

	groups := []models.FixedSlotGroup{
		{
			Division: "Division A",
			Slots: models.SlotList{
				{Day: 1, Period: 1, Teacher: "T100", Room: "R1", Subject: "s1"},
			},
		},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), db, groups))
	assert.NotEmpty(t, groups[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadLockAcquire(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(uploadLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewUploadLock().Acquire(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
