package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/timetable-intake-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "mis_id", "name", "email", "designation", "assigned_slot", "subject_preferences", "weekly_schedule", "created_at"}).
		AddRow("t1", "T100", "Alice Smith", "alice@example.edu", "Professor", nil, "{Math,Physics}", []byte(`{"Monday":[]}`), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, mis_id, name, email, designation, assigned_slot, subject_preferences, weekly_schedule, created_at FROM teachers ORDER BY created_at, mis_id")).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "T100", list[0].MISID)
	assert.Equal(t, []string{"Math", "Physics"}, []string(list[0].SubjectPreferences))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryReplaceAllDeletesThenInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("DELETE FROM teachers").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO teachers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teachers").WillReturnResult(sqlmock.NewResult(1, 1))

	teachers := []models.Teacher{
		{MISID: "T100", Name: "Alice Smith", Email: "alice@example.edu", Designation: "Professor", SubjectPreferences: []string{"A", "B", "C", "D", "E"}, WeeklySchedule: models.NewWeeklySchedule()},
		{MISID: "T101", Name: "Bob Jones", Email: "bob@example.edu", Designation: "Lecturer", SubjectPreferences: []string{"A", "B", "C", "D", "E"}, WeeklySchedule: models.NewWeeklySchedule()},
	}
	err := repo.ReplaceAll(context.Background(), db, teachers)
	require.NoError(t, err)
	assert.NotEmpty(t, teachers[0].ID)
	assert.NotEmpty(t, teachers[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateWeeklySchedule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("UPDATE teachers SET weekly_schedule").
		WithArgs("t1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ws := models.NewWeeklySchedule()
	ws.Push("Monday", models.PeriodEntry{Period: 1, Subject: "s1", Room: "R1"})
	require.NoError(t, repo.UpdateWeeklySchedule(context.Background(), db, "t1", ws))
	assert.NoError(t, mock.ExpectationsWereMet())
}
