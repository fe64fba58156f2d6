package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/campus-hub/timetable-intake-api/internal/models"
	"github.com/campus-hub/timetable-intake-api/internal/sheet"
	appErrors "github.com/campus-hub/timetable-intake-api/pkg/errors"
)

func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func validSheets(t *testing.T) UploadSheets {
	return UploadSheets{
		Teachers: workbookBytes(t, [][]interface{}{
			{"mis_id", "name", "email", "designation", "subject_preferences"},
			{"T100", "Alice Smith", "alice@example.edu", "Professor", "Math, Physics, Chemistry, Biology, English"},
		}),
		Subjects: workbookBytes(t, [][]interface{}{
			{"code", "name", "department", "semester", "theory", "lab"},
			{"CS101", "Programming", "CS", "3", "3", "2"},
		}),
		Rooms: workbookBytes(t, [][]interface{}{
			{"room_id", "capacity"},
			{"R1", "60"},
		}),
		FixedSlots: workbookBytes(t, [][]interface{}{
			{"division", "day", "period", "teacher", "room", "subject"},
			{"Division A", "1", "1", "T100", "R1", "Programming"},
			{"Division B", "6", "2", "T100", "R1", "Programming"},
		}),
	}
}

type teacherWriterStub struct {
	replaced  []models.Teacher
	schedules map[string]models.WeeklySchedule
}

func (s *teacherWriterStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, teachers []models.Teacher) error {
	for i := range teachers {
		if teachers[i].ID == "" {
			teachers[i].ID = "teacher-" + teachers[i].MISID
		}
	}
	s.replaced = teachers
	return nil
}

func (s *teacherWriterStub) UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error {
	if s.schedules == nil {
		s.schedules = map[string]models.WeeklySchedule{}
	}
	s.schedules[id] = ws
	return nil
}

type subjectWriterStub struct {
	replaced  []models.Subject
	schedules map[string]models.WeeklySchedule
}

func (s *subjectWriterStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, subjects []models.Subject) error {
	for i := range subjects {
		if subjects[i].ID == "" {
			subjects[i].ID = "subject-" + subjects[i].Code
		}
	}
	s.replaced = subjects
	return nil
}

func (s *subjectWriterStub) ListNameIDs(ctx context.Context, exec sqlx.ExtContext) (map[string]string, error) {
	byName := make(map[string]string, len(s.replaced))
	for _, subject := range s.replaced {
		byName[subject.Name] = subject.ID
	}
	return byName, nil
}

func (s *subjectWriterStub) UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error {
	if s.schedules == nil {
		s.schedules = map[string]models.WeeklySchedule{}
	}
	s.schedules[id] = ws
	return nil
}

type roomWriterStub struct {
	replaced  []models.Room
	schedules map[string]models.WeeklySchedule
}

func (s *roomWriterStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rooms []models.Room) error {
	for i := range rooms {
		if rooms[i].ID == "" {
			rooms[i].ID = "room-" + rooms[i].RoomID
		}
	}
	s.replaced = rooms
	return nil
}

func (s *roomWriterStub) UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error {
	if s.schedules == nil {
		s.schedules = map[string]models.WeeklySchedule{}
	}
	s.schedules[id] = ws
	return nil
}

type fixedSlotWriterStub struct {
	groups []models.FixedSlotGroup
}

func (s *fixedSlotWriterStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, groups []models.FixedSlotGroup) error {
	s.groups = groups
	return nil
}

type divisionWriterStub struct {
	reseeded bool
}

func (s *divisionWriterStub) Reseed(ctx context.Context, exec sqlx.ExtContext) error {
	s.reseeded = true
	return nil
}

type lockStub struct {
	acquired bool
}

func (s *lockStub) Acquire(ctx context.Context, exec sqlx.ExtContext) error {
	s.acquired = true
	return nil
}

type uploadFixture struct {
	svc        *UploadService
	teachers   *teacherWriterStub
	subjects   *subjectWriterStub
	rooms      *roomWriterStub
	fixedSlots *fixedSlotWriterStub
	divisions  *divisionWriterStub
	lock       *lockStub
	mock       sqlmock.Sqlmock
	cleanup    func()
}

func newUploadFixture(t *testing.T) *uploadFixture {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")

	f := &uploadFixture{
		teachers:   &teacherWriterStub{},
		subjects:   &subjectWriterStub{},
		rooms:      &roomWriterStub{},
		fixedSlots: &fixedSlotWriterStub{},
		divisions:  &divisionWriterStub{},
		lock:       &lockStub{},
		mock:       mock,
		cleanup:    func() { db.Close() },
	}
	f.svc = NewUploadService(f.teachers, f.subjects, f.rooms, f.fixedSlots, f.divisions, f.lock, sqlxDB, nil, nil, zap.NewNop())
	return f
}

func TestUploadIngestFullCycle(t *testing.T) {
	f := newUploadFixture(t)
	defer f.cleanup()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	result, err := f.svc.Ingest(context.Background(), validSheets(t))
	require.NoError(t, err)

	assert.True(t, f.lock.acquired)
	assert.True(t, f.divisions.reseeded)
	assert.Equal(t, "files uploaded successfully", result.Message)
	assert.Equal(t, "/assign-teachers", result.Redirect)
	assert.Equal(t, 1, result.Counts.Teachers)
	assert.Equal(t, 1, result.Counts.Subjects)
	assert.Equal(t, 1, result.Counts.Rooms)
	assert.Equal(t, 2, result.Counts.FixedSlotDivisions)
	assert.Equal(t, 5, result.Counts.Divisions)

	require.Len(t, f.fixedSlots.groups, 2)
	assert.Equal(t, "Division A", f.fixedSlots.groups[0].Division)
	assert.Equal(t, "Division B", f.fixedSlots.groups[1].Division)
	assert.Equal(t, "subject-CS101", f.fixedSlots.groups[0].Slots[0].Subject)

	teacherWS := f.teachers.schedules["teacher-T100"]
	require.NotNil(t, teacherWS)
	require.Len(t, teacherWS["Monday"], 1)
	assert.Equal(t, models.PeriodEntry{Period: 1, Subject: "subject-CS101", Room: "R1"}, teacherWS["Monday"][0])
	require.Len(t, teacherWS["Saturday"], 1)

	subjectWS := f.subjects.schedules["subject-CS101"]
	require.NotNil(t, subjectWS)
	assert.Equal(t, models.PeriodEntry{Period: 1, Teacher: "T100", Room: "R1"}, subjectWS["Monday"][0])

	roomWS := f.rooms.schedules["room-R1"]
	require.NotNil(t, roomWS)
	assert.Equal(t, models.PeriodEntry{Period: 1, Teacher: "T100", Subject: "subject-CS101"}, roomWS["Monday"][0])

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUploadIngestMissingFile(t *testing.T) {
	f := newUploadFixture(t)
	defer f.cleanup()

	sheets := validSheets(t)
	sheets.Rooms = nil

	_, err := f.svc.Ingest(context.Background(), sheets)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.False(t, f.lock.acquired)
}

func TestUploadIngestInvalidRowFailsBeforeAnyWrite(t *testing.T) {
	f := newUploadFixture(t)
	defer f.cleanup()

	sheets := validSheets(t)
	sheets.Teachers = workbookBytes(t, [][]interface{}{
		{"mis_id", "name", "email", "designation", "subject_preferences"},
		{"T100", "Alice Smith", "alice@example.edu", "Professor", "Math, Physics"},
	})

	_, err := f.svc.Ingest(context.Background(), sheets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject_preferences")
	assert.Nil(t, f.teachers.replaced)
	assert.False(t, f.lock.acquired)
}

func TestUploadIngestUnresolvedSubjectRollsBack(t *testing.T) {
	f := newUploadFixture(t)
	defer f.cleanup()
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	sheets := validSheets(t)
	sheets.FixedSlots = workbookBytes(t, [][]interface{}{
		{"division", "day", "period", "teacher", "room", "subject"},
		{"Division A", "1", "1", "T100", "R1", "Quantum Basket Weaving"},
	})

	_, err := f.svc.Ingest(context.Background(), sheets)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrReference.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Quantum Basket Weaving")
	assert.False(t, f.divisions.reseeded)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUploadIngestUnknownTeacherRollsBack(t *testing.T) {
	f := newUploadFixture(t)
	defer f.cleanup()
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	sheets := validSheets(t)
	sheets.FixedSlots = workbookBytes(t, [][]interface{}{
		{"division", "day", "period", "teacher", "room", "subject"},
		{"Division A", "1", "1", "T999", "R1", "Programming"},
	})

	_, err := f.svc.Ingest(context.Background(), sheets)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrReference.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "T999")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUploadIngestBeginFailure(t *testing.T) {
	f := newUploadFixture(t)
	defer f.cleanup()
	f.mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	_, err := f.svc.Ingest(context.Background(), validSheets(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUploadIngestRepeatedUploadYieldsIdenticalSchedules(t *testing.T) {
	f := newUploadFixture(t)
	defer f.cleanup()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	first, err := f.svc.Ingest(context.Background(), validSheets(t))
	require.NoError(t, err)

	firstTeachers := f.teachers.schedules
	firstSubjects := f.subjects.schedules
	firstRooms := f.rooms.schedules
	firstGroups := f.fixedSlots.groups
	f.teachers.schedules = nil
	f.subjects.schedules = nil
	f.rooms.schedules = nil

	second, err := f.svc.Ingest(context.Background(), validSheets(t))
	require.NoError(t, err)

	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, firstTeachers, f.teachers.schedules)
	assert.Equal(t, firstSubjects, f.subjects.schedules)
	assert.Equal(t, firstRooms, f.rooms.schedules)
	assert.Equal(t, firstGroups, f.fixedSlots.groups)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGroupFixedSlotsPreservesSheetOrder(t *testing.T) {
	rows := []sheet.FixedSlotRow{
		{Row: 2, Division: "Division B", Day: 1, Period: 1, TeacherMIS: "T100", RoomID: "R1", SubjectName: "Programming"},
		{Row: 3, Division: "Division A", Day: 2, Period: 2, TeacherMIS: "T100", RoomID: "R1", SubjectName: "Programming"},
		{Row: 4, Division: "Division B", Day: 3, Period: 3, TeacherMIS: "T100", RoomID: "R1", SubjectName: "Programming"},
	}
	groups, err := groupFixedSlots(rows, map[string]string{"Programming": "s1"})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Division B", groups[0].Division)
	assert.Len(t, groups[0].Slots, 2)
	assert.Equal(t, "Division A", groups[1].Division)
	assert.Len(t, groups[1].Slots, 1)
}
