package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campus-hub/timetable-intake-api/internal/dto"
	"github.com/campus-hub/timetable-intake-api/internal/models"
	"github.com/campus-hub/timetable-intake-api/internal/sheet"
	appErrors "github.com/campus-hub/timetable-intake-api/pkg/errors"
)

type uploadTeacherWriter interface {
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, teachers []models.Teacher) error
	UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error
}

type uploadSubjectWriter interface {
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, subjects []models.Subject) error
	ListNameIDs(ctx context.Context, exec sqlx.ExtContext) (map[string]string, error)
	UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error
}

type uploadRoomWriter interface {
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rooms []models.Room) error
	UpdateWeeklySchedule(ctx context.Context, exec sqlx.ExtContext, id string, ws models.WeeklySchedule) error
}

type uploadFixedSlotWriter interface {
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, groups []models.FixedSlotGroup) error
}

type uploadDivisionWriter interface {
	Reseed(ctx context.Context, exec sqlx.ExtContext) error
}

type uploadLocker interface {
	Acquire(ctx context.Context, exec sqlx.ExtContext) error
}

type uploadTxProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type uploadRetainer interface {
	Save(filename string, data []byte) (string, error)
}

type uploadCacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// UploadSheets carries the raw bytes of the four uploaded spreadsheets.
type UploadSheets struct {
	Teachers   []byte
	Subjects   []byte
	Rooms      []byte
	FixedSlots []byte
}

// UploadService runs the ingestion pipeline: parse all four sheets, validate
// every row, then replace the five collections and rebuild the weekly
// schedules inside a single transaction. A failure anywhere rolls back the
// whole cycle, so the store never holds a partially ingested dataset.
type UploadService struct {
	teachers   uploadTeacherWriter
	subjects   uploadSubjectWriter
	rooms      uploadRoomWriter
	fixedSlots uploadFixedSlotWriter
	divisions  uploadDivisionWriter
	lock       uploadLocker
	tx         uploadTxProvider
	retainer   uploadRetainer
	cache      uploadCacheInvalidator
	logger     *zap.Logger
}

// NewUploadService wires the ingestion pipeline dependencies. The retainer
// and cache are optional.
func NewUploadService(
	teachers uploadTeacherWriter,
	subjects uploadSubjectWriter,
	rooms uploadRoomWriter,
	fixedSlots uploadFixedSlotWriter,
	divisions uploadDivisionWriter,
	lock uploadLocker,
	tx uploadTxProvider,
	retainer uploadRetainer,
	cache uploadCacheInvalidator,
	logger *zap.Logger,
) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		teachers:   teachers,
		subjects:   subjects,
		rooms:      rooms,
		fixedSlots: fixedSlots,
		divisions:  divisions,
		lock:       lock,
		tx:         tx,
		retainer:   retainer,
		cache:      cache,
		logger:     logger,
	}
}

// stagedUpload holds the fully validated dataset before any write happens.
type stagedUpload struct {
	teachers  []models.Teacher
	subjects  []models.Subject
	rooms     []models.Room
	slotRows  []sheet.FixedSlotRow
}

// Ingest runs one upload cycle and returns per-collection counts plus the
// redirect hint for the assignment stage.
func (s *UploadService) Ingest(ctx context.Context, sheets UploadSheets) (*dto.UploadResult, error) {
	if len(sheets.Teachers) == 0 || len(sheets.Subjects) == 0 || len(sheets.Rooms) == 0 || len(sheets.FixedSlots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "please upload all four files")
	}

	staged, err := s.stage(sheets)
	if err != nil {
		return nil, err
	}

	s.retain(sheets)

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin upload transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.lock.Acquire(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to serialize upload")
	}

	if err = s.teachers.ReplaceAll(ctx, tx, staged.teachers); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace teachers")
	}
	if err = s.subjects.ReplaceAll(ctx, tx, staged.subjects); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace subjects")
	}
	if err = s.rooms.ReplaceAll(ctx, tx, staged.rooms); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace rooms")
	}

	subjectsByName, err := s.subjects.ListNameIDs(ctx, tx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to index subjects")
	}

	groups, err := groupFixedSlots(staged.slotRows, subjectsByName)
	if err != nil {
		return nil, err
	}
	if err = s.fixedSlots.ReplaceAll(ctx, tx, groups); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace fixed slots")
	}

	if err = s.replaySchedules(ctx, tx, staged, subjectsByName); err != nil {
		return nil, err
	}

	if err = s.divisions.Reseed(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reseed divisions")
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit upload")
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, "intake:*")
	}

	s.logger.Info("upload cycle completed",
		zap.Int("teachers", len(staged.teachers)),
		zap.Int("subjects", len(staged.subjects)),
		zap.Int("rooms", len(staged.rooms)),
		zap.Int("fixed_slot_divisions", len(groups)),
	)

	return &dto.UploadResult{
		Message:  "files uploaded successfully",
		Redirect: "/assign-teachers",
		Counts: dto.UploadCounts{
			Teachers:           len(staged.teachers),
			Subjects:           len(staged.subjects),
			Rooms:              len(staged.rooms),
			FixedSlotDivisions: len(groups),
			Divisions:          len(models.SeedDivisionNames),
		},
	}, nil
}

// stage parses and validates all four sheets before any write. The first
// invalid row aborts with the row error surfaced verbatim.
func (s *UploadService) stage(sheets UploadSheets) (*stagedUpload, error) {
	staged := &stagedUpload{}

	teacherRows, err := sheet.Parse(bytes.NewReader(sheets.Teachers))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("teachers sheet: %v", err))
	}
	for _, row := range teacherRows {
		teacher, err := sheet.TeacherFromRow(row)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		staged.teachers = append(staged.teachers, *teacher)
	}

	subjectRows, err := sheet.Parse(bytes.NewReader(sheets.Subjects))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("subjects sheet: %v", err))
	}
	for _, row := range subjectRows {
		subject, err := sheet.SubjectFromRow(row)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		staged.subjects = append(staged.subjects, *subject)
	}

	roomRows, err := sheet.Parse(bytes.NewReader(sheets.Rooms))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("rooms sheet: %v", err))
	}
	for _, row := range roomRows {
		room, err := sheet.RoomFromRow(row)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		staged.rooms = append(staged.rooms, *room)
	}

	slotRows, err := sheet.Parse(bytes.NewReader(sheets.FixedSlots))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("fixed-slots sheet: %v", err))
	}
	for _, row := range slotRows {
		slot, err := sheet.FixedSlotFromRow(row)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		staged.slotRows = append(staged.slotRows, *slot)
	}

	return staged, nil
}

// retain keeps copies of the raw uploads on disk, best effort.
func (s *UploadService) retain(sheets UploadSheets) {
	if s.retainer == nil {
		return
	}
	stamp := time.Now().UTC().Format("20060102T150405")
	parts := map[string][]byte{
		"teachers":    sheets.Teachers,
		"subjects":    sheets.Subjects,
		"rooms":       sheets.Rooms,
		"fixed-slots": sheets.FixedSlots,
	}
	for name, data := range parts {
		if _, err := s.retainer.Save(fmt.Sprintf("%s-%s.xlsx", stamp, name), data); err != nil {
			s.logger.Warn("failed to retain uploaded sheet", zap.String("sheet", name), zap.Error(err))
		}
	}
}

// groupFixedSlots buckets validated rows per division preserving sheet order
// and resolves every subject name against the persisted subjects. Unresolved
// references fail the whole upload.
func groupFixedSlots(rows []sheet.FixedSlotRow, subjectsByName map[string]string) ([]models.FixedSlotGroup, error) {
	order := make([]string, 0)
	byDivision := make(map[string]*models.FixedSlotGroup)

	for _, row := range rows {
		subjectID, ok := subjectsByName[row.SubjectName]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrReference,
				fmt.Sprintf("fixed-slots row %d: subject %q not found among uploaded subjects", row.Row, row.SubjectName))
		}

		group, ok := byDivision[row.Division]
		if !ok {
			group = &models.FixedSlotGroup{Division: row.Division, Slots: models.SlotList{}}
			byDivision[row.Division] = group
			order = append(order, row.Division)
		}
		group.Slots = append(group.Slots, models.SlotEntry{
			Day:     row.Day,
			Period:  row.Period,
			Teacher: row.TeacherMIS,
			Room:    row.RoomID,
			Subject: subjectID,
		})
	}

	groups := make([]models.FixedSlotGroup, 0, len(order))
	for _, division := range order {
		groups = append(groups, *byDivision[division])
	}
	return groups, nil
}

// replaySchedules walks the fixed-slot rows and pushes one entry into the
// weekday list of the matching teacher, subject and room, then writes the
// rebuilt schedules. Entities untouched by any fixed slot keep the empty
// schedules they were inserted with.
func (s *UploadService) replaySchedules(ctx context.Context, tx *sqlx.Tx, staged *stagedUpload, subjectsByName map[string]string) error {
	teachersByMIS := make(map[string]*models.Teacher, len(staged.teachers))
	for i := range staged.teachers {
		teachersByMIS[staged.teachers[i].MISID] = &staged.teachers[i]
	}
	subjectsByID := make(map[string]*models.Subject, len(staged.subjects))
	for i := range staged.subjects {
		subjectsByID[staged.subjects[i].ID] = &staged.subjects[i]
	}
	roomsByRID := make(map[string]*models.Room, len(staged.rooms))
	for i := range staged.rooms {
		roomsByRID[staged.rooms[i].RoomID] = &staged.rooms[i]
	}

	touchedTeachers := make(map[string]*models.Teacher)
	touchedSubjects := make(map[string]*models.Subject)
	touchedRooms := make(map[string]*models.Room)

	for _, row := range staged.slotRows {
		weekday, _ := models.WeekdayForDay(row.Day)
		subjectID := subjectsByName[row.SubjectName]

		teacher, ok := teachersByMIS[row.TeacherMIS]
		if !ok {
			return appErrors.Clone(appErrors.ErrReference,
				fmt.Sprintf("fixed-slots row %d: teacher %q not found among uploaded teachers", row.Row, row.TeacherMIS))
		}
		subject, ok := subjectsByID[subjectID]
		if !ok {
			return appErrors.Clone(appErrors.ErrReference,
				fmt.Sprintf("fixed-slots row %d: subject %q not found among uploaded subjects", row.Row, row.SubjectName))
		}
		room, ok := roomsByRID[row.RoomID]
		if !ok {
			return appErrors.Clone(appErrors.ErrReference,
				fmt.Sprintf("fixed-slots row %d: room %q not found among uploaded rooms", row.Row, row.RoomID))
		}

		teacher.WeeklySchedule.Push(weekday, models.PeriodEntry{Period: row.Period, Subject: subject.ID, Room: room.RoomID})
		subject.WeeklySchedule.Push(weekday, models.PeriodEntry{Period: row.Period, Teacher: teacher.MISID, Room: room.RoomID})
		room.WeeklySchedule.Push(weekday, models.PeriodEntry{Period: row.Period, Teacher: teacher.MISID, Subject: subject.ID})

		touchedTeachers[teacher.ID] = teacher
		touchedSubjects[subject.ID] = subject
		touchedRooms[room.ID] = room
	}

	for id, teacher := range touchedTeachers {
		if err := s.teachers.UpdateWeeklySchedule(ctx, tx, id, teacher.WeeklySchedule); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write teacher schedule")
		}
	}
	for id, subject := range touchedSubjects {
		if err := s.subjects.UpdateWeeklySchedule(ctx, tx, id, subject.WeeklySchedule); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write subject schedule")
		}
	}
	for id, room := range touchedRooms {
		if err := s.rooms.UpdateWeeklySchedule(ctx, tx, id, room.WeeklySchedule); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write room schedule")
		}
	}

	return nil
}
