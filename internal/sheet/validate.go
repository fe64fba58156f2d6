package sheet

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/campus-hub/timetable-intake-api/internal/models"
)

// Kind names the entity kind a sheet carries, used in error messages.
type Kind string

const (
	KindTeacher   Kind = "teachers"
	KindSubject   Kind = "subjects"
	KindRoom      Kind = "rooms"
	KindFixedSlot Kind = "fixed-slots"
)

// RowError describes the first invalid field of a spreadsheet row.
type RowError struct {
	Kind   Kind
	Row    int
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: field %q: %s", e.Kind, e.Row, e.Field, e.Reason)
}

func rowErr(kind Kind, row Row, field, reason string) *RowError {
	return &RowError{Kind: kind, Row: row.Number, Field: field, Reason: reason}
}

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// FixedSlotRow is the typed record for one fixed-slot sheet row. SubjectName
// stays unresolved until the linker maps it onto a subject id.
type FixedSlotRow struct {
	Row         int
	Division    string
	Day         int
	Period      int
	TeacherMIS  string
	RoomID      string
	SubjectName string
}

// TeacherFromRow validates and coerces one teachers-sheet row.
func TeacherFromRow(row Row) (*models.Teacher, error) {
	misID := row.Cell("mis_id")
	if misID == "" {
		return nil, rowErr(KindTeacher, row, "mis_id", "must not be empty")
	}
	name := row.Cell("name")
	if name == "" {
		return nil, rowErr(KindTeacher, row, "name", "must not be empty")
	}
	if !nameRe.MatchString(name) {
		return nil, rowErr(KindTeacher, row, "name", "must contain letters and spaces only")
	}
	email := row.Cell("email")
	if !emailRe.MatchString(email) {
		return nil, rowErr(KindTeacher, row, "email", "invalid email address")
	}
	designation := row.Cell("designation")
	if designation == "" {
		return nil, rowErr(KindTeacher, row, "designation", "must not be empty")
	}

	prefs := splitPreferences(row.Cell("subject_preferences"))
	if len(prefs) != models.SubjectPreferenceCount {
		return nil, rowErr(KindTeacher, row, "subject_preferences",
			fmt.Sprintf("exactly %d subject preferences required, got %d", models.SubjectPreferenceCount, len(prefs)))
	}

	return &models.Teacher{
		MISID:              misID,
		Name:               name,
		Email:              email,
		Designation:        designation,
		SubjectPreferences: prefs,
		WeeklySchedule:     models.NewWeeklySchedule(),
	}, nil
}

// SubjectFromRow validates and coerces one subjects-sheet row, deriving
// total_hours from the theory and lab loads.
func SubjectFromRow(row Row) (*models.Subject, error) {
	code := row.Cell("code")
	if code == "" {
		return nil, rowErr(KindSubject, row, "code", "must not be empty")
	}
	name := row.Cell("name")
	if name == "" {
		return nil, rowErr(KindSubject, row, "name", "must not be empty")
	}
	department := row.Cell("department")
	if department == "" {
		return nil, rowErr(KindSubject, row, "department", "must not be empty")
	}

	semester, err := parseInt(row.Cell("semester"))
	if err != nil || semester <= 0 {
		return nil, rowErr(KindSubject, row, "semester", "must be a positive integer")
	}
	theory, err := parseInt(row.Cell("theory"))
	if err != nil || theory < 0 {
		return nil, rowErr(KindSubject, row, "theory", "must be a non-negative number")
	}
	lab, err := parseInt(row.Cell("lab"))
	if err != nil || lab < 0 {
		return nil, rowErr(KindSubject, row, "lab", "must be a non-negative number")
	}

	return &models.Subject{
		Code:             code,
		Name:             name,
		Department:       department,
		Semester:         semester,
		TheoryHours:      theory,
		LabHours:         lab,
		TotalHours:       theory + lab,
		AssignedTeachers: []string{},
		WeeklySchedule:   models.NewWeeklySchedule(),
	}, nil
}

// RoomFromRow validates and coerces one rooms-sheet row.
func RoomFromRow(row Row) (*models.Room, error) {
	roomID := row.Cell("room_id")
	if roomID == "" {
		return nil, rowErr(KindRoom, row, "room_id", "must not be empty")
	}
	capacity, err := parseInt(row.Cell("capacity"))
	if err != nil || capacity <= 0 {
		return nil, rowErr(KindRoom, row, "capacity", "must be a positive number")
	}

	return &models.Room{
		RoomID:         roomID,
		Capacity:       capacity,
		WeeklySchedule: models.NewWeeklySchedule(),
	}, nil
}

// FixedSlotFromRow validates one fixed-slots-sheet row. Subject resolution
// happens later against persisted subjects.
func FixedSlotFromRow(row Row) (*FixedSlotRow, error) {
	division := row.Cell("division")
	if division == "" {
		return nil, rowErr(KindFixedSlot, row, "division", "must not be empty")
	}
	day, err := parseInt(row.Cell("day"))
	if err != nil || day <= 0 {
		return nil, rowErr(KindFixedSlot, row, "day", "must be a positive integer")
	}
	if _, ok := models.WeekdayForDay(day); !ok {
		return nil, rowErr(KindFixedSlot, row, "day", fmt.Sprintf("must be between 1 and %d", len(models.Weekdays)))
	}
	period, err := parseInt(row.Cell("period"))
	if err != nil || period <= 0 {
		return nil, rowErr(KindFixedSlot, row, "period", "must be a positive integer")
	}
	teacher := row.Cell("teacher")
	if teacher == "" {
		return nil, rowErr(KindFixedSlot, row, "teacher", "must not be empty")
	}
	room := row.Cell("room")
	if room == "" {
		return nil, rowErr(KindFixedSlot, row, "room", "must not be empty")
	}
	subject := row.Cell("subject")
	if subject == "" {
		return nil, rowErr(KindFixedSlot, row, "subject", "must not be empty")
	}

	return &FixedSlotRow{
		Row:         row.Number,
		Division:    division,
		Day:         day,
		Period:      period,
		TeacherMIS:  teacher,
		RoomID:      room,
		SubjectName: subject,
	}, nil
}

func splitPreferences(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	prefs := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			prefs = append(prefs, trimmed)
		}
	}
	return prefs
}

// parseInt accepts plain integers plus the "3.0" style values spreadsheet
// tools emit for numeric cells.
func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty value")
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %s", raw)
	}
	return int(f), nil
}
