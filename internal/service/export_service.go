package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-hub/timetable-intake-api/internal/models"
	appErrors "github.com/campus-hub/timetable-intake-api/pkg/errors"
	"github.com/campus-hub/timetable-intake-api/pkg/export"
)

type exportFixedSlotRepo interface {
	List(ctx context.Context) ([]models.FixedSlotGroup, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders the persisted dataset as CSV per entity and as a
// one-page PDF summary.
type ExportService struct {
	teachers   timetableTeacherRepo
	subjects   timetableSubjectRepo
	rooms      timetableRoomRepo
	divisions  timetableDivisionRepo
	fixedSlots exportFixedSlotRepo
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(
	teachers timetableTeacherRepo,
	subjects timetableSubjectRepo,
	rooms timetableRoomRepo,
	divisions timetableDivisionRepo,
	fixedSlots exportFixedSlotRepo,
	csv csvRenderer,
	pdf pdfRenderer,
	logger *zap.Logger,
) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		teachers:   teachers,
		subjects:   subjects,
		rooms:      rooms,
		divisions:  divisions,
		fixedSlots: fixedSlots,
		csv:        csv,
		pdf:        pdf,
		logger:     logger,
	}
}

// CSV renders one entity collection as CSV and returns the bytes plus the
// suggested download filename.
func (s *ExportService) CSV(ctx context.Context, entity string) ([]byte, string, error) {
	var (
		dataset export.Dataset
		err     error
	)
	switch entity {
	case "teachers":
		dataset, err = s.teacherDataset(ctx)
	case "subjects":
		dataset, err = s.subjectDataset(ctx)
	case "rooms":
		dataset, err = s.roomDataset(ctx)
	case "divisions":
		dataset, err = s.divisionDataset(ctx)
	case "fixed-slots":
		dataset, err = s.fixedSlotDataset(ctx)
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown export entity %q", entity))
	}
	if err != nil {
		return nil, "", err
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, entity + ".csv", nil
}

// SummaryPDF renders collection counts into a one-page PDF.
func (s *ExportService) SummaryPDF(ctx context.Context) ([]byte, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	divisions, err := s.divisions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list divisions")
	}
	groups, err := s.fixedSlots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fixed slots")
	}

	assignedSubjects := 0
	for _, subject := range subjects {
		if len(subject.AssignedTeachers) > 0 {
			assignedSubjects++
		}
	}
	slotCount := 0
	for _, group := range groups {
		slotCount += len(group.Slots)
	}

	dataset := export.Dataset{
		Headers: []string{"Metric", "Value"},
		Rows: []map[string]string{
			{"Metric": "Teachers", "Value": fmt.Sprintf("%d", len(teachers))},
			{"Metric": "Subjects", "Value": fmt.Sprintf("%d", len(subjects))},
			{"Metric": "Subjects With Teachers", "Value": fmt.Sprintf("%d", assignedSubjects)},
			{"Metric": "Rooms", "Value": fmt.Sprintf("%d", len(rooms))},
			{"Metric": "Divisions", "Value": fmt.Sprintf("%d", len(divisions))},
			{"Metric": "Fixed Slots", "Value": fmt.Sprintf("%d", slotCount)},
		},
	}

	payload, err := s.pdf.Render(dataset, "Timetable Intake Summary")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, nil
}

func (s *ExportService) teacherDataset(ctx context.Context) (export.Dataset, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	rows := make([]map[string]string, 0, len(teachers))
	for _, teacher := range teachers {
		rows = append(rows, map[string]string{
			"MIS ID":      teacher.MISID,
			"Name":        teacher.Name,
			"Email":       teacher.Email,
			"Designation": teacher.Designation,
			"Preferences": strings.Join(teacher.SubjectPreferences, "; "),
		})
	}
	return export.Dataset{
		Headers: []string{"MIS ID", "Name", "Email", "Designation", "Preferences"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) subjectDataset(ctx context.Context) (export.Dataset, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	rows := make([]map[string]string, 0, len(subjects))
	for _, subject := range subjects {
		rows = append(rows, map[string]string{
			"Code":              subject.Code,
			"Name":              subject.Name,
			"Department":        subject.Department,
			"Semester":          fmt.Sprintf("%d", subject.Semester),
			"Theory Hours":      fmt.Sprintf("%d", subject.TheoryHours),
			"Lab Hours":         fmt.Sprintf("%d", subject.LabHours),
			"Total Hours":       fmt.Sprintf("%d", subject.TotalHours),
			"Assigned Teachers": strings.Join(subject.AssignedTeachers, "; "),
		})
	}
	return export.Dataset{
		Headers: []string{"Code", "Name", "Department", "Semester", "Theory Hours", "Lab Hours", "Total Hours", "Assigned Teachers"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) roomDataset(ctx context.Context) (export.Dataset, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	rows := make([]map[string]string, 0, len(rooms))
	for _, room := range rooms {
		rows = append(rows, map[string]string{
			"Room ID":  room.RoomID,
			"Capacity": fmt.Sprintf("%d", room.Capacity),
		})
	}
	return export.Dataset{
		Headers: []string{"Room ID", "Capacity"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) divisionDataset(ctx context.Context) (export.Dataset, error) {
	divisions, err := s.divisions.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list divisions")
	}
	rows := make([]map[string]string, 0, len(divisions))
	for _, division := range divisions {
		rows = append(rows, map[string]string{"Name": division.Name})
	}
	return export.Dataset{
		Headers: []string{"Name"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) fixedSlotDataset(ctx context.Context) (export.Dataset, error) {
	groups, err := s.fixedSlots.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fixed slots")
	}
	rows := make([]map[string]string, 0)
	for _, group := range groups {
		for _, slot := range group.Slots {
			weekday, _ := models.WeekdayForDay(slot.Day)
			rows = append(rows, map[string]string{
				"Division": group.Division,
				"Day":      weekday,
				"Period":   fmt.Sprintf("%d", slot.Period),
				"Teacher":  slot.Teacher,
				"Subject":  slot.Subject,
				"Room":     slot.Room,
			})
		}
	}
	return export.Dataset{
		Headers: []string{"Division", "Day", "Period", "Teacher", "Subject", "Room"},
		Rows:    rows,
	}, nil
}
