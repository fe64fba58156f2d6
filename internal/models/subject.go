package models

import (
	"time"

	"github.com/lib/pq"
)

// Subject represents one row of the uploaded subjects sheet. TotalHours is
// derived as TheoryHours + LabHours at validation time. AssignedTeachers is
// the only field written outside the upload cycle.
type Subject struct {
	ID               string         `db:"id" json:"id"`
	Code             string         `db:"code" json:"code"`
	Name             string         `db:"name" json:"name"`
	Department       string         `db:"department" json:"department"`
	Semester         int            `db:"semester" json:"semester"`
	TheoryHours      int            `db:"theory_hours" json:"theory_hours"`
	LabHours         int            `db:"lab_hours" json:"lab_hours"`
	TotalHours       int            `db:"total_hours" json:"total_hours"`
	AssignedTeachers pq.StringArray `db:"assigned_teachers" json:"assigned_teachers"`
	WeeklySchedule   WeeklySchedule `db:"weekly_schedule" json:"weekly_schedule"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}
