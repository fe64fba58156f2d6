package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents one row of the uploaded teachers sheet.
type Teacher struct {
	ID                 string         `db:"id" json:"id"`
	MISID              string         `db:"mis_id" json:"mis_id"`
	Name               string         `db:"name" json:"name"`
	Email              string         `db:"email" json:"email"`
	Designation        string         `db:"designation" json:"designation"`
	AssignedSlot       *string        `db:"assigned_slot" json:"assigned_slot,omitempty"`
	SubjectPreferences pq.StringArray `db:"subject_preferences" json:"subject_preferences"`
	WeeklySchedule     WeeklySchedule `db:"weekly_schedule" json:"weekly_schedule"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// SubjectPreferenceCount is the exact number of preferences a teacher must list.
const SubjectPreferenceCount = 5
