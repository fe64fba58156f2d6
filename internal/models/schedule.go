package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Weekdays lists the schedulable days in order, indexed by day number 1-6.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayForDay maps a 1-based day number onto its weekday name.
func WeekdayForDay(day int) (string, bool) {
	if day < 1 || day > len(Weekdays) {
		return "", false
	}
	return Weekdays[day-1], true
}

// PeriodEntry is one slot inside a weekly schedule. Depending on the owner
// (teacher, subject or room) two of the three reference fields are set.
type PeriodEntry struct {
	Period  int    `json:"period"`
	Teacher string `json:"teacher,omitempty"`
	Subject string `json:"subject,omitempty"`
	Room    string `json:"room,omitempty"`
}

// WeeklySchedule maps a weekday name onto its ordered period entries. It is
// rebuilt from the fixed-slot sheet on every upload and stored as JSONB.
type WeeklySchedule map[string][]PeriodEntry

// NewWeeklySchedule returns a schedule with an empty entry list per weekday.
func NewWeeklySchedule() WeeklySchedule {
	ws := make(WeeklySchedule, len(Weekdays))
	for _, day := range Weekdays {
		ws[day] = []PeriodEntry{}
	}
	return ws
}

// Push appends an entry to the given weekday preserving sheet order.
func (ws WeeklySchedule) Push(weekday string, entry PeriodEntry) {
	ws[weekday] = append(ws[weekday], entry)
}

// Value implements driver.Valuer for JSONB persistence.
func (ws WeeklySchedule) Value() (driver.Value, error) {
	if ws == nil {
		ws = NewWeeklySchedule()
	}
	return json.Marshal(ws)
}

// Scan implements sql.Scanner for JSONB persistence.
func (ws *WeeklySchedule) Scan(src interface{}) error {
	if src == nil {
		*ws = NewWeeklySchedule()
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported weekly_schedule source type %T", src)
	}
	return json.Unmarshal(raw, ws)
}
