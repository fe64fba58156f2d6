package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SlotEntry is one immovable (day, period, teacher, room, subject) assignment
// the external scheduler must honour. Subject holds the resolved subject id.
type SlotEntry struct {
	Day     int    `json:"day"`
	Period  int    `json:"period"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
	Subject string `json:"subject"`
}

// SlotList is the ordered set of entries for one division, stored as JSONB.
type SlotList []SlotEntry

// Value implements driver.Valuer.
func (l SlotList) Value() (driver.Value, error) {
	if l == nil {
		l = SlotList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *SlotList) Scan(src interface{}) error {
	if src == nil {
		*l = SlotList{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported slots source type %T", src)
	}
	return json.Unmarshal(raw, l)
}

// FixedSlotGroup holds all fixed slots of one division.
type FixedSlotGroup struct {
	ID        string    `db:"id" json:"id"`
	Division  string    `db:"division" json:"division"`
	Slots     SlotList  `db:"slots" json:"fixed_slots"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
