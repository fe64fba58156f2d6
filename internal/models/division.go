package models

import "time"

// Division is a student cohort for which a timetable is generated. The five
// records below are reseeded on every upload cycle regardless of prior state.
type Division struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SeedDivisionNames is the fixed set recreated on every upload.
var SeedDivisionNames = []string{
	"Division A",
	"Division B",
	"Division C",
	"Division D",
	"Division E",
}
