package models

import "time"

// Room represents one row of the uploaded rooms sheet.
type Room struct {
	ID             string         `db:"id" json:"id"`
	RoomID         string         `db:"room_id" json:"room_id"`
	Capacity       int            `db:"capacity" json:"capacity"`
	WeeklySchedule WeeklySchedule `db:"weekly_schedule" json:"weekly_schedule"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
