package dto

// TimetableTeacher is the teacher projection sent to the external scheduler.
type TimetableTeacher struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TimetableSubject is the subject projection sent to the external scheduler.
type TimetableSubject struct {
	ID               string   `json:"id"`
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	AssignedTeachers []string `json:"assignedTeachers"`
}

// TimetableRoom is the room projection sent to the external scheduler.
type TimetableRoom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// TimetableDivision is the division projection sent to the external scheduler.
type TimetableDivision struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimetablePayload is the entire persisted state projected into the wire
// shape the external scheduler expects.
type TimetablePayload struct {
	Teachers  []TimetableTeacher  `json:"teachers"`
	Subjects  []TimetableSubject  `json:"subjects"`
	Rooms     []TimetableRoom     `json:"rooms"`
	Divisions []TimetableDivision `json:"divisions"`
}
