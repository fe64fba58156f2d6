package dto

import (
	"bytes"
	"encoding/json"
)

// TeacherIDs accepts a scalar id, a list of ids or null and normalizes all
// three onto a list: scalar becomes a singleton, null/absent becomes empty.
type TeacherIDs []string

// UnmarshalJSON implements the scalar-or-list contract. Null is checked
// before the scalar decode: unmarshalling null into a string is a no-op
// that reports success, which would turn null into a singleton "".
func (t *TeacherIDs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = TeacherIDs{}
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TeacherIDs{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = TeacherIDs(many)
	return nil
}

// AssignRequest maps subject ids onto their assigned teacher ids.
type AssignRequest struct {
	Assignments map[string]TeacherIDs `json:"assignments" validate:"required"`
}

// AssignOneRequest assigns a single teacher to one subject.
type AssignOneRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
}

// AssignResult reports how many subjects were updated.
type AssignResult struct {
	Updated  int    `json:"updated"`
	Redirect string `json:"redirect"`
}

// TeacherOption is a teacher entry on the assignment page.
type TeacherOption struct {
	ID    string `json:"id"`
	MISID string `json:"mis_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubjectOption is a subject entry on the assignment page.
type SubjectOption struct {
	ID               string   `json:"id"`
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	AssignedTeachers []string `json:"assignedTeachers"`
}

// TeachersSubjects is the assignment-page listing.
type TeachersSubjects struct {
	Teachers []TeacherOption `json:"teachers"`
	Subjects []SubjectOption `json:"subjects"`
}
