package dto

// UploadCounts reports how many records each sheet produced.
type UploadCounts struct {
	Teachers           int `json:"teachers"`
	Subjects           int `json:"subjects"`
	Rooms              int `json:"rooms"`
	FixedSlotDivisions int `json:"fixed_slot_divisions"`
	Divisions          int `json:"divisions"`
}

// UploadResult is returned after a successful ingestion cycle.
type UploadResult struct {
	Message  string       `json:"message"`
	Redirect string       `json:"redirect"`
	Counts   UploadCounts `json:"counts"`
}
