package dtos

// RosterRow is one staff roster entry from the administration base
type RosterRow struct {
	RecordID string `json:"record_id"`
	Section  string `json:"section"`
	Position string `json:"position"`
	Member   string `json:"member"`
	Rating   string `json:"rating"`
}
