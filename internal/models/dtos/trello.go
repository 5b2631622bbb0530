package dtos

// TrelloCard is a single card on a board list. Due is the raw upstream
// timestamp; empty when the card has no due date.
type TrelloCard struct {
	Name string `json:"name"`
	Due  string `json:"due"`
}

// TrelloList is a board list with its cards
type TrelloList struct {
	Name  string       `json:"name"`
	Cards []TrelloCard `json:"cards"`
}

// BlacklistFindings buckets matched list names by configured severity.
// Names are deduplicated within each bucket.
type BlacklistFindings struct {
	Major []string `json:"major"`
	Minor []string `json:"minor"`
}
