package ingest

// Entry is one participant row from the group listing page: the display name
// (lowercased, "'s picks" suffix stripped) and the relative link to their
// picks page.
type Entry struct {
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

// SlotRecord is one roster slot for one participant in one week, exactly as
// parsed from the picks page. Score stays the raw string the site renders;
// coercion happens during aggregation.
type SlotRecord struct {
	User       string
	Week       string
	RosterSlot string
	PlayerName string
	Position   string
	Multiplier string
	Team       string
	Score      string
	PlayerImg  string
}
