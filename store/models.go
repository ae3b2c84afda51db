package store

import "time"

// Session is the state one browser session keeps across interactions.
type Session struct {
	ID          string    `json:"session_id"`
	Position    int       `json:"position"`
	ViewMode    string    `json:"view_mode"`
	Shuffle     bool      `json:"shuffle"`
	ShuffleSeed int64     `json:"shuffle_seed"`
	LastSeen    time.Time `json:"last_seen"`
}
