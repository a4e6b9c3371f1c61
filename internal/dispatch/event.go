package dispatch

import (
	"time"
)

// Event is a single dispatch notification about a session assignment.
type Event struct {
	SessionID  string    `json:"session_id"`
	RiderID    string    `json:"rider_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}
