package domain

import "time"

// Position is one best-effort device location sample. It rides a side
// channel independent of the session state machine.
type Position struct {
	Lat       float64
	Lng       float64
	AccuracyM float64
	SampledAt time.Time
}
