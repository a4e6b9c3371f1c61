package domain

// SessionStatus represents the lifecycle stage of a delivery session.
// Values are mirrored verbatim from the server, never derived from
// timestamp presence.
type SessionStatus string

// List of possible session statuses
const (
	StatusPending   SessionStatus = "pending"
	StatusAccepted  SessionStatus = "accepted"
	StatusDeclined  SessionStatus = "declined"
	StatusStarted   SessionStatus = "started"
	StatusCompleted SessionStatus = "completed"
)

// List of allowed statuses
var allowedStatuses = [...]SessionStatus{
	StatusPending, StatusAccepted, StatusDeclined, StatusStarted, StatusCompleted,
}

// transitions is the closed table of forward session moves. Anything not
// listed here is a regression or a jump and must never be requested.
var transitions = map[SessionStatus][]SessionStatus{
	StatusPending:  {StatusAccepted, StatusDeclined},
	StatusAccepted: {StatusStarted},
	StatusStarted:  {StatusCompleted},
}

// Valid checks if the SessionStatus is a known value.
func (s SessionStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further session transition exists.
func (s SessionStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether moving from s to next is a forward move.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	for _, v := range transitions[s] {
		if v == next {
			return true
		}
	}
	return false
}
