package kafka

import (
	"strings"
	"time"

	"rider-delivery-agent/internal/dispatch"
)

// EventDTO is the wire form of a dispatch.Event.
type EventDTO struct {
	SessionID  string    `json:"session_id"`
	RiderID    string    `json:"rider_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToDomain converts an EventDTO to a dispatch.Event.
func ToDomain(dto EventDTO) dispatch.Event {
	return dispatch.Event{
		SessionID:  strings.TrimSpace(dto.SessionID),
		RiderID:    strings.TrimSpace(dto.RiderID),
		Kind:       strings.TrimSpace(dto.Kind),
		OccurredAt: dto.OccurredAt,
	}
}
