package kafka_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rider-delivery-agent/internal/dispatch"
	"rider-delivery-agent/internal/transport/kafka"
)

func TestToDomain_TrimsAndCopiesFields(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	dto := kafka.EventDTO{
		SessionID:  "  session-1  ",
		RiderID:    "  rider-1  ",
		Kind:       "  assigned  ",
		OccurredAt: ts,
	}

	got := kafka.ToDomain(dto)

	require.Equal(t, dispatch.Event{
		SessionID:  "session-1",
		RiderID:    "rider-1",
		Kind:       "assigned",
		OccurredAt: ts,
	}, got)
}
