package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rider-delivery-agent/internal/domain"
)

func TestSessionStatus_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range []domain.SessionStatus{
		domain.StatusPending,
		domain.StatusAccepted,
		domain.StatusDeclined,
		domain.StatusStarted,
		domain.StatusCompleted,
	} {
		require.True(t, s.Valid(), string(s))
	}
	require.False(t, domain.SessionStatus("shipped").Valid())
	require.False(t, domain.SessionStatus("").Valid())
}

func TestSessionStatus_CanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from domain.SessionStatus
		to   domain.SessionStatus
		want bool
	}{
		{"pending to accepted", domain.StatusPending, domain.StatusAccepted, true},
		{"pending to declined", domain.StatusPending, domain.StatusDeclined, true},
		{"accepted to started", domain.StatusAccepted, domain.StatusStarted, true},
		{"started to completed", domain.StatusStarted, domain.StatusCompleted, true},
		{"pending cannot jump to started", domain.StatusPending, domain.StatusStarted, false},
		{"started cannot regress to accepted", domain.StatusStarted, domain.StatusAccepted, false},
		{"declined is terminal", domain.StatusDeclined, domain.StatusAccepted, false},
		{"completed is terminal", domain.StatusCompleted, domain.StatusStarted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestSessionStatus_Terminal(t *testing.T) {
	t.Parallel()

	require.True(t, domain.StatusDeclined.Terminal())
	require.True(t, domain.StatusCompleted.Terminal())
	require.False(t, domain.StatusPending.Terminal())
	require.False(t, domain.StatusAccepted.Terminal())
	require.False(t, domain.StatusStarted.Terminal())
}

func TestOrder_TerminalStates(t *testing.T) {
	t.Parallel()

	url := "https://img.example/proof.png"

	delivered := domain.Order{ID: "o1", ProofOfDelivery: &url}
	require.True(t, delivered.Delivered())
	require.True(t, delivered.Terminal())
	require.True(t, delivered.Consistent())

	cancelled := domain.Order{ID: "o2", Status: domain.OrderCancelled}
	require.True(t, cancelled.Cancelled())
	require.True(t, cancelled.Terminal())
	require.True(t, cancelled.Consistent())

	open := domain.Order{ID: "o3", Status: "Processing"}
	require.False(t, open.Terminal())

	// The invariant the server must never violate; the helper is what the
	// coordinator asserts with.
	both := domain.Order{ID: "o4", Status: domain.OrderCancelled, ProofOfDelivery: &url}
	require.False(t, both.Consistent())
}

func TestSession_Clone_Isolated(t *testing.T) {
	t.Parallel()

	url := "https://img.example/a.png"
	s := domain.Session{
		ID:     "s1",
		Status: domain.StatusStarted,
		Orders: []domain.Order{{ID: "o1", ProofOfDelivery: &url}},
	}

	cp := s.Clone()
	*cp.Orders[0].ProofOfDelivery = "https://img.example/b.png"
	cp.Orders[0].Status = domain.OrderCancelled

	require.Equal(t, "https://img.example/a.png", *s.Orders[0].ProofOfDelivery)
	require.Empty(t, s.Orders[0].Status)
}
