package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rider-delivery-agent/internal/domain"
)

func TestGroupStops_ByUserAndAddress(t *testing.T) {
	t.Parallel()

	alice := domain.UserInfo{ID: "u1", Name: "Alice"}
	bob := domain.UserInfo{ID: "u2", Name: "Bob"}

	s := domain.Session{
		ID: "s1",
		Orders: []domain.Order{
			{ID: "o1", User: alice, DeliveryAddress: "1 Main St"},
			{ID: "o2", User: bob, DeliveryAddress: "9 Oak Ave"},
			{ID: "o3", User: alice, DeliveryAddress: "1 Main St"},
			// same user, different address: separate stop
			{ID: "o4", User: alice, DeliveryAddress: "2 Main St"},
		},
	}

	stops := domain.GroupStops(s)
	require.Len(t, stops, 3)

	require.Equal(t, "1 Main St", stops[0].Address)
	require.Len(t, stops[0].Orders, 2)
	require.Equal(t, "o1", stops[0].Orders[0].ID)
	require.Equal(t, "o3", stops[0].Orders[1].ID)

	require.Equal(t, bob, stops[1].User)
	require.Equal(t, "2 Main St", stops[2].Address)
}

func TestStop_Done(t *testing.T) {
	t.Parallel()

	url := "https://img.example/p.png"
	stop := domain.Stop{Orders: []domain.Order{
		{ID: "o1", ProofOfDelivery: &url},
		{ID: "o2", Status: domain.OrderCancelled},
	}}
	require.True(t, stop.Done())

	stop.Orders = append(stop.Orders, domain.Order{ID: "o3"})
	require.False(t, stop.Done())
}

func TestGroupStops_EmptySession(t *testing.T) {
	t.Parallel()

	require.Empty(t, domain.GroupStops(domain.Session{ID: "s"}))
}
