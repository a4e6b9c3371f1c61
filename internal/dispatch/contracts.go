package dispatch

import (
	"context"

	"rider-delivery-agent/internal/domain"
)

// SessionPort abstracts the subset of coordinator operations the
// Processor needs when reacting to dispatch events.
type SessionPort interface {
	FetchPending(ctx context.Context) ([]domain.Session, error)
	FetchOngoing(ctx context.Context) ([]domain.Session, error)
}

// CredentialSource supplies the signed-in rider, used to discard events
// addressed to someone else.
type CredentialSource interface {
	Credential() (domain.Credential, error)
}
