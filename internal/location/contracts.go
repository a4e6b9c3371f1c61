package location

import (
	"context"

	"rider-delivery-agent/internal/domain"
)

// PositionSource yields the most recent position pushed by the device, if
// any has been pushed yet.
type PositionSource interface {
	Latest() (domain.Position, bool)
}

// Reporter delivers one position sample upstream.
type Reporter interface {
	Report(ctx context.Context, riderID string, p domain.Position) error
	Close() error
}

// CredentialSource supplies the rider identity attached to each sample.
type CredentialSource interface {
	Credential() (domain.Credential, error)
}

// Counter counts dropped samples.
type Counter interface {
	Inc()
}
