//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=coordinator_test

package coordinator

import (
	"context"
	"io"

	"rider-delivery-agent/internal/domain"
)

// Gateway is the remote delivery API as the coordinator needs it. Every
// transition method returns the server's updated document, which is the
// only thing the coordinator will reconcile local state from.
type Gateway interface {
	FetchPending(ctx context.Context, riderID string) ([]domain.Session, error)
	FetchOngoing(ctx context.Context, riderID string) ([]domain.Session, error)
	FetchHistory(ctx context.Context, riderID string) ([]domain.Session, error)
	Accept(ctx context.Context, sessionID string) (domain.Session, error)
	Decline(ctx context.Context, sessionID, riderID, truckID string) (domain.Session, error)
	Start(ctx context.Context, sessionID string) (domain.Session, error)
	Complete(ctx context.Context, sessionID string) (domain.Session, error)
	SubmitProof(ctx context.Context, sessionID string, orderIDs []string, proofURL string) (domain.Session, error)
	CancelOrder(ctx context.Context, sessionID, orderID string) (domain.Order, error)
}

// CredentialSource supplies the rider credential; absence or expiry is an
// authentication failure before any request is made.
type CredentialSource interface {
	Credential() (domain.Credential, error)
}

// ProofStore retains uploaded-but-unconfirmed proof URLs across the
// upload→confirm gap.
type ProofStore interface {
	Put(ctx context.Context, sessionID, orderID, url string) error
	Get(ctx context.Context, sessionID, orderID string) (string, bool, error)
	Drop(ctx context.Context, sessionID string, orderIDs ...string) error
}

// Uploader sends a proof image to the hosting service and returns its
// stable HTTPS URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, image io.Reader) (string, error)
}
