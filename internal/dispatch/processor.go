package dispatch

import (
	"context"
	"errors"

	"rider-delivery-agent/internal/apperr"
)

// Processor reacts to dispatch events by refreshing the affected session
// view. Events are only signals: the server stays the source of truth, so
// every action is a re-fetch, and re-fetching on a duplicate or stale
// event is harmless.
type Processor struct {
	sessions SessionPort
	creds    CredentialSource
	factory  *actionFactory
}

// NewProcessor creates a dispatch Processor.
func NewProcessor(sessions SessionPort, creds CredentialSource) *Processor {
	if sessions == nil || creds == nil {
		return nil
	}
	p := &Processor{
		sessions: sessions,
		creds:    creds,
	}
	p.factory = newActionFactory(p.onAssigned, p.onRevoked, p.onUpdated)
	return p
}

// Handle processes a single dispatch Event.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Kind)
	if !ok {
		return nil
	}

	cred, err := p.creds.Credential()
	if err != nil {
		// nobody is signed in; nothing to refresh until they are
		if errors.Is(err, apperr.ErrUnauthenticated) {
			return nil
		}
		return err
	}
	if e.RiderID != "" && e.RiderID != cred.RiderID {
		return nil
	}

	return fn(ctx, e)
}

func (p *Processor) onAssigned(ctx context.Context, _ Event) error {
	_, err := p.sessions.FetchPending(ctx)
	return err
}

func (p *Processor) onRevoked(ctx context.Context, _ Event) error {
	_, err := p.sessions.FetchPending(ctx)
	return err
}

func (p *Processor) onUpdated(ctx context.Context, _ Event) error {
	_, err := p.sessions.FetchOngoing(ctx)
	return err
}
