package handlers

import (
	"context"
	"io"

	"rider-delivery-agent/internal/coordinator"
	"rider-delivery-agent/internal/domain"
	"rider-delivery-agent/internal/location"
)

type sessionUsecase interface {
	FetchPending(ctx context.Context) ([]domain.Session, error)
	FetchOngoing(ctx context.Context) ([]domain.Session, error)
	FetchHistory(ctx context.Context) ([]domain.Session, error)
	Stops(sessionID string) ([]domain.Stop, error)
	Accept(ctx context.Context, sessionID string) (domain.Session, error)
	Decline(ctx context.Context, sessionID string) (domain.Session, error)
	Start(ctx context.Context, sessionID string) (domain.Session, error)
	Complete(ctx context.Context, sessionID string) (domain.Session, error)
	UploadProof(ctx context.Context, sessionID string, orderIDs []string, filename string, image io.Reader) (string, error)
	SubmitProof(ctx context.Context, sessionID string, orderIDs []string, proofURL string) (domain.Session, error)
	CancelOrder(ctx context.Context, sessionID, orderID string) (domain.Order, error)
}

// NewSessionUsecase wires a Coordinator into a sessionUsecase.
func NewSessionUsecase(c *coordinator.Coordinator) sessionUsecase {
	return c
}

type positionSink interface {
	Set(p domain.Position)
}

// NewPositionSink wires a LatestStore into a positionSink.
func NewPositionSink(s *location.LatestStore) positionSink {
	return s
}
