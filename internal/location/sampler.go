package location

import (
	"context"
	"time"

	"rider-delivery-agent/internal/logx"
)

// Sampler periodically forwards the latest device position upstream.
// Every sample is best effort: a failed or skipped send is counted and
// logged, never retried, and never blocks anything else.
type Sampler struct {
	src      PositionSource
	reporter Reporter
	creds    CredentialSource
	logger   logx.Logger
	interval time.Duration
	drops    Counter
}

// NewSampler creates a Sampler. drops may be nil.
func NewSampler(src PositionSource, reporter Reporter, creds CredentialSource, logger logx.Logger, interval time.Duration, drops Counter) *Sampler {
	if src == nil || reporter == nil || creds == nil {
		return nil
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Sampler{
		src:      src,
		reporter: reporter,
		creds:    creds,
		logger:   logger,
		interval: interval,
		drops:    drops,
	}
}

// Run sends one sample per tick until the context is cancelled.
func (s *Sampler) Run(ctx context.Context) error {
	if s == nil {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

func (s *Sampler) sample(ctx context.Context) {
	p, ok := s.src.Latest()
	if !ok {
		return
	}

	cred, err := s.creds.Credential()
	if err != nil {
		s.drop("no credential for location sample", err)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if err := s.reporter.Report(sendCtx, cred.RiderID, p); err != nil {
		s.drop("location sample dropped", err)
	}
}

func (s *Sampler) drop(msg string, err error) {
	if s.drops != nil {
		s.drops.Inc()
	}
	s.logger.Warn(msg, logx.Any("err", err))
}
