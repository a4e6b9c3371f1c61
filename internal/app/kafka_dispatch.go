package app

import (
	"context"
	"time"

	"rider-delivery-agent/internal/dispatch"
	"rider-delivery-agent/internal/transport/kafka"
)

func makeDispatchHandler(p *dispatch.Processor) kafka.HandleFunc {
	return func(ctx context.Context, event dispatch.Event) error {
		handleCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return p.Handle(handleCtx, event)
	}
}
