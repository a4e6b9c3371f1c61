package app

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"

	"rider-delivery-agent/internal/config"
	"rider-delivery-agent/internal/coordinator"
	"rider-delivery-agent/internal/http/pprofserver"
	"rider-delivery-agent/internal/location"
	"rider-delivery-agent/internal/logx"
	"rider-delivery-agent/internal/transport/kafka"
)

// Runner runs the rider agent
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the rider agent using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	logger := loggerFrom(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Info("startup aborted: startup timeout exceeded")
	default:
		log.Fatalf("run error: %v", err)
	}
}

// MustRun starts the rider agent using the provided DI container
func MustRun(container *dig.Container) {
	NewRunner().MustRun(container)
}

func loggerFrom(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type runIn struct {
	dig.In
	Ctx      context.Context
	Config   *config.Config
	Logger   logx.Logger
	Server   *http.Server
	Consumer *kafka.Consumer
	Sampler  *location.Sampler
	Reporter location.Reporter
	Proofs   coordinator.ProofStore
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		runCtx, cancel := context.WithCancel(in.Ctx)
		defer cancel()

		startServer(in.Server, in.Logger)
		pprofSrv := startPprof(in.Config, in.Logger)
		startBackground(runCtx, in.Logger, in.Consumer, in.Sampler)

		waitForShutdown(in.Ctx, in.Logger)
		cancel()
		gracefulShutdown(in.Server, in.Logger, 15*time.Second)
		closeResources(in, pprofSrv)
		return in.Ctx.Err()
	})
}

func startServer(server *http.Server, logger logx.Logger) {
	go func() {
		logger.Info("riderd listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()
}

// startPprof starts the debug listener when an address is configured.
func startPprof(cfg *config.Config, logger logx.Logger) *http.Server {
	if cfg.Pprof.Addr == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              cfg.Pprof.Addr,
		Handler:           pprofserver.Handler(pprofserver.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("pprof listening", logx.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("pprof listen error", logx.Any("err", err))
		}
	}()
	return srv
}

func startBackground(ctx context.Context, logger logx.Logger, consumer *kafka.Consumer, sampler *location.Sampler) {
	if consumer != nil {
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("dispatch consumer stopped", logx.Any("err", err))
			}
		}()
	}
	if sampler != nil {
		go func() {
			if err := sampler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("location sampler stopped", logx.Any("err", err))
			}
		}()
	}
}

func waitForShutdown(ctx context.Context, logger logx.Logger) {
	<-ctx.Done()
	logger.Info("shutting down riderd")
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Any("err", err))
	}
}

func closeResources(in runIn, pprofSrv *http.Server) {
	if err := in.Consumer.Close(); err != nil {
		in.Logger.Error("kafka close error", logx.Any("err", err))
	}
	if in.Reporter != nil {
		if err := in.Reporter.Close(); err != nil {
			in.Logger.Error("location stream close error", logx.Any("err", err))
		}
	}
	if closer, ok := in.Proofs.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			in.Logger.Error("proof cache close error", logx.Any("err", err))
		}
	}
	if pprofSrv != nil {
		if err := pprofSrv.Close(); err != nil {
			in.Logger.Error("pprof close error", logx.Any("err", err))
		}
	}
	if err := in.Server.Close(); err != nil {
		in.Logger.Error("server close error", logx.Any("err", err))
	}
}
