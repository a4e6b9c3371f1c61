package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"rider-delivery-agent/internal/config"
	"rider-delivery-agent/internal/coordinator"
	"rider-delivery-agent/internal/credstore"
	"rider-delivery-agent/internal/dispatch"
	"rider-delivery-agent/internal/domain"
	"rider-delivery-agent/internal/gateway/deliveryapi"
	"rider-delivery-agent/internal/gateway/uploads"
	"rider-delivery-agent/internal/http/handlers"
	"rider-delivery-agent/internal/http/middleware/ratelimit"
	"rider-delivery-agent/internal/http/router"
	"rider-delivery-agent/internal/location"
	"rider-delivery-agent/internal/logx"
	"rider-delivery-agent/internal/proofcache"
	"rider-delivery-agent/internal/transport/kafka"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		logFatalf: log.Fatalf,
	}
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerGateway(container); err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
	)
}

// sessionGateway routes the read-only views through the retrying fetcher
// and the transition commands straight to the client. Commands are not
// retried: a command whose response was lost may already have landed.
type sessionGateway struct {
	*deliveryapi.Client
	views *deliveryapi.RetryingFetcher
}

func (g sessionGateway) FetchPending(ctx context.Context, riderID string) ([]domain.Session, error) {
	return g.views.FetchPending(ctx, riderID)
}

func (g sessionGateway) FetchOngoing(ctx context.Context, riderID string) ([]domain.Session, error) {
	return g.views.FetchOngoing(ctx, riderID)
}

func (g sessionGateway) FetchHistory(ctx context.Context, riderID string) ([]domain.Session, error) {
	return g.views.FetchHistory(ctx, riderID)
}

type fetcherIn struct {
	dig.In
	Client  *deliveryapi.Client
	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

type uploaderIn struct {
	dig.In
	Config   *config.Config
	Logger   logx.Logger
	Failures prometheus.Counter `name:"proof_upload_failures_total"`
}

func registerGateway(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) *credstore.Store {
			return credstore.New(cfg.CredentialsPath)
		},
		func(cfg *config.Config, store *credstore.Store) *deliveryapi.Client {
			return deliveryapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, store)
		},
		func(in fetcherIn) *deliveryapi.RetryingFetcher {
			return deliveryapi.NewRetryingFetcher(in.Client, in.Logger, in.Retries, deliveryapi.RetryConfig{
				MaxAttempts: in.Config.Gateway.MaxAttempts,
				BaseDelay:   in.Config.Gateway.BaseDelay,
				MaxDelay:    in.Config.Gateway.MaxDelay,
			})
		},
		func(client *deliveryapi.Client, views *deliveryapi.RetryingFetcher) coordinator.Gateway {
			return sessionGateway{Client: client, views: views}
		},
		func(in uploaderIn) *uploads.Uploader {
			return uploads.New(in.Config.Uploads.URL, in.Config.Uploads.Preset, in.Config.Uploads.Timeout, in.Logger, in.Failures)
		},
		newProofStore,
	)
}

// newProofStore keeps retained proof URLs in Redis when an address is
// configured and falls back to process memory otherwise.
func newProofStore(cfg *config.Config) coordinator.ProofStore {
	if cfg.Redis.Addr == "" {
		return proofcache.NewMemory()
	}
	return proofcache.New(cfg.Redis.Addr, cfg.Redis.ProofTTL)
}

type coordinatorIn struct {
	dig.In
	Gateway     coordinator.Gateway
	Store       *credstore.Store
	Proofs      coordinator.ProofStore
	Uploader    *uploads.Uploader
	Logger      logx.Logger
	Config      *config.Config
	Transitions *prometheus.CounterVec
}

type samplerIn struct {
	dig.In
	Store    *location.LatestStore
	Reporter location.Reporter
	Config   *config.Config
	Logger   logx.Logger
	Drops    prometheus.Counter `name:"location_drops_total"`
	Creds    *credstore.Store
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(in coordinatorIn) *coordinator.Coordinator {
			return coordinator.New(in.Gateway, in.Store, in.Proofs, in.Uploader, in.Logger, in.Config.API.Timeout, in.Transitions)
		},
		func(c *coordinator.Coordinator, store *credstore.Store) *dispatch.Processor {
			return dispatch.NewProcessor(c, store)
		},
		func(cfg *config.Config, logger logx.Logger, p *dispatch.Processor) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, makeDispatchHandler(p))
		},
		location.NewLatestStore,
		func(cfg *config.Config, logger logx.Logger) location.Reporter {
			if cfg.Location.ReportURL == "" {
				return nil
			}
			return location.NewWSReporter(cfg.Location.ReportURL, logger)
		},
		func(in samplerIn) *location.Sampler {
			return location.NewSampler(in.Store, in.Reporter, in.Creds, in.Logger, in.Config.Location.Interval, in.Drops)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewSessionUsecase,
		handlers.NewSessionHandler,
		handlers.NewPositionSink,
		handlers.NewLocationHandler,
		newRouter,
		serverProvider,
	)
}

type routerIn struct {
	dig.In
	Base      *handlers.Handlers
	Sessions  *handlers.SessionHandler
	Location  *handlers.LocationHandler
	Logger    logx.Logger
	RateLimit *ratelimit.Middleware
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:      in.Base,
		Sessions:  in.Sessions,
		Location:  in.Location,
		Logger:    in.Logger,
		RateLimit: in.RateLimit,
	})
}
