package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rider-delivery-agent/internal/http/handlers"
	mw "rider-delivery-agent/internal/http/middleware"
	"rider-delivery-agent/internal/http/middleware/ratelimit"
	"rider-delivery-agent/internal/logx"
)

// Deps bundles everything the facade router serves.
type Deps struct {
	Base      *handlers.Handlers
	Sessions  *handlers.SessionHandler
	Location  *handlers.LocationHandler
	Logger    logx.Logger
	RateLimit *ratelimit.Middleware
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Observability(d.Logger))
	if d.RateLimit != nil {
		r.Use(d.RateLimit.Handler())
	}
	r.Use(chimw.Timeout(60 * time.Second))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/pending", d.Sessions.Pending)
		r.Get("/ongoing", d.Sessions.Ongoing)
		r.Get("/history", d.Sessions.History)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/stops", d.Sessions.Stops)
			r.Post("/accept", d.Sessions.Accept)
			r.Post("/decline", d.Sessions.Decline)
			r.Post("/start", d.Sessions.Start)
			r.Post("/complete", d.Sessions.Complete)
			r.Post("/proof", d.Sessions.SubmitProof)
			r.Post("/orders/{orderID}/cancel", d.Sessions.CancelOrder)
		})
	})
	r.Post("/uploads/proof", d.Sessions.UploadProof)
	r.Post("/location", d.Location.Push)

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
