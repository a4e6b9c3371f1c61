package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"rider-delivery-agent/internal/http/handlers"
	"rider-delivery-agent/internal/http/router"
	"rider-delivery-agent/internal/location"
	"rider-delivery-agent/internal/logx"
)

func newTestRouter() http.Handler {
	logger := logx.Nop()
	return router.New(router.Deps{
		Base:     handlers.New(logger),
		Sessions: handlers.NewSessionHandler(logger, nil),
		Location: handlers.NewLocationHandler(logger, location.NewLatestStore()),
		Logger:   logger,
	})
}

func TestNew_ServesPing(t *testing.T) {
	t.Parallel()

	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestNew_ServesMetrics(t *testing.T) {
	t.Parallel()

	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestNew_UnknownRouteIsJSON404(t *testing.T) {
	t.Parallel()

	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}
