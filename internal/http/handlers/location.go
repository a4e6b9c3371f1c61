package handlers

import (
	"net/http"
	"time"

	"rider-delivery-agent/internal/domain"
	"rider-delivery-agent/internal/logx"
)

// LocationHandler receives GPS pushes from the device UI.
type LocationHandler struct {
	sink   positionSink
	logger logx.Logger
	now    func() time.Time
}

// NewLocationHandler wires a positionSink into an HTTP handler.
func NewLocationHandler(logger logx.Logger, sink positionSink) *LocationHandler {
	return &LocationHandler{
		sink:   sink,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Push handles POST /location. The sample only overwrites the in-process
// latest value; the sampler forwards it on its own schedule.
func (h *LocationHandler) Push(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid coordinates")
		return
	}

	sampledAt := h.now()
	if req.SampledAt != nil {
		sampledAt = req.SampledAt.UTC()
	}
	h.sink.Set(domain.Position{
		Lat:       req.Lat,
		Lng:       req.Lng,
		AccuracyM: req.AccuracyM,
		SampledAt: sampledAt,
	})
	w.WriteHeader(http.StatusAccepted)
}
