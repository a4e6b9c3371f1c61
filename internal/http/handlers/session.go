package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"rider-delivery-agent/internal/apperr"
	"rider-delivery-agent/internal/domain"
	"rider-delivery-agent/internal/logx"
)

// SessionHandler serves the local facade the rider UI talks to. Every
// request is a thin wrapper over a coordinator operation; the facade holds
// no state of its own.
type SessionHandler struct {
	uc     sessionUsecase
	logger logx.Logger
}

// NewSessionHandler wires a sessionUsecase into HTTP handlers.
func NewSessionHandler(logger logx.Logger, uc sessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc, logger: logger}
}

// Pending handles GET /sessions/pending.
func (h *SessionHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.fetch(w, r, h.uc.FetchPending)
}

// Ongoing handles GET /sessions/ongoing.
func (h *SessionHandler) Ongoing(w http.ResponseWriter, r *http.Request) {
	h.fetch(w, r, h.uc.FetchOngoing)
}

// History handles GET /sessions/history.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	h.fetch(w, r, h.uc.FetchHistory)
}

func (h *SessionHandler) fetch(w http.ResponseWriter, r *http.Request, fn func(context.Context) ([]domain.Session, error)) {
	sessions, err := fn(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, sessionsToResponse(sessions))
}

// Stops handles GET /sessions/{id}/stops.
func (h *SessionHandler) Stops(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid session id")
		return
	}
	stops, err := h.uc.Stops(id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, stopsToResponse(stops))
}

// Accept handles POST /sessions/{id}/accept.
func (h *SessionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Accept)
}

// Decline handles POST /sessions/{id}/decline.
func (h *SessionHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Decline)
}

// Start handles POST /sessions/{id}/start.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Start)
}

// Complete handles POST /sessions/{id}/complete.
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Complete)
}

func (h *SessionHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (domain.Session, error)) {
	id := sessionID(r)
	if id == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid session id")
		return
	}
	s, err := fn(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, sessionToResponse(s))
}

// SubmitProof handles POST /sessions/{id}/proof.
func (h *SessionHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid session id")
		return
	}
	var req submitProofRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	s, err := h.uc.SubmitProof(r.Context(), id, req.OrderIDs, req.ProofURL)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, sessionToResponse(s))
}

// CancelOrder handles POST /sessions/{id}/orders/{orderID}/cancel.
func (h *SessionHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))
	if id == "" || orderID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	o, err := h.uc.CancelOrder(r.Context(), id, orderID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o))
}

const uploadLimit = 10 << 20

// UploadProof handles POST /uploads/proof as a multipart form with a
// session_id field, a comma-separated order_ids field and a file part.
func (h *SessionHandler) UploadProof(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, uploadLimit)
	if err := r.ParseMultipartForm(uploadLimit); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	id := strings.TrimSpace(r.FormValue("session_id"))
	orderIDs := splitIDs(r.FormValue("order_ids"))
	if id == "" || len(orderIDs) == 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "session_id and order_ids are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	url, err := h.uc.UploadProof(r.Context(), id, orderIDs, header.Filename, file)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, uploadProofResponse{ProofURL: url})
}

func (h *SessionHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusForError(err)
	writeError(h.logger, w, r, status, msg)
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized, "not signed in"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrPrecondition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperr.ErrRejected):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperr.ErrBusy):
		return http.StatusConflict, "another transition is in flight"
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable, "delivery service unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func splitIDs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
