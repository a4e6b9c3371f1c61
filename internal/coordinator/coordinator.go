package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rider-delivery-agent/internal/apperr"
	"rider-delivery-agent/internal/domain"
	"rider-delivery-agent/internal/gateway/uploads"
	"rider-delivery-agent/internal/logx"
)

// Coordinator owns the rider's view of delivery session state. It
// translates user intents into authenticated API commands and reconciles
// only the server's responses into local state: a failed call leaves every
// session and order field exactly as it was, and a successful one never
// moves a session backwards.
type Coordinator struct {
	gw               Gateway
	creds            CredentialSource
	proofs           ProofStore
	uploader         Uploader
	logger           logx.Logger
	operationTimeout time.Duration
	transitions      *prometheus.CounterVec
	now              func() time.Time

	mu       sync.Mutex
	pending  []domain.Session
	ongoing  []domain.Session
	history  []domain.Session
	inflight map[string]struct{}
}

// New creates a Coordinator. transitions may be nil.
func New(
	gw Gateway,
	creds CredentialSource,
	proofs ProofStore,
	uploader Uploader,
	logger logx.Logger,
	timeout time.Duration,
	transitions *prometheus.CounterVec,
) *Coordinator {
	if gw == nil || creds == nil || proofs == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Coordinator{
		gw:               gw,
		creds:            creds,
		proofs:           proofs,
		uploader:         uploader,
		logger:           logger,
		operationTimeout: timeout,
		transitions:      transitions,
		now:              func() time.Time { return time.Now().UTC() },
		inflight:         make(map[string]struct{}),
	}
}

func (c *Coordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.operationTimeout)
}

// Pending returns a copy of the pending session list.
func (c *Coordinator) Pending() []domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneSessions(c.pending)
}

// Ongoing returns a copy of the ongoing session list.
func (c *Coordinator) Ongoing() []domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneSessions(c.ongoing)
}

// History returns a copy of the history session list.
func (c *Coordinator) History() []domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneSessions(c.history)
}

// Stops returns the orders of an ongoing session grouped by recipient and
// address.
func (c *Coordinator) Stops(sessionID string) ([]domain.Stop, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := findSession(c.ongoing, sessionID)
	if s == nil {
		return nil, fmt.Errorf("%w: session %s", apperr.ErrNotFound, sessionID)
	}
	return domain.GroupStops(*s), nil
}

// FetchPending replaces the pending list with the server's view. On
// failure the previous list is kept untouched.
func (c *Coordinator) FetchPending(ctx context.Context) ([]domain.Session, error) {
	return c.fetchInto(ctx, c.gw.FetchPending, &c.pending)
}

// FetchOngoing replaces the ongoing list with the server's view.
func (c *Coordinator) FetchOngoing(ctx context.Context) ([]domain.Session, error) {
	return c.fetchInto(ctx, c.gw.FetchOngoing, &c.ongoing)
}

// FetchHistory replaces the history list with the server's view.
func (c *Coordinator) FetchHistory(ctx context.Context) ([]domain.Session, error) {
	return c.fetchInto(ctx, c.gw.FetchHistory, &c.history)
}

func (c *Coordinator) fetchInto(
	ctx context.Context,
	fn func(context.Context, string) ([]domain.Session, error),
	dst *[]domain.Session,
) ([]domain.Session, error) {
	cred, err := c.creds.Credential()
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	sessions, err := fn(ctx, cred.RiderID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	*dst = domain.CloneSessions(sessions)
	c.mu.Unlock()
	return sessions, nil
}

// Accept requests the pending → accepted transition for a session.
func (c *Coordinator) Accept(ctx context.Context, sessionID string) (domain.Session, error) {
	return c.transition(ctx, "accept", sessionID, domain.StatusPending,
		func(ctx context.Context, _ domain.Session) (domain.Session, error) {
			return c.gw.Accept(ctx, sessionID)
		})
}

// Decline requests the pending → declined transition. Rider and truck ids
// are taken from the credential and the locally known session.
func (c *Coordinator) Decline(ctx context.Context, sessionID string) (domain.Session, error) {
	cred, err := c.creds.Credential()
	if err != nil {
		return domain.Session{}, err
	}
	return c.transition(ctx, "decline", sessionID, domain.StatusPending,
		func(ctx context.Context, local domain.Session) (domain.Session, error) {
			return c.gw.Decline(ctx, sessionID, cred.RiderID, local.TruckID)
		})
}

// Start requests the accepted → started transition.
func (c *Coordinator) Start(ctx context.Context, sessionID string) (domain.Session, error) {
	return c.transition(ctx, "start", sessionID, domain.StatusAccepted,
		func(ctx context.Context, local domain.Session) (domain.Session, error) {
			if local.StartTime != nil {
				return domain.Session{}, fmt.Errorf("%w: session %s already has a start time", apperr.ErrPrecondition, sessionID)
			}
			return c.gw.Start(ctx, sessionID)
		})
}

// Complete requests the started → completed transition. The session stays
// in the ongoing list until the next fetch moves it into history.
func (c *Coordinator) Complete(ctx context.Context, sessionID string) (domain.Session, error) {
	return c.transition(ctx, "complete", sessionID, domain.StatusStarted,
		func(ctx context.Context, _ domain.Session) (domain.Session, error) {
			return c.gw.Complete(ctx, sessionID)
		})
}

// UploadProof sends a captured image to the hosting service and retains
// the returned URL for each targeted order, so the confirm step can be
// retried without re-uploading.
func (c *Coordinator) UploadProof(ctx context.Context, sessionID string, orderIDs []string, filename string, image io.Reader) (string, error) {
	if c.uploader == nil {
		return "", fmt.Errorf("%w: no uploader configured", apperr.ErrPrecondition)
	}
	if _, err := c.deliverableOrders(sessionID, orderIDs); err != nil {
		return "", err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	url, err := c.uploader.Upload(ctx, filename, image)
	if err != nil {
		return "", err
	}
	for _, orderID := range orderIDs {
		if err := c.proofs.Put(ctx, sessionID, orderID, url); err != nil {
			return "", err
		}
	}
	return url, nil
}

// SubmitProof confirms delivery of the targeted orders with a previously
// uploaded proof URL. Local image references are rejected before any
// request is made.
func (c *Coordinator) SubmitProof(ctx context.Context, sessionID string, orderIDs []string, proofURL string) (domain.Session, error) {
	if len(orderIDs) == 0 {
		return domain.Session{}, fmt.Errorf("%w: no orders targeted", apperr.ErrPrecondition)
	}
	if !uploads.RemoteURL(proofURL) {
		return domain.Session{}, fmt.Errorf("%w: proof must be an uploaded https url, got %q", apperr.ErrPrecondition, proofURL)
	}
	for _, orderID := range orderIDs {
		retained, ok, err := c.proofs.Get(ctx, sessionID, orderID)
		if err != nil {
			return domain.Session{}, err
		}
		if !ok || retained != proofURL {
			return domain.Session{}, fmt.Errorf("%w: no uploaded proof for order %s", apperr.ErrPrecondition, orderID)
		}
	}

	s, err := c.transition(ctx, "submit_proof", sessionID, domain.StatusStarted,
		func(ctx context.Context, local domain.Session) (domain.Session, error) {
			if err := deliverable(local, orderIDs); err != nil {
				return domain.Session{}, err
			}
			return c.gw.SubmitProof(ctx, sessionID, orderIDs, proofURL)
		})
	if err != nil {
		return domain.Session{}, err
	}

	if err := c.proofs.Drop(ctx, sessionID, orderIDs...); err != nil {
		c.logger.Warn("proof cache cleanup failed",
			logx.String("session_id", sessionID),
			logx.Any("err", err),
		)
	}
	return s, nil
}

// CancelOrder marks a single undelivered order of a started session
// cancelled.
func (c *Coordinator) CancelOrder(ctx context.Context, sessionID, orderID string) (domain.Order, error) {
	if _, err := c.creds.Credential(); err != nil {
		return domain.Order{}, err
	}

	c.mu.Lock()
	local := findSession(c.ongoing, sessionID)
	if local == nil {
		c.mu.Unlock()
		return domain.Order{}, fmt.Errorf("%w: session %s", apperr.ErrNotFound, sessionID)
	}
	if local.Status != domain.StatusStarted {
		c.mu.Unlock()
		return domain.Order{}, fmt.Errorf("%w: session %s is %s, not started", apperr.ErrPrecondition, sessionID, local.Status)
	}
	if err := deliverable(*local, []string{orderID}); err != nil {
		c.mu.Unlock()
		return domain.Order{}, err
	}
	if err := c.begin(sessionID); err != nil {
		c.mu.Unlock()
		return domain.Order{}, err
	}
	c.mu.Unlock()
	defer c.end(sessionID)

	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	updated, err := c.gw.CancelOrder(opCtx, sessionID, orderID)
	if err != nil {
		c.observe("cancel_order", err)
		c.resolveIfStale(ctx, err)
		return domain.Order{}, err
	}
	if !updated.Consistent() {
		c.logger.Error("server returned an order that is both delivered and cancelled",
			logx.String("session_id", sessionID),
			logx.String("order_id", orderID),
		)
	}

	c.mu.Lock()
	if s := findSession(c.ongoing, sessionID); s != nil {
		if o := s.Order(orderID); o != nil {
			*o = updated.Clone()
		}
	}
	c.mu.Unlock()

	c.observe("cancel_order", nil)
	c.logger.Info("order cancelled",
		logx.String("event", "order_cancelled"),
		logx.String("session_id", sessionID),
		logx.String("order_id", orderID),
	)
	return updated, nil
}

// transition runs the shared command flow: check the credential, check the
// local precondition, guard against overlapping commands for the same
// session, send, then reconcile from the server's document.
func (c *Coordinator) transition(
	ctx context.Context,
	op, sessionID string,
	required domain.SessionStatus,
	send func(context.Context, domain.Session) (domain.Session, error),
) (domain.Session, error) {
	if _, err := c.creds.Credential(); err != nil {
		return domain.Session{}, err
	}

	c.mu.Lock()
	local := findSession(c.pending, sessionID)
	if local == nil {
		local = findSession(c.ongoing, sessionID)
	}
	if local == nil {
		c.mu.Unlock()
		return domain.Session{}, fmt.Errorf("%w: session %s", apperr.ErrNotFound, sessionID)
	}
	if local.Status != required {
		c.mu.Unlock()
		return domain.Session{}, fmt.Errorf("%w: session %s is %s, not %s", apperr.ErrPrecondition, sessionID, local.Status, required)
	}
	snapshot := local.Clone()
	if err := c.begin(sessionID); err != nil {
		c.mu.Unlock()
		return domain.Session{}, err
	}
	c.mu.Unlock()
	defer c.end(sessionID)

	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	updated, err := send(opCtx, snapshot)
	if err != nil {
		c.observe(op, err)
		c.resolveIfStale(ctx, err)
		return domain.Session{}, err
	}

	c.apply(updated)
	c.observe(op, nil)
	c.logger.Info("session transition applied",
		logx.String("event", "session_"+op),
		logx.String("session_id", sessionID),
		logx.String("status", string(updated.Status)),
	)
	return updated.Clone(), nil
}

// apply reconciles one server document into the local lists. Regressive
// documents are refused: a successful response never moves a session
// backwards.
func (c *Coordinator) apply(s domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := findSession(c.pending, s.ID)
	if prev == nil {
		prev = findSession(c.ongoing, s.ID)
	}
	if prev != nil && regressed(prev.Status, s.Status) {
		c.logger.Warn("ignoring regressive session document",
			logx.String("session_id", s.ID),
			logx.String("from", string(prev.Status)),
			logx.String("to", string(s.Status)),
		)
		return
	}

	c.pending = removeSession(c.pending, s.ID)
	switch s.Status {
	case domain.StatusPending:
		c.pending = append(c.pending, s.Clone())
		c.ongoing = removeSession(c.ongoing, s.ID)
	case domain.StatusAccepted, domain.StatusStarted, domain.StatusCompleted:
		c.ongoing = upsertSession(c.ongoing, s)
	case domain.StatusDeclined:
		c.ongoing = removeSession(c.ongoing, s.ID)
	}
}

// resolveIfStale re-fetches the mutable views after a server rejection,
// since the local view is then known to be out of date.
func (c *Coordinator) resolveIfStale(ctx context.Context, err error) {
	if !errors.Is(err, apperr.ErrRejected) {
		return
	}
	if _, ferr := c.FetchPending(ctx); ferr != nil {
		c.logger.Warn("stale-view refresh failed", logx.String("view", "pending"), logx.Any("err", ferr))
	}
	if _, ferr := c.FetchOngoing(ctx); ferr != nil {
		c.logger.Warn("stale-view refresh failed", logx.String("view", "ongoing"), logx.Any("err", ferr))
	}
}

func (c *Coordinator) deliverableOrders(sessionID string, orderIDs []string) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := findSession(c.ongoing, sessionID)
	if s == nil {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperr.ErrNotFound, sessionID)
	}
	if s.Status != domain.StatusStarted {
		return domain.Session{}, fmt.Errorf("%w: session %s is %s, not started", apperr.ErrPrecondition, sessionID, s.Status)
	}
	if err := deliverable(*s, orderIDs); err != nil {
		return domain.Session{}, err
	}
	return s.Clone(), nil
}

// begin marks a session as having a transition in flight. Callers hold mu.
func (c *Coordinator) begin(sessionID string) error {
	if _, busy := c.inflight[sessionID]; busy {
		return fmt.Errorf("%w: session %s", apperr.ErrBusy, sessionID)
	}
	c.inflight[sessionID] = struct{}{}
	return nil
}

func (c *Coordinator) end(sessionID string) {
	c.mu.Lock()
	delete(c.inflight, sessionID)
	c.mu.Unlock()
}

func (c *Coordinator) observe(op string, err error) {
	if c.transitions == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrRejected):
		outcome = "rejected"
	case errors.Is(err, apperr.ErrUnauthenticated):
		outcome = "unauthenticated"
	default:
		outcome = "error"
	}
	c.transitions.WithLabelValues(op, outcome).Inc()
}

func deliverable(s domain.Session, orderIDs []string) error {
	for _, id := range orderIDs {
		o := s.Order(id)
		if o == nil {
			return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
		}
		if o.Terminal() {
			return fmt.Errorf("%w: order %s already %s", apperr.ErrPrecondition, id, terminalName(*o))
		}
	}
	return nil
}

func terminalName(o domain.Order) string {
	if o.Delivered() {
		return "delivered"
	}
	return "cancelled"
}

func findSession(list []domain.Session, id string) *domain.Session {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func removeSession(list []domain.Session, id string) []domain.Session {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func upsertSession(list []domain.Session, s domain.Session) []domain.Session {
	for i := range list {
		if list[i].ID == s.ID {
			list[i] = s.Clone()
			return list
		}
	}
	return append(list, s.Clone())
}

// rank orders statuses along the forward path; declined sits beside
// accepted since both leave pending.
func rank(s domain.SessionStatus) int {
	switch s {
	case domain.StatusPending:
		return 0
	case domain.StatusAccepted, domain.StatusDeclined:
		return 1
	case domain.StatusStarted:
		return 2
	case domain.StatusCompleted:
		return 3
	default:
		return -1
	}
}

func regressed(from, to domain.SessionStatus) bool {
	rf, rt := rank(from), rank(to)
	if rf < 0 || rt < 0 {
		return false
	}
	return rt < rf
}
