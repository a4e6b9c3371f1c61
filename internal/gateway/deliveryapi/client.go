package deliveryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"rider-delivery-agent/internal/apperr"
	"rider-delivery-agent/internal/domain"
)

// CredentialSource supplies the rider credential before each call.
type CredentialSource interface {
	Credential() (domain.Credential, error)
}

// Client is the JSON-over-HTTPS gateway to the remote delivery API. The
// server is the sole arbiter of session state: transition methods return
// the server's updated document and the caller reconciles from that,
// never from the locally assumed next state.
type Client struct {
	http    *http.Client
	baseURL string
	creds   CredentialSource
	newKey  func() string
}

// NewClient creates a delivery API client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration, creds CredentialSource) *Client {
	if creds == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		newKey:  func() string { return uuid.NewString() },
	}
}

// FetchPending returns the rider's pending session view.
func (c *Client) FetchPending(ctx context.Context, riderID string) ([]domain.Session, error) {
	return c.fetchView(ctx, riderID, "pending")
}

// FetchOngoing returns the rider's ongoing session view.
func (c *Client) FetchOngoing(ctx context.Context, riderID string) ([]domain.Session, error) {
	return c.fetchView(ctx, riderID, "ongoing")
}

// FetchHistory returns the rider's historical session view.
func (c *Client) FetchHistory(ctx context.Context, riderID string) ([]domain.Session, error) {
	return c.fetchView(ctx, riderID, "history")
}

func (c *Client) fetchView(ctx context.Context, riderID, view string) ([]domain.Session, error) {
	path := fmt.Sprintf("/riders/%s/sessions/%s", url.PathEscape(riderID), view)

	var resp sessionsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("delivery gateway: fetch %s: %w", view, err)
	}
	// an empty array is a valid "nothing here" response
	return mapSessions(resp.Sessions), nil
}

// Accept requests the pending → accepted transition.
func (c *Client) Accept(ctx context.Context, sessionID string) (domain.Session, error) {
	return c.transition(ctx, sessionID, "accept", nil)
}

// Decline requests the pending → declined transition.
func (c *Client) Decline(ctx context.Context, sessionID, riderID, truckID string) (domain.Session, error) {
	return c.transition(ctx, sessionID, "decline", declineRequest{RiderID: riderID, TruckID: truckID})
}

// Start requests the accepted → started transition.
func (c *Client) Start(ctx context.Context, sessionID string) (domain.Session, error) {
	return c.transition(ctx, sessionID, "start", nil)
}

// Complete requests the started → completed transition.
func (c *Client) Complete(ctx context.Context, sessionID string) (domain.Session, error) {
	return c.transition(ctx, sessionID, "complete", nil)
}

// SubmitProof records an uploaded proof URL against the targeted orders.
func (c *Client) SubmitProof(ctx context.Context, sessionID string, orderIDs []string, proofURL string) (domain.Session, error) {
	return c.transition(ctx, sessionID, "proof", proofRequest{OrderIDs: orderIDs, ProofOfDelivery: proofURL})
}

func (c *Client) transition(ctx context.Context, sessionID, action string, body any) (domain.Session, error) {
	path := fmt.Sprintf("/sessions/%s/%s", url.PathEscape(sessionID), action)

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return domain.Session{}, fmt.Errorf("delivery gateway: %s: %w", action, err)
	}
	return mapSession(resp.Session), nil
}

// CancelOrder marks a single undelivered order cancelled and returns the
// updated order sub-document.
func (c *Client) CancelOrder(ctx context.Context, sessionID, orderID string) (domain.Order, error) {
	path := fmt.Sprintf("/sessions/%s/orders/%s/cancel", url.PathEscape(sessionID), url.PathEscape(orderID))

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("delivery gateway: cancel order: %w", err)
	}
	return mapOrder(resp.Order), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	cred, err := c.creds.Credential()
	if err != nil {
		return err
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// lets the server de-duplicate a command whose response was lost
		req.Header.Set("Idempotency-Key", c.newKey())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func classifyStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := serverMessage(resp)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", apperr.ErrUnauthenticated, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", apperr.ErrRejected, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", apperr.ErrUnavailable, resp.StatusCode, msg)
	}
}

func serverMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return resp.Status
	}
	var body errorResponse
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return resp.Status
}
