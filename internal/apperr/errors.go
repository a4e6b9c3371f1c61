package apperr

import "errors"

// ErrUnauthenticated means the rider credential is missing, expired or was
// rejected by the server. Not retryable; the user must log in again.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrUnavailable is a transport-level failure (timeout, no connectivity,
// server 5xx). Local state keeps its last confirmed value and the
// operation may be retried.
var ErrUnavailable = errors.New("service unavailable")

// ErrRejected means the server refused a transition command, e.g. the
// session was already taken by another rider. The local view is stale.
var ErrRejected = errors.New("transition rejected")

// ErrPrecondition is a client-side misuse: the requested operation is not
// valid for the current local state and no request is sent.
var ErrPrecondition = errors.New("precondition failed")

// ErrNotFound indicates an unknown session or order id.
var ErrNotFound = errors.New("not found")

// ErrBusy means another transition for the same session is still in
// flight; the caller should wait for it to resolve.
var ErrBusy = errors.New("transition in flight")
