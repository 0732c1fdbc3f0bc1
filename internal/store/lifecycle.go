package store

import (
	"sync"

	"github.com/skpot/biryani-console/internal/api"
)

// OpError is what a store records after a failed dispatch. Error() is the
// human-readable message shown to the operator; the underlying cause stays
// reachable through Unwrap for logging and errors.Is checks.
type OpError struct {
	Message string
	Cause   error
}

func (e *OpError) Error() string { return e.Message }

func (e *OpError) Unwrap() error { return e.Cause }

// lifecycle carries the request flags every store exposes: a loading flag
// set on dispatch and cleared on both outcomes, and the last error. The
// mutex also guards the embedding store's collection so flag and collection
// updates land atomically.
type lifecycle struct {
	mu      sync.RWMutex
	loading bool
	err     error
}

// Loading reports whether a dispatch is in flight.
func (l *lifecycle) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Err returns the error recorded by the last failed dispatch, cleared by the
// next dispatch.
func (l *lifecycle) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// begin marks a dispatch: loading set, previous error cleared.
func (l *lifecycle) begin() {
	l.mu.Lock()
	l.loading = true
	l.err = nil
	l.mu.Unlock()
}

// fail records the failure and clears loading. Local collection state is
// never touched on this path.
func (l *lifecycle) fail(fallback string, cause error) error {
	opErr := &OpError{Message: api.Message(cause, fallback), Cause: cause}
	l.mu.Lock()
	l.loading = false
	l.err = opErr
	l.mu.Unlock()
	return opErr
}
