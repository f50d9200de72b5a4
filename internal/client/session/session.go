// Package session implements the client-side state machines of the dream
// chat application: authentication, login/registration, the active chat
// room (including the bot typing-reveal animation), the dream calendar,
// and the top-level screen coordinator.
//
// Every component follows the same shape: a closed set of event types, a
// single reduce function applying an event to the component's state, and a
// Dispatch entry point that serializes reduces and starts any follow-up
// effects (network calls, timers) on their own goroutines. An effect's
// completion re-enters Dispatch as a new event, so responses are applied in
// the order they complete. Wait blocks until all outstanding effects have
// settled; tests and the REPL use it to observe a quiescent state.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/avelkov/dreamchat/internal/client/api"
)

// errText extracts a user-facing message from a failure, preferring the
// server-supplied message of API errors.
func errText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// sleepCtx pauses for d, returning false when ctx is cancelled first.
// Session components take it as an injectable seam so tests run without
// real delays.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
