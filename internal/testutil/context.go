// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout returns a context cancelled after duration or when the
// test finishes.
func ContextWithTimeout(t testing.TB, duration time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	t.Cleanup(cancel)

	return ctx
}

// CancelledContext returns a context that is already cancelled.
func CancelledContext(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	return ctx
}
