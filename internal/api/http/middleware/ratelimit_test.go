package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/library-server/internal/testutil"
)

func TestRateLimit_Handle(t *testing.T) {
	t.Parallel()

	m := NewRateLimit(0.001, 2, testutil.MakeNoopLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := m.Handle(next)

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000"))
}

func TestRateLimit_Sweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	m := NewRateLimit(1, 1, testutil.MakeNoopLogger())
	m.now = func() time.Time { return now }

	assert.True(t, m.allow("10.0.0.1"))
	now = now.Add(clientTTL + time.Second)
	assert.True(t, m.allow("10.0.0.2"))

	m.sweep()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.NotContains(t, m.clients, "10.0.0.1")
	assert.Contains(t, m.clients, "10.0.0.2")
}

func TestRateLimit_RunStops(t *testing.T) {
	t.Parallel()

	m := NewRateLimit(1, 1, testutil.MakeNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
