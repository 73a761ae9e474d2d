package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"conni/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNotifierTransitions(t *testing.T) {
	var mu sync.Mutex
	var messages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		messages = append(messages, string(body))
		mu.Unlock()
	}))
	defer server.Close()

	now := time.Date(2025, 1, 9, 3, 17, 41, 0, time.UTC)
	n := New(server.URL, "office", zerolog.Nop())
	n.now = func() time.Time { return now }

	ok := types.NewResponse(nil, now, now, http.StatusOK, "OK", "", nil)
	unavailable := types.NewResponse(nil, now, now, http.StatusServiceUnavailable, "Service Unavailable", "", nil)

	n.ProcessResponse(ok)
	n.ProcessResponse(ok)
	n.ProcessError(&types.ConnectionError{})
	now = now.Add(10 * time.Second)
	n.ProcessResponse(unavailable)
	now = now.Add(20 * time.Second)
	n.ProcessResponse(ok)
	n.ProcessResponse(unavailable)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"office: connection is down (could not connect)",
		"office: connection restored after 30s",
		"office: connection is down (HTTP 503 Service Unavailable)",
	}, messages)
}

func TestNotifierFirstCycleIsBaseline(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	n := New(server.URL, "office", zerolog.Nop())
	err := &types.UnknownHostError{Hostname: "example.com"}
	assert.Same(t, err, n.ProcessError(err))

	assert.Equal(t, 0, calls)
	assert.Equal(t, 20, n.Order())
}

func TestNotifierUnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	n := New(server.URL, "office", zerolog.Nop())
	server.Close()

	ok := types.NewResponse(nil, time.Now(), time.Now(), http.StatusOK, "OK", "", nil)
	n.ProcessResponse(ok)
	assert.NotPanics(t, func() { n.ProcessError(&types.ConnectionError{}) })
}
