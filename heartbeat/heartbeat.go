package heartbeat

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"conni/types"

	"github.com/rs/zerolog"
)

const (
	DefaultInterval = 5 * time.Minute
	sendTimeout     = 5 * time.Second
	payload         = "m=connectivity ok"
)

// Heartbeat is an observer that checks in with a dead man's switch
// service while connectivity is healthy. Beats are rate limited to
// one per interval.
type Heartbeat struct {
	endpoint string
	interval time.Duration
	client   *http.Client
	logger   zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	lastBeat time.Time
}

func New(endpoint string, interval time.Duration, logger zerolog.Logger) *Heartbeat {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Heartbeat{
		endpoint: endpoint,
		interval: interval,
		client:   &http.Client{Timeout: sendTimeout},
		logger:   logger,
		now:      time.Now,
	}
}

func (h *Heartbeat) ProcessError(err types.CheckError) types.CheckError {
	return err
}

func (h *Heartbeat) ProcessResponse(resp *types.Response) *types.Response {
	if !resp.IsSuccess() || !h.due() {
		return resp
	}

	if err := h.send(); err != nil {
		h.logger.Warn().Err(err).Msg("Heartbeat error")
		return resp
	}

	h.mu.Lock()
	h.lastBeat = h.now()
	h.mu.Unlock()
	h.logger.Debug().Msg("Heartbeat sent successfully")

	return resp
}

func (h *Heartbeat) Order() int {
	return 10
}

func (h *Heartbeat) due() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastBeat.IsZero() || h.now().Sub(h.lastBeat) >= h.interval
}

// send posts the heartbeat signal to the monitoring service
func (h *Heartbeat) send() error {
	resp, err := h.client.Post(h.endpoint, "application/x-www-form-urlencoded", strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to send heartbeat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("heartbeat failed with status code: %d", resp.StatusCode)
	}

	return nil
}
