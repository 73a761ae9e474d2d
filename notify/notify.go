package notify

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"conni/types"

	"github.com/rs/zerolog"
)

const sendTimeout = 5 * time.Second

// Notifier posts a plain text message whenever connectivity flips
// between up and down. The first cycle only sets the baseline.
type Notifier struct {
	endpoint string
	node     string
	client   *http.Client
	logger   zerolog.Logger
	now      func() time.Time

	mu        sync.Mutex
	known     bool
	up        bool
	downSince time.Time
}

func New(endpoint, node string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		endpoint: endpoint,
		node:     node,
		client:   &http.Client{Timeout: sendTimeout},
		logger:   logger,
		now:      time.Now,
	}
}

func (n *Notifier) ProcessError(err types.CheckError) types.CheckError {
	n.transition(false, err.Error())
	return err
}

func (n *Notifier) ProcessResponse(resp *types.Response) *types.Response {
	reason := fmt.Sprintf("HTTP %d %s", resp.StatusCode(), resp.ReasonPhrase())
	n.transition(resp.IsSuccess(), reason)
	return resp
}

func (n *Notifier) Order() int {
	return 20
}

func (n *Notifier) transition(up bool, reason string) {
	n.mu.Lock()
	wasKnown, wasUp, downSince := n.known, n.up, n.downSince
	n.known = true
	n.up = up
	if !up && (!wasKnown || wasUp) {
		n.downSince = n.now()
	}
	n.mu.Unlock()

	if !wasKnown || wasUp == up {
		return
	}

	var message string
	if up {
		message = fmt.Sprintf("%s: connection restored after %s", n.node, n.now().Sub(downSince).Round(time.Second))
	} else {
		message = fmt.Sprintf("%s: connection is down (%s)", n.node, reason)
	}

	if err := n.send(message); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to send notification")
		return
	}
	n.logger.Info().Str("message", message).Msg("Notification sent")
}

// send posts message to the configured endpoint
func (n *Notifier) send(message string) error {
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	resp, err := n.client.Post(n.endpoint, "text/plain", strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
