package lights

import (
	"fmt"
	"sync"

	"conni/types"

	"github.com/rs/zerolog"
)

const (
	statusFormat  = "Connection is %s"
	statusUnknown = "unknown"
	statusDown    = "down"
	statusUp      = "up (%d ms)"
	statusHTTP    = "degraded (HTTP %d)"
)

// Indicator is the observer reflecting connectivity on a Light:
// green when the probe succeeds, yellow for unexpected status codes
// and red for failures.
type Indicator struct {
	light  Light
	logger zerolog.Logger

	mu      sync.Mutex
	current State
	applied bool
	status  string
}

// NewIndicator shows the unknown state right away.
func NewIndicator(light Light, logger zerolog.Logger) *Indicator {
	i := &Indicator{
		light:  light,
		logger: logger,
	}
	i.show(StateUnknown, fmt.Sprintf(statusFormat, statusUnknown))
	return i
}

func (i *Indicator) ProcessError(err types.CheckError) types.CheckError {
	i.show(StateDown, fmt.Sprintf(statusFormat, statusDown))
	return err
}

func (i *Indicator) ProcessResponse(resp *types.Response) *types.Response {
	if resp.IsSuccess() {
		i.show(StateUp, fmt.Sprintf(statusFormat, fmt.Sprintf(statusUp, resp.Duration().Milliseconds())))
	} else {
		i.show(StateDegraded, fmt.Sprintf(statusFormat, fmt.Sprintf(statusHTTP, resp.StatusCode())))
	}
	return resp
}

// Order places the indicator right after unordered observers.
func (i *Indicator) Order() int {
	return 1
}

// Status is the human readable connection status, e.g. for a tooltip.
func (i *Indicator) Status() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// State returns the state currently shown.
func (i *Indicator) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current
}

func (i *Indicator) show(state State, status string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if status != i.status {
		i.logger.Info().Str("light", state.String()).Msg(status)
		i.status = status
	}

	if i.applied && state == i.current {
		return
	}
	if err := state.Apply(i.light); err != nil {
		// Leave the previous state so the next cycle retries.
		i.logger.Error().Err(err).Str("light", state.String()).Msg("Failed to apply light state")
		return
	}
	i.current = state
	i.applied = true
}
