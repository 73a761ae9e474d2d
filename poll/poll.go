package poll

import (
	"context"
	"sync"
	"time"

	"conni/types"

	"github.com/rs/zerolog"
)

const (
	DefaultSuccessInterval = 20000 * time.Millisecond
	DefaultFailureInterval = 5000 * time.Millisecond
)

// Checker is the part of network.Checker the loop drives.
type Checker interface {
	Register(o types.Observer)
	Check() <-chan struct{}
}

// Task repeatedly checks connectivity. It observes its own checker
// with the last order key and picks the next wait from the final
// value of the chain.
type Task struct {
	checker         Checker
	successInterval time.Duration
	failureInterval time.Duration
	logger          zerolog.Logger

	mu      sync.Mutex
	wait    time.Duration
	stopped bool
}

// NewTask creates the loop and registers it on checker. Non positive
// intervals fall back to the defaults.
func NewTask(checker Checker, successInterval, failureInterval time.Duration, logger zerolog.Logger) *Task {
	if successInterval <= 0 {
		successInterval = DefaultSuccessInterval
	}
	if failureInterval <= 0 {
		failureInterval = DefaultFailureInterval
	}

	t := &Task{
		checker:         checker,
		successInterval: successInterval,
		failureInterval: failureInterval,
		logger:          logger,
		wait:            successInterval,
	}
	checker.Register(t)
	return t
}

func (t *Task) ProcessError(err types.CheckError) types.CheckError {
	t.setWait(t.failureInterval)
	return err
}

func (t *Task) ProcessResponse(resp *types.Response) *types.Response {
	if resp.IsSuccess() {
		t.setWait(t.successInterval)
	} else {
		t.setWait(t.failureInterval)
	}
	return resp
}

func (t *Task) Order() int {
	return types.OrderLast
}

// Wait returns the pause before the next check.
func (t *Task) Wait() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wait
}

// Stopped reports whether Run has returned.
func (t *Task) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *Task) setWait(d time.Duration) {
	t.mu.Lock()
	changed := t.wait != d
	t.wait = d
	t.mu.Unlock()

	if changed {
		t.logger.Info().Dur("wait", d).Msg("Polling interval changed")
	}
}

// Run checks, waits for the observer chain to finish, sleeps for the
// current wait and repeats until ctx is done. Cancellation is the
// normal way to stop; a stopped task never runs again.
func (t *Task) Run(ctx context.Context) {
	if t.Stopped() {
		return
	}
	defer func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()
		t.logger.Info().Msg("Connectivity polling stopped")
	}()

	t.logger.Info().Msg("Starting connectivity polling")

	for {
		done := t.checker.Check()
		select {
		case <-done:
		case <-ctx.Done():
			return
		}

		wait := t.Wait()
		t.logger.Debug().Dur("wait", wait).Msg("Next check scheduled")

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}
