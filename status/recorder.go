package status

import (
	"sync"
	"time"

	"conni/types"
)

const (
	StateUp       = "up"
	StateDegraded = "degraded"
	StateDown     = "down"
)

// Snapshot describes the latest probe cycle only.
type Snapshot struct {
	State      string    `json:"state"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	Cycles     uint64    `json:"cycles"`
}

// Recorder is an observer remembering the outcome of the last cycle.
type Recorder struct {
	url string

	mu     sync.RWMutex
	latest Snapshot
	cycles uint64
}

func NewRecorder(url string) *Recorder {
	return &Recorder{url: url}
}

func (r *Recorder) ProcessError(err types.CheckError) types.CheckError {
	r.store(Snapshot{
		State:     StateDown,
		ErrorKind: string(err.Kind()),
		Error:     err.Error(),
		CheckedAt: time.Now(),
	})
	return err
}

func (r *Recorder) ProcessResponse(resp *types.Response) *types.Response {
	state := StateUp
	if !resp.IsSuccess() {
		state = StateDegraded
	}

	r.store(Snapshot{
		State:      state,
		StatusCode: resp.StatusCode(),
		Reason:     resp.ReasonPhrase(),
		DurationMs: resp.Duration().Milliseconds(),
		CheckedAt:  resp.ReceivedAt(),
	})
	return resp
}

// Order runs the recorder just before the polling loop so it sees
// what earlier observers made of the outcome.
func (r *Recorder) Order() int {
	return types.OrderLast - 1
}

// Latest returns the last snapshot and false if no cycle completed yet.
func (r *Recorder) Latest() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.cycles > 0
}

func (r *Recorder) store(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles++
	s.URL = r.url
	s.Cycles = r.cycles
	r.latest = s
}
