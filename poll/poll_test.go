package poll

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"conni/network"
	"conni/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChecker feeds a scripted outcome to its observers on every check.
type fakeChecker struct {
	mu        sync.Mutex
	observers []types.Observer
	checks    int
	outcome   func(n int) (*types.Response, types.CheckError)
	onCheck   func(n int)
}

func (f *fakeChecker) Register(o types.Observer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, o)
}

func (f *fakeChecker) Check() <-chan struct{} {
	f.mu.Lock()
	f.checks++
	n := f.checks
	observers := append([]types.Observer(nil), f.observers...)
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := f.outcome(n)
		for _, o := range observers {
			if err != nil {
				o.ProcessError(err)
			} else {
				o.ProcessResponse(resp)
			}
		}
		if f.onCheck != nil {
			f.onCheck(n)
		}
	}()
	return done
}

func (f *fakeChecker) Checks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks
}

func respond(code int) func(int) (*types.Response, types.CheckError) {
	return func(int) (*types.Response, types.CheckError) {
		return types.NewResponse(nil, time.Now(), time.Now(), code, http.StatusText(code), "", nil), nil
	}
}

func fail(err types.CheckError) func(int) (*types.Response, types.CheckError) {
	return func(int) (*types.Response, types.CheckError) {
		return nil, err
	}
}

func TestTaskBackoff(t *testing.T) {
	const (
		long  = 20 * time.Second
		short = 5 * time.Second
	)

	tests := []struct {
		name    string
		outcome func(int) (*types.Response, types.CheckError)
		want    time.Duration
	}{
		{name: "ok", outcome: respond(http.StatusOK), want: long},
		{name: "redirect", outcome: respond(http.StatusFound), want: long},
		{name: "not found", outcome: respond(http.StatusNotFound), want: short},
		{name: "unauthorized", outcome: respond(http.StatusUnauthorized), want: short},
		{name: "server error", outcome: respond(http.StatusInternalServerError), want: short},
		{name: "unknown host", outcome: fail(&types.UnknownHostError{Hostname: "x.invalid"}), want: short},
		{name: "connection", outcome: fail(&types.ConnectionError{}), want: short},
		{name: "unexpected", outcome: fail(&types.UnexpectedError{}), want: short},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &fakeChecker{outcome: tt.outcome}
			task := NewTask(checker, long, short, zerolog.Nop())

			<-checker.Check()
			assert.Equal(t, tt.want, task.Wait())
		})
	}
}

func TestTaskRecovers(t *testing.T) {
	checker := &fakeChecker{outcome: func(n int) (*types.Response, types.CheckError) {
		if n == 1 {
			return nil, &types.ConnectionError{}
		}
		return types.NewResponse(nil, time.Now(), time.Now(), http.StatusOK, "OK", "", nil), nil
	}}
	task := NewTask(checker, time.Minute, time.Second, zerolog.Nop())

	<-checker.Check()
	assert.Equal(t, time.Second, task.Wait())
	<-checker.Check()
	assert.Equal(t, time.Minute, task.Wait())
}

func TestNewTaskDefaults(t *testing.T) {
	checker := &fakeChecker{outcome: respond(http.StatusOK)}
	task := NewTask(checker, 0, -1, zerolog.Nop())

	assert.Equal(t, DefaultSuccessInterval, task.Wait())
	assert.Equal(t, DefaultFailureInterval, task.failureInterval)
	assert.Equal(t, types.OrderLast, task.Order())
	assert.Len(t, checker.observers, 1)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := &fakeChecker{
		outcome: respond(http.StatusOK),
		onCheck: func(n int) {
			if n == 3 {
				cancel()
			}
		},
	}
	task := NewTask(checker, time.Millisecond, time.Millisecond, zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, 3, checker.Checks())
	assert.True(t, task.Stopped())

	// A stopped task never polls again.
	task.Run(context.Background())
	assert.Equal(t, 3, checker.Checks())
}

func TestRunCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	checker := &fakeChecker{outcome: respond(http.StatusOK), onCheck: func(int) { cancel() }}
	task := NewTask(checker, time.Hour, time.Hour, zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Run kept sleeping after cancel")
	}
	assert.Equal(t, 1, checker.Checks())
}

func TestTaskWithNetworkChecker(t *testing.T) {
	checker, err := network.NewChecker(types.NewGetRequest("http://conni-probe.invalid"), network.DefaultTimeout, zerolog.Nop())
	require.NoError(t, err)

	task := NewTask(checker, 20*time.Second, 5*time.Second, zerolog.Nop())

	select {
	case <-checker.Check():
	case <-time.After(10 * time.Second):
		t.Fatal("check did not complete")
	}
	assert.Equal(t, 5*time.Second, task.Wait())
}

func TestTaskWithHealthyEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	checker, err := network.NewChecker(types.NewGetRequest(server.URL), network.DefaultTimeout, zerolog.Nop())
	require.NoError(t, err)

	task := NewTask(checker, 20*time.Second, 5*time.Second, zerolog.Nop())
	task.ProcessError(&types.ConnectionError{})
	require.Equal(t, 5*time.Second, task.Wait())

	select {
	case <-checker.Check():
	case <-time.After(10 * time.Second):
		t.Fatal("check did not complete")
	}
	assert.Equal(t, 20*time.Second, task.Wait())
}
