package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"conni/config"
	"conni/lights"
	"conni/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1.2.3.4"))
	}))
	defer server.Close()

	out, err := execute(t, "check", "--url", server.URL)
	require.NoError(t, err)

	var snapshot status.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, status.StateUp, snapshot.State)
	assert.Equal(t, server.URL, snapshot.URL)
	assert.Equal(t, http.StatusOK, snapshot.StatusCode)
}

func TestCheckDown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + l.Addr().String()
	require.NoError(t, l.Close())

	out, err := execute(t, "check", "--url", url)

	var ee *exitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, ExitErrorConnection, ee.code)

	var snapshot status.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, status.StateDown, snapshot.State)
	assert.Equal(t, "connection_failure", snapshot.ErrorKind)
}

func TestCheckInvalidURL(t *testing.T) {
	_, err := execute(t, "check", "--url", "ftp://example.com")

	var ee *exitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, ExitErrorConfig, ee.code)
}

func TestNewMonitor(t *testing.T) {
	var beats atomic.Int32
	beat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beats.Add(1)
	}))
	defer beat.Close()

	probe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer probe.Close()

	c := &config.Config{}
	c.Probe.URL = probe.URL
	c.Probe.Timeout = time.Second
	c.Poll.SuccessInterval = time.Minute
	c.Poll.FailureInterval = time.Second
	c.Heartbeat.URL = beat.URL
	c.Status.Addr = "127.0.0.1:0"

	m, err := newMonitor(c)
	require.NoError(t, err)
	require.NotNil(t, m.server)

	assert.Equal(t, lights.StateUnknown, m.indicator.State())

	select {
	case <-m.checker.Check():
	case <-time.After(10 * time.Second):
		t.Fatal("check did not complete")
	}

	snapshot, ok := m.recorder.Latest()
	require.True(t, ok)
	assert.Equal(t, status.StateUp, snapshot.State)
	assert.Equal(t, lights.StateUp, m.indicator.State())
	assert.Equal(t, time.Minute, m.task.Wait())
	assert.Equal(t, int32(1), beats.Load())
}

func TestNewMonitorInvalid(t *testing.T) {
	c := &config.Config{}
	c.Probe.URL = "not a url"

	_, err := newMonitor(c)
	assert.Error(t, err)
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "exit status 2", (&exitError{code: 2}).Error())

	cause := errors.New("boom")
	err := &exitError{code: 3, err: cause}
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
