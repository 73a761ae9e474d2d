package network

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"conni/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Checker probes the configured endpoint and hands every outcome to
// its observers.
type Checker struct {
	client    *http.Client
	prototype *types.Request
	request   *http.Request
	host      string
	logger    zerolog.Logger

	mu        sync.Mutex
	observers []types.Observer
}

// NewChecker builds the transport request once from req. A nil req
// probes types.DefaultURL and a non positive timeout uses
// DefaultTimeout. The returned error wraps types.ErrInvalidRequest.
func NewChecker(req *types.Request, timeout time.Duration, logger zerolog.Logger) (*Checker, error) {
	if req == nil {
		req = types.NewGetRequest(types.DefaultURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpReq, err := BuildRequest(req)
	if err != nil {
		return nil, err
	}

	return &Checker{
		client:    NewClient(timeout, logger),
		prototype: req,
		request:   httpReq,
		host:      httpReq.URL.Hostname(),
		logger:    logger,
	}, nil
}

// Request returns the probe descriptor.
func (c *Checker) Request() *types.Request {
	return c.prototype
}

// Register appends o to the observer chain. Nil observers are ignored.
// Observers may be registered at any time; ordering is applied on
// every Check.
func (c *Checker) Register(o types.Observer) {
	if o == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Check submits one probe and returns immediately. The returned
// channel is closed after every observer has seen the outcome.
func (c *Checker) Check() <-chan struct{} {
	observers := c.chain()
	req := c.nextRequest()
	cycle := uuid.NewString()
	done := make(chan struct{})

	c.logger.Debug().Str("cycle", cycle).Str("url", c.prototype.URL()).Msg("Executing probe")

	go func() {
		defer close(done)

		resp, cerr := c.do(req)
		if cerr != nil {
			c.logger.Debug().Str("cycle", cycle).Str("kind", string(cerr.Kind())).Err(cerr).Msg("Probe failed")
			c.dispatchError(observers, cerr)
			return
		}

		c.logger.Debug().Str("cycle", cycle).
			Int("status", resp.StatusCode()).
			Dur("duration", resp.Duration()).
			Msg("Probe answered")
		c.dispatchResponse(observers, resp)
	}()

	return done
}

// chain returns a stable sorted snapshot of the observers.
func (c *Checker) chain() []types.Observer {
	c.mu.Lock()
	defer c.mu.Unlock()

	sorted := make([]types.Observer, len(c.observers))
	copy(sorted, c.observers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return types.OrderOf(sorted[i]) < types.OrderOf(sorted[j])
	})
	return sorted
}

func (c *Checker) nextRequest() *http.Request {
	req := c.request.Clone(context.Background())
	if c.request.GetBody != nil {
		if body, err := c.request.GetBody(); err == nil {
			req.Body = body
		}
	}
	return req
}

func (c *Checker) do(req *http.Request) (*types.Response, types.CheckError) {
	sentAt := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, Classify(c.host, err)
	}
	defer resp.Body.Close()
	receivedAt := time.Now()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(c.host, err)
	}

	return types.NewResponse(c.prototype, sentAt, receivedAt, resp.StatusCode, reasonPhrase(resp), string(body), resp.Header), nil
}

func (c *Checker) dispatchError(observers []types.Observer, err types.CheckError) {
	for _, o := range observers {
		if next := c.callError(o, err); next != nil {
			err = next
		}
	}
}

func (c *Checker) dispatchResponse(observers []types.Observer, resp *types.Response) {
	for _, o := range observers {
		if next := c.callResponse(o, resp); next != nil {
			resp = next
		}
	}
}

// callError runs a single observer. A panicking observer is logged and
// skipped so the rest of the chain still runs.
func (c *Checker) callError(o types.Observer, err types.CheckError) (next types.CheckError) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msgf("Observer %T failed", o)
			next = nil
		}
	}()
	return o.ProcessError(err)
}

func (c *Checker) callResponse(o types.Observer, resp *types.Response) (next *types.Response) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msgf("Observer %T failed", o)
			next = nil
		}
	}()
	return o.ProcessResponse(resp)
}

// reasonPhrase extracts "Not Found" from "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
