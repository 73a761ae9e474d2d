package network

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"conni/types"
)

// BuildRequest converts a probe descriptor into a transport ready
// request. Any problem with the descriptor is reported as
// types.ErrInvalidRequest.
func BuildRequest(r *types.Request) (*http.Request, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no request", types.ErrInvalidRequest)
	}
	if !r.Method().Valid() {
		return nil, fmt.Errorf("%w: unsupported method %q", types.ErrInvalidRequest, r.Method())
	}

	u, err := url.Parse(r.URL())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidRequest, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unexpected url scheme %q", types.ErrInvalidRequest, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %q", types.ErrInvalidRequest, r.URL())
	}

	var body io.Reader
	if r.Method().HasBody() {
		body = strings.NewReader(r.Body())
	}

	req, err := http.NewRequest(string(r.Method()), u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidRequest, err.Error())
	}

	for _, h := range r.Headers() {
		for _, v := range h.Values {
			if h.Key == "Host" {
				req.Host = v
				continue
			}
			req.Header.Add(h.Key, v)
		}
	}

	return req, nil
}
