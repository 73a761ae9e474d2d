package types

import (
	"net/http"
	"time"
)

// Response is the materialized outcome of one successful HTTP exchange.
type Response struct {
	request    *Request
	sentAt     time.Time
	receivedAt time.Time
	statusCode int
	reason     string
	body       string
	headers    http.Header
}

// NewResponse builds a Response. headers is copied.
func NewResponse(req *Request, sentAt, receivedAt time.Time, statusCode int, reason, body string, headers http.Header) *Response {
	return &Response{
		request:    req,
		sentAt:     sentAt,
		receivedAt: receivedAt,
		statusCode: statusCode,
		reason:     reason,
		body:       body,
		headers:    headers.Clone(),
	}
}

// Request is the prototype the response was produced for.
func (r *Response) Request() *Request       { return r.request }
func (r *Response) SentAt() time.Time       { return r.sentAt }
func (r *Response) ReceivedAt() time.Time   { return r.receivedAt }
func (r *Response) Duration() time.Duration { return r.receivedAt.Sub(r.sentAt) }
func (r *Response) StatusCode() int         { return r.statusCode }
func (r *Response) ReasonPhrase() string    { return r.reason }
func (r *Response) Body() string            { return r.body }

// Headers returns a copy of the response headers.
func (r *Response) Headers() http.Header {
	return r.headers.Clone()
}

// Header returns the first value of key, or "".
func (r *Response) Header(key string) string {
	return r.headers.Get(key)
}

// IsSuccess reports whether the status code lies in 200-399.
func (r *Response) IsSuccess() bool {
	return r.statusCode >= 200 && r.statusCode < 400
}
