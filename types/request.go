package types

import (
	"net/textproto"
)

const (
	HeaderUserAgent       = "User-Agent"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderContentType     = "Content-Type"
	HeaderAccept          = "Accept"
	HeaderContentEncoding = "Content-Encoding"

	DefaultUserAgent      = "Conni (com.ericjesse.conni)"
	DefaultAcceptEncoding = "gzip"

	// DefaultURL answers with the public IP of the caller.
	DefaultURL = "https://ericjesse-whatsmyip.herokuapp.com/ip"
)

// Method is one of the HTTP verbs a probe may use
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Valid reports whether m belongs to the supported set.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// HasBody reports whether requests using m attach a body.
func (m Method) HasBody() bool {
	return m != MethodGet
}

// ContentType classifies the payload of a probe and drives the
// default Content-Type and Accept headers.
type ContentType int

const (
	ContentJSON ContentType = iota
	ContentHTML
	ContentXML
)

// Value returns the media type sent on the wire.
func (c ContentType) Value() string {
	switch c {
	case ContentHTML:
		return "text/html; charset=utf-8"
	case ContentXML:
		return "text/xml; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

func (c ContentType) String() string {
	switch c {
	case ContentHTML:
		return "html"
	case ContentXML:
		return "xml"
	default:
		return "json"
	}
}

// ParseContentType maps json, html or xml to a ContentType.
func ParseContentType(s string) (ContentType, bool) {
	switch s {
	case "", "json":
		return ContentJSON, true
	case "html":
		return ContentHTML, true
	case "xml":
		return ContentXML, true
	}
	return ContentJSON, false
}

// Header is a header name with one or more values.
type Header struct {
	Key    string
	Values []string
}

// NewHeader is a shorthand for building a Header literal.
func NewHeader(key string, values ...string) Header {
	return Header{Key: key, Values: values}
}

// Request describes the probe sent on every cycle. It is built once
// and never modified afterwards.
type Request struct {
	method      Method
	url         string
	body        string
	contentType ContentType
	keys        []string
	headers     map[string][]string
}

// NewGetRequest creates a GET request with JSON content negotiation.
func NewGetRequest(url string, headers ...Header) *Request {
	return NewRequest(MethodGet, url, "", ContentJSON, headers...)
}

// NewRequest creates a fully customized request. Headers sharing a
// name are merged in the order given. The default headers are only
// added for names the caller did not supply.
func NewRequest(method Method, url, body string, contentType ContentType, headers ...Header) *Request {
	r := &Request{
		method:      method,
		url:         url,
		body:        body,
		contentType: contentType,
		headers:     make(map[string][]string),
	}

	for _, h := range headers {
		r.add(h.Key, h.Values...)
	}

	r.addIfMissing(HeaderUserAgent, DefaultUserAgent)
	r.addIfMissing(HeaderAcceptEncoding, DefaultAcceptEncoding)
	r.addIfMissing(HeaderContentType, contentType.Value())
	r.addIfMissing(HeaderAccept, contentType.Value())

	return r
}

func (r *Request) add(key string, values ...string) {
	key = textproto.CanonicalMIMEHeaderKey(key)
	if _, ok := r.headers[key]; !ok {
		r.keys = append(r.keys, key)
		r.headers[key] = []string{}
	}
	r.headers[key] = append(r.headers[key], values...)
}

func (r *Request) addIfMissing(key, value string) {
	if _, ok := r.headers[key]; !ok {
		r.add(key, value)
	}
}

func (r *Request) Method() Method           { return r.method }
func (r *Request) URL() string              { return r.url }
func (r *Request) Body() string             { return r.body }
func (r *Request) ContentType() ContentType { return r.contentType }

// Headers returns a copy of the headers in insertion order.
func (r *Request) Headers() []Header {
	out := make([]Header, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, Header{Key: k, Values: r.Values(k)})
	}
	return out
}

// Values returns a copy of the values stored for key, nil if absent.
func (r *Request) Values(key string) []string {
	v, ok := r.headers[textproto.CanonicalMIMEHeaderKey(key)]
	if !ok {
		return nil
	}
	return append([]string(nil), v...)
}
