package network

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"conni/types"
)

const encodingGzip = "gzip"

// gzipRequest compresses request bodies that do not already declare
// an encoding. The compressed size is unknown until the body has been
// streamed, so Content-Length is dropped.
type gzipRequest struct {
	next http.RoundTripper
}

func (t *gzipRequest) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body == nil || req.Body == http.NoBody || req.Header.Get(types.HeaderContentEncoding) != "" {
		return t.next.RoundTrip(req)
	}

	compressed := req.Clone(req.Context())
	compressed.Body = compress(req.Body)
	compressed.ContentLength = -1
	compressed.Header.Set(types.HeaderContentEncoding, encodingGzip)
	compressed.Header.Del("Content-Length")
	if req.GetBody != nil {
		getBody := req.GetBody
		compressed.GetBody = func() (io.ReadCloser, error) {
			body, err := getBody()
			if err != nil {
				return nil, err
			}
			return compress(body), nil
		}
	}

	return t.next.RoundTrip(compressed)
}

// compress streams body through a gzip writer. The source is closed
// once fully copied or when the reading side goes away.
func compress(body io.ReadCloser) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		defer body.Close()
		zw := gzip.NewWriter(pw)
		_, err := io.Copy(zw, body)
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()
	return pr
}

// gzipResponse transparently decompresses gzip encoded responses. The
// Content-Encoding header is left untouched for observers.
type gzipResponse struct {
	next http.RoundTripper
}

func (t *gzipResponse) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.Body == nil || resp.Body == http.NoBody {
		return resp, err
	}
	if !strings.Contains(resp.Header.Get(types.HeaderContentEncoding), encodingGzip) {
		return resp, nil
	}

	resp.Body = &gzipReader{body: resp.Body}
	resp.ContentLength = -1
	return resp, nil
}

// gzipReader defers reading the gzip header to the first Read so an
// empty body decodes to an empty string instead of failing.
type gzipReader struct {
	body io.ReadCloser
	zr   *gzip.Reader
	err  error
}

func (g *gzipReader) Read(p []byte) (int, error) {
	if g.err != nil {
		return 0, g.err
	}
	if g.zr == nil {
		g.zr, g.err = gzip.NewReader(g.body)
		if g.err != nil {
			return 0, g.err
		}
	}
	return g.zr.Read(p)
}

func (g *gzipReader) Close() error {
	return g.body.Close()
}
