package network

import (
	"errors"
	"io"
	"net"
	"syscall"

	"conni/types"
)

// Classify maps a transport failure to exactly one CheckError.
// host is the hostname of the probe target.
func Classify(host string, err error) types.CheckError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &types.UnknownHostError{Hostname: host}
	}

	var opErr *net.OpError
	isOpErr := errors.As(err, &opErr)
	if isOpErr && opErr.Op == "dial" {
		return &types.ConnectionError{}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &types.UnexpectedError{Err: err}
	}

	if isOpErr ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return &types.ConnectionError{}
	}

	return &types.UnexpectedError{Err: err}
}
