package transport

import (
	"errors"
	"fmt"
	"net"
)

// ConnectionError reports a failure to open a session with the device.
type ConnectionError struct {
	Addr  string
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection to %s failed: %v", e.Addr, e.Cause)
	}
	return fmt.Sprintf("connection to %s failed", e.Addr)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// isTimeout reports whether err is a socket deadline expiry.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
