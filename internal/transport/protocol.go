// Package transport implements the short-lived socket sessions used to talk
// to the amplifier.
//
// The device speaks a line-oriented ASCII protocol over TCP:
//
//	Request (host -> device):  <command>\r
//	Reply   (device -> host):  <token>\r\n
//
// The device also pushes unsolicited state-change lines on the same
// connection, so a reply read may pick up broadcast noise instead of the
// answer. Query absorbs this with a bounded number of short reads.
//
// Every operation opens its own connection and closes it before returning.
// Transport failures are never returned as errors from Query or Fire; they
// are reported through the Status of the returned Result.
package transport

import (
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// CommandTerminator ends every command written to the device.
	CommandTerminator = "\r"

	// ResponseTerminator ends every line the device sends.
	ResponseTerminator = "\r\n"

	// DefaultPort is the control port Hegel amplifiers listen on.
	DefaultPort = 50001

	// DefaultReadTimeout bounds each individual read inside Query.
	DefaultReadTimeout = 200 * time.Millisecond

	// DefaultReadAttempts is how many lines Query inspects before giving up.
	DefaultReadAttempts = 3

	// drainWindow is how long Fire keeps reading to discard an immediate reply.
	drainWindow = 10 * time.Millisecond
)

// Params are the connection parameters of one device. The zero Timeout
// means connect and write block without a ceiling.
type Params struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Addr returns the host:port dial address.
func (p Params) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Status classifies the outcome of a transport call.
type Status int

const (
	// StatusOK means the call completed; for queries Line holds the reply.
	StatusOK Status = iota
	// StatusTimeout means the connection worked but no usable reply arrived in time.
	StatusTimeout
	// StatusUnavailable means the device could not be reached or the connection broke.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Result is the outcome of a Query or Fire.
type Result struct {
	Status Status
	Line   string
}

// OK wraps a successful reply line.
func OK(line string) Result { return Result{Status: StatusOK, Line: line} }

// Timeout is the result of a call that got no usable reply.
func Timeout() Result { return Result{Status: StatusTimeout} }

// Unavailable is the result of a call that could not reach the device.
func Unavailable() Result { return Result{Status: StatusUnavailable} }

// IsOK reports whether the call completed.
func (r Result) IsOK() bool { return r.Status == StatusOK }

// Value returns the reply line and whether it is usable.
func (r Result) Value() (string, bool) {
	if r.Status != StatusOK || r.Line == "" {
		return "", false
	}
	return r.Line, true
}

// Matcher decides whether a trimmed line read during Query is the reply
// being waited for.
type Matcher func(line string) bool

// AnyLine accepts any non-empty line.
func AnyLine(line string) bool { return line != "" }

// HasPrefix accepts lines starting with prefix.
func HasPrefix(prefix string) Matcher {
	return func(line string) bool {
		return line != "" && strings.HasPrefix(line, prefix)
	}
}
