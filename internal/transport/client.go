package transport

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"time"

	"hegel_amplifier/internal/logger"
)

// DialFunc opens a stream connection. It matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Client issues commands to one device. It keeps no connection between
// calls and holds no mutable state, so a Client may be shared; callers are
// still responsible for not interleaving sessions against the same device.
type Client struct {
	params       Params
	readTimeout  time.Duration
	readAttempts int
	dial         DialFunc
	log          *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithReadTimeout sets the per-read timeout used by Query.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}

// WithReadAttempts sets how many lines Query inspects before giving up.
func WithReadAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.readAttempts = n
		}
	}
}

// WithDialer replaces the function used to open connections.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// WithLogger sets the logger used for connection and timeout diagnostics.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a Client for the device at p.
func NewClient(p Params, opts ...Option) *Client {
	c := &Client{
		params:       p,
		readTimeout:  DefaultReadTimeout,
		readAttempts: DefaultReadAttempts,
		log:          logger.Nop(),
	}
	d := &net.Dialer{Timeout: p.Timeout}
	c.dial = d.DialContext
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Params returns the connection parameters.
func (c *Client) Params() Params {
	return c.params
}

// Open establishes a session. The only error it returns is *ConnectionError;
// it is logged as a warning here so callers only decide what "unavailable"
// means for them.
func (c *Client) Open(ctx context.Context) (*Session, error) {
	addr := c.params.Addr()
	conn, err := c.dial(ctx, "tcp", addr)
	if err != nil {
		c.log.Warnw("amplifier_connection_refused", "addr", addr, "err", err)
		return nil, &ConnectionError{Addr: addr, Cause: err}
	}
	return &Session{
		conn:   conn,
		reader: bufio.NewReader(conn),
		client: c,
	}, nil
}

// Query opens a session, sends command, waits for a reply line and closes
// the session. Any non-empty line is accepted as the reply.
func (c *Client) Query(ctx context.Context, command string) Result {
	return c.QueryMatch(ctx, command, AnyLine)
}

// QueryMatch is Query with a caller-supplied reply matcher.
func (c *Client) QueryMatch(ctx context.Context, command string, match Matcher) Result {
	s, err := c.Open(ctx)
	if err != nil {
		return Unavailable()
	}
	defer s.Close()
	return s.QueryMatch(command, match)
}

// Fire opens a session, sends command, discards whatever the device sends
// back immediately and closes the session. It never waits for a reply.
func (c *Client) Fire(ctx context.Context, command string) Result {
	s, err := c.Open(ctx)
	if err != nil {
		return Unavailable()
	}
	defer s.Close()

	if res := s.send(command); !res.IsOK() {
		return res
	}
	s.drain()
	return OK("")
}

// Session is one open connection to the device. It is not safe for
// concurrent use.
type Session struct {
	conn   net.Conn
	reader *bufio.Reader
	client *Client
	closed bool

	// partial holds bytes of a line cut off by a read deadline.
	partial string
}

// Query sends command and returns the first non-empty reply line.
func (s *Session) Query(command string) Result {
	return s.QueryMatch(command, AnyLine)
}

// QueryMatch sends command and reads up to the client's read-attempt limit
// of lines, each bounded by the per-read timeout, returning the first
// trimmed line accepted by match. Lines that do not match are broadcast
// noise and are dropped.
func (s *Session) QueryMatch(command string, match Matcher) Result {
	if s.closed {
		return Unavailable()
	}
	if res := s.send(command); !res.IsOK() {
		return res
	}

	log := s.client.log
	for attempt := 1; attempt <= s.client.readAttempts; attempt++ {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.client.readTimeout))
		raw, err := s.reader.ReadString('\n')
		if err != nil {
			// Only a CRLF-terminated line is a reply; keep the fragment
			// for the next read.
			s.partial += raw
			if !isTimeout(err) {
				// EOF or reset: the device dropped the connection.
				log.Debugw("amplifier_read_failed", "command", command, "err", err)
				return Unavailable()
			}
			continue
		}

		line := strings.TrimSpace(s.partial + raw)
		s.partial = ""
		if match(line) {
			return OK(line)
		}
		if line != "" {
			log.Debugw("amplifier_skipped_line", "command", command, "line", line, "attempt", attempt)
		}
	}

	log.Debugw("amplifier_query_timeout", "command", command, "attempts", s.client.readAttempts)
	return Timeout()
}

// Close closes the underlying connection. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// send writes command followed by the terminator, bounded by the connect
// timeout when one is configured.
func (s *Session) send(command string) Result {
	var deadline time.Time
	if t := s.client.params.Timeout; t > 0 {
		deadline = time.Now().Add(t)
	}
	_ = s.conn.SetWriteDeadline(deadline)

	if _, err := io.WriteString(s.conn, command+CommandTerminator); err != nil {
		if isTimeout(err) {
			s.client.log.Debugw("amplifier_command_timeout", "command", command, "err", err)
			return Timeout()
		}
		s.client.log.Debugw("amplifier_write_failed", "command", command, "err", err)
		return Unavailable()
	}
	return OK("")
}

// drain discards bytes that are already on their way without waiting for a
// reply to be produced.
func (s *Session) drain() {
	_ = s.conn.SetReadDeadline(time.Now().Add(drainWindow))
	n, err := io.Copy(io.Discard, s.reader)
	if err != nil && !isTimeout(err) {
		s.client.log.Debugw("amplifier_drain_failed", "err", err)
		return
	}
	if n > 0 {
		s.client.log.Debugw("amplifier_drained", "bytes", n)
	}
}
