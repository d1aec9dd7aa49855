package transport_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"hegel_amplifier/internal/transport"
	"hegel_amplifier/internal/transport/transporttest"
)

const testReadTimeout = 50 * time.Millisecond

func newClient(p transport.Params, opts ...transport.Option) *transport.Client {
	opts = append([]transport.Option{transport.WithReadTimeout(testReadTimeout)}, opts...)
	return transport.NewClient(p, opts...)
}

func TestQuery_ReturnsTrimmedReply(t *testing.T) {
	dev := transporttest.NewDevice(t)
	dev.Reply("-p.?", "  PWR0  ")

	c := newClient(dev.Params(time.Second))
	res := c.Query(context.Background(), "-p.?")

	if res.Status != transport.StatusOK || res.Line != "PWR0" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := dev.Commands(); len(got) != 1 || got[0] != "-p.?" {
		t.Fatalf("device saw %q", got)
	}
}

func TestQueryMatch_SkipsBroadcastNoise(t *testing.T) {
	dev := transporttest.NewDevice(t)
	dev.Noise("-i.3", "-m.1")
	dev.Reply("?RGB01", "RGB01.Phono")

	c := newClient(dev.Params(time.Second))
	res := c.QueryMatch(context.Background(), "?RGB01", transport.HasPrefix("RGB"))

	if line, ok := res.Value(); !ok || line != "RGB01.Phono" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSessionQuery_StopsAfterThreeAttempts(t *testing.T) {
	dev := transporttest.NewDevice(t)
	dev.Noise("noise-1", "noise-2", "noise-3")
	dev.Reply("?RGB02", "RGB02.Line")

	c := newClient(dev.Params(time.Second))
	s, err := c.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	res := s.QueryMatch("?RGB02", transport.HasPrefix("RGB"))
	if res.Status != transport.StatusTimeout {
		t.Fatalf("expected timeout after three noisy lines, got %+v", res)
	}

	// The fourth line was never consumed: the next read on the session gets it.
	res = s.Query("-p.?")
	if line, ok := res.Value(); !ok || line != "RGB02.Line" {
		t.Fatalf("expected leftover reply on next read, got %+v", res)
	}
}

func TestQuery_NoReplyTimesOutWithinBound(t *testing.T) {
	dev := transporttest.NewDevice(t)

	c := newClient(dev.Params(time.Second))
	start := time.Now()
	res := c.Query(context.Background(), "-v.?")
	elapsed := time.Since(start)

	if res.Status != transport.StatusTimeout {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if elapsed < 3*testReadTimeout {
		t.Fatalf("returned after %v, expected at least three read timeouts", elapsed)
	}
	if elapsed > time.Second {
		t.Fatalf("query took %v, read loop is not bounded", elapsed)
	}
}

func TestQueryAndFire_RefusedConnectionIsUnavailable(t *testing.T) {
	c := newClient(transporttest.RefusedParams(t))

	if res := c.Query(context.Background(), "-p.?"); res.Status != transport.StatusUnavailable {
		t.Fatalf("query: expected unavailable, got %+v", res)
	}
	if res := c.Fire(context.Background(), "PO"); res.Status != transport.StatusUnavailable {
		t.Fatalf("fire: expected unavailable, got %+v", res)
	}

	_, err := c.Open(context.Background())
	var connErr *transport.ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected *ConnectionError, got %T %v", err, err)
	}
	if connErr.Unwrap() == nil {
		t.Fatalf("expected wrapped cause")
	}
}

func TestFire_SendsCommandAndDoesNotWait(t *testing.T) {
	dev := transporttest.NewDevice(t)
	dev.Reply("PO", "-p.1")

	c := newClient(dev.Params(time.Second))
	start := time.Now()
	res := c.Fire(context.Background(), "PO")
	if !res.IsOK() {
		t.Fatalf("expected ok, got %+v", res)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("fire blocked for %v", elapsed)
	}
	if got := dev.AwaitCommands(1); len(got) != 1 || got[0] != "PO" {
		t.Fatalf("device saw %q", got)
	}
}

func TestEveryCallUsesItsOwnConnection(t *testing.T) {
	dev := transporttest.NewDevice(t)
	dev.Reply("-p.?", "PWR0")

	c := newClient(dev.Params(time.Second))
	ctx := context.Background()
	c.Query(ctx, "-p.?")
	c.Fire(ctx, "VU")
	c.Query(ctx, "-p.?")

	dev.AwaitCommands(3)
	if n := dev.Connections(); n != 3 {
		t.Fatalf("expected 3 connections, got %d", n)
	}
}

func TestWriteTimeout_IsReportedNotRaised(t *testing.T) {
	// A pipe nobody reads from blocks writes until the deadline.
	var peers []net.Conn
	dial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		client, server := net.Pipe()
		peers = append(peers, server)
		return client, nil
	}
	t.Cleanup(func() {
		for _, p := range peers {
			_ = p.Close()
		}
	})

	p := transport.Params{Host: "amp.local", Port: transport.DefaultPort, Timeout: 30 * time.Millisecond}
	c := newClient(p, transport.WithDialer(dial))

	if res := c.Query(context.Background(), "-p.?"); res.Status != transport.StatusTimeout {
		t.Fatalf("query: expected timeout, got %+v", res)
	}
	if res := c.Fire(context.Background(), "PF"); res.Status != transport.StatusTimeout {
		t.Fatalf("fire: expected timeout, got %+v", res)
	}
}

func TestSession_ClosedSessionIsUnavailable(t *testing.T) {
	dev := transporttest.NewDevice(t)
	dev.Reply("-p.?", "PWR0")

	c := newClient(dev.Params(time.Second))
	s, err := c.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if res := s.Query("-p.?"); res.Status != transport.StatusUnavailable {
		t.Fatalf("expected unavailable on closed session, got %+v", res)
	}
}

func TestResultAndStatusHelpers(t *testing.T) {
	if _, ok := transport.OK("").Value(); ok {
		t.Fatalf("empty ok line must not be a usable value")
	}
	if _, ok := transport.Timeout().Value(); ok {
		t.Fatalf("timeout must not carry a value")
	}
	if v, ok := transport.OK("MUT0").Value(); !ok || v != "MUT0" {
		t.Fatalf("unexpected value %q %v", v, ok)
	}

	cases := map[transport.Status]string{
		transport.StatusOK:          "ok",
		transport.StatusTimeout:     "timeout",
		transport.StatusUnavailable: "unavailable",
		transport.Status(9):         "status(9)",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}

	p := transport.Params{Host: "10.0.0.5", Port: 50001}
	if p.Addr() != "10.0.0.5:50001" {
		t.Fatalf("unexpected addr %q", p.Addr())
	}
}

// pipeDevice answers the first command on an in-memory pipe with the given
// chunks, pausing between them.
func pipeDevice(t *testing.T, pause time.Duration, chunks ...string) transport.DialFunc {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})

	go func() {
		if _, err := bufio.NewReader(server).ReadString('\r'); err != nil {
			return
		}
		for i, chunk := range chunks {
			if i > 0 {
				time.Sleep(pause)
			}
			if _, err := io.WriteString(server, chunk); err != nil {
				return
			}
		}
	}()

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return client, nil
	}
}

func TestQuery_SplitReplyIsReassembled(t *testing.T) {
	dial := pipeDevice(t, 70*time.Millisecond, "PWR", "0\r\n")
	p := transport.Params{Host: "amp.local", Port: transport.DefaultPort}
	c := newClient(p, transport.WithDialer(dial))

	res := c.Query(context.Background(), "-p.?")
	if line, ok := res.Value(); !ok || line != "PWR0" {
		t.Fatalf("expected the whole line PWR0, got %+v", res)
	}
}

func TestQuery_UnterminatedFragmentIsNotAReply(t *testing.T) {
	dial := pipeDevice(t, 0, "PWR")
	p := transport.Params{Host: "amp.local", Port: transport.DefaultPort}
	c := newClient(p, transport.WithDialer(dial))

	if res := c.Query(context.Background(), "-p.?"); res.Status != transport.StatusTimeout {
		t.Fatalf("expected timeout for a line without CRLF, got %+v", res)
	}
}
