// Package transporttest provides an in-process fake amplifier for tests.
//
// The fake listens on a loopback TCP port, reads CR-terminated commands and
// answers with scripted CRLF-terminated lines. Broadcast noise can be
// configured to precede every scripted reply, the way a real device pushes
// state-change notifications onto the control connection.
package transporttest

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"hegel_amplifier/internal/transport"
)

// Device is a scripted fake amplifier.
type Device struct {
	listener net.Listener

	mu          sync.Mutex
	replies     map[string][]string
	noise       []string
	commands    []string
	connections int
	open        []net.Conn

	wg sync.WaitGroup
}

// NewDevice starts a fake device on 127.0.0.1 and registers its shutdown
// with t.Cleanup.
func NewDevice(t testing.TB) *Device {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	d := &Device{
		listener: ln,
		replies:  make(map[string][]string),
	}

	d.wg.Add(1)
	go d.acceptLoop()

	t.Cleanup(d.Close)
	return d
}

// Reply scripts the lines sent back after command is received. Calling
// Reply again for the same command replaces the script.
func (d *Device) Reply(command string, lines ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replies[command] = lines
}

// Noise sets broadcast lines sent before every scripted reply.
func (d *Device) Noise(lines ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.noise = lines
}

// Params returns connection parameters pointing at the fake.
func (d *Device) Params(timeout time.Duration) transport.Params {
	addr := d.listener.Addr().(*net.TCPAddr)
	return transport.Params{Host: addr.IP.String(), Port: addr.Port, Timeout: timeout}
}

// Commands returns every command received so far, in order.
func (d *Device) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.commands))
	copy(out, d.commands)
	return out
}

// AwaitCommands waits until at least n commands were received or one
// second passed, then returns what was received.
func (d *Device) AwaitCommands(n int) []string {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cmds := d.Commands(); len(cmds) >= n {
			return cmds
		}
		time.Sleep(5 * time.Millisecond)
	}
	return d.Commands()
}

// Connections returns how many connections were accepted.
func (d *Device) Connections() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connections
}

// Close stops the listener and waits for connection handlers to exit.
func (d *Device) Close() {
	_ = d.listener.Close()
	d.mu.Lock()
	for _, c := range d.open {
		_ = c.Close()
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Device) acceptLoop() {
	defer d.wg.Done()
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.connections++
		d.open = append(d.open, conn)
		d.mu.Unlock()

		d.wg.Add(1)
		go d.serve(conn)
	}
}

func (d *Device) serve(conn net.Conn) {
	defer d.wg.Done()
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		raw, err := reader.ReadString('\r')
		if err != nil {
			return
		}
		command := strings.TrimSuffix(raw, "\r")

		d.mu.Lock()
		d.commands = append(d.commands, command)
		lines, scripted := d.replies[command]
		var out []string
		if scripted {
			out = append(out, d.noise...)
			out = append(out, lines...)
		}
		d.mu.Unlock()

		for _, line := range out {
			if _, err := conn.Write([]byte(line + transport.ResponseTerminator)); err != nil {
				return
			}
		}
	}
}

// RefusedParams returns parameters for a loopback port with nothing
// listening, so dialing it is refused.
func RefusedParams(t testing.TB) transport.Params {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	_ = ln.Close()
	return transport.Params{Host: addr.IP.String(), Port: addr.Port, Timeout: time.Second}
}
