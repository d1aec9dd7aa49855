// Package console is an interactive line interface that drives one
// amplifier controller directly, without the HTTP daemon.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"hegel_amplifier/internal/logger"
	"hegel_amplifier/internal/models"
	"hegel_amplifier/internal/transport"
)

const prompt = "amp> "

// Amplifier is the controller surface the console drives.
// *amplifier.Controller implements it.
type Amplifier interface {
	Refresh(ctx context.Context) bool
	TurnOn(ctx context.Context) transport.Result
	TurnOff(ctx context.Context) transport.Result
	VolumeUp(ctx context.Context) transport.Result
	VolumeDown(ctx context.Context) transport.Result
	SetVolumeLevel(ctx context.Context, level float64) (transport.Result, error)
	MuteVolume(ctx context.Context, mute bool) transport.Result
	SelectSource(ctx context.Context, name string) (transport.Result, error)
	DiscoverSources(ctx context.Context) ([]string, error)
	SourceList() []string
	Snapshot() models.AmplifierState
}

// Editor supplies input lines. *LineEditor implements it.
type Editor interface {
	GetLine(prompt string) (string, error)
}

// errQuit ends the read loop.
var errQuit = errors.New("quit")

type Console struct {
	amp Amplifier
	out io.Writer
	log *logger.Logger
}

func New(amp Amplifier, out io.Writer, log *logger.Logger) *Console {
	if log == nil {
		log = logger.Nop()
	}
	return &Console{amp: amp, out: out, log: log}
}

// Run reads and executes lines until input ends, "quit" is entered or ctx
// is cancelled. Command errors are printed and the loop continues.
func (c *Console) Run(ctx context.Context, ed Editor) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := ed.GetLine(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		err = c.Execute(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

// Execute runs one command line.
func (c *Console) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	c.log.Debugw("console_command", "command", name, "args", args)

	switch name {
	case "on":
		c.printResult("power on", c.amp.TurnOn(ctx))
	case "off":
		c.printResult("power off", c.amp.TurnOff(ctx))
	case "up":
		c.printResult("volume up", c.amp.VolumeUp(ctx))
	case "down":
		c.printResult("volume down", c.amp.VolumeDown(ctx))
	case "volume", "vol":
		return c.setVolume(ctx, args)
	case "mute":
		c.printResult("mute", c.amp.MuteVolume(ctx, true))
	case "unmute":
		c.printResult("unmute", c.amp.MuteVolume(ctx, false))
	case "source":
		return c.selectSource(ctx, args)
	case "sources":
		c.printSources(c.amp.SourceList())
	case "discover":
		return c.discover(ctx)
	case "refresh":
		if !c.amp.Refresh(ctx) {
			fmt.Fprintln(c.out, "amplifier unavailable")
			return nil
		}
		return c.printState()
	case "state", "status":
		return c.printState()
	case "help", "?":
		c.printHelp()
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q; type 'help'", name)
	}
	return nil
}

func (c *Console) setVolume(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: volume <0..1>")
	}
	level, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid volume %q: %w", args[0], err)
	}
	res, err := c.amp.SetVolumeLevel(ctx, level)
	if err != nil {
		return err
	}
	c.printResult(fmt.Sprintf("volume %d%%", int(level*100)), res)
	return nil
}

func (c *Console) selectSource(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: source <name>")
	}
	name := strings.Join(args, " ")
	res, err := c.amp.SelectSource(ctx, name)
	if err != nil {
		if known := c.amp.SourceList(); len(known) == 0 {
			return fmt.Errorf("%w (run 'discover' first)", err)
		}
		return err
	}
	c.printResult("source "+name, res)
	return nil
}

func (c *Console) discover(ctx context.Context) error {
	fmt.Fprintln(c.out, "probing sources, this can take a while...")
	names, err := c.amp.DiscoverSources(ctx)
	if len(names) > 0 {
		c.printSources(names)
	}
	if err != nil && len(names) > 0 {
		fmt.Fprintf(c.out, "discovery incomplete: %v\n", err)
		return nil
	}
	return err
}

func (c *Console) printResult(what string, res transport.Result) {
	fmt.Fprintf(c.out, "%s: %s\n", what, res.Status)
}

func (c *Console) printSources(names []string) {
	if len(names) == 0 {
		fmt.Fprintln(c.out, "no sources known; run 'discover'")
		return
	}
	for i, n := range names {
		fmt.Fprintf(c.out, "  %2d  %s\n", i+1, n)
	}
}

func (c *Console) printState() error {
	enc := yaml.NewEncoder(c.out)
	enc.SetIndent(2)
	if err := enc.Encode(c.amp.Snapshot()); err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return enc.Close()
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `Commands:
  on | off           Power on / standby
  up | down          Step volume
  volume <0..1>      Set absolute volume (e.g. volume 0.35)
  mute | unmute      Mute control
  discover           Probe the amplifier for its inputs (slow)
  sources            List discovered inputs
  source <name>      Select a discovered input
  refresh            Query the amplifier and show its state
  state              Show the cached state
  help               This text
  quit               Exit
`)
}
