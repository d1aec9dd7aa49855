package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"hegel_amplifier/internal/amplifier"
	"hegel_amplifier/internal/models"
	"hegel_amplifier/internal/transport"
	"hegel_amplifier/internal/transport/transporttest"
)

type fakeAmp struct {
	result    transport.Result
	available bool
	sources   []string
	discErr   error

	calls     []string
	lastLevel float64
	lastName  string
}

func (f *fakeAmp) Refresh(ctx context.Context) bool {
	f.calls = append(f.calls, "refresh")
	return f.available
}
func (f *fakeAmp) TurnOn(ctx context.Context) transport.Result {
	f.calls = append(f.calls, "on")
	return f.result
}
func (f *fakeAmp) TurnOff(ctx context.Context) transport.Result {
	f.calls = append(f.calls, "off")
	return f.result
}
func (f *fakeAmp) VolumeUp(ctx context.Context) transport.Result {
	f.calls = append(f.calls, "up")
	return f.result
}
func (f *fakeAmp) VolumeDown(ctx context.Context) transport.Result {
	f.calls = append(f.calls, "down")
	return f.result
}
func (f *fakeAmp) SetVolumeLevel(ctx context.Context, level float64) (transport.Result, error) {
	if level < 0 || level > 1 {
		return transport.Result{}, amplifier.ErrVolumeOutOfRange
	}
	f.calls = append(f.calls, "volume")
	f.lastLevel = level
	return f.result, nil
}
func (f *fakeAmp) MuteVolume(ctx context.Context, mute bool) transport.Result {
	if mute {
		f.calls = append(f.calls, "mute")
	} else {
		f.calls = append(f.calls, "unmute")
	}
	return f.result
}
func (f *fakeAmp) SelectSource(ctx context.Context, name string) (transport.Result, error) {
	for _, s := range f.sources {
		if s == name {
			f.calls = append(f.calls, "source")
			f.lastName = name
			return f.result, nil
		}
	}
	return transport.Result{}, amplifier.ErrUnknownSource
}
func (f *fakeAmp) DiscoverSources(ctx context.Context) ([]string, error) {
	f.calls = append(f.calls, "discover")
	return f.sources, f.discErr
}
func (f *fakeAmp) SourceList() []string { return f.sources }
func (f *fakeAmp) Snapshot() models.AmplifierState {
	vol := 30
	return models.AmplifierState{Name: "Den", Available: f.available, Power: models.PowerOn, Volume: &vol, Sources: f.sources}
}

func TestExecute_Commands(t *testing.T) {
	cases := []struct {
		line     string
		wantCall string
		wantOut  string
	}{
		{"on", "on", "power on: ok"},
		{"OFF", "off", "power off: ok"},
		{"up", "up", "volume up: ok"},
		{"down", "down", "volume down: ok"},
		{"volume 0.355", "volume", "volume 35%: ok"},
		{"mute", "mute", "mute: ok"},
		{"unmute", "unmute", "unmute: ok"},
		{"source Analog 1", "source", "source Analog 1: ok"},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			amp := &fakeAmp{result: transport.OK(""), sources: []string{"Analog 1", "CD"}}
			var out bytes.Buffer
			c := New(amp, &out, nil)

			if err := c.Execute(context.Background(), tc.line); err != nil {
				t.Fatalf("Execute(%q): %v", tc.line, err)
			}
			if len(amp.calls) != 1 || amp.calls[0] != tc.wantCall {
				t.Fatalf("unexpected calls %v", amp.calls)
			}
			if !strings.Contains(out.String(), tc.wantOut) {
				t.Fatalf("output %q does not contain %q", out.String(), tc.wantOut)
			}
		})
	}
}

func TestExecute_ReportsTransportStatus(t *testing.T) {
	amp := &fakeAmp{result: transport.Unavailable()}
	var out bytes.Buffer
	if err := New(amp, &out, nil).Execute(context.Background(), "on"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "power on: unavailable" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestExecute_Errors(t *testing.T) {
	cases := []struct {
		line    string
		wantErr error
		wantMsg string
	}{
		{"volume", nil, "usage: volume"},
		{"volume loud", nil, "invalid volume"},
		{"volume 2", amplifier.ErrVolumeOutOfRange, ""},
		{"source", nil, "usage: source"},
		{"source Tape", amplifier.ErrUnknownSource, "discover"},
		{"frobnicate", nil, "unknown command"},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			amp := &fakeAmp{result: transport.OK("")}
			err := New(amp, &bytes.Buffer{}, nil).Execute(context.Background(), tc.line)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantMsg != "" && !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
			if len(amp.calls) != 0 {
				t.Fatalf("nothing should reach the amplifier, got %v", amp.calls)
			}
		})
	}
}

func TestExecute_StateIsYAML(t *testing.T) {
	amp := &fakeAmp{available: true, sources: []string{"CD"}}
	var out bytes.Buffer
	if err := New(amp, &out, nil).Execute(context.Background(), "state"); err != nil {
		t.Fatalf("state: %v", err)
	}

	var st models.AmplifierState
	if err := yaml.Unmarshal(out.Bytes(), &st); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if st.Name != "Den" || st.Power != models.PowerOn || st.Volume == nil || *st.Volume != 30 || st.Muted != nil {
		t.Fatalf("unexpected decoded state %+v", st)
	}
}

func TestExecute_RefreshUnavailable(t *testing.T) {
	amp := &fakeAmp{available: false}
	var out bytes.Buffer
	if err := New(amp, &out, nil).Execute(context.Background(), "refresh"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !strings.Contains(out.String(), "amplifier unavailable") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestExecute_DiscoverPartial(t *testing.T) {
	amp := &fakeAmp{sources: []string{"Analog 1"}, discErr: context.DeadlineExceeded}
	var out bytes.Buffer
	if err := New(amp, &out, nil).Execute(context.Background(), "discover"); err != nil {
		t.Fatalf("partial discovery should not fail the command: %v", err)
	}
	if !strings.Contains(out.String(), "Analog 1") || !strings.Contains(out.String(), "incomplete") {
		t.Fatalf("unexpected output %q", out.String())
	}

	amp = &fakeAmp{discErr: amplifier.ErrNoSources}
	if err := New(amp, &bytes.Buffer{}, nil).Execute(context.Background(), "discover"); !errors.Is(err, amplifier.ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestRun_PipedSession(t *testing.T) {
	amp := &fakeAmp{result: transport.OK("")}
	var out bytes.Buffer
	in := strings.NewReader("on\n\nbogus\nup\nquit\nup\n")

	err := New(amp, &out, nil).Run(context.Background(), NewPipeEditor(in, &out))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(amp.calls, ",") != "on,up" {
		t.Fatalf("commands after quit must not run, got %v", amp.calls)
	}
	if !strings.Contains(out.String(), prompt) || !strings.Contains(out.String(), "error: unknown command") {
		t.Fatalf("unexpected transcript %q", out.String())
	}
}

func TestRun_EndsOnEOF(t *testing.T) {
	amp := &fakeAmp{result: transport.OK("")}
	var out bytes.Buffer
	if err := New(amp, &out, nil).Run(context.Background(), NewPipeEditor(strings.NewReader("off"), &out)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(amp.calls) != 1 {
		t.Fatalf("expected the last unterminated line to run, got %v", amp.calls)
	}
}

func TestRun_AgainstDevice(t *testing.T) {
	dev := transporttest.NewDevice(t)
	dev.Reply("-p.?", "PWR1")
	dev.Reply("-v.?", "-v.20")
	dev.Reply("-m.?", "MUT1")
	dev.Reply("?RGB00", "RGB00:Analog 1")
	dev.Reply("?RGB01", "RGB01:CD")

	ctrl := amplifier.New("Den", dev.Params(time.Second), nil,
		[]transport.Option{transport.WithReadTimeout(10 * time.Millisecond)},
		amplifier.WithMaxSources(3))

	var out bytes.Buffer
	script := "discover\nsource CD\nvolume 0.25\nrefresh\n"
	if err := New(ctrl, &out, nil).Run(context.Background(), NewPipeEditor(strings.NewReader(script), &out)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	cmds := strings.Join(dev.AwaitCommands(9), " ")
	for _, want := range []string{"?RGB00", "?RGB02", "01FN", "-v.25", "-p.?"} {
		if !strings.Contains(cmds, want) {
			t.Fatalf("device did not see %q: %s", want, cmds)
		}
	}
	if !strings.Contains(out.String(), "power: \"off\"") && !strings.Contains(out.String(), "power: off") {
		t.Fatalf("refresh output missing power state:\n%s", out.String())
	}
}

func TestPipeEditor_PrintsPromptAndReadsLines(t *testing.T) {
	var out bytes.Buffer
	ed := NewPipeEditor(strings.NewReader("one\ntwo\n"), &out)
	if ed.IsInteractive() {
		t.Fatalf("pipe editor must not be interactive")
	}

	for _, want := range []string{"one", "two"} {
		got, err := ed.GetLine("> ")
		if err != nil || got != want {
			t.Fatalf("GetLine = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := ed.GetLine("> "); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if out.String() != "> > > " {
		t.Fatalf("unexpected prompts %q", out.String())
	}
	ed.Close()
}
