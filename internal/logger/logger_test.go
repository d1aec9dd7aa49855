package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{DebugLevel, zapcore.DebugLevel},
		{InfoLevel, zapcore.InfoLevel},
		{WarnLevel, zapcore.WarnLevel},
		{ErrorLevel, zapcore.ErrorLevel},
		{"bogus", zapcore.DebugLevel},
		{"", zapcore.DebugLevel},
	}
	for _, tc := range cases {
		if got := toZapLevel(tc.in); got != tc.want {
			t.Fatalf("toZapLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNew_ReturnsIndependentInstances(t *testing.T) {
	a := New(InfoLevel)
	b := New(ErrorLevel)
	if a == b {
		t.Fatalf("expected distinct logger instances")
	}
	if !a.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info logger should enable info")
	}
	if b.Desugar().Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("error logger should not enable warn")
	}
}

func TestNop_NamedDoesNotPanic(t *testing.T) {
	l := Nop().Named("transport")
	l.Infow("ignored", "k", "v")
}
