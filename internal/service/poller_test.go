package service

import (
	"context"
	"testing"
	"time"

	"hegel_amplifier/internal/models"
	"hegel_amplifier/internal/repository"
)

func unavailableEvents(repo *recordingEventRepo) int {
	n := 0
	for _, e := range repo.Events() {
		if e.Type == models.EventUnavailable {
			n++
		}
	}
	return n
}

func TestPoller_RecordsUnavailableOnTransitionsOnly(t *testing.T) {
	dev := &fakeDevice{available: true}
	amp, repo := newTestAmplifierService(dev)
	p := NewPollerService(amp, nil)
	ctx := context.Background()

	p.poll(ctx)
	if unavailableEvents(repo) != 0 {
		t.Fatalf("no event expected while reachable")
	}

	dev.setAvailable(false)
	p.poll(ctx)
	p.poll(ctx)
	p.poll(ctx)
	if n := unavailableEvents(repo); n != 1 {
		t.Fatalf("expected exactly one UNAVAILABLE while down, got %d", n)
	}

	dev.setAvailable(true)
	p.poll(ctx)
	dev.setAvailable(false)
	p.poll(ctx)
	if n := unavailableEvents(repo); n != 2 {
		t.Fatalf("expected a second UNAVAILABLE after recovery, got %d", n)
	}

	for _, e := range repo.Events() {
		if e.Type == models.EventRefresh {
			t.Fatalf("background polls must not record REFRESH events")
		}
	}
}

func TestPoller_FirstPollUnavailableIsRecorded(t *testing.T) {
	dev := &fakeDevice{available: false}
	amp, repo := newTestAmplifierService(dev)

	NewPollerService(amp, nil).poll(context.Background())
	if n := unavailableEvents(repo); n != 1 {
		t.Fatalf("expected UNAVAILABLE on first failed poll, got %d", n)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	dev := &fakeDevice{available: true}
	amp, _ := newTestAmplifierService(dev)
	p := NewPollerService(amp, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for len(dev.Calls()) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if n := len(dev.Calls()); n < 3 {
		t.Fatalf("expected repeated refreshes, got %d", n)
	}
}

func TestPoller_NonPositiveIntervalDisables(t *testing.T) {
	dev := &fakeDevice{available: true}
	amp, _ := newTestAmplifierService(dev)

	NewPollerService(amp, nil).Run(context.Background(), 0)
	if n := len(dev.Calls()); n != 0 {
		t.Fatalf("expected no refresh, got %d", n)
	}
}

func TestNewService_WiresSharedAmplifier(t *testing.T) {
	dev := &fakeDevice{available: true}
	repo := &recordingEventRepo{}
	s := NewService(&repository.Repository{EventRepo: repo}, dev, nil)

	if _, err := s.Monitoring.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	events, err := s.EventLog.List(context.Background(), LogFilter{Types: []string{"refresh"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected the refresh event through EventLog, got %d", len(events))
	}
	if _, err := s.Control.TurnOn(context.Background()); err != nil {
		t.Fatalf("TurnOn: %v", err)
	}
	if calls := dev.Calls(); len(calls) != 2 || calls[1] != "on" {
		t.Fatalf("unexpected device calls %v", calls)
	}
}
