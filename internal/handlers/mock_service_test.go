package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"hegel_amplifier/internal/models"
	"hegel_amplifier/internal/service"
	"hegel_amplifier/internal/transport"
)

// ---- Service Mocks ----

type mockControl struct {
	result transport.Result
	err    error

	calls      []string
	lastVolume service.VolumeParams
	lastMute   service.MuteParams
	lastSource service.SourceParams
}

func (m *mockControl) do(name string) (transport.Result, error) {
	m.calls = append(m.calls, name)
	return m.result, m.err
}

func (m *mockControl) TurnOn(ctx context.Context) (transport.Result, error)  { return m.do("on") }
func (m *mockControl) TurnOff(ctx context.Context) (transport.Result, error) { return m.do("off") }
func (m *mockControl) VolumeUp(ctx context.Context) (transport.Result, error) {
	return m.do("up")
}
func (m *mockControl) VolumeDown(ctx context.Context) (transport.Result, error) {
	return m.do("down")
}
func (m *mockControl) SetVolume(ctx context.Context, p service.VolumeParams) (transport.Result, error) {
	m.lastVolume = p
	return m.do("volume")
}
func (m *mockControl) SetMute(ctx context.Context, p service.MuteParams) (transport.Result, error) {
	m.lastMute = p
	return m.do("mute")
}
func (m *mockControl) SelectSource(ctx context.Context, p service.SourceParams) (transport.Result, error) {
	m.lastSource = p
	return m.do("source")
}

type mockMonitoring struct {
	state models.AmplifierState
	err   error

	refreshState models.AmplifierState
	refreshErr   error
	refreshCalls int
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.AmplifierState, error) {
	return m.state, m.err
}

func (m *mockMonitoring) Refresh(ctx context.Context) (models.AmplifierState, error) {
	m.refreshCalls++
	return m.refreshState, m.refreshErr
}

type mockDiscovery struct {
	names []string
	err   error
	calls int
}

func (m *mockDiscovery) DiscoverSources(ctx context.Context) ([]string, error) {
	m.calls++
	return m.names, m.err
}

type mockEventLog struct {
	resp  []models.AmplifierEvent
	err   error
	last  service.LogFilter
	calls int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.AmplifierEvent, error) {
	m.calls++
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
