package ws_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"courier/internal/adapters/in/ws"
	"courier/internal/core/application/tracking"
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/ports"
	"courier/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTracker struct{ mock.Mock }

func (m *MockTracker) Connect(ctx context.Context, agentID kernel.UUID, session ports.AgentSession) error {
	args := m.Called(ctx, agentID, session)
	return args.Error(0)
}

func (m *MockTracker) Disconnect(ctx context.Context, agentID kernel.UUID, session ports.AgentSession) {
	m.Called(ctx, agentID, session)
}

func (m *MockTracker) UpdateLocation(ctx context.Context, agentID kernel.UUID, location kernel.Coordinates) error {
	args := m.Called(ctx, agentID, location)
	return args.Error(0)
}

func (m *MockTracker) UpdatePacketStatus(ctx context.Context, agentID kernel.UUID, update tracking.PacketStatusUpdate) (*packet.Packet, error) {
	args := m.Called(ctx, agentID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*packet.Packet), args.Error(1)
}

type eventFrame struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

func newServer(t *testing.T, tracker ws.AgentTracker) (*ws.Gateway, string) {
	t.Helper()
	gateway := ws.NewGateway(slog.New(slog.NewTextHandler(io.Discard, nil)))
	gateway.Attach(tracker)
	e := echo.New()
	gateway.Register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return gateway, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.DialContext(t.Context(), url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) eventFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame eventFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestGateway_LocationUpdateReachesTracker(t *testing.T) {
	tracker := &MockTracker{}
	agentID := kernel.NewUUID()
	tracker.On("Connect", mock.Anything, agentID, mock.Anything).Return(nil)
	tracker.On("Disconnect", mock.Anything, agentID, mock.Anything).Return().Maybe()
	done := make(chan kernel.Coordinates, 1)
	tracker.On("UpdateLocation", mock.Anything, agentID, mock.Anything).
		Run(func(args mock.Arguments) { done <- args.Get(2).(kernel.Coordinates) }).
		Return(nil)

	_, url := newServer(t, tracker)
	conn := dial(t, url+"/ws/tracking", http.Header{ws.UserIDHeader: {agentID.String()}})

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": ws.MessageUpdateLocation,
		"data": map[string]float64{"lat": -13.98, "lng": 33.78},
	}))

	select {
	case got := <-done:
		assert.True(t, kernel.MustNewCoordinates(-13.98, 33.78).IsEqual(got))
	case <-time.After(5 * time.Second):
		t.Fatal("location update was not delivered")
	}
}

func TestGateway_TrackerErrorIsReportedToAgent(t *testing.T) {
	tracker := &MockTracker{}
	agentID := kernel.NewUUID()
	tracker.On("Connect", mock.Anything, agentID, mock.Anything).Return(nil)
	tracker.On("Disconnect", mock.Anything, agentID, mock.Anything).Return().Maybe()
	tracker.On("UpdatePacketStatus", mock.Anything, agentID, mock.Anything).
		Return(nil, errs.NewConflictError("packet is delivered, confirm_collection requires pending"))

	_, url := newServer(t, tracker)
	conn := dial(t, url+"/ws/tracking?userId="+agentID.String(), nil)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": ws.MessagePacketStatusUpdate,
		"data": map[string]string{"packetId": kernel.NewUUID().String(), "status": "collected"},
	}))

	frame := readEvent(t, conn)
	assert.Equal(t, ports.EventError, frame.Event)
	assert.Contains(t, frame.Data["message"], "requires pending")
}

func TestGateway_InvalidMessages(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "hello"},
		{name: "unknown type", payload: `{"type":"teleport","data":{}}`},
		{name: "missing coordinates", payload: `{"type":"update_location","data":{"lat":1}}`},
		{name: "latitude out of range", payload: `{"type":"update_location","data":{"lat":91,"lng":0}}`},
		{name: "bad packet id", payload: `{"type":"packet_status_update","data":{"packetId":"x","status":"collected"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &MockTracker{}
			agentID := kernel.NewUUID()
			tracker.On("Connect", mock.Anything, agentID, mock.Anything).Return(nil)
			tracker.On("Disconnect", mock.Anything, agentID, mock.Anything).Return().Maybe()

			_, url := newServer(t, tracker)
			conn := dial(t, url+"/ws/tracking", http.Header{ws.UserIDHeader: {agentID.String()}})

			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)))

			frame := readEvent(t, conn)
			assert.Equal(t, ports.EventError, frame.Event)
			tracker.AssertNotCalled(t, "UpdateLocation", mock.Anything, mock.Anything, mock.Anything)
			tracker.AssertNotCalled(t, "UpdatePacketStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGateway_RefusedAgentIsClosed(t *testing.T) {
	tracker := &MockTracker{}
	agentID := kernel.NewUUID()
	tracker.On("Connect", mock.Anything, agentID, mock.Anything).
		Return(errs.NewForbiddenError("connect to agent tracking", "customer"))

	_, url := newServer(t, tracker)
	conn := dial(t, url+"/ws/tracking", http.Header{ws.UserIDHeader: {agentID.String()}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	tracker.AssertNotCalled(t, "Disconnect", mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_TrackingRequiresUserID(t *testing.T) {
	_, url := newServer(t, &MockTracker{})

	_, resp, err := websocket.DefaultDialer.DialContext(t.Context(), url+"/ws/tracking", nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGateway_DisconnectOnClose(t *testing.T) {
	tracker := &MockTracker{}
	agentID := kernel.NewUUID()
	disconnected := make(chan struct{})
	tracker.On("Connect", mock.Anything, agentID, mock.Anything).Return(nil)
	tracker.On("Disconnect", mock.Anything, agentID, mock.Anything).
		Run(func(mock.Arguments) { close(disconnected) }).
		Return()

	_, url := newServer(t, tracker)
	conn := dial(t, url+"/ws/tracking", http.Header{ws.UserIDHeader: {agentID.String()}})
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	select {
	case <-disconnected:
	case <-time.After(5 * time.Second):
		t.Fatal("agent was not disconnected")
	}
}

func TestGateway_BroadcastReachesDashboards(t *testing.T) {
	gateway, url := newServer(t, &MockTracker{})
	first := dial(t, url+"/ws/dashboard", nil)
	second := dial(t, url+"/ws/dashboard", nil)
	require.Eventually(t, func() bool { return gateway.DashboardCount() == 2 }, 5*time.Second, 10*time.Millisecond)

	gateway.Broadcast(t.Context(), ports.Event{
		Name:    ports.EventAgentLocationUpdated,
		Payload: map[string]any{"lat": -13.98},
	})

	for _, conn := range []*websocket.Conn{first, second} {
		frame := readEvent(t, conn)
		assert.Equal(t, ports.EventAgentLocationUpdated, frame.Event)
		assert.InDelta(t, -13.98, frame.Data["lat"], 1e-9)
	}

	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return gateway.DashboardCount() == 1 }, 5*time.Second, 10*time.Millisecond)
}
