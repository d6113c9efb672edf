package ws

import (
	"io"
	"log/slog"
	"testing"

	"courier/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stalledSession never drains its queue, like a dashboard whose network has stopped.
func stalledSession(buffer int) *session {
	return &session{
		send: make(chan ports.Event, buffer),
		done: make(chan struct{}),
	}
}

func TestGateway_BroadcastDropsDashboardThatFallsBehind(t *testing.T) {
	g := NewGateway(slog.New(slog.NewTextHandler(io.Discard, nil)))
	slow := stalledSession(1)
	healthy := stalledSession(4)
	g.dashboards[slow] = struct{}{}
	g.dashboards[healthy] = struct{}{}

	first := ports.Event{Name: ports.EventAgentLocationUpdated}
	second := ports.Event{Name: ports.EventPacketLocationReached}
	g.Broadcast(t.Context(), first)
	g.Broadcast(t.Context(), second)

	assert.Equal(t, 1, g.DashboardCount())
	_, kept := g.dashboards[healthy]
	assert.True(t, kept)

	select {
	case <-slow.done:
	default:
		t.Fatal("dropped dashboard was not closed")
	}
	require.Len(t, healthy.send, 2)
	assert.Equal(t, first, <-healthy.send)
	assert.Equal(t, second, <-healthy.send)
}

func TestSession_SendAfterCloseFails(t *testing.T) {
	s := stalledSession(1)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err := s.Send(t.Context(), ports.Event{Name: ports.EventError})

	assert.ErrorIs(t, err, errSessionClosed)
	assert.Empty(t, s.send)
}
