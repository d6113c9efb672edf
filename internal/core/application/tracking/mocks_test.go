package tracking_test

import (
	"context"
	"sync"

	"courier/internal/core/application/usecases/commands"
	"courier/internal/core/application/usecases/queries"
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(ctx context.Context, command commands.PacketTransitionCommand) (*packet.Packet, error) {
	args := m.Called(ctx, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*packet.Packet), args.Error(1)
}

type MockAgentPacketsFinder struct{ mock.Mock }

func (m *MockAgentPacketsFinder) Handle(ctx context.Context, query queries.GetAgentPacketsQuery) ([]queries.AgentPacket, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.AgentPacket), args.Error(1)
}

type MockAgentDirectory struct{ mock.Mock }

func (m *MockAgentDirectory) Role(ctx context.Context, userID kernel.UUID) (kernel.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(kernel.Role), args.Error(1)
}

// fakeSession records what it was sent.
type fakeSession struct {
	mu      sync.Mutex
	events  []ports.Event
	closed  bool
	sendErr error
}

func (s *fakeSession) Send(_ context.Context, event ports.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.events = append(s.events, event)
	return nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSession) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.events))
	for _, e := range s.events {
		names = append(names, e.Name)
	}
	return names
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.Event
}

func (n *recordingNotifier) Broadcast(_ context.Context, event ports.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, len(n.events))
	for _, e := range n.events {
		names = append(names, e.Name)
	}
	return names
}
