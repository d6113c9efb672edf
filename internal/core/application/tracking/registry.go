// Package tracking keeps the live picture of connected field agents and turns their
// location samples into packet transitions.
package tracking

import (
	"slices"
	"strings"
	"sync"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/ports"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/metrics"
)

// AgentConnection is a copy of one registry entry.
type AgentConnection struct {
	AgentID           kernel.UUID
	Session           ports.AgentSession
	Location          *kernel.Coordinates
	LocationUpdatedAt time.Time
	ConnectedAt       time.Time
}

type entry struct {
	conn AgentConnection

	// serial orders the processing of this agent's samples.
	serial sync.Mutex
}

// Registry maps agent ids to their live connection. It lives as long as the process.
// State is guarded by mu; each entry carries its own mutex so one agent's samples are
// handled in arrival order without blocking other agents.
type Registry struct {
	mu     sync.RWMutex
	agents map[kernel.UUID]*entry
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[kernel.UUID]*entry),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register stores session as the agent's connection. An older session of the same agent
// is closed and returned. The entry is reused on reconnect, so samples still in flight
// for the old session finish before the new session's samples are handled.
func (r *Registry) Register(agentID kernel.UUID, session ports.AgentSession) ports.AgentSession {
	r.mu.Lock()
	conn := AgentConnection{
		AgentID:     agentID,
		Session:     session,
		ConnectedAt: r.now(),
	}
	var replaced ports.AgentSession
	if e, ok := r.agents[agentID]; ok {
		replaced = e.conn.Session
		e.conn = conn
	} else {
		r.agents[agentID] = &entry{conn: conn}
	}
	metrics.ConnectedAgents.Set(float64(len(r.agents)))
	r.mu.Unlock()

	if replaced != nil && replaced != session {
		_ = replaced.Close()
	}
	return replaced
}

// Remove drops the agent only while session is still the registered one, so a late
// disconnect of a replaced session cannot evict its successor.
func (r *Registry) Remove(agentID kernel.UUID, session ports.AgentSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.agents[agentID]
	if !ok || e.conn.Session != session {
		return false
	}
	delete(r.agents, agentID)
	metrics.ConnectedAgents.Set(float64(len(r.agents)))
	return true
}

func (r *Registry) Get(agentID kernel.UUID) (AgentConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.agents[agentID]
	if !ok {
		return AgentConnection{}, false
	}
	return e.conn, true
}

// Location returns the last known position of a connected agent.
func (r *Registry) Location(agentID kernel.UUID) (*kernel.Coordinates, bool) {
	conn, ok := r.Get(agentID)
	if !ok || conn.Location == nil {
		return nil, false
	}
	return conn.Location, true
}

// Connected lists all connections ordered by connect time.
func (r *Registry) Connected() []AgentConnection {
	r.mu.RLock()
	conns := make([]AgentConnection, 0, len(r.agents))
	for _, e := range r.agents {
		conns = append(conns, e.conn)
	}
	r.mu.RUnlock()

	slices.SortFunc(conns, func(a, b AgentConnection) int {
		if c := a.ConnectedAt.Compare(b.ConnectedAt); c != 0 {
			return c
		}
		return strings.Compare(a.AgentID.String(), b.AgentID.String())
	})
	return conns
}

// UpdateLocation overwrites the cached position. Last write wins.
func (r *Registry) UpdateLocation(agentID kernel.UUID, location kernel.Coordinates) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.agents[agentID]
	if !ok {
		return errs.NewObjectNotFoundError("connected agent", agentID.String())
	}
	e.conn.Location = &location
	e.conn.LocationUpdatedAt = r.now()
	return nil
}

// PruneStaleLocations forgets positions older than cutoff and returns how many were
// dropped. Connections stay registered.
func (r *Registry) PruneStaleLocations(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for _, e := range r.agents {
		if e.conn.Location != nil && e.conn.LocationUpdatedAt.Before(cutoff) {
			e.conn.Location = nil
			pruned++
		}
	}
	return pruned
}

// acquire locks the agent's serial mutex. The returned func releases it.
func (r *Registry) acquire(agentID kernel.UUID) (func(), error) {
	r.mu.RLock()
	e, ok := r.agents[agentID]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("connected agent", agentID.String())
	}

	e.serial.Lock()
	return e.serial.Unlock, nil
}
