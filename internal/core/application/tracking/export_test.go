package tracking

import "courier/internal/core/domain/model/kernel"

func (r *Registry) Acquire(agentID kernel.UUID) (func(), error) {
	return r.acquire(agentID)
}
