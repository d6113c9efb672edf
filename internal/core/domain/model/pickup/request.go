// Package pickup models the customer booking that spawns a packet and tracks the agent
// sent to collect it.
package pickup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/guard"
)

var ErrRequestIsNotConstructed = errors.New("pickup request must be created via NewRequest or RestoreRequest")

type Status string

const (
	Pending   Status = "pending"
	Assigned  Status = "assigned"
	Completed Status = "completed"
)

func (s Status) Validate() error {
	switch s {
	case Pending, Assigned, Completed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("pickup status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

// Request is 1:1 with the packet it created.
type Request struct {
	id            kernel.UUID
	customerID    kernel.UUID
	packetID      kernel.UUID
	pickupAddress string
	status        Status
	agentID       *kernel.UUID
	createdAt     time.Time
	guard         guard.ConstructorGuard
}

func NewRequest(id, customerID, packetID kernel.UUID, pickupAddress string, now time.Time) (*Request, error) {
	var addressErr error
	if strings.TrimSpace(pickupAddress) == "" {
		addressErr = errs.NewValueIsRequiredError("pickup address")
	}
	if err := errors.Join(id.Validate(), customerID.Validate(), packetID.Validate(), addressErr); err != nil {
		return nil, err
	}

	return &Request{
		id:            id,
		customerID:    customerID,
		packetID:      packetID,
		pickupAddress: strings.TrimSpace(pickupAddress),
		status:        Pending,
		createdAt:     now,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestoreRequest rebuilds a request from storage.
func RestoreRequest(
	id, customerID, packetID kernel.UUID,
	pickupAddress string,
	status Status,
	agentID *kernel.UUID,
	createdAt time.Time,
) (*Request, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	return &Request{
		id:            id,
		customerID:    customerID,
		packetID:      packetID,
		pickupAddress: pickupAddress,
		status:        status,
		agentID:       agentID,
		createdAt:     createdAt,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (r *Request) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

func (r *Request) ID() kernel.UUID         { return r.id }
func (r *Request) CustomerID() kernel.UUID { return r.customerID }
func (r *Request) PacketID() kernel.UUID   { return r.packetID }
func (r *Request) PickupAddress() string   { return r.pickupAddress }
func (r *Request) Status() Status          { return r.status }
func (r *Request) Agent() *kernel.UUID     { return r.agentID }
func (r *Request) CreatedAt() time.Time    { return r.createdAt }

// AssignAgent sets or replaces the pickup agent until the request is completed.
func (r *Request) AssignAgent(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if r.status == Completed {
		return errs.NewConflictError("pickup request %s is already completed", r.id)
	}
	r.agentID = &agentID
	r.status = Assigned
	return nil
}

// Complete closes the request once its packet reached the origin hub. Completing twice is a no-op.
func (r *Request) Complete() {
	r.status = Completed
}
