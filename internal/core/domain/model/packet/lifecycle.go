package packet

import (
	"context"
	"errors"
	"fmt"

	"courier/internal/pkg/errs"

	"github.com/looplab/fsm"
)

// Transition names. They double as metric labels and websocket event payloads.
const (
	TransitionConfirmDispatch         = "confirm_dispatch"
	TransitionConfirmCollection       = "confirm_collection"
	TransitionConfirmAtOriginHub      = "confirm_at_origin_hub"
	TransitionDispatch                = "dispatch"
	TransitionConfirmAtDestinationHub = "confirm_at_destination_hub"
	TransitionOutForDelivery          = "out_for_delivery"
	TransitionMarkDelivered           = "mark_delivered"
	TransitionConfirmReceived         = "confirm_received"
	TransitionPicked                  = "picked"
	TransitionMarkPaid                = "mark_paid"
)

// lifecycle lists every chained transition with its single predecessor.
// confirm_dispatch leaves the status untouched.
var lifecycle = fsm.Events{
	{Name: TransitionConfirmDispatch, Src: []string{Pending.String()}, Dst: Pending.String()},
	{Name: TransitionConfirmCollection, Src: []string{Pending.String()}, Dst: Collected.String()},
	{Name: TransitionConfirmAtOriginHub, Src: []string{Collected.String()}, Dst: AtOriginHub.String()},
	{Name: TransitionDispatch, Src: []string{AtOriginHub.String()}, Dst: InTransit.String()},
	{Name: TransitionConfirmAtDestinationHub, Src: []string{InTransit.String()}, Dst: AtDestinationHub.String()},
	{Name: TransitionOutForDelivery, Src: []string{AtDestinationHub.String()}, Dst: OutForDelivery.String()},
	{Name: TransitionMarkDelivered, Src: []string{OutForDelivery.String()}, Dst: Delivered.String()},
	{Name: TransitionConfirmReceived, Src: []string{Delivered.String()}, Dst: Received.String()},
}

// Predecessor returns the only status from which transition may fire.
func Predecessor(transition string) (Status, bool) {
	for _, e := range lifecycle {
		if e.Name == transition {
			s, err := ParseStatus(e.Src[0])
			return s, err == nil
		}
	}
	return Unknown, false
}

// RequireStatus returns the lifecycle Conflict when current is not want.
func RequireStatus(want, current Status) error {
	if want != current {
		return errs.NewConflictError("packet must be in state %s, current state %s", want, current)
	}
	return nil
}

// fire runs transition on a machine seeded with current and returns the resulting status.
// The machine carries no callbacks, so side effects stay on the aggregate.
func fire(current Status, transition string) (Status, error) {
	machine := fsm.NewFSM(current.String(), lifecycle, fsm.Callbacks{})

	err := machine.Event(context.Background(), transition)

	var (
		noTransition fsm.NoTransitionError
		invalid      fsm.InvalidEventError
	)
	switch {
	case err == nil, errors.As(err, &noTransition):
		return ParseStatus(machine.Current())
	case errors.As(err, &invalid):
		want, _ := Predecessor(transition)
		return current, RequireStatus(want, current)
	default:
		return current, fmt.Errorf("lifecycle transition %s from %s: %w", transition, current, err)
	}
}
