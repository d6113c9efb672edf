package packet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/guard"

	"github.com/google/uuid"
)

// ErrPacketIsNotConstructed is returned when a Packet was not built by NewPacket or RestorePacket.
var ErrPacketIsNotConstructed = errors.New("packet must be created via NewPacket or RestorePacket")

// Booking carries everything a customer supplies when requesting a pickup.
type Booking struct {
	Description  string
	Category     string
	Instructions string
	Weight       float64

	Sender   Contact
	Receiver Contact

	OriginAddress string
	Origin        *kernel.Coordinates

	DestinationAddress string
	Destination        *kernel.Coordinates
	DestinationHub     string
	Mode               DeliveryMode

	PickupWindow *PickupWindow
}

// Packet is the aggregate root of a shipment.
//
// Invariants:
//   - status moves forward along the lifecycle chain only
//   - each milestone timestamp is set once and never cleared
//   - HubPickup packets carry a destination hub, HomeDelivery packets do not
//   - weight is positive
type Packet struct {
	id           kernel.UUID
	trackingCode string
	status       Status

	description  string
	category     string
	instructions string
	weight       float64

	sender   Contact
	receiver Contact

	originAddress      string
	origin             *kernel.Coordinates
	destinationAddress string
	destination        *kernel.Coordinates
	destinationHub     string
	mode               DeliveryMode
	pickupWindow       *PickupWindow

	pickupAgentID   *kernel.UUID
	deliveryAgentID *kernel.UUID
	driverID        *kernel.UUID
	vehicleID       *kernel.UUID

	createdAt                 time.Time
	collectedAt               *time.Time
	originHubConfirmedAt      *time.Time
	dispatchedAt              *time.Time
	destinationHubConfirmedAt *time.Time
	outForDeliveryAt          *time.Time
	deliveredAt               *time.Time

	confirmedByOrigin bool
	isPaid            bool
	proof             ProofOfDelivery

	events []Event
	guard  guard.ConstructorGuard
}

// NewPacket validates a booking and creates a pending packet with a fresh tracking code.
// All validation failures are reported together.
func NewPacket(id kernel.UUID, b Booking, now time.Time) (*Packet, error) {
	if err := errors.Join(
		id.Validate(),
		validateWeight(b.Weight),
		b.Sender.validate("sender"),
		b.Receiver.validate("receiver"),
		validateRoute(b),
	); err != nil {
		return nil, err
	}

	p := &Packet{
		id:                 id,
		trackingCode:       NewTrackingCode(),
		status:             Pending,
		description:        strings.TrimSpace(b.Description),
		category:           strings.TrimSpace(b.Category),
		instructions:       strings.TrimSpace(b.Instructions),
		weight:             b.Weight,
		sender:             b.Sender,
		receiver:           b.Receiver,
		originAddress:      strings.TrimSpace(b.OriginAddress),
		origin:             b.Origin,
		destinationAddress: strings.TrimSpace(b.DestinationAddress),
		destination:        b.Destination,
		destinationHub:     strings.TrimSpace(b.DestinationHub),
		mode:               b.Mode,
		pickupWindow:       b.PickupWindow,
		createdAt:          now,
		guard:              guard.NewConstructorGuard(),
	}
	return p, nil
}

// NewTrackingCode returns "TRK-" followed by 8 upper-case hex characters of a random UUID.
func NewTrackingCode() string {
	return "TRK-" + strings.ToUpper(uuid.NewString()[:8])
}

func validateWeight(weight float64) error {
	if !(weight > 0) {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%.2f is not greater than 0", weight))
	}
	return nil
}

func validateRoute(b Booking) error {
	var problems []error

	if strings.TrimSpace(b.OriginAddress) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("origin address"))
	}
	if CityOf(b.DestinationAddress) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("destination address"))
	}
	if b.Origin != nil {
		if err := b.Origin.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("origin coordinates: %w", err))
		}
	}
	if b.Destination != nil {
		if err := b.Destination.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("destination coordinates: %w", err))
		}
	}
	hub := strings.TrimSpace(b.DestinationHub)
	switch b.Mode {
	case HubPickup:
		if hub == "" {
			problems = append(problems, errs.NewValueIsRequiredError("destination hub for hub pickup"))
		}
	case HomeDelivery:
		if hub != "" {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("destination hub",
				errors.New("home delivery packets must not name a destination hub")))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("delivery mode",
			fmt.Errorf("%q is not one of pickup, delivery", b.Mode)))
	}
	if b.PickupWindow != nil {
		problems = append(problems, b.PickupWindow.validate())
	}

	return errors.Join(problems...)
}

func (p *Packet) Validate() error {
	if p == nil {
		return ErrPacketIsNotConstructed
	}
	return p.guard.Validate(ErrPacketIsNotConstructed)
}

func (p *Packet) ID() kernel.UUID {
	return p.id
}

func (p *Packet) TrackingCode() string {
	return p.trackingCode
}

func (p *Packet) Status() Status {
	return p.status
}

func (p *Packet) Description() string {
	return p.description
}

func (p *Packet) Category() string {
	return p.category
}

func (p *Packet) Instructions() string {
	return p.instructions
}

func (p *Packet) Weight() float64 {
	return p.weight
}

func (p *Packet) Sender() Contact {
	return p.sender
}

func (p *Packet) Receiver() Contact {
	return p.receiver
}

func (p *Packet) OriginAddress() string {
	return p.originAddress
}

func (p *Packet) Origin() *kernel.Coordinates {
	return p.origin
}

func (p *Packet) DestinationAddress() string {
	return p.destinationAddress
}

func (p *Packet) Destination() *kernel.Coordinates {
	return p.destination
}

func (p *Packet) DestinationHub() string {
	return p.destinationHub
}

func (p *Packet) Mode() DeliveryMode {
	return p.mode
}

func (p *Packet) PickupWindow() *PickupWindow {
	return p.pickupWindow
}

func (p *Packet) PickupAgent() *kernel.UUID {
	return p.pickupAgentID
}

func (p *Packet) DeliveryAgent() *kernel.UUID {
	return p.deliveryAgentID
}

func (p *Packet) Driver() *kernel.UUID {
	return p.driverID
}

func (p *Packet) Vehicle() *kernel.UUID {
	return p.vehicleID
}

func (p *Packet) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Packet) CollectedAt() *time.Time {
	return p.collectedAt
}

func (p *Packet) OriginHubConfirmedAt() *time.Time {
	return p.originHubConfirmedAt
}

func (p *Packet) DispatchedAt() *time.Time {
	return p.dispatchedAt
}

func (p *Packet) DestinationHubConfirmedAt() *time.Time {
	return p.destinationHubConfirmedAt
}

func (p *Packet) OutForDeliveryAt() *time.Time {
	return p.outForDeliveryAt
}

func (p *Packet) DeliveredAt() *time.Time {
	return p.deliveredAt
}

func (p *Packet) ConfirmedByOrigin() bool {
	return p.confirmedByOrigin
}

func (p *Packet) IsPaid() bool {
	return p.isPaid
}

func (p *Packet) Proof() ProofOfDelivery {
	return p.proof
}

// OriginCity is the city segment of the origin address.
func (p *Packet) OriginCity() string {
	return CityOf(p.originAddress)
}

// DestinationCity is the city segment of the destination address.
func (p *Packet) DestinationCity() string {
	return CityOf(p.destinationAddress)
}

// IsAssignedTo reports whether agentID is the pickup or the delivery agent.
func (p *Packet) IsAssignedTo(agentID kernel.UUID) bool {
	return (p.pickupAgentID != nil && p.pickupAgentID.IsEqual(agentID)) ||
		(p.deliveryAgentID != nil && p.deliveryAgentID.IsEqual(agentID))
}

// IsOnVehicle reports whether the packet is currently bound to vehicleID.
func (p *Packet) IsOnVehicle(vehicleID kernel.UUID) bool {
	return p.vehicleID != nil && p.vehicleID.IsEqual(vehicleID)
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (p *Packet) DomainEvents() []Event {
	return p.events
}

func (p *Packet) ClearDomainEvents() {
	p.events = nil
}

// ConfirmDispatch marks a still-pending packet as confirmed by the origin office.
// The status does not change; a second confirmation is a Conflict.
func (p *Packet) ConfirmDispatch() error {
	if _, err := fire(p.status, TransitionConfirmDispatch); err != nil {
		return err
	}
	if p.confirmedByOrigin {
		return errs.NewConflictError("packet %s is already confirmed by origin", p.trackingCode)
	}
	p.confirmedByOrigin = true
	return nil
}

// AssignPickupAgent binds the field agent who will collect a pending packet.
func (p *Packet) AssignPickupAgent(agentID kernel.UUID, at time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if err := RequireStatus(Pending, p.status); err != nil {
		return err
	}
	p.pickupAgentID = &agentID
	p.record(EventAssigned, "", p.status, &agentID, at)
	return nil
}

// ConfirmCollection moves pending to collected. A non-nil weight replaces the booked weight
// and must be positive.
func (p *Packet) ConfirmCollection(weight *float64, at time.Time) error {
	if weight != nil {
		if err := validateWeight(*weight); err != nil {
			return err
		}
	}
	if err := p.advance(TransitionConfirmCollection, nil, at); err != nil {
		return err
	}
	if weight != nil {
		p.weight = *weight
	}
	p.collectedAt = stamp(p.collectedAt, at)
	return nil
}

// ConfirmAtOriginHub moves collected to at_origin_hub.
func (p *Packet) ConfirmAtOriginHub(at time.Time) error {
	if err := p.advance(TransitionConfirmAtOriginHub, nil, at); err != nil {
		return err
	}
	p.originHubConfirmedAt = stamp(p.originHubConfirmedAt, at)
	return nil
}

// AssignVehicle binds the packet to a vehicle while it waits at the origin hub.
// Capacity and destination-city rules belong to the allocator.
func (p *Packet) AssignVehicle(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}
	if err := p.CanBeLoaded(vehicleID); err != nil {
		return err
	}
	p.vehicleID = &vehicleID
	return nil
}

// CanBeLoaded checks, without mutating, that the packet may be bound to vehicleID.
func (p *Packet) CanBeLoaded(vehicleID kernel.UUID) error {
	if err := RequireStatus(AtOriginHub, p.status); err != nil {
		return err
	}
	if p.vehicleID != nil && !p.vehicleID.IsEqual(vehicleID) {
		return errs.NewConflictError("packet %s is already assigned to vehicle %s", p.trackingCode, p.vehicleID)
	}
	return validateWeight(p.weight)
}

// UnassignVehicle releases the packet from vehicleID before dispatch.
func (p *Packet) UnassignVehicle(vehicleID kernel.UUID) error {
	if err := RequireStatus(AtOriginHub, p.status); err != nil {
		return err
	}
	if !p.IsOnVehicle(vehicleID) {
		return errs.NewConflictError("packet %s is not assigned to vehicle %s", p.trackingCode, vehicleID)
	}
	p.vehicleID = nil
	return nil
}

// Dispatch moves at_origin_hub to in_transit. A non-nil driver is bound to the packet.
func (p *Packet) Dispatch(driverID *kernel.UUID, at time.Time) error {
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return err
		}
	}
	if err := p.advance(TransitionDispatch, nil, at); err != nil {
		return err
	}
	if driverID != nil {
		d := *driverID
		p.driverID = &d
	}
	p.confirmedByOrigin = true
	p.dispatchedAt = stamp(p.dispatchedAt, at)
	return nil
}

// ConfirmAtDestinationHub moves in_transit to at_destination_hub.
func (p *Packet) ConfirmAtDestinationHub(at time.Time) error {
	if err := p.advance(TransitionConfirmAtDestinationHub, nil, at); err != nil {
		return err
	}
	p.destinationHubConfirmedAt = stamp(p.destinationHubConfirmedAt, at)
	return nil
}

// AssignDeliveryAgent hands the packet to a delivery agent: at_destination_hub to out_for_delivery.
func (p *Packet) AssignDeliveryAgent(agentID kernel.UUID, at time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if err := p.advance(TransitionOutForDelivery, &agentID, at); err != nil {
		return err
	}
	p.deliveryAgentID = &agentID
	p.outForDeliveryAt = stamp(p.outForDeliveryAt, at)
	return nil
}

// MarkDelivered moves out_for_delivery to delivered and stores the proof of delivery.
func (p *Packet) MarkDelivered(proof ProofOfDelivery, at time.Time) error {
	if err := p.advance(TransitionMarkDelivered, nil, at); err != nil {
		return err
	}
	p.proof = proof
	p.deliveredAt = stamp(p.deliveredAt, at)
	return nil
}

// ConfirmReceived moves delivered to received, the terminal status.
func (p *Packet) ConfirmReceived(at time.Time) error {
	return p.advance(TransitionConfirmReceived, nil, at)
}

// MarkPicked is the admin hand-off shortcut: the packet becomes delivered without passing
// through the intermediate statuses. A signature is mandatory. Packets already delivered
// or received are left alone.
func (p *Packet) MarkPicked(proof ProofOfDelivery, at time.Time) error {
	if strings.TrimSpace(proof.SignatureBase64) == "" {
		return errs.NewValueIsRequiredError("signature")
	}
	if !p.status.IsBefore(Delivered) {
		return errs.NewConflictError("packet %s is already %s", p.trackingCode, p.status)
	}
	from := p.status
	p.status = Delivered
	p.proof = proof
	p.deliveredAt = stamp(p.deliveredAt, at)
	p.record(EventStatusChanged, TransitionPicked, from, nil, at)
	return nil
}

// MarkPaid sets the payment flag. Paying twice is a Conflict.
func (p *Packet) MarkPaid(at time.Time) error {
	if p.isPaid {
		return errs.NewConflictError("packet %s is already paid", p.trackingCode)
	}
	p.isPaid = true
	p.record(EventPaid, TransitionMarkPaid, p.status, nil, at)
	return nil
}

func (p *Packet) advance(transition string, assignee *kernel.UUID, at time.Time) error {
	next, err := fire(p.status, transition)
	if err != nil {
		return err
	}
	from := p.status
	p.status = next
	p.record(EventStatusChanged, transition, from, assignee, at)
	return nil
}

func (p *Packet) record(name, transition string, from Status, assignee *kernel.UUID, at time.Time) {
	p.events = append(p.events, Event{
		Name:         name,
		PacketID:     p.id,
		TrackingCode: p.trackingCode,
		Transition:   transition,
		From:         from,
		To:           p.status,
		AssigneeID:   assignee,
		OccurredAt:   at,
	})
}

// stamp keeps an existing milestone timestamp.
func stamp(current *time.Time, at time.Time) *time.Time {
	if current != nil {
		return current
	}
	return &at
}
