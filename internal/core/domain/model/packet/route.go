package packet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"courier/internal/pkg/errs"
)

// DeliveryMode says how the receiver gets the packet at the destination.
type DeliveryMode string

const (
	// HubPickup: the receiver collects the packet at the destination hub.
	HubPickup DeliveryMode = "pickup"
	// HomeDelivery: a delivery agent brings the packet to the destination address.
	HomeDelivery DeliveryMode = "delivery"
)

func ParseDeliveryMode(s string) (DeliveryMode, error) {
	switch m := DeliveryMode(strings.ToLower(strings.TrimSpace(s))); m {
	case HubPickup, HomeDelivery:
		return m, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("delivery mode", fmt.Errorf("%q is not one of pickup, delivery", s))
	}
}

// Contact identifies the sender or the receiver.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c Contact) validate(role string) error {
	if strings.TrimSpace(c.Name) == "" {
		return errs.NewValueIsRequiredError(role + " name")
	}
	if strings.TrimSpace(c.Phone) == "" && strings.TrimSpace(c.Email) == "" {
		return errs.NewValueIsRequiredError(role + " phone or email")
	}
	return nil
}

// PickupWindow is the time range the sender is available for collection.
type PickupWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w PickupWindow) validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return errs.NewValueIsRequiredError("pickup window bounds")
	}
	if !w.End.After(w.Start) {
		return errs.NewValueIsInvalidErrorWithCause("pickup window", errors.New("end must be after start"))
	}
	return nil
}

// ProofOfDelivery is captured once, when the packet is handed over.
// Both fields may be empty for deliveries confirmed by proximity.
type ProofOfDelivery struct {
	SignatureBase64 string
	NationalID      string
}

// CityOf extracts the city from an address: its last comma-separated segment, trimmed.
//
//	CityOf("Area 47, Sector 3, Lilongwe") == "Lilongwe"
func CityOf(address string) string {
	parts := strings.Split(address, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

// SameCity compares two city names ignoring case and surrounding blanks.
func SameCity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
