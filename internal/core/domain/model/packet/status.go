package packet

import (
	"fmt"

	"courier/internal/pkg/errs"
)

// Status is the position of a packet in its lifecycle. Persisted and rendered by name.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Collected
	AtOriginHub
	InTransit
	AtDestinationHub
	OutForDelivery
	Delivered
	Received
)

var statusNames = map[Status]string{
	Pending:          "pending",
	Collected:        "collected",
	AtOriginHub:      "at_origin_hub",
	InTransit:        "in_transit",
	AtDestinationHub: "at_destination_hub",
	OutForDelivery:   "out_for_delivery",
	Delivered:        "delivered",
	Received:         "received",
}

// ParseStatus converts a status name such as "at_origin_hub" to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values, e.g. ones read back from storage.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsBefore reports whether s precedes other on the lifecycle chain.
func (s Status) IsBefore(other Status) bool {
	return s < other
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
