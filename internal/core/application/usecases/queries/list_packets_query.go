package queries

import (
	"errors"
	"strings"

	"courier/internal/core/domain/model/packet"
	"courier/internal/pkg/guard"
)

var ErrListPacketsQueryIsNotConstructed = errors.New(
	"ListPacketsQuery must be created via NewListPacketsQuery constructor",
)

// ListPacketsQuery filters packets by status and city. Both filters are optional.
//
// The city is matched against the side of the journey the packet is on: the origin city
// until the packet leaves the origin hub, the destination city afterwards. Without a
// status filter either city matches.
type ListPacketsQuery struct {
	status *packet.Status
	city   string
	guard  guard.ConstructorGuard
}

// NewListPacketsQuery parses status; an empty string means any status.
func NewListPacketsQuery(status, city string) (ListPacketsQuery, error) {
	q := ListPacketsQuery{
		city:  strings.TrimSpace(city),
		guard: guard.NewConstructorGuard(),
	}
	if status = strings.TrimSpace(status); status != "" {
		s, err := packet.ParseStatus(status)
		if err != nil {
			return ListPacketsQuery{}, err
		}
		q.status = &s
	}
	return q, nil
}

func (q ListPacketsQuery) Status() *packet.Status {
	return q.status
}

func (q ListPacketsQuery) City() string {
	return q.city
}

func (q ListPacketsQuery) Validate() error {
	return q.guard.Validate(ErrListPacketsQueryIsNotConstructed)
}

type PacketSummary struct {
	ID                 string        `json:"id"`
	TrackingCode       string        `json:"trackingCode"`
	Status             packet.Status `json:"status"`
	Weight             float64       `json:"weight"`
	OriginCity         string        `json:"originCity"`
	DestinationCity    string        `json:"destinationCity"`
	DestinationAddress string        `json:"destinationAddress"`
	Mode               string        `json:"mode"`
	VehicleID          *string       `json:"vehicleId,omitempty"`
	IsPaid             bool          `json:"isPaid"`
}
