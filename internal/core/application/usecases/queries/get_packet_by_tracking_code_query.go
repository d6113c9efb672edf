package queries

import (
	"errors"
	"strings"
	"time"

	"courier/internal/core/domain/model/packet"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/guard"
)

var ErrGetPacketByTrackingCodeQueryIsNotConstructed = errors.New(
	"GetPacketByTrackingCodeQuery must be created via NewGetPacketByTrackingCodeQuery constructor",
)

// GetPacketByTrackingCodeQuery is the public tracking lookup.
type GetPacketByTrackingCodeQuery struct {
	code  string
	guard guard.ConstructorGuard
}

// NewGetPacketByTrackingCodeQuery normalises the code to upper case.
func NewGetPacketByTrackingCodeQuery(code string) (GetPacketByTrackingCodeQuery, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return GetPacketByTrackingCodeQuery{}, errs.NewValueIsRequiredError("tracking code")
	}
	return GetPacketByTrackingCodeQuery{code: code, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPacketByTrackingCodeQuery) Code() string {
	return q.code
}

func (q GetPacketByTrackingCodeQuery) Validate() error {
	return q.guard.Validate(ErrGetPacketByTrackingCodeQueryIsNotConstructed)
}

// TrackingView is what a sender or receiver sees: where the packet is and when it got there.
type TrackingView struct {
	TrackingCode    string          `json:"trackingCode"`
	Status          packet.Status   `json:"status"`
	OriginCity      string          `json:"originCity"`
	DestinationCity string          `json:"destinationCity"`
	Mode            string          `json:"mode"`
	IsPaid          bool            `json:"isPaid"`
	History         []TrackingEntry `json:"history"`
}

type TrackingEntry struct {
	Status packet.Status `json:"status"`
	At     time.Time     `json:"at"`
}
