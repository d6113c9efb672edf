package ws

import (
	"encoding/json"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
)

// Inbound message types sent by agents.
const (
	MessageUpdateLocation     = "update_location"
	MessagePacketStatusUpdate = "packet_status_update"
)

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type locationData struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type packetStatusData struct {
	PacketID        string   `json:"packetId"`
	Status          string   `json:"status"`
	Weight          *float64 `json:"weight,omitempty"`
	SignatureBase64 string   `json:"signature,omitempty"`
	NationalID      string   `json:"nationalId,omitempty"`
}

// statusAck confirms an agent's status report.
type statusAck struct {
	PacketID     kernel.UUID   `json:"packetId"`
	TrackingCode string        `json:"trackingCode"`
	Status       packet.Status `json:"status"`
}
