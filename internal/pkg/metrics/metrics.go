// Package metrics declares the Prometheus collectors of the dispatch and tracking core.
// Collectors are registered on the default registry and served by the HTTP adapter at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Trigger sources for PacketTransitionsTotal.
const (
	SourceAPI       = "api"
	SourceProximity = "proximity"
	SourceSocket    = "socket"
)

var (
	// PacketTransitionsTotal counts lifecycle operations by name, trigger source and outcome.
	// outcome: applied, conflict, rejected, failed
	PacketTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_packet_transitions_total",
			Help: "Packet lifecycle operations by transition, source and outcome.",
		},
		[]string{"transition", "source", "outcome"},
	)

	// ProximityChecksTotal counts packets evaluated by the proximity engine, split by waypoint
	// kind (origin/destination) and whether the agent was inside the threshold.
	ProximityChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_proximity_checks_total",
			Help: "Packets evaluated against an agent location sample.",
		},
		[]string{"waypoint", "within"},
	)

	// ConnectedAgents is the number of agents currently present in the registry.
	ConnectedAgents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "courier_connected_agents",
			Help: "Agents with a live tracking session.",
		},
	)

	// DispatchedBatchSize observes how many packets leave a hub per dispatch operation.
	DispatchedBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courier_dispatch_batch_packets",
			Help:    "Packets moved to in_transit per dispatch operation.",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	// VehicleLoadRatio observes current_load/capacity after every successful allocation.
	VehicleLoadRatio = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courier_vehicle_load_ratio",
			Help:    "Vehicle load divided by capacity after an assignment.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(
		PacketTransitionsTotal,
		ProximityChecksTotal,
		ConnectedAgents,
		DispatchedBatchSize,
		VehicleLoadRatio,
	)
}
