// Package packet implements the Packet aggregate: a tracked shipment moving through the
// courier network, and the lifecycle state machine that governs it.
//
// Lifecycle (linear, forward only):
//
//	pending -> collected -> at_origin_hub -> in_transit -> at_destination_hub
//	        -> out_for_delivery -> delivered -> received
//
// Every transition has exactly one legal predecessor. Firing a transition from any other
// state fails with errs.ConflictError, so a transition can neither be skipped nor applied
// twice. The admin "picked" hand-off is the one deliberate shortcut: it moves a packet
// straight to delivered from any state before delivered.
//
// Payment (IsPaid) is orthogonal to the lifecycle.
//
// Packets reference agents, drivers and vehicles by kernel.UUID only.
package packet
