package entity

import "github.com/ridesim/ridesim/sim/spatial"

// RiderState is the closed set of rider lifecycle states (spec §3).
type RiderState int

const (
	RiderBrowsing RiderState = iota
	RiderWaiting
	RiderInTransit
	RiderCompleted
	RiderCancelled
)

// StateCode returns the stable integer code used in exported snapshots
// (spec §6: rider state codes).
func (s RiderState) StateCode() int { return int(s) }

func (s RiderState) String() string {
	switch s {
	case RiderBrowsing:
		return "Browsing"
	case RiderWaiting:
		return "Waiting"
	case RiderInTransit:
		return "InTransit"
	case RiderCompleted:
		return "Completed"
	case RiderCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// QuoteRejectionReason records why a rider last rejected a quote.
type QuoteRejectionReason int

const (
	RejectionNone QuoteRejectionReason = iota
	RejectionPriceTooHigh
	RejectionEtaTooLong
	RejectionStochastic
)

// Rider is a rider entity (spec §3): pickup cell, destination, the
// lifecycle state machine, and a weak reference to the driver it is
// matched with, if any.
type Rider struct {
	ID              ID
	State           RiderState
	PickupCell      spatial.CellID
	DestinationCell spatial.CellID
	RequestedAt     uint64
	MatchedDriver   Ref // weak; cleared on rejection/cancellation
	QuoteRejections int
	LastRejection   QuoteRejectionReason
	AcceptedFare    float64

	// PendingFare/PendingEtaMs/PendingSurge hold the most recent RiderQuote
	// attached by ShowQuote (spec §4.8 step 3), consumed by QuoteDecision.
	PendingFare  float64
	PendingEtaMs uint64
	PendingSurge float64
}
