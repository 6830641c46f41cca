// Package model contains domain models passed between layers.
package model

import "time"

// Position is the short roster-slot code for a player.
type Position string

// Roster position codes.
const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"

	// PositionAny disables position filtering when passed to a candidate source.
	PositionAny Position = ""
)

// Status marks whether a player is eligible for matching.
type Status string

// Player statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Candidate is a read-only projection of a player record available for
// name matching. DisplayName is never empty for stored candidates; the
// ID is an opaque stable key and never participates in scoring.
type Candidate struct {
	ID          string
	DisplayName string
	Position    Position
	Team        string
	Status      Status
}

// ImportRequest is one roster-import entry awaiting resolution: a player
// label as rendered by a third-party fantasy platform, to be matched
// against the local roster without human review.
type ImportRequest struct {
	ImportID string    // unique id for idempotency
	Label    string    // platform display label, e.g. "P. Mahomes Jr."
	Position Position  // optional coarse filter, PositionAny to disable
	TS       time.Time // submission timestamp
}

// Resolution captures the recorded outcome of one import request.
type Resolution struct {
	ImportID   string
	Label      string
	Outcome    string // "matched", "low_confidence", or "no_match"
	PlayerID   string // set when a candidate was found (matched or low_confidence)
	PlayerName string
	Score      int
	ResolvedAt time.Time
}
