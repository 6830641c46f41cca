// Package repository defines the roster and resolution store interfaces.
package repository

import (
	"context"

	"github.com/pilon/fantasygrid/internal/domain/model"
)

// Roster provides read/write access to the local player records that the
// matcher draws candidates from. The store owns the coarse status/position
// filtering; name relevance is entirely the matcher's concern.
type Roster interface {
	// Upsert inserts or replaces a player record.
	Upsert(ctx context.Context, c model.Candidate) error

	// Get returns one player by id. Returns ErrNotFound if unknown.
	Get(ctx context.Context, id string) (model.Candidate, error)

	// Remove deletes a player by id. Returns ErrNotFound if unknown.
	Remove(ctx context.Context, id string) error

	// Candidates returns active players, filtered by position unless
	// pos is model.PositionAny.
	Candidates(ctx context.Context, pos model.Position) ([]model.Candidate, error)

	// Count returns the number of players tracked, active or not.
	Count(ctx context.Context) int
}

// Resolutions records the outcome of each processed import request.
type Resolutions interface {
	// Put stores a resolution, replacing any previous one for the same id.
	Put(ctx context.Context, res model.Resolution) error

	// Get returns the resolution for an import id.
	// Returns ErrNotFound while the import is pending or unknown.
	Get(ctx context.Context, importID string) (model.Resolution, error)

	// Count returns the number of stored resolutions.
	Count(ctx context.Context) int
}
