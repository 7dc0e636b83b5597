// Package storage defines the persistence contracts for the event log.
package storage

import (
	"context"
	"errors"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// EventStore persists the append-only world log and its snapshots.
//
// The log is totally ordered: Append assigns contiguous, monotonic sequence
// numbers and either persists a whole batch or nothing.
type EventStore interface {
	// Append atomically appends a batch and returns it with sequences set.
	Append(ctx context.Context, events []event.Event) ([]event.Event, error)
	// ReadFrom yields up to limit events with sequence greater than afterSeq,
	// in sequence order.
	ReadFrom(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error)
	// LastSeq returns the highest assigned sequence, zero for an empty log.
	LastSeq(ctx context.Context) (uint64, error)
	// SaveSnapshot stores a compact world encoding covering the log up to and
	// including seq.
	SaveSnapshot(ctx context.Context, seq uint64, blob []byte) error
	// LoadSnapshot returns the most recent snapshot, or ErrNotFound.
	LoadSnapshot(ctx context.Context) (uint64, []byte, error)
	// Reset clears the log and all snapshots.
	Reset(ctx context.Context) error
	// Close releases the underlying store.
	Close() error
}
