// Package undo records batches of tile creation and destruction and plays
// the most recent batch back on request.
package undo

import "tessera/internal/tile"

// BatchKind says whether a batch created or destroyed its tiles.
type BatchKind int

const (
	// BatchCreate marks tiles that were added to the workspace.
	BatchCreate BatchKind = iota
	// BatchDestroy marks tiles that were removed from the workspace.
	BatchDestroy
)

func (k BatchKind) String() string {
	if k == BatchDestroy {
		return "destroy"
	}
	return "create"
}

// Batch is the unit of undo: one user gesture's worth of tile changes.
// Tiles are held by reference so a reversed destroy-set reinserts the exact
// originals, serial numbers included.
type Batch struct {
	Kind  BatchKind
	Tiles []*tile.Tile
	Label string
}

// Capacity is the maximum number of batches the ledger retains.
const Capacity = 10

// Ledger is a bounded stack of batches. Pushing past capacity discards the
// oldest entry. Batches are never merged.
type Ledger struct {
	batches []Batch
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record pushes a batch. Empty batches are ignored so no-op gestures do not
// consume undo slots.
func (l *Ledger) Record(kind BatchKind, tiles []*tile.Tile, label string) {
	if len(tiles) == 0 {
		return
	}
	copied := make([]*tile.Tile, len(tiles))
	copy(copied, tiles)

	if len(l.batches) >= Capacity {
		l.batches = l.batches[1:]
	}
	l.batches = append(l.batches, Batch{Kind: kind, Tiles: copied, Label: label})
}

// Pop removes and returns the most recent batch. ok is false when there is
// nothing to undo.
func (l *Ledger) Pop() (Batch, bool) {
	if len(l.batches) == 0 {
		return Batch{}, false
	}
	b := l.batches[len(l.batches)-1]
	l.batches = l.batches[:len(l.batches)-1]
	return b, true
}

// Len returns the number of recorded batches.
func (l *Ledger) Len() int {
	return len(l.batches)
}

// Clear drops every recorded batch.
func (l *Ledger) Clear() {
	l.batches = nil
}
