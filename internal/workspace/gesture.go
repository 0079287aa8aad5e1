package workspace

import (
	"fmt"

	"tessera/internal/placer"
	"tessera/internal/tile"
	"tessera/pkg/geometry"
)

// The drag gesture is an explicit two-state machine: Idle until BeginStroke,
// Drawing until FinishStroke. Finish runs the whole placement pipeline
// synchronously before returning.

// BeginStroke starts a drag gesture at the given point.
func (w *Workspace) BeginStroke(p geometry.Point2D) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.drawing {
		return fmt.Errorf("stroke already in progress")
	}
	w.drawing = true
	w.stroke = []geometry.Point2D{p}
	return nil
}

// ExtendStroke appends a drag point to the gesture in progress.
func (w *Workspace) ExtendStroke(p geometry.Point2D) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.drawing {
		return fmt.Errorf("no stroke in progress")
	}
	w.stroke = append(w.stroke, p)
	return nil
}

// Drawing reports whether a stroke is in progress.
func (w *Workspace) Drawing() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.drawing
}

// FinishStroke ends the gesture and synchronously converts the collected
// points into tiles: smooth, place per mode, reclassify overlaps, and record
// one undo batch. Strokes too short to place anything finish cleanly with no
// tiles and consume no undo slot.
func (w *Workspace) FinishStroke(mode placer.Mode) []*tile.Tile {
	w.mu.Lock()
	if !w.drawing {
		w.mu.Unlock()
		return nil
	}
	w.drawing = false
	stroke := w.stroke
	w.stroke = nil
	opts := w.opts
	w.mu.Unlock()

	if len(stroke) < 2 {
		return nil
	}

	var existing []*tile.Tile
	if opts.AvoidCollisions {
		existing = w.Tiles()
	}

	created := placer.New(opts, existing).AlongPath(stroke, mode)
	w.adopt(created, mode.String()+" stroke")
	return created
}

// CancelStroke abandons the gesture in progress without placing tiles.
func (w *Workspace) CancelStroke() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drawing = false
	w.stroke = nil
}
