// Package workspace holds the process-wide mosaic state: the live tile
// collection, the serial-number counter, the undo ledger, and the overlap
// resolver, together with the drag-gesture state machine that drives
// placement.
package workspace

import (
	"fmt"
	"image/color"
	"sort"
	"sync"

	"tessera/internal/overlap"
	"tessera/internal/placer"
	"tessera/internal/raster"
	"tessera/internal/tile"
	"tessera/internal/undo"
	"tessera/pkg/geometry"
)

// EventType identifies workspace events.
type EventType int

const (
	EventTilesAdded EventType = iota
	EventTilesRemoved
	EventTilesChanged
	EventCleared
	EventUndone
	EventOverlapsChanged
	EventBackgroundChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Workspace is the single mutable container every operation flows through.
// Serial numbers are strictly increasing and never reused, even across
// deletion and undo.
type Workspace struct {
	mu sync.RWMutex

	tiles      map[uint64]*tile.Tile
	order      []uint64 // creation order of live tiles
	nextSerial uint64

	ledger   *undo.Ledger
	resolver *overlap.Resolver

	opts       placer.Options
	background raster.Background

	stroke  []geometry.Point2D
	drawing bool

	listeners map[EventType][]EventListener
}

// New creates an empty workspace with the given placement settings.
func New(opts placer.Options) *Workspace {
	return &Workspace{
		tiles:      make(map[uint64]*tile.Tile),
		nextSerial: 1,
		ledger:     undo.NewLedger(),
		resolver:   overlap.NewResolver(),
		opts:       opts,
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (w *Workspace) On(event EventType, listener EventListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners[event] = append(w.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (w *Workspace) Emit(event EventType, data interface{}) {
	w.mu.RLock()
	listeners := w.listeners[event]
	w.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Options returns the current placement settings.
func (w *Workspace) Options() placer.Options {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.opts
}

// SetOptions installs new placement settings.
func (w *Workspace) SetOptions(opts placer.Options) {
	w.mu.Lock()
	w.opts = opts
	w.mu.Unlock()
}

// SetBackground installs the background collaborator used for color sampling.
func (w *Workspace) SetBackground(bg raster.Background) {
	w.mu.Lock()
	w.background = bg
	w.mu.Unlock()
	w.Emit(EventBackgroundChanged, bg)
}

// Background returns the installed background surface, or nil.
func (w *Workspace) Background() raster.Background {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.background
}

// Tiles returns the live tiles in creation order.
func (w *Workspace) Tiles() []*tile.Tile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tilesLocked()
}

// Count returns the number of live tiles.
func (w *Workspace) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.tiles)
}

// Find returns the live tile with the given serial number.
func (w *Workspace) Find(serial uint64) (*tile.Tile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.tiles[serial]
	return t, ok
}

// TileAt returns the newest tile whose rotated outline contains the point.
func (w *Workspace) TileAt(p geometry.Point2D) (*tile.Tile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	tiles := w.tilesLocked()
	for i := len(tiles) - 1; i >= 0; i-- {
		if tiles[i].Contains(p) {
			return tiles[i], true
		}
	}
	return nil, false
}

// NextSerial returns the serial number the next created tile will receive.
func (w *Workspace) NextSerial() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.nextSerial
}

// Classify returns the overlap state of a tile.
func (w *Workspace) Classify(t *tile.Tile) overlap.State {
	return w.resolver.Classify(t)
}

// SuspendOverlap enters a suppress-recompute scope for bulk insertion or a
// view transform in progress. Classifications are recomputed once when the
// returned resume function runs.
func (w *Workspace) SuspendOverlap() func() {
	resume := w.resolver.Suspend()
	var once sync.Once
	return func() {
		once.Do(func() {
			resume()
			w.resolver.RecomputeAll()
			w.Emit(EventOverlapsChanged, nil)
		})
	}
}

// AddRectangleAt creates one full-size rectangle tile centered on the point.
// The add is one undo batch.
func (w *Workspace) AddRectangleAt(center geometry.Point2D) *tile.Tile {
	size := w.Options().TileSize
	t := tile.NewRectangle(center.X-size/2, center.Y-size/2, size, size)
	w.adopt([]*tile.Tile{t}, "add rectangle")
	return t
}

// AddHalfRectangleAt creates one half-height rectangle centered on the point.
func (w *Workspace) AddHalfRectangleAt(center geometry.Point2D) *tile.Tile {
	size := w.Options().TileSize
	t := tile.NewRectangle(center.X-size/2, center.Y-size/4, size, size/2)
	w.adopt([]*tile.Tile{t}, "add half rectangle")
	return t
}

// AddTriangleAt creates one right-triangle tile centered on the point.
func (w *Workspace) AddTriangleAt(center geometry.Point2D) *tile.Tile {
	size := w.Options().TileSize
	t := tile.NewTriangle(center.X-size/2, center.Y-size/2, size)
	w.adopt([]*tile.Tile{t}, "add triangle")
	return t
}

// PlaceRing places the ring composite around the point as one batch.
func (w *Workspace) PlaceRing(center geometry.Point2D) []*tile.Tile {
	p := placer.New(w.Options(), w.Tiles())
	created := p.Ring(center)
	w.adopt(created, "ring")
	return created
}

// EraseAt removes every tile whose outline contains the point. The removal
// is one undo batch; erasing empty space is a no-op.
func (w *Workspace) EraseAt(p geometry.Point2D) int {
	w.mu.Lock()
	var hit []*tile.Tile
	for _, t := range w.tilesLocked() {
		if t.Contains(p) {
			hit = append(hit, t)
		}
	}
	w.removeLocked(hit)
	w.mu.Unlock()

	if len(hit) > 0 {
		w.ledger.Record(undo.BatchDestroy, hit, "erase")
		w.Emit(EventTilesRemoved, hit)
	}
	return len(hit)
}

// MoveTile repositions a tile's center. Overlap classifications are
// invalidated but the move itself is not an undo batch, matching the
// interactive tool.
func (w *Workspace) MoveTile(serial uint64, center geometry.Point2D) error {
	w.mu.Lock()
	t, ok := w.tiles[serial]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("no tile with serial %d", serial)
	}
	t.MoveTo(center)
	w.mu.Unlock()

	w.resolver.Invalidate()
	w.Emit(EventTilesChanged, []*tile.Tile{t})
	return nil
}

// RotateTile nudges a tile's rotation by one degree, clockwise or not,
// clamped to the configured angle limit.
func (w *Workspace) RotateTile(serial uint64, clockwise bool) error {
	w.mu.Lock()
	t, ok := w.tiles[serial]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("no tile with serial %d", serial)
	}
	step := 1.0
	if !clockwise {
		step = -1.0
	}
	t.Rotation = clampRotation(t.Rotation+step, w.opts.AngleLimit)
	w.mu.Unlock()

	w.resolver.Invalidate()
	w.Emit(EventTilesChanged, []*tile.Tile{t})
	return nil
}

// FillTile samples the average background color under the tile and fills it.
func (w *Workspace) FillTile(serial uint64) error {
	w.mu.RLock()
	t, ok := w.tiles[serial]
	bg := w.background
	w.mu.RUnlock()

	if !ok {
		return fmt.Errorf("no tile with serial %d", serial)
	}
	if bg == nil {
		return fmt.Errorf("no background to sample")
	}
	c, ok := raster.AverageColor(bg, t.Bounds())
	if !ok {
		return fmt.Errorf("tile %d lies outside the background", serial)
	}
	t.Fill(c)
	w.Emit(EventTilesChanged, []*tile.Tile{t})
	return nil
}

// FillTileWith fills a tile with an explicit color.
func (w *Workspace) FillTileWith(serial uint64, c color.RGBA) error {
	w.mu.RLock()
	t, ok := w.tiles[serial]
	w.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no tile with serial %d", serial)
	}
	t.Fill(c)
	w.Emit(EventTilesChanged, []*tile.Tile{t})
	return nil
}

// DeleteNewer removes every tile classified as the newer side of a collision.
func (w *Workspace) DeleteNewer() int {
	return w.deleteSelected(w.resolver.Newer(), "delete newer overlaps")
}

// DeleteOlder removes every tile classified as the older side of a collision.
func (w *Workspace) DeleteOlder() int {
	return w.deleteSelected(w.resolver.Older(), "delete older overlaps")
}

// AutoCleanup removes the newer tile of colliding pairs until no collisions
// remain, reporting how many tiles went.
func (w *Workspace) AutoCleanup() int {
	return w.deleteSelected(w.resolver.CleanupVictims(), "auto cleanup")
}

// Clear removes every tile as a single undoable batch. The serial counter
// keeps advancing; cleared serials are never reissued.
func (w *Workspace) Clear() int {
	w.mu.Lock()
	cleared := w.tilesLocked()
	w.removeLocked(cleared)
	w.mu.Unlock()

	if len(cleared) > 0 {
		w.ledger.Record(undo.BatchDestroy, cleared, "clear all")
		w.Emit(EventCleared, cleared)
	}
	return len(cleared)
}

// Undo reverses the most recent batch. ok is false when there is nothing to
// undo; the returned message describes what happened either way.
func (w *Workspace) Undo() (string, bool) {
	batch, ok := w.ledger.Pop()
	if !ok {
		return "nothing to undo", false
	}

	w.mu.Lock()
	switch batch.Kind {
	case undo.BatchCreate:
		w.removeLocked(batch.Tiles)
	case undo.BatchDestroy:
		w.reinsertLocked(batch.Tiles)
	}
	w.mu.Unlock()

	w.resolver.RecomputeAll()
	w.Emit(EventUndone, batch)

	verb := "removed"
	if batch.Kind == undo.BatchDestroy {
		verb = "restored"
	}
	return fmt.Sprintf("undid %s: %s %d tiles", batch.Label, verb, len(batch.Tiles)), true
}

// UndoDepth returns the number of undoable batches.
func (w *Workspace) UndoDepth() int {
	return w.ledger.Len()
}

// AdoptTiles inserts imported tiles, preserving their serial numbers, and
// advances the serial counter past the largest imported value so future
// tiles cannot collide. The import is one undo batch.
func (w *Workspace) AdoptTiles(tiles []*tile.Tile) {
	if len(tiles) == 0 {
		return
	}

	resume := w.resolver.Suspend()
	w.mu.Lock()
	w.reinsertLocked(tiles)
	for _, t := range tiles {
		if t.Serial >= w.nextSerial {
			w.nextSerial = t.Serial + 1
		}
	}
	w.mu.Unlock()
	resume()
	w.resolver.RecomputeAll()

	w.ledger.Record(undo.BatchCreate, tiles, "import")
	w.Emit(EventTilesAdded, tiles)
}

// adopt assigns fresh serials to newly created tiles in order, inserts them,
// and records one create batch. Overlap recomputation is suppressed for the
// duration of the insertion.
func (w *Workspace) adopt(tiles []*tile.Tile, label string) {
	if len(tiles) == 0 {
		return
	}

	resume := w.resolver.Suspend()
	w.mu.Lock()
	for _, t := range tiles {
		t.Serial = w.nextSerial
		w.nextSerial++
		w.tiles[t.Serial] = t
		w.order = append(w.order, t.Serial)
	}
	w.mu.Unlock()
	w.resolver.Add(tiles...)
	resume()
	w.resolver.RecomputeAll()

	w.ledger.Record(undo.BatchCreate, tiles, label)
	w.Emit(EventTilesAdded, tiles)
}

func (w *Workspace) deleteSelected(victims []*tile.Tile, label string) int {
	if len(victims) == 0 {
		return 0
	}

	w.mu.Lock()
	w.removeLocked(victims)
	w.mu.Unlock()
	w.resolver.RecomputeAll()

	w.ledger.Record(undo.BatchDestroy, victims, label)
	w.Emit(EventTilesRemoved, victims)
	return len(victims)
}

// removeLocked deletes tiles from the live set. Caller holds the lock.
func (w *Workspace) removeLocked(victims []*tile.Tile) {
	if len(victims) == 0 {
		return
	}
	for _, t := range victims {
		delete(w.tiles, t.Serial)
	}
	w.rebuildOrderLocked()
	w.resolver.Remove(victims...)
}

// reinsertLocked restores tiles that keep their original serial numbers.
// Caller holds the lock.
func (w *Workspace) reinsertLocked(tiles []*tile.Tile) {
	for _, t := range tiles {
		if _, exists := w.tiles[t.Serial]; exists {
			continue
		}
		w.tiles[t.Serial] = t
		w.order = append(w.order, t.Serial)
	}
	w.rebuildOrderLocked()
	w.resolver.Add(tiles...)
}

func (w *Workspace) rebuildOrderLocked() {
	w.order = w.order[:0]
	for serial := range w.tiles {
		w.order = append(w.order, serial)
	}
	sort.Slice(w.order, func(i, j int) bool { return w.order[i] < w.order[j] })
}

func (w *Workspace) tilesLocked() []*tile.Tile {
	out := make([]*tile.Tile, 0, len(w.order))
	for _, serial := range w.order {
		if t, ok := w.tiles[serial]; ok {
			out = append(out, t)
		}
	}
	return out
}

// clampRotation bounds manual rotation the same way placement angles are
// bounded. With no configured limit the interactive tool's +/-45 applies.
func clampRotation(degrees, limit float64) float64 {
	if limit <= 0 {
		limit = 45
	}
	if degrees > limit {
		return limit
	}
	if degrees < -limit {
		return -limit
	}
	return degrees
}
