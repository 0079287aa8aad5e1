package workspace

import (
	"image/color"
	"strings"
	"testing"

	"tessera/internal/placer"
	"tessera/internal/raster"
	"tessera/internal/tile"
	"tessera/pkg/colorutil"
	"tessera/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func newTestWorkspace() *Workspace {
	opts := placer.DefaultOptions()
	opts.TileSize = 10
	opts.SpacingMultiplier = 1.0
	return New(opts)
}

func TestAddAssignsSerials(t *testing.T) {
	w := newTestWorkspace()
	a := w.AddRectangleAt(pt(0, 0))
	b := w.AddTriangleAt(pt(100, 100))

	if a.Serial != 1 || b.Serial != 2 {
		t.Errorf("serials = %d, %d, want 1, 2", a.Serial, b.Serial)
	}
	if w.NextSerial() != 3 {
		t.Errorf("NextSerial() = %d, want 3", w.NextSerial())
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
}

func TestSerialsNeverReused(t *testing.T) {
	w := newTestWorkspace()
	w.AddRectangleAt(pt(0, 0))
	w.AddRectangleAt(pt(50, 0))
	w.Clear()

	c := w.AddRectangleAt(pt(100, 0))
	if c.Serial != 3 {
		t.Errorf("serial after clear = %d, want 3", c.Serial)
	}

	if _, ok := w.Undo(); !ok { // restores the add of c
		t.Fatal("undo failed")
	}
	if _, ok := w.Undo(); !ok { // restores the cleared tiles
		t.Fatal("undo failed")
	}
	d := w.AddRectangleAt(pt(150, 0))
	if d.Serial != 4 {
		t.Errorf("serial after undos = %d, want 4", d.Serial)
	}
}

func TestAddShapes(t *testing.T) {
	w := newTestWorkspace()

	r := w.AddRectangleAt(pt(50, 50))
	if r.Width != 10 || r.Height != 10 || r.Center() != pt(50, 50) {
		t.Errorf("rectangle %gx%g at %v", r.Width, r.Height, r.Center())
	}

	h := w.AddHalfRectangleAt(pt(50, 50))
	if h.Width != 10 || h.Height != 5 || h.Center() != pt(50, 50) {
		t.Errorf("half rectangle %gx%g at %v", h.Width, h.Height, h.Center())
	}

	tr := w.AddTriangleAt(pt(50, 50))
	if tr.Kind != tile.KindTriangle || tr.Width != 10 {
		t.Errorf("triangle kind=%v size=%g", tr.Kind, tr.Width)
	}
}

func TestTilesInCreationOrder(t *testing.T) {
	w := newTestWorkspace()
	w.AddRectangleAt(pt(0, 0))
	w.AddRectangleAt(pt(50, 0))
	w.AddRectangleAt(pt(100, 0))

	tiles := w.Tiles()
	for i, tl := range tiles {
		if tl.Serial != uint64(i+1) {
			t.Errorf("position %d holds serial %d", i, tl.Serial)
		}
	}
}

func TestTileAtPicksNewest(t *testing.T) {
	w := newTestWorkspace()
	w.AddRectangleAt(pt(50, 50))
	top := w.AddRectangleAt(pt(52, 52))

	got, ok := w.TileAt(pt(51, 51))
	if !ok || got.Serial != top.Serial {
		t.Errorf("TileAt = serial %d, want newest %d", got.Serial, top.Serial)
	}

	if _, ok := w.TileAt(pt(500, 500)); ok {
		t.Error("TileAt on empty space reported a hit")
	}
}

func TestEraseAt(t *testing.T) {
	w := newTestWorkspace()
	w.AddRectangleAt(pt(50, 50))
	w.AddRectangleAt(pt(52, 52))
	w.AddRectangleAt(pt(200, 200))

	if got := w.EraseAt(pt(51, 51)); got != 2 {
		t.Errorf("EraseAt removed %d tiles, want 2", got)
	}
	if w.Count() != 1 {
		t.Errorf("Count() = %d, want 1", w.Count())
	}

	// Erasing empty space is a no-op and consumes no undo slot.
	depth := w.UndoDepth()
	if got := w.EraseAt(pt(500, 500)); got != 0 {
		t.Errorf("EraseAt on empty space removed %d", got)
	}
	if w.UndoDepth() != depth {
		t.Error("no-op erase consumed an undo slot")
	}

	// One undo restores both erased tiles.
	if _, ok := w.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if w.Count() != 3 {
		t.Errorf("Count() after undo = %d, want 3", w.Count())
	}
}

func TestUndoRemovesCreatedBatch(t *testing.T) {
	w := newTestWorkspace()
	w.AddRectangleAt(pt(0, 0))
	kept := w.AddRectangleAt(pt(100, 0))
	_ = kept

	msg, ok := w.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if !strings.Contains(msg, "removed 1 tiles") {
		t.Errorf("undo message = %q", msg)
	}
	if w.Count() != 1 {
		t.Errorf("Count() = %d, want 1", w.Count())
	}
	if _, found := w.Find(2); found {
		t.Error("undone tile still present")
	}
}

func TestUndoEmpty(t *testing.T) {
	w := newTestWorkspace()
	msg, ok := w.Undo()
	if ok {
		t.Error("undo on empty history reported ok")
	}
	if msg != "nothing to undo" {
		t.Errorf("message = %q", msg)
	}
}

func TestClearIsUndoable(t *testing.T) {
	w := newTestWorkspace()
	w.AddRectangleAt(pt(0, 0))
	w.AddRectangleAt(pt(50, 0))

	if got := w.Clear(); got != 2 {
		t.Errorf("Clear removed %d, want 2", got)
	}
	if w.Count() != 0 {
		t.Errorf("Count() after clear = %d", w.Count())
	}

	msg, ok := w.Undo()
	if !ok || !strings.Contains(msg, "restored 2 tiles") {
		t.Errorf("undo = %q, %v", msg, ok)
	}
	if w.Count() != 2 {
		t.Errorf("Count() after undo = %d, want 2", w.Count())
	}

	// Restored tiles keep their original serials.
	if _, found := w.Find(1); !found {
		t.Error("serial 1 not restored")
	}
}

func TestClearEmptyConsumesNoUndo(t *testing.T) {
	w := newTestWorkspace()
	if got := w.Clear(); got != 0 {
		t.Errorf("Clear on empty workspace = %d", got)
	}
	if w.UndoDepth() != 0 {
		t.Error("empty clear consumed an undo slot")
	}
}

func TestMoveTile(t *testing.T) {
	w := newTestWorkspace()
	tl := w.AddRectangleAt(pt(50, 50))
	depth := w.UndoDepth()

	if err := w.MoveTile(tl.Serial, pt(80, 90)); err != nil {
		t.Fatalf("MoveTile: %v", err)
	}
	if tl.Center() != pt(80, 90) {
		t.Errorf("center after move = %v", tl.Center())
	}
	if w.UndoDepth() != depth {
		t.Error("move must not be undoable")
	}

	if err := w.MoveTile(999, pt(0, 0)); err == nil {
		t.Error("moving a missing tile should fail")
	}
}

func TestRotateTileClamped(t *testing.T) {
	w := newTestWorkspace()
	tl := w.AddRectangleAt(pt(50, 50))

	if err := w.RotateTile(tl.Serial, true); err != nil {
		t.Fatalf("RotateTile: %v", err)
	}
	if tl.Rotation != 1 {
		t.Errorf("rotation = %g, want 1", tl.Rotation)
	}

	w.RotateTile(tl.Serial, false)
	w.RotateTile(tl.Serial, false)
	if tl.Rotation != -1 {
		t.Errorf("rotation = %g, want -1", tl.Rotation)
	}

	// Default limit is +/-45.
	for i := 0; i < 100; i++ {
		w.RotateTile(tl.Serial, true)
	}
	if tl.Rotation != 45 {
		t.Errorf("rotation = %g, want clamped at 45", tl.Rotation)
	}

	if err := w.RotateTile(999, true); err == nil {
		t.Error("rotating a missing tile should fail")
	}
}

func TestOverlapLifecycle(t *testing.T) {
	w := newTestWorkspace()
	older := w.AddRectangleAt(pt(50, 50))
	newer := w.AddRectangleAt(pt(55, 50))

	if got := w.Classify(newer); !got.Overlapping || !got.Newer {
		t.Errorf("newer state = %+v", got)
	}
	if got := w.Classify(older); !got.Overlapping || !got.Older {
		t.Errorf("older state = %+v", got)
	}

	// Moving the newer tile away resolves the collision.
	if err := w.MoveTile(newer.Serial, pt(200, 200)); err != nil {
		t.Fatal(err)
	}
	if got := w.Classify(newer); got.Overlapping {
		t.Errorf("state after move = %+v, want clean", got)
	}
}

func TestDeleteNewer(t *testing.T) {
	w := newTestWorkspace()
	older := w.AddRectangleAt(pt(50, 50))
	w.AddRectangleAt(pt(55, 50))
	w.AddRectangleAt(pt(300, 300))

	if got := w.DeleteNewer(); got != 1 {
		t.Errorf("DeleteNewer removed %d, want 1", got)
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
	if _, found := w.Find(older.Serial); !found {
		t.Error("older tile was removed")
	}
	if got := w.Classify(older); got.Overlapping {
		t.Errorf("survivor state = %+v", got)
	}
}

func TestDeleteOlder(t *testing.T) {
	w := newTestWorkspace()
	older := w.AddRectangleAt(pt(50, 50))
	newer := w.AddRectangleAt(pt(55, 50))

	if got := w.DeleteOlder(); got != 1 {
		t.Errorf("DeleteOlder removed %d, want 1", got)
	}
	if _, found := w.Find(older.Serial); found {
		t.Error("older tile survived")
	}
	if _, found := w.Find(newer.Serial); !found {
		t.Error("newer tile was removed")
	}
}

func TestAutoCleanup(t *testing.T) {
	w := newTestWorkspace()
	w.AddRectangleAt(pt(50, 50))
	w.AddRectangleAt(pt(52, 50))
	w.AddRectangleAt(pt(54, 50))
	w.AddRectangleAt(pt(300, 300))

	if got := w.AutoCleanup(); got != 2 {
		t.Errorf("AutoCleanup removed %d, want 2", got)
	}
	for _, tl := range w.Tiles() {
		if got := w.Classify(tl); got.Overlapping {
			t.Errorf("tile %d still overlapping after cleanup", tl.Serial)
		}
	}

	// The cleanup is one undoable batch.
	if _, ok := w.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if w.Count() != 4 {
		t.Errorf("Count() after undo = %d, want 4", w.Count())
	}
}

func TestFillTile(t *testing.T) {
	w := newTestWorkspace()
	gray := color.RGBA{R: 120, G: 130, B: 140, A: 255}
	w.SetBackground(raster.NewFlatBackground(1000, 1000, gray))

	tl := w.AddRectangleAt(pt(100, 100))
	if err := w.FillTile(tl.Serial); err != nil {
		t.Fatalf("FillTile: %v", err)
	}
	if !tl.Filled || tl.FillColor != gray {
		t.Errorf("fill = %v/%v, want %v", tl.Filled, tl.FillColor, gray)
	}
}

func TestFillTileErrors(t *testing.T) {
	w := newTestWorkspace()
	tl := w.AddRectangleAt(pt(100, 100))

	if err := w.FillTile(tl.Serial); err == nil {
		t.Error("fill without a background should fail")
	}

	w.SetBackground(raster.NewFlatBackground(50, 50, colorutil.White))
	if err := w.FillTile(tl.Serial); err == nil {
		t.Error("fill outside the background should fail")
	}
	if err := w.FillTile(999); err == nil {
		t.Error("fill of a missing tile should fail")
	}
}

func TestFillTileWith(t *testing.T) {
	w := newTestWorkspace()
	tl := w.AddRectangleAt(pt(100, 100))
	if err := w.FillTileWith(tl.Serial, colorutil.Red); err != nil {
		t.Fatalf("FillTileWith: %v", err)
	}
	if tl.FillColor != colorutil.Red {
		t.Errorf("fill color = %v", tl.FillColor)
	}
}

func TestPlaceRing(t *testing.T) {
	w := newTestWorkspace()
	tiles := w.PlaceRing(pt(500, 500))

	if len(tiles) < 5 {
		t.Fatalf("ring placed %d tiles", len(tiles))
	}
	if w.Count() != len(tiles) {
		t.Errorf("Count() = %d, want %d", w.Count(), len(tiles))
	}
	if tiles[0].Serial != 1 || tiles[0].Rotation != 45 {
		t.Errorf("center tile serial=%d rotation=%g", tiles[0].Serial, tiles[0].Rotation)
	}

	// The whole composite is one undo batch.
	if _, ok := w.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if w.Count() != 0 {
		t.Errorf("Count() after undo = %d, want 0", w.Count())
	}
}

func TestAdoptTilesPreservesSerials(t *testing.T) {
	w := newTestWorkspace()

	imported := []*tile.Tile{
		tile.NewRectangle(0, 0, 10, 10),
		tile.NewRectangle(50, 0, 10, 10),
	}
	imported[0].Serial = 3
	imported[1].Serial = 8
	w.AdoptTiles(imported)

	if w.Count() != 2 {
		t.Fatalf("Count() = %d", w.Count())
	}
	if _, found := w.Find(3); !found {
		t.Error("serial 3 missing after import")
	}
	if w.NextSerial() != 9 {
		t.Errorf("NextSerial() = %d, want 9", w.NextSerial())
	}

	// New tiles continue past the imported range.
	next := w.AddRectangleAt(pt(200, 0))
	if next.Serial != 9 {
		t.Errorf("serial after import = %d, want 9", next.Serial)
	}
}

func TestSuspendOverlapDefersClassification(t *testing.T) {
	w := newTestWorkspace()
	older := w.AddRectangleAt(pt(50, 50))

	resume := w.SuspendOverlap()
	w.AddRectangleAt(pt(55, 50))

	if got := w.Classify(older); got.Overlapping {
		t.Errorf("state during suspension = %+v, want stale clean", got)
	}

	resume()
	if got := w.Classify(older); !got.Overlapping {
		t.Errorf("state after resume = %+v, want overlapping", got)
	}

	resume() // second call is a no-op
}

func TestEvents(t *testing.T) {
	w := newTestWorkspace()

	var added, removed int
	w.On(EventTilesAdded, func(data interface{}) {
		added += len(data.([]*tile.Tile))
	})
	w.On(EventTilesRemoved, func(data interface{}) {
		removed += len(data.([]*tile.Tile))
	})

	w.AddRectangleAt(pt(0, 0))
	w.AddRectangleAt(pt(2, 0))
	if added != 2 {
		t.Errorf("added events saw %d tiles, want 2", added)
	}

	w.DeleteNewer()
	if removed != 1 {
		t.Errorf("removed events saw %d tiles, want 1", removed)
	}
}
