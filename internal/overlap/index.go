package overlap

import (
	"math"

	"tessera/internal/tile"
	"tessera/pkg/geometry"
)

// indexCellSize is the edge length of one spatial bucket.
const indexCellSize = 64.0

type cellKey struct {
	x, y int
}

// gridIndex buckets tiles by their bounding boxes so collision candidates can
// be fetched without scanning the whole workspace. The index is rebuilt
// lazily: mutations only flip the dirty flag, and the next query pays for the
// rebuild.
type gridIndex struct {
	cells map[cellKey][]*tile.Tile
	dirty bool
}

func newGridIndex() *gridIndex {
	return &gridIndex{cells: make(map[cellKey][]*tile.Tile), dirty: true}
}

// invalidate marks the index stale. Cheap to call on every mutation.
func (g *gridIndex) invalidate() {
	g.dirty = true
}

// rebuild repopulates the buckets from the given tiles if the index is stale.
func (g *gridIndex) rebuild(tiles []*tile.Tile) {
	if !g.dirty {
		return
	}
	g.cells = make(map[cellKey][]*tile.Tile, len(tiles))
	for _, t := range tiles {
		for _, key := range cellsFor(t.Bounds()) {
			g.cells[key] = append(g.cells[key], t)
		}
	}
	g.dirty = false
}

// query returns every indexed tile whose bucket range intersects the rect.
// Callers still need an exact geometric test; this is only the pre-filter.
func (g *gridIndex) query(bounds geometry.Rect) []*tile.Tile {
	var (
		out  []*tile.Tile
		seen = make(map[uint64]bool)
	)
	for _, key := range cellsFor(bounds) {
		for _, t := range g.cells[key] {
			if !seen[t.Serial] {
				seen[t.Serial] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func cellsFor(bounds geometry.Rect) []cellKey {
	x0 := int(math.Floor(bounds.X / indexCellSize))
	y0 := int(math.Floor(bounds.Y / indexCellSize))
	x1 := int(math.Floor((bounds.X + bounds.Width) / indexCellSize))
	y1 := int(math.Floor((bounds.Y + bounds.Height) / indexCellSize))

	keys := make([]cellKey, 0, (x1-x0+1)*(y1-y0+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			keys = append(keys, cellKey{x: x, y: y})
		}
	}
	return keys
}
