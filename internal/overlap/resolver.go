// Package overlap detects colliding tile pairs and classifies each side of a
// collision by creation order.
package overlap

import (
	"sort"
	"sync"

	"tessera/internal/tile"
)

// PrefilterMargin is how far the candidate search box extends past a tile's
// bounding box.
const PrefilterMargin = 50.0

// State is the overlap classification of a single tile. A tile is Newer if at
// least one of its collision partners carries a smaller serial number, and
// Older if at least one carries a larger one; in a chain of collisions a tile
// can be both.
type State struct {
	Overlapping bool
	Newer       bool
	Older       bool
}

// Resolver tracks the live tile set, finds colliding pairs through a lazy
// spatial index, and serves per-tile classifications. While suspended (batch
// insertion, view transforms) it serves the last computed classification and
// defers index maintenance until the suspension ends.
type Resolver struct {
	mu        sync.RWMutex
	tiles     map[uint64]*tile.Tile
	index     *gridIndex
	cache     map[uint64]State
	suspended int
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		tiles: make(map[uint64]*tile.Tile),
		index: newGridIndex(),
		cache: make(map[uint64]State),
	}
}

// Add registers tiles with the resolver.
func (r *Resolver) Add(tiles ...*tile.Tile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tiles {
		r.tiles[t.Serial] = t
	}
	r.index.invalidate()
}

// Remove unregisters tiles from the resolver.
func (r *Resolver) Remove(tiles ...*tile.Tile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tiles {
		delete(r.tiles, t.Serial)
		delete(r.cache, t.Serial)
	}
	r.index.invalidate()
}

// Invalidate flags the spatial index stale after tiles were moved or rotated
// in place.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index.invalidate()
}

// Clear drops every tracked tile.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiles = make(map[uint64]*tile.Tile)
	r.cache = make(map[uint64]State)
	r.index.invalidate()
}

// Suspend enters a suppress-recompute scope. Classifications are served from
// cache until the returned resume function is called; the spatial index is
// rebuilt lazily on the first query afterwards.
func (r *Resolver) Suspend() func() {
	r.mu.Lock()
	r.suspended++
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			r.suspended--
			if r.suspended == 0 {
				r.index.invalidate()
			}
			r.mu.Unlock()
		})
	}
}

// Classify reports the overlap state of one tile. During a suspension scope
// the cached state from the last computation is returned.
func (r *Resolver) Classify(t *tile.Tile) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.suspended > 0 {
		return r.cache[t.Serial]
	}

	state := r.classifyLocked(t)
	r.cache[t.Serial] = state
	return state
}

// Collisions returns every tile currently colliding with t, in serial order.
func (r *Resolver) Collisions(t *tile.Tile) []*tile.Tile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collisionsLocked(t)
}

// Newer returns every tile classified as newer in at least one collision,
// in ascending serial order.
func (r *Resolver) Newer() []*tile.Tile {
	return r.selectByState(func(s State) bool { return s.Newer })
}

// Older returns every tile classified as older in at least one collision,
// in ascending serial order.
func (r *Resolver) Older() []*tile.Tile {
	return r.selectByState(func(s State) bool { return s.Older })
}

// CleanupVictims returns the tiles that must go so that no collisions remain,
// always sacrificing the newer side of a pair. The survivors are exactly the
// tiles that do not collide with any lower-serial survivor.
func (r *Resolver) CleanupVictims() []*tile.Tile {
	r.mu.Lock()
	defer r.mu.Unlock()

	ordered := r.orderedLocked()
	removed := make(map[uint64]bool)

	// Walk oldest first so every older partner's fate is settled before a
	// tile is judged: a tile dies only if it collides with a surviving
	// older tile.
	for _, t := range ordered {
		for _, other := range r.collisionsLocked(t) {
			if other.Serial < t.Serial && !removed[other.Serial] {
				removed[t.Serial] = true
				break
			}
		}
	}

	var victims []*tile.Tile
	for _, t := range ordered {
		if removed[t.Serial] {
			victims = append(victims, t)
		}
	}
	return victims
}

// RecomputeAll refreshes the cached classification of every tracked tile.
// Called by the workspace when a suspension scope ends.
func (r *Resolver) RecomputeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.suspended > 0 {
		return
	}
	r.cache = make(map[uint64]State, len(r.tiles))
	for _, t := range r.tiles {
		r.cache[t.Serial] = r.classifyLocked(t)
	}
}

func (r *Resolver) selectByState(match func(State) bool) []*tile.Tile {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*tile.Tile
	for _, t := range r.orderedLocked() {
		if match(r.classifyLocked(t)) {
			out = append(out, t)
		}
	}
	return out
}

func (r *Resolver) classifyLocked(t *tile.Tile) State {
	var state State
	for _, other := range r.collisionsLocked(t) {
		state.Overlapping = true
		if other.Serial < t.Serial {
			state.Newer = true
		} else {
			state.Older = true
		}
	}
	return state
}

func (r *Resolver) collisionsLocked(t *tile.Tile) []*tile.Tile {
	if r.index.dirty {
		r.index.rebuild(r.orderedLocked())
	}

	search := t.Bounds().Expand(PrefilterMargin)
	var hits []*tile.Tile
	for _, candidate := range r.index.query(search) {
		if candidate.Serial == t.Serial {
			continue
		}
		if t.Overlaps(candidate) {
			hits = append(hits, candidate)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Serial < hits[j].Serial })
	return hits
}

func (r *Resolver) orderedLocked() []*tile.Tile {
	ordered := make([]*tile.Tile, 0, len(r.tiles))
	for _, t := range r.tiles {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Serial < ordered[j].Serial })
	return ordered
}
