package game

// FleetBoard is one participant's vessels plus the record of every
// coordinate fired upon.
type FleetBoard struct {
	vessels   []*Vessel
	hits      map[Coordinate]struct{}
	misses    map[Coordinate]struct{}
	kills     map[Coordinate][]Coordinate // finishing coordinate -> ring
	destroyed int
	finalized bool
}

func NewFleetBoard() *FleetBoard {
	return &FleetBoard{
		hits:   make(map[Coordinate]struct{}),
		misses: make(map[Coordinate]struct{}),
		kills:  make(map[Coordinate][]Coordinate),
	}
}

// Place adds a vessel. It is rejected once placement is finalized.
func (b *FleetBoard) Place(v *Vessel) error {
	if b.finalized {
		return ErrPlacementFinalized
	}
	if v == nil {
		return ErrInvalidVessel
	}
	b.vessels = append(b.vessels, v)
	return nil
}

// FinalizePlacement locks the fleet. It cannot be undone.
func (b *FleetBoard) FinalizePlacement() { b.finalized = true }

func (b *FleetBoard) Finalized() bool { return b.finalized }

// Vessels returns the placed vessels in placement order.
func (b *FleetBoard) Vessels() []*Vessel {
	return append([]*Vessel(nil), b.vessels...)
}

func (b *FleetBoard) DestroyedCount() int { return b.destroyed }

// IsDefeated reports whether every vessel is destroyed.
func (b *FleetBoard) IsDefeated() bool { return b.destroyed >= len(b.vessels) }

// IsResolved reports whether c was already fired upon.
func (b *FleetBoard) IsResolved(c Coordinate) bool {
	if _, ok := b.hits[c]; ok {
		return true
	}
	_, ok := b.misses[c]
	return ok
}

func (b *FleetBoard) Hits() []Coordinate   { return keys(b.hits) }
func (b *FleetBoard) Misses() []Coordinate { return keys(b.misses) }

// ResolveAttack classifies a shot at c. A coordinate is resolved at most
// once: repeating it returns the recorded outcome with Replayed set and
// leaves every vessel and counter untouched.
func (b *FleetBoard) ResolveAttack(c Coordinate) Resolution {
	if _, ok := b.misses[c]; ok {
		return Resolution{Coord: c, Outcome: Miss, Replayed: true}
	}
	if _, ok := b.hits[c]; ok {
		if ring, killed := b.kills[c]; killed {
			return Resolution{Coord: c, Outcome: Destroyed, Surrounding: append([]Coordinate(nil), ring...), Replayed: true}
		}
		return Resolution{Coord: c, Outcome: Hit, Replayed: true}
	}

	for _, v := range b.vessels {
		if v.IsDestroyed() {
			continue
		}
		if !v.RegisterShotAt(c) {
			continue
		}
		b.hits[c] = struct{}{}
		if v.IsDestroyed() {
			b.destroyed++
			ring := v.SurroundingCells()
			b.kills[c] = ring
			return Resolution{Coord: c, Outcome: Destroyed, Surrounding: append([]Coordinate(nil), ring...)}
		}
		return Resolution{Coord: c, Outcome: Hit}
	}
	b.misses[c] = struct{}{}
	return Resolution{Coord: c, Outcome: Miss}
}

// UnresolvedCells lists every coordinate of a size x size grid not yet
// fired upon, row by row.
func (b *FleetBoard) UnresolvedCells(size int) []Coordinate {
	var out []Coordinate
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := Coordinate{X: x, Y: y}
			if !b.IsResolved(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func keys(m map[Coordinate]struct{}) []Coordinate {
	out := make([]Coordinate, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	return out
}
