package game

// Vessel is a placed ship. Its cells are fixed at construction; only the
// attack calls below mutate it.
type Vessel struct {
	origin     Coordinate
	horizontal bool
	length     int
	kind       Kind

	cells    []Coordinate
	occupied map[Coordinate]struct{}
	hits     map[Coordinate]struct{}
	// hitOrder is the order in which cells were first hit.
	hitOrder []Coordinate

	ring     []Coordinate
	ringDone bool
}

// MaxVesselLength caps a vessel on an unbounded grid.
const MaxVesselLength = 64

// NewVessel builds a vessel from a placement spec. Overlap and bounds are
// not checked here.
func NewVessel(spec VesselSpec) (*Vessel, error) {
	if spec.Length < 1 || spec.Length > MaxVesselLength {
		return nil, ErrInvalidVessel
	}
	kind := spec.Kind
	if kind == "" {
		kind = KindForLength(spec.Length)
	}
	if !kind.valid() {
		return nil, ErrInvalidVessel
	}
	v := &Vessel{
		origin:     spec.Origin,
		horizontal: spec.Horizontal,
		length:     spec.Length,
		kind:       kind,
		cells:      make([]Coordinate, 0, spec.Length),
		occupied:   make(map[Coordinate]struct{}, spec.Length),
		hits:       make(map[Coordinate]struct{}, spec.Length),
	}
	for i := 0; i < spec.Length; i++ {
		c := spec.Origin
		if spec.Horizontal {
			c.X += i
		} else {
			c.Y += i
		}
		v.cells = append(v.cells, c)
		v.occupied[c] = struct{}{}
	}
	return v, nil
}

func (v *Vessel) Origin() Coordinate { return v.origin }
func (v *Vessel) Horizontal() bool   { return v.horizontal }
func (v *Vessel) Length() int        { return v.length }
func (v *Vessel) Kind() Kind         { return v.kind }

// Spec returns the placement this vessel was built from.
func (v *Vessel) Spec() VesselSpec {
	return VesselSpec{Origin: v.origin, Horizontal: v.horizontal, Length: v.length, Kind: v.kind}
}

// Cells returns a copy of the occupied cells in placement order.
func (v *Vessel) Cells() []Coordinate {
	return append([]Coordinate(nil), v.cells...)
}

// HitPositions returns the hit cells in the order they were hit.
func (v *Vessel) HitPositions() []Coordinate {
	return append([]Coordinate(nil), v.hitOrder...)
}

// Occupies reports whether c is one of the vessel's cells.
func (v *Vessel) Occupies(c Coordinate) bool {
	_, ok := v.occupied[c]
	return ok
}

// RegisterShotAt reports whether c is on this vessel and records the hit.
// Hitting the same cell again does not count twice.
func (v *Vessel) RegisterShotAt(c Coordinate) bool {
	if !v.Occupies(c) {
		return false
	}
	if _, seen := v.hits[c]; !seen {
		v.hits[c] = struct{}{}
		v.hitOrder = append(v.hitOrder, c)
	}
	return true
}

// IsDestroyed reports whether every cell has been hit. The surrounding ring
// is computed on the first call that observes the destroyed state.
func (v *Vessel) IsDestroyed() bool {
	if len(v.hits) != v.length {
		return false
	}
	if !v.ringDone {
		v.ring = v.computeRing()
		v.ringDone = true
	}
	return true
}

// SurroundingCells returns the ring of cells around a destroyed vessel, or
// nil while it is still afloat.
func (v *Vessel) SurroundingCells() []Coordinate {
	if !v.IsDestroyed() {
		return nil
	}
	return append([]Coordinate(nil), v.ring...)
}

// computeRing collects the 8-neighbours of every cell, excluding the
// vessel's own cells, without duplicates, in a stable order.
func (v *Vessel) computeRing() []Coordinate {
	seen := make(map[Coordinate]struct{})
	var ring []Coordinate
	for _, c := range v.cells {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := Coordinate{X: c.X + dx, Y: c.Y + dy}
				if v.Occupies(n) {
					continue
				}
				if _, dup := seen[n]; dup {
					continue
				}
				seen[n] = struct{}{}
				ring = append(ring, n)
			}
		}
	}
	return ring
}
