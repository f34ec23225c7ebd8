package game

import "testing"

func mustVessel(t *testing.T, spec VesselSpec) *Vessel {
	t.Helper()
	v, err := NewVessel(spec)
	if err != nil {
		t.Fatalf("new vessel: %v", err)
	}
	return v
}

func TestNewVesselCells(t *testing.T) {
	t.Parallel()

	h := mustVessel(t, VesselSpec{Origin: Coordinate{X: 2, Y: 3}, Horizontal: true, Length: 3})
	want := []Coordinate{{2, 3}, {3, 3}, {4, 3}}
	got := h.Cells()
	if len(got) != len(want) {
		t.Fatalf("cells = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d = %v, want %v", i, got[i], want[i])
		}
	}
	if h.Kind() != KindLarge {
		t.Fatalf("kind = %q, want %q", h.Kind(), KindLarge)
	}

	v := mustVessel(t, VesselSpec{Origin: Coordinate{X: 0, Y: 0}, Horizontal: false, Length: 2, Kind: KindMedium})
	if got := v.Cells(); got[1] != (Coordinate{X: 0, Y: 1}) {
		t.Fatalf("vertical second cell = %v, want (0,1)", got[1])
	}
}

func TestNewVesselRejectsInvalid(t *testing.T) {
	t.Parallel()

	if _, err := NewVessel(VesselSpec{Length: 0}); err != ErrInvalidVessel {
		t.Fatalf("zero length err = %v, want %v", err, ErrInvalidVessel)
	}
	if _, err := NewVessel(VesselSpec{Length: 2, Kind: "submarine"}); err != ErrInvalidVessel {
		t.Fatalf("unknown kind err = %v, want %v", err, ErrInvalidVessel)
	}
	for _, n := range []int{MaxVesselLength + 1, 1 << 32, 1 << 60} {
		if _, err := NewVessel(VesselSpec{Length: n}); err != ErrInvalidVessel {
			t.Fatalf("length %d err = %v, want %v", n, err, ErrInvalidVessel)
		}
	}
	if v, err := NewVessel(VesselSpec{Length: MaxVesselLength, Horizontal: true}); err != nil || len(v.Cells()) != MaxVesselLength {
		t.Fatalf("longest vessel: %v", err)
	}
}

func TestRegisterShotAtIsIdempotent(t *testing.T) {
	t.Parallel()

	v := mustVessel(t, VesselSpec{Origin: Coordinate{X: 1, Y: 1}, Horizontal: true, Length: 2})
	if v.RegisterShotAt(Coordinate{X: 5, Y: 5}) {
		t.Fatal("expected miss off the vessel")
	}
	if !v.RegisterShotAt(Coordinate{X: 1, Y: 1}) {
		t.Fatal("expected hit on the vessel")
	}
	if !v.RegisterShotAt(Coordinate{X: 1, Y: 1}) {
		t.Fatal("expected repeated hit to still report true")
	}
	if v.IsDestroyed() {
		t.Fatal("vessel destroyed after hitting one cell twice")
	}
	if got := len(v.HitPositions()); got != 1 {
		t.Fatalf("hit positions = %d, want 1", got)
	}
	if v.SurroundingCells() != nil {
		t.Fatal("expected no ring while afloat")
	}

	v.RegisterShotAt(Coordinate{X: 2, Y: 1})
	if !v.IsDestroyed() {
		t.Fatal("expected destroyed after all cells hit")
	}
	hits := v.HitPositions()
	if hits[0] != (Coordinate{X: 1, Y: 1}) || hits[1] != (Coordinate{X: 2, Y: 1}) {
		t.Fatalf("hit order = %v", hits)
	}
}

func TestSurroundingCellsRing(t *testing.T) {
	t.Parallel()

	v := mustVessel(t, VesselSpec{Origin: Coordinate{X: 4, Y: 4}, Horizontal: true, Length: 3})
	for _, c := range v.Cells() {
		v.RegisterShotAt(c)
	}
	ring := v.SurroundingCells()
	// 3-cell line: (3+2) columns x 3 rows minus the 3 occupied cells.
	if len(ring) != 12 {
		t.Fatalf("ring size = %d, want 12", len(ring))
	}
	seen := map[Coordinate]bool{}
	for _, c := range ring {
		if v.Occupies(c) {
			t.Fatalf("ring contains occupied cell %v", c)
		}
		if seen[c] {
			t.Fatalf("ring contains duplicate %v", c)
		}
		seen[c] = true
	}
	if !seen[Coordinate{X: 3, Y: 3}] || !seen[Coordinate{X: 7, Y: 5}] {
		t.Fatalf("ring missing corners: %v", ring)
	}

	again := v.SurroundingCells()
	if len(again) != len(ring) || again[0] != ring[0] {
		t.Fatal("ring changed between calls")
	}
}

func TestSurroundingCellsSingleCell(t *testing.T) {
	t.Parallel()

	v := mustVessel(t, VesselSpec{Origin: Coordinate{X: 0, Y: 0}, Length: 1})
	v.RegisterShotAt(Coordinate{X: 0, Y: 0})
	if got := len(v.SurroundingCells()); got != 8 {
		t.Fatalf("ring size = %d, want 8", got)
	}
}
