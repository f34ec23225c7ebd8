package game

import "testing"

func boardWith(t *testing.T, specs ...VesselSpec) *FleetBoard {
	t.Helper()
	b := NewFleetBoard()
	for _, spec := range specs {
		if err := b.Place(mustVessel(t, spec)); err != nil {
			t.Fatalf("place: %v", err)
		}
	}
	b.FinalizePlacement()
	return b
}

func TestPlaceRejectedAfterFinalize(t *testing.T) {
	t.Parallel()

	b := NewFleetBoard()
	if err := b.Place(mustVessel(t, VesselSpec{Length: 1})); err != nil {
		t.Fatalf("place before finalize: %v", err)
	}
	b.FinalizePlacement()
	if err := b.Place(mustVessel(t, VesselSpec{Origin: Coordinate{X: 3}, Length: 1})); err != ErrPlacementFinalized {
		t.Fatalf("place after finalize err = %v, want %v", err, ErrPlacementFinalized)
	}
	if got := len(b.Vessels()); got != 1 {
		t.Fatalf("vessels = %d, want 1", got)
	}
}

func TestResolveAttackOutcomes(t *testing.T) {
	t.Parallel()

	b := boardWith(t,
		VesselSpec{Origin: Coordinate{X: 0, Y: 0}, Horizontal: true, Length: 2},
		VesselSpec{Origin: Coordinate{X: 5, Y: 5}, Length: 1},
	)

	if res := b.ResolveAttack(Coordinate{X: 9, Y: 9}); res.Outcome != Miss || res.Replayed {
		t.Fatalf("empty cell = %+v, want fresh miss", res)
	}
	if res := b.ResolveAttack(Coordinate{X: 0, Y: 0}); res.Outcome != Hit {
		t.Fatalf("first cell = %v, want hit", res.Outcome)
	}
	res := b.ResolveAttack(Coordinate{X: 1, Y: 0})
	if res.Outcome != Destroyed {
		t.Fatalf("second cell = %v, want destroyed", res.Outcome)
	}
	if len(res.Surrounding) != 10 {
		t.Fatalf("surrounding = %d cells, want 10", len(res.Surrounding))
	}
	if b.DestroyedCount() != 1 || b.IsDefeated() {
		t.Fatalf("destroyed = %d defeated = %v", b.DestroyedCount(), b.IsDefeated())
	}

	b.ResolveAttack(Coordinate{X: 5, Y: 5})
	if !b.IsDefeated() {
		t.Fatal("expected defeated once every vessel is destroyed")
	}
	if len(b.Hits()) != 3 || len(b.Misses()) != 1 {
		t.Fatalf("hits = %d misses = %d", len(b.Hits()), len(b.Misses()))
	}
}

func TestResolveAttackIsIdempotent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		coord Coordinate
		want  Outcome
	}{
		{name: "miss", coord: Coordinate{X: 7, Y: 7}, want: Miss},
		{name: "hit", coord: Coordinate{X: 2, Y: 2}, want: Hit},
		{name: "destroyed", coord: Coordinate{X: 0, Y: 9}, want: Destroyed},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := boardWith(t,
				VesselSpec{Origin: Coordinate{X: 2, Y: 2}, Horizontal: true, Length: 3},
				VesselSpec{Origin: Coordinate{X: 0, Y: 9}, Length: 1},
			)
			first := b.ResolveAttack(tc.coord)
			destroyed := b.DestroyedCount()
			hits, misses := len(b.Hits()), len(b.Misses())

			second := b.ResolveAttack(tc.coord)
			if first.Outcome != tc.want || second.Outcome != tc.want {
				t.Fatalf("outcomes = %v, %v, want %v", first.Outcome, second.Outcome, tc.want)
			}
			if first.Replayed || !second.Replayed {
				t.Fatalf("replayed flags = %v, %v", first.Replayed, second.Replayed)
			}
			if len(second.Surrounding) != len(first.Surrounding) {
				t.Fatalf("surrounding changed on replay: %d vs %d", len(first.Surrounding), len(second.Surrounding))
			}
			if b.DestroyedCount() != destroyed || len(b.Hits()) != hits || len(b.Misses()) != misses {
				t.Fatal("board state changed on replay")
			}
		})
	}
}

func TestEmptyBoardIsDefeated(t *testing.T) {
	t.Parallel()

	if !NewFleetBoard().IsDefeated() {
		t.Fatal("expected empty board to count as defeated")
	}
}

func TestUnresolvedCells(t *testing.T) {
	t.Parallel()

	b := boardWith(t, VesselSpec{Origin: Coordinate{X: 0, Y: 0}, Length: 1})
	b.ResolveAttack(Coordinate{X: 1, Y: 1})
	open := b.UnresolvedCells(2)
	if len(open) != 3 {
		t.Fatalf("open = %v, want 3 cells", open)
	}
	for _, c := range open {
		if c == (Coordinate{X: 1, Y: 1}) {
			t.Fatal("resolved cell listed as open")
		}
	}
}
