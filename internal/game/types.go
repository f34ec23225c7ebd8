package game

import "fmt"

// Coordinate is a cell on the grid. X is the column, Y the row.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Kind names a vessel class. The wire protocol sends it verbatim.
type Kind string

const (
	KindSmall  Kind = "small"
	KindMedium Kind = "medium"
	KindLarge  Kind = "large"
	KindHuge   Kind = "huge"
)

// KindForLength maps a length to its vessel type. It is used when a client
// omits the type and when laying out generated fleets.
func KindForLength(n int) Kind {
	switch {
	case n <= 1:
		return KindSmall
	case n == 2:
		return KindMedium
	case n == 3:
		return KindLarge
	default:
		return KindHuge
	}
}

func (k Kind) valid() bool {
	switch k {
	case KindSmall, KindMedium, KindLarge, KindHuge:
		return true
	}
	return false
}

// VesselSpec is what a participant submits during placement.
type VesselSpec struct {
	Origin     Coordinate
	Horizontal bool
	Length     int
	Kind       Kind
}

// Outcome classifies a single shot.
type Outcome int

const (
	Miss Outcome = iota
	Hit
	Destroyed
)

// String returns the wire status for the outcome.
func (o Outcome) String() string {
	switch o {
	case Hit:
		return "shot"
	case Destroyed:
		return "killed"
	default:
		return "miss"
	}
}

// Phase is the session lifecycle state. Transitions only move forward.
type Phase int

const (
	AwaitingPlayers Phase = iota
	Placing
	Active
	Finished
)

func (p Phase) String() string {
	switch p {
	case AwaitingPlayers:
		return "awaiting_players"
	case Placing:
		return "placing"
	case Active:
		return "active"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Rules are the per-session knobs.
//
// ExtraTurnOnHit keeps the turn with the attacker after a hit or a kill.
// Bounds, when positive, is the side of a square grid [0,Bounds); zero
// leaves the grid unbounded.
type Rules struct {
	ExtraTurnOnHit bool
	Bounds         int
}

// DefaultRules is a 10x10 grid with an extra turn on hit.
func DefaultRules() Rules {
	return Rules{ExtraTurnOnHit: true, Bounds: 10}
}

func (r Rules) inBounds(c Coordinate) bool {
	if r.Bounds <= 0 {
		return true
	}
	return c.X >= 0 && c.Y >= 0 && c.X < r.Bounds && c.Y < r.Bounds
}

// Participant is one seat in a session. ID is the gateway's stable player
// identity; Index is the seat number (0 or 1) used on the wire.
type Participant struct {
	ID    int
	Name  string
	Index int
}

// Resolution is what a fleet board reports for one coordinate.
type Resolution struct {
	Coord   Coordinate
	Outcome Outcome
	// Surrounding is only set for Destroyed: the ring around the sunk vessel.
	Surrounding []Coordinate
	// Replayed marks a coordinate that had already been resolved.
	Replayed bool
}

// PlacementResult reports the state after a participant submitted ships.
type PlacementResult struct {
	Index     int
	Started   bool
	FirstTurn int
}

// AttackResult is returned from Session.Attack and Session.RandomAttack.
type AttackResult struct {
	Attacker    int
	Coord       Coordinate
	Outcome     Outcome
	Surrounding []Coordinate
	Replayed    bool
	TurnHolder  int
	Finished    bool
	Winner      int
}
