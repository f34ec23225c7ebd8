package game

import "math/rand"

// Session is one two-participant match. It holds no locks: callers must
// serialize every mutating call for a given session.
type Session struct {
	id           int
	rules        Rules
	participants []Participant
	boards       []*FleetBoard

	phase     Phase
	turn      int
	turnSet   bool
	winner    int
	hasWinner bool
}

func NewSession(id int, rules Rules) *Session {
	return &Session{id: id, rules: rules, phase: AwaitingPlayers}
}

func (s *Session) ID() int      { return s.id }
func (s *Session) Rules() Rules { return s.rules }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) IsFull() bool { return len(s.participants) == 2 }

// TurnHolder returns the seat entitled to attack, if any.
func (s *Session) TurnHolder() (int, bool) { return s.turn, s.turnSet }

// Winner returns the winning seat once the session is finished.
func (s *Session) Winner() (int, bool) { return s.winner, s.hasWinner }

// Participants returns the seats in join order.
func (s *Session) Participants() []Participant {
	return append([]Participant(nil), s.participants...)
}

// Participant returns the seat at index.
func (s *Session) Participant(index int) (Participant, bool) {
	if index < 0 || index >= len(s.participants) {
		return Participant{}, false
	}
	return s.participants[index], true
}

// IndexOf returns the seat held by the gateway player id.
func (s *Session) IndexOf(id int) (int, bool) {
	for _, p := range s.participants {
		if p.ID == id {
			return p.Index, true
		}
	}
	return 0, false
}

// Board returns the fleet board owned by the seat at index.
func (s *Session) Board(index int) (*FleetBoard, bool) {
	if index < 0 || index >= len(s.boards) {
		return nil, false
	}
	return s.boards[index], true
}

// AddParticipant seats a new participant. The second join moves the session
// into placement and gives the first joiner the opening turn.
func (s *Session) AddParticipant(id int, name string) (Participant, error) {
	if len(s.participants) == 2 {
		return Participant{}, ErrRoomFull
	}
	if s.phase != AwaitingPlayers {
		return Participant{}, ErrWrongPhase
	}
	if _, ok := s.IndexOf(id); ok {
		return Participant{}, ErrAlreadyJoined
	}
	p := Participant{ID: id, Name: name, Index: len(s.participants)}
	s.participants = append(s.participants, p)
	s.boards = append(s.boards, NewFleetBoard())
	if len(s.participants) == 2 {
		s.phase = Placing
		s.turn, s.turnSet = 0, true
	}
	return p, nil
}

// SubmitPlacement builds the vessels for one seat and finalizes its board.
// Either every spec is placed or none is. Once both boards are final the
// session becomes active.
func (s *Session) SubmitPlacement(index int, specs []VesselSpec) (PlacementResult, error) {
	if s.phase == Finished {
		return PlacementResult{}, ErrGameFinished
	}
	if s.phase != Placing {
		return PlacementResult{}, ErrWrongPhase
	}
	board, ok := s.Board(index)
	if !ok {
		return PlacementResult{}, ErrUnknownParticipant
	}
	if board.Finalized() {
		return PlacementResult{}, ErrPlacementFinalized
	}
	if len(specs) == 0 {
		return PlacementResult{}, ErrEmptyFleet
	}
	vessels := make([]*Vessel, 0, len(specs))
	for _, spec := range specs {
		if s.rules.Bounds > 0 && spec.Length > s.rules.Bounds {
			return PlacementResult{}, ErrInvalidVessel
		}
		v, err := NewVessel(spec)
		if err != nil {
			return PlacementResult{}, err
		}
		for _, c := range v.Cells() {
			if !s.rules.inBounds(c) {
				return PlacementResult{}, ErrOutOfBounds
			}
		}
		vessels = append(vessels, v)
	}
	for _, v := range vessels {
		if err := board.Place(v); err != nil {
			return PlacementResult{}, err
		}
	}
	board.FinalizePlacement()

	res := PlacementResult{Index: index, FirstTurn: s.turn}
	if s.boards[0].Finalized() && s.boards[1].Finalized() {
		s.phase = Active
		res.Started = true
	}
	return res, nil
}

// Attack fires at c on the opponent's board on behalf of the seat at index.
func (s *Session) Attack(index int, c Coordinate) (AttackResult, error) {
	if err := s.checkAttacker(index); err != nil {
		return AttackResult{}, err
	}
	if !s.rules.inBounds(c) {
		return AttackResult{}, ErrOutOfBounds
	}
	return s.fire(index, c), nil
}

// RandomAttack fires at a uniformly chosen coordinate the opponent's board
// has not resolved yet. It needs bounded rules.
func (s *Session) RandomAttack(index int, rng *rand.Rand) (AttackResult, error) {
	if err := s.checkAttacker(index); err != nil {
		return AttackResult{}, err
	}
	if s.rules.Bounds <= 0 {
		return AttackResult{}, ErrNoTargets
	}
	open := s.boards[1-index].UnresolvedCells(s.rules.Bounds)
	if len(open) == 0 {
		return AttackResult{}, ErrNoTargets
	}
	return s.fire(index, open[rng.Intn(len(open))]), nil
}

// Forfeit ends the session in favour of the other seat.
func (s *Session) Forfeit(index int) (int, error) {
	if s.phase == Finished {
		return 0, ErrGameFinished
	}
	if s.phase == AwaitingPlayers {
		return 0, ErrWrongPhase
	}
	if index != 0 && index != 1 {
		return 0, ErrUnknownParticipant
	}
	s.finish(1 - index)
	return s.winner, nil
}

func (s *Session) checkAttacker(index int) error {
	if s.phase == Finished {
		return ErrGameFinished
	}
	if s.phase != Active {
		return ErrWrongPhase
	}
	if index != 0 && index != 1 {
		return ErrUnknownParticipant
	}
	if !s.turnSet || index != s.turn {
		return ErrNotYourTurn
	}
	return nil
}

func (s *Session) fire(index int, c Coordinate) AttackResult {
	opponent := 1 - index
	target := s.boards[opponent]
	res := target.ResolveAttack(c)

	if target.IsDefeated() {
		s.finish(index)
	}
	if res.Outcome == Miss || !s.rules.ExtraTurnOnHit {
		s.turn = opponent
	}

	out := AttackResult{
		Attacker:   index,
		Coord:      res.Coord,
		Outcome:    res.Outcome,
		Replayed:   res.Replayed,
		TurnHolder: s.turn,
		Finished:   s.phase == Finished,
		Winner:     s.winner,
	}
	for _, n := range res.Surrounding {
		if s.rules.inBounds(n) {
			out.Surrounding = append(out.Surrounding, n)
		}
	}
	return out
}

func (s *Session) finish(winner int) {
	s.phase = Finished
	s.winner, s.hasWinner = winner, true
}
