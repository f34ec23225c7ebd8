package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alikri/ws-battleship/internal/engine"
	"github.com/alikri/ws-battleship/internal/game"
	"github.com/alikri/ws-battleship/internal/models"
)

var tracer = otel.Tracer("github.com/alikri/ws-battleship/internal/server")

var (
	errNotRegistered    = errors.New("connection has not registered")
	errUnknownRoom      = errors.New("unknown room")
	errNameRequired     = errors.New("name is required")
	errWrongPassword    = errors.New("wrong password")
	errAlreadyConnected = errors.New("player is already connected")
	errAlreadyHosting   = errors.New("player already has an open room")
)

// Handle dispatches one inbound message from c. Rejected commands are logged
// and leave every session untouched.
func (h *Hub) Handle(ctx context.Context, c *Client, env models.Envelope) {
	ctx, span := tracer.Start(ctx, "ws."+env.Type, trace.WithAttributes(attribute.String("ws.type", env.Type)))
	defer span.End()

	if err := h.dispatch(ctx, c, env); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := game.CodeOf(err); code != game.CodeUnknown {
			span.SetAttributes(attribute.String("game.code", string(code)))
		}
		log.Printf("ws: %s rejected: %v", env.Type, err)
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, env models.Envelope) error {
	if env.Type == models.TypeReg {
		return h.handleReg(ctx, c, env)
	}
	p := h.playerOf(c)
	if p == nil {
		return errNotRegistered
	}
	switch env.Type {
	case models.TypeCreateRoom:
		return h.handleCreateRoom(p)
	case models.TypeAddUserToRoom:
		return h.handleAddUserToRoom(p, env)
	case models.TypeSinglePlay:
		return h.handleSinglePlay(p)
	case models.TypeAddShips:
		return h.handleAddShips(p, env)
	case models.TypeAttack:
		return h.handleAttack(ctx, p, env)
	case models.TypeRandomAttack:
		return h.handleRandomAttack(ctx, p, env)
	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
}

// ----------------- Registration -----------------

func (h *Hub) handleReg(ctx context.Context, c *Client, env models.Envelope) error {
	var req models.RegRequest
	if err := env.Decode(&req); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	p, err := h.register(c, name, req.Password)
	if err != nil {
		sendTo(c, models.TypeReg, models.RegResponse{Name: name, Index: -1, Error: true, ErrorText: err.Error()})
		return err
	}
	log.Printf("ws: registered player %d name=%q", p.ID, p.Name)
	sendTo(c, models.TypeReg, models.RegResponse{Name: p.Name, Index: p.ID})
	h.broadcastRooms()
	h.broadcastWinners(ctx)
	return nil
}

// register creates a player or rebinds a returning one to c.
func (h *Hub) register(c *Client, name, password string) (*Player, error) {
	if name == "" {
		return nil, errNameRequired
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.byName[name]
	if c.player != nil && c.player != p {
		return nil, fmt.Errorf("connection already registered as %q", c.player.Name)
	}
	if ok {
		if p.password != password {
			return nil, errWrongPassword
		}
		if p.client != nil && p.client != c {
			return nil, errAlreadyConnected
		}
		p.client = c
		c.player = p
		return p, nil
	}
	h.nextPlayerID++
	p = &Player{ID: h.nextPlayerID, Name: name, password: password, client: c}
	h.players[p.ID] = p
	h.byName[name] = p
	c.player = p
	return p, nil
}

func (h *Hub) newBot() *Player {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextPlayerID++
	return &Player{ID: h.nextPlayerID, Name: "bot", bot: true}
}

// ----------------- Rooms -----------------

func (h *Hub) hostedRoom(p *Player) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.waiting[p.ID]
	return id, ok
}

func (h *Hub) handleCreateRoom(p *Player) error {
	if _, ok := h.hostedRoom(p); ok {
		return errAlreadyHosting
	}
	r := h.newRoom()
	r.mu.Lock()
	part, err := r.session.AddParticipant(p.ID, p.Name)
	if err != nil {
		r.closed = true
		h.dropRoom(r)
		r.mu.Unlock()
		return err
	}
	r.players[part.Index] = p
	h.mu.Lock()
	h.lobby[r.ID] = models.RoomInfo{RoomID: r.ID, RoomUsers: []models.RoomUser{{Name: p.Name, Index: p.ID}}}
	h.waiting[p.ID] = r.ID
	h.mu.Unlock()
	r.mu.Unlock()

	log.Printf("room %d: created by player %d", r.ID, p.ID)
	h.broadcastRooms()
	return nil
}

func (h *Hub) handleAddUserToRoom(p *Player, env models.Envelope) error {
	var req models.AddUserToRoomRequest
	if err := env.Decode(&req); err != nil {
		return err
	}
	r := h.getRoom(req.IndexRoom)
	if r == nil {
		return errUnknownRoom
	}
	if err := h.joinRoom(r, p); err != nil {
		return err
	}
	if own, ok := h.hostedRoom(p); ok {
		h.closeWaitingRoom(own)
	}
	h.broadcastRooms()
	return nil
}

func (h *Hub) joinRoom(r *Room, p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errUnknownRoom
	}
	part, err := r.session.AddParticipant(p.ID, p.Name)
	if err != nil {
		return err
	}
	r.players[part.Index] = p

	h.mu.Lock()
	delete(h.lobby, r.ID)
	delete(h.waiting, r.players[0].ID)
	h.mu.Unlock()

	log.Printf("room %d: player %d joined, placement open", r.ID, p.ID)
	for i, pl := range r.players {
		h.sendToPlayer(pl, models.TypeCreateGame, models.CreateGame{IDGame: r.ID, IDPlayer: i})
	}
	return nil
}

// closeWaitingRoom drops a room that never got its second player.
func (h *Hub) closeWaitingRoom(id int) {
	r := h.getRoom(id)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.session.Phase() != game.AwaitingPlayers {
		return
	}
	r.closed = true
	h.dropRoom(r)
	log.Printf("room %d: closed before start", r.ID)
}

func (h *Hub) handleSinglePlay(p *Player) error {
	if own, ok := h.hostedRoom(p); ok {
		h.closeWaitingRoom(own)
		h.broadcastRooms()
	}
	bot := h.newBot()
	r := h.newRoom()
	r.mu.Lock()
	defer r.mu.Unlock()

	fail := func(err error) error {
		r.closed = true
		h.dropRoom(r)
		return err
	}
	for _, pl := range []*Player{p, bot} {
		part, err := r.session.AddParticipant(pl.ID, pl.Name)
		if err != nil {
			return fail(err)
		}
		r.players[part.Index] = pl
	}
	r.botSeat = 1
	specs, err := engine.RandomFleet(r.rng, h.opts.Rules.Bounds, h.opts.BotFleet)
	if err != nil {
		return fail(fmt.Errorf("bot fleet: %w", err))
	}
	if _, err := r.session.SubmitPlacement(r.botSeat, specs); err != nil {
		return fail(fmt.Errorf("bot placement: %w", err))
	}

	log.Printf("room %d: single play for player %d", r.ID, p.ID)
	h.sendToPlayer(p, models.TypeCreateGame, models.CreateGame{IDGame: r.ID, IDPlayer: 0})
	return nil
}

// ----------------- Placement -----------------

// seatOf resolves p's seat in r and checks it against the seat the client
// claims. Callers hold r.mu.
func (r *Room) seatOf(p *Player, claimed int) (int, error) {
	idx, ok := r.session.IndexOf(p.ID)
	if !ok || idx != claimed {
		return 0, game.ErrUnknownParticipant
	}
	return idx, nil
}

// lockedRoom returns r locked, or an error when it is gone.
func (h *Hub) lockedRoom(id int) (*Room, error) {
	r := h.getRoom(id)
	if r == nil {
		return nil, errUnknownRoom
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, errUnknownRoom
	}
	return r, nil
}

func (h *Hub) handleAddShips(p *Player, env models.Envelope) error {
	var req models.AddShipsRequest
	if err := env.Decode(&req); err != nil {
		return err
	}
	r, err := h.lockedRoom(req.GameID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	idx, err := r.seatOf(p, req.IndexPlayer)
	if err != nil {
		return err
	}
	res, err := r.session.SubmitPlacement(idx, specsFromShips(req.Ships))
	if err != nil {
		return err
	}
	log.Printf("room %d: seat %d placed %d ships", r.ID, idx, len(req.Ships))
	if res.Started {
		h.startGame(r, res.FirstTurn)
	}
	return nil
}

// startGame announces each side's fleet and the opening turn. Callers hold
// r.mu.
func (h *Hub) startGame(r *Room, first int) {
	log.Printf("room %d: started, seat %d opens", r.ID, first)
	for i, pl := range r.players {
		board, _ := r.session.Board(i)
		h.sendToPlayer(pl, models.TypeStartGame, models.StartGame{
			Ships:              shipsFromVessels(board.Vessels()),
			CurrentPlayerIndex: i,
		})
	}
	h.sendToRoom(r, models.TypeTurn, models.Turn{CurrentPlayer: first})
	h.scheduleBot(r)
}

// ----------------- Combat -----------------

func (h *Hub) handleAttack(ctx context.Context, p *Player, env models.Envelope) error {
	var req models.AttackRequest
	if err := env.Decode(&req); err != nil {
		return err
	}
	r, err := h.lockedRoom(req.GameID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	idx, err := r.seatOf(p, req.IndexPlayer)
	if err != nil {
		return err
	}
	res, err := r.session.Attack(idx, game.Coordinate{X: req.X, Y: req.Y})
	if err != nil {
		h.remindTurn(r, p, err)
		return err
	}
	h.publishAttack(ctx, r, res)
	return nil
}

func (h *Hub) handleRandomAttack(ctx context.Context, p *Player, env models.Envelope) error {
	var req models.RandomAttackRequest
	if err := env.Decode(&req); err != nil {
		return err
	}
	r, err := h.lockedRoom(req.GameID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	idx, err := r.seatOf(p, req.IndexPlayer)
	if err != nil {
		return err
	}
	res, err := r.session.RandomAttack(idx, r.rng)
	if err != nil {
		h.remindTurn(r, p, err)
		return err
	}
	h.publishAttack(ctx, r, res)
	return nil
}

// remindTurn tells a player who fired out of turn whose turn it is.
func (h *Hub) remindTurn(r *Room, p *Player, err error) {
	if !errors.Is(err, game.ErrNotYourTurn) {
		return
	}
	if holder, ok := r.session.TurnHolder(); ok {
		h.sendToPlayer(p, models.TypeTurn, models.Turn{CurrentPlayer: holder})
	}
}

// publishAttack fans an attack result out to both seats. Callers hold r.mu.
func (h *Hub) publishAttack(ctx context.Context, r *Room, res game.AttackResult) {
	h.sendToRoom(r, models.TypeAttack, models.AttackFeedback{
		Position:      position(res.Coord),
		CurrentPlayer: res.Attacker,
		Status:        res.Outcome.String(),
	})
	for _, c := range res.Surrounding {
		h.sendToRoom(r, models.TypeAttack, models.AttackFeedback{
			Position:      position(c),
			CurrentPlayer: res.Attacker,
			Status:        game.Miss.String(),
		})
	}
	if res.Finished {
		h.finishGame(ctx, r, res.Winner)
		return
	}
	h.sendToRoom(r, models.TypeTurn, models.Turn{CurrentPlayer: res.TurnHolder})
	h.scheduleBot(r)
}

// finishGame announces the winner, records the win and retires the room.
// Callers hold r.mu.
func (h *Hub) finishGame(ctx context.Context, r *Room, winner int) {
	h.sendToRoom(r, models.TypeFinish, models.Finish{WinPlayer: winner})
	r.closed = true
	h.dropRoom(r)

	w := r.players[winner]
	if w == nil {
		return
	}
	log.Printf("room %d: finished, seat %d (%s) wins", r.ID, winner, w.Name)
	if w.bot {
		return
	}
	if err := h.opts.Tally.RecordWin(ctx, w.Name); err != nil {
		log.Printf("tally: record win for %q: %v", w.Name, err)
		return
	}
	h.broadcastWinners(ctx)
}

// ----------------- Disconnect -----------------

// Disconnect forgets c. A player who leaves an unfinished game forfeits it,
// and a room still waiting for an opponent is closed.
func (h *Hub) Disconnect(ctx context.Context, c *Client) {
	c.close()

	h.mu.Lock()
	delete(h.clients, c)
	p := c.player
	if p != nil && p.client == c {
		p.client = nil
	}
	var rooms []*Room
	if p != nil {
		rooms = make([]*Room, 0, len(h.rooms))
		for _, r := range h.rooms {
			rooms = append(rooms, r)
		}
	}
	h.mu.Unlock()

	if p == nil {
		return
	}
	log.Printf("ws: player %d (%s) disconnected", p.ID, p.Name)
	lobbyChanged := false
	for _, r := range rooms {
		if h.leaveRoom(ctx, r, p) {
			lobbyChanged = true
		}
	}
	if lobbyChanged {
		h.broadcastRooms()
	}
}

// leaveRoom reports whether a lobby room was closed.
func (h *Hub) leaveRoom(ctx context.Context, r *Room, p *Player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	idx, ok := r.session.IndexOf(p.ID)
	if !ok {
		return false
	}
	switch r.session.Phase() {
	case game.AwaitingPlayers:
		r.closed = true
		h.dropRoom(r)
		log.Printf("room %d: host left", r.ID)
		return true
	case game.Placing, game.Active:
		winner, err := r.session.Forfeit(idx)
		if err != nil {
			log.Printf("room %d: forfeit seat %d: %v", r.ID, idx, err)
			return false
		}
		log.Printf("room %d: seat %d forfeits", r.ID, idx)
		h.finishGame(ctx, r, winner)
	}
	return false
}
