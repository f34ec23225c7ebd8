// Package server is the websocket gateway in front of the game core. It owns
// the player and room registries, serializes actions per room, and fans
// results out to connected players.
package server

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/alikri/ws-battleship/internal/engine"
	"github.com/alikri/ws-battleship/internal/game"
	"github.com/alikri/ws-battleship/internal/models"
	"github.com/alikri/ws-battleship/internal/stats"
)

// Conn is the outbound half of a player connection.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Options configure a Hub.
type Options struct {
	Rules    game.Rules
	Tally    stats.Tally
	BotDelay time.Duration
	BotFleet []engine.Class
	// NewRNG seeds the generator each room uses for random attacks and bot
	// fleets. Defaults to engine.NewRNG.
	NewRNG func() *rand.Rand
}

// Client is one websocket connection.
type Client struct {
	conn Conn

	writeMu sync.Mutex
	closed  bool

	// player is guarded by Hub.mu.
	player *Player
}

func NewClient(conn Conn) *Client { return &Client{conn: conn} }

// Player is a registered identity. It outlives its connection.
type Player struct {
	ID       int
	Name     string
	password string
	bot      bool
	client   *Client
}

// Room wraps one session with the lock that serializes its actions.
type Room struct {
	ID int

	mu      sync.Mutex
	session *game.Session
	rng     *rand.Rand
	players [2]*Player
	botSeat int
	closed  bool
}

// Hub holds every connection, player and room.
//
// Lock order: Room.mu may be held while taking Hub.mu, never the reverse.
// Client.writeMu is always taken last.
type Hub struct {
	opts Options

	mu           sync.Mutex
	clients      map[*Client]struct{}
	players      map[int]*Player
	byName       map[string]*Player
	rooms        map[int]*Room
	lobby        map[int]models.RoomInfo // rooms waiting for a second player
	waiting      map[int]int             // player id -> room id they host
	nextPlayerID int
	nextRoomID   int
}

func NewHub(opts Options) *Hub {
	if opts.Tally == nil {
		opts.Tally = stats.NewMemory()
	}
	if opts.NewRNG == nil {
		opts.NewRNG = engine.NewRNG
	}
	if len(opts.BotFleet) == 0 {
		opts.BotFleet, _ = engine.ParseFleet(engine.DefaultFleet)
	}
	return &Hub{
		opts:    opts,
		clients: map[*Client]struct{}{},
		players: map[int]*Player{},
		byName:  map[string]*Player{},
		rooms:   map[int]*Room{},
		lobby:   map[int]models.RoomInfo{},
		waiting: map[int]int{},
	}
}

// Tally returns the win store the hub records into.
func (h *Hub) Tally() stats.Tally { return h.opts.Tally }

// Connect registers a new connection.
func (h *Hub) Connect(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) playerOf(c *Client) *Player {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.player
}

func (h *Hub) getRoom(id int) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[id]
}

func (h *Hub) newRoom() *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextRoomID++
	r := &Room{
		ID:      h.nextRoomID,
		session: game.NewSession(h.nextRoomID, h.opts.Rules),
		rng:     h.opts.NewRNG(),
		botSeat: -1,
	}
	h.rooms[r.ID] = r
	return r
}

// dropRoom removes a room from every registry.
func (h *Hub) dropRoom(r *Room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, r.ID)
	delete(h.lobby, r.ID)
	for pid, rid := range h.waiting {
		if rid == r.ID {
			delete(h.waiting, pid)
		}
	}
}

// ----------------- Sending -----------------

func (c *Client) send(env models.Envelope) {
	if c == nil {
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return
	}
	if err := c.conn.WriteJSON(env); err != nil {
		log.Printf("ws: write %s failed: %v", env.Type, err)
	}
}

func (c *Client) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	_ = c.conn.Close()
}

func envelope(msgType string, payload any) (models.Envelope, bool) {
	env, err := models.NewEnvelope(msgType, payload)
	if err != nil {
		log.Printf("ws: %v", err)
		return models.Envelope{}, false
	}
	return env, true
}

func sendTo(c *Client, msgType string, payload any) {
	if env, ok := envelope(msgType, payload); ok {
		c.send(env)
	}
}

// sendToPlayer delivers to a player's current connection, if any.
func (h *Hub) sendToPlayer(p *Player, msgType string, payload any) {
	if p == nil || p.bot {
		return
	}
	h.mu.Lock()
	c := p.client
	h.mu.Unlock()
	sendTo(c, msgType, payload)
}

// sendToRoom delivers to both seats of r. Callers hold r.mu.
func (h *Hub) sendToRoom(r *Room, msgType string, payload any) {
	for _, p := range r.players {
		h.sendToPlayer(p, msgType, payload)
	}
}

// broadcast delivers to every registered connection.
func (h *Hub) broadcast(msgType string, payload any) {
	env, ok := envelope(msgType, payload)
	if !ok {
		return
	}
	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.player != nil {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()
	for _, c := range targets {
		c.send(env)
	}
}

// broadcastRooms sends update_room with every room still waiting.
func (h *Hub) broadcastRooms() {
	h.broadcast(models.TypeUpdateRoom, h.availableRooms())
}

func (h *Hub) availableRooms() []models.RoomInfo {
	h.mu.Lock()
	out := make([]models.RoomInfo, 0, len(h.lobby))
	for _, info := range h.lobby {
		out = append(out, info)
	}
	h.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}

// broadcastWinners sends update_winners with the current tally.
func (h *Hub) broadcastWinners(ctx context.Context) {
	if out, ok := h.winners(ctx); ok {
		h.broadcast(models.TypeUpdateWinners, out)
	}
}

func (h *Hub) winners(ctx context.Context) ([]models.Winner, bool) {
	entries, err := h.opts.Tally.Winners(ctx)
	if err != nil {
		log.Printf("tally: list winners: %v", err)
		return nil, false
	}
	out := make([]models.Winner, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.Winner{Name: e.Name, Wins: e.Wins})
	}
	return out, true
}
