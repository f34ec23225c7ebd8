package server

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/alikri/ws-battleship/internal/game"
)

// scheduleBot arms a delayed shot when the bot holds the turn. Callers hold
// r.mu; the shot runs on its own goroutine once the lock is released.
func (h *Hub) scheduleBot(r *Room) {
	if !r.botTurn() {
		return
	}
	time.AfterFunc(h.opts.BotDelay, func() { h.botAttack(r) })
}

func (r *Room) botTurn() bool {
	if r.closed || r.botSeat < 0 || r.session.Phase() != game.Active {
		return false
	}
	holder, ok := r.session.TurnHolder()
	return ok && holder == r.botSeat
}

func (h *Hub) botAttack(r *Room) {
	ctx, span := tracer.Start(context.Background(), "bot.attack", trace.WithAttributes(attribute.Int("room.id", r.ID)))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.botTurn() {
		return
	}
	res, err := r.session.RandomAttack(r.botSeat, r.rng)
	if err != nil {
		log.Printf("room %d: bot attack: %v", r.ID, err)
		return
	}
	h.publishAttack(ctx, r, res)
}
