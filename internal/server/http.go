package server

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/alikri/ws-battleship/internal/stats"
)

// Build metadata injected via -ldflags at build time.
var (
	BuildVersion = "dev"
	BuildTime    = ""
)

// NewRouter mounts the websocket endpoint and the HTTP side routes.
func NewRouter(h *Hub) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/winners", WinnersHandler(h.Tally())).Methods(http.MethodGet)
	r.HandleFunc("/version", VersionHandler).Methods(http.MethodGet)
	r.HandleFunc("/debug/rooms", h.handleDebugRooms).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.ServeWS)
	r.HandleFunc("/", h.ServeWS)
	return r
}

// GET /api/winners
func WinnersHandler(tally stats.Tally) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := tally.Winners(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, entries)
	}
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": BuildVersion, "time": BuildTime})
}

// RoomStatus is a debug view of one room.
type RoomStatus struct {
	ID      int      `json:"id"`
	Phase   string   `json:"phase"`
	Players []string `json:"players"`
	Turn    *int     `json:"turn,omitempty"`
	Bot     bool     `json:"bot"`
}

// Rooms snapshots every live room.
func (h *Hub) Rooms() []RoomStatus {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.Unlock()

	out := make([]RoomStatus, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		st := RoomStatus{ID: r.ID, Phase: r.session.Phase().String(), Bot: r.botSeat >= 0}
		for _, p := range r.session.Participants() {
			st.Players = append(st.Players, p.Name)
		}
		if turn, ok := r.session.TurnHolder(); ok {
			st.Turn = &turn
		}
		closed := r.closed
		r.mu.Unlock()
		if !closed {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Debug: inspect rooms and the lobby
func (h *Hub) handleDebugRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"lobby": h.availableRooms(),
		"rooms": h.Rooms(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

// WithCORS allows browser clients on other origins to read the JSON routes.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
