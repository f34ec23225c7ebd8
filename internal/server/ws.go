package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/alikri/ws-battleship/internal/models"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ServeWS upgrades the request and pumps messages into the hub until the
// peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	log.Printf("ws: connect from=%s", r.RemoteAddr)
	c := NewClient(conn)
	h.Connect(c)
	defer h.Disconnect(r.Context(), c)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error from=%s: %v", r.RemoteAddr, err)
			}
			return
		}
		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("ws: malformed message from=%s: %v", r.RemoteAddr, err)
			continue
		}
		h.Handle(r.Context(), c, env)
	}
}
