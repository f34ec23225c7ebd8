package models

import (
	"encoding/json"
	"fmt"
)

// ========================= Envelope =========================
// Every frame is {type, data, id} where data is itself a JSON document
// encoded as a string.

type Envelope struct {
	Type string `json:"type"`
	Data string `json:"data"`
	ID   int    `json:"id"`
}

// Message types, inbound and outbound.
const (
	TypeReg           = "reg"
	TypeCreateRoom    = "create_room"
	TypeAddUserToRoom = "add_user_to_room"
	TypeSinglePlay    = "single_play"
	TypeAddShips      = "add_ships"
	TypeAttack        = "attack"
	TypeRandomAttack  = "randomAttack"
	TypeUpdateRoom    = "update_room"
	TypeUpdateWinners = "update_winners"
	TypeCreateGame    = "create_game"
	TypeStartGame     = "start_game"
	TypeTurn          = "turn"
	TypeFinish        = "finish"
)

// NewEnvelope encodes payload into the data field. A nil payload leaves
// data empty.
func NewEnvelope(msgType string, payload any) (Envelope, error) {
	env := Envelope{Type: msgType}
	if payload == nil {
		return env, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	env.Data = string(b)
	return env, nil
}

// Decode unmarshals the data field into out.
func (e Envelope) Decode(out any) error {
	if e.Data == "" {
		return fmt.Errorf("decode %s: empty data", e.Type)
	}
	if err := json.Unmarshal([]byte(e.Data), out); err != nil {
		return fmt.Errorf("decode %s: %w", e.Type, err)
	}
	return nil
}

// ========================= Shared shapes =========================

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Ship is a vessel as the client describes it. Direction true means the
// ship runs down the Y axis.
type Ship struct {
	Position  Position `json:"position"`
	Direction bool     `json:"direction"`
	Length    int      `json:"length"`
	Type      string   `json:"type"`
}

type RoomUser struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// ========================= Inbound =========================

type RegRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AddUserToRoomRequest struct {
	IndexRoom int `json:"indexRoom"`
}

type AddShipsRequest struct {
	GameID      int    `json:"gameId"`
	Ships       []Ship `json:"ships"`
	IndexPlayer int    `json:"indexPlayer"`
}

type AttackRequest struct {
	GameID      int `json:"gameId"`
	X           int `json:"x"`
	Y           int `json:"y"`
	IndexPlayer int `json:"indexPlayer"`
}

type RandomAttackRequest struct {
	GameID      int `json:"gameId"`
	IndexPlayer int `json:"indexPlayer"`
}

// ========================= Outbound =========================

type RegResponse struct {
	Name      string `json:"name"`
	Index     int    `json:"index"`
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
}

type RoomInfo struct {
	RoomID    int        `json:"roomId"`
	RoomUsers []RoomUser `json:"roomUsers"`
}

type Winner struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

type CreateGame struct {
	IDGame   int `json:"idGame"`
	IDPlayer int `json:"idPlayer"`
}

type StartGame struct {
	Ships              []Ship `json:"ships"`
	CurrentPlayerIndex int    `json:"currentPlayerIndex"`
}

type Turn struct {
	CurrentPlayer int `json:"currentPlayer"`
}

type AttackFeedback struct {
	Position      Position `json:"position"`
	CurrentPlayer int      `json:"currentPlayer"`
	Status        string   `json:"status"`
}

type Finish struct {
	WinPlayer int `json:"winPlayer"`
}
