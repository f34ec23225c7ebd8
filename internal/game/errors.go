package game

import "errors"

// Code is a machine-readable rejection reason.
type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeRoomFull           Code = "ROOM_FULL"
	CodeAlreadyJoined      Code = "ALREADY_JOINED"
	CodeWrongPhase         Code = "WRONG_PHASE"
	CodeUnknownParticipant Code = "UNKNOWN_PARTICIPANT"
	CodePlacementFinalized Code = "PLACEMENT_FINALIZED"
	CodeEmptyFleet         Code = "EMPTY_FLEET"
	CodeInvalidVessel      Code = "INVALID_VESSEL"
	CodeNotYourTurn        Code = "NOT_YOUR_TURN"
	CodeGameFinished       Code = "GAME_FINISHED"
	CodeOutOfBounds        Code = "OUT_OF_BOUNDS"
	CodeNoTargets          Code = "NO_TARGETS"
)

// Error is a rejected action. State is never modified when one is returned.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrRoomFull           = &Error{Code: CodeRoomFull, Message: "room is full"}
	ErrAlreadyJoined      = &Error{Code: CodeAlreadyJoined, Message: "participant already joined"}
	ErrWrongPhase         = &Error{Code: CodeWrongPhase, Message: "action not allowed in current phase"}
	ErrUnknownParticipant = &Error{Code: CodeUnknownParticipant, Message: "unknown participant"}
	ErrPlacementFinalized = &Error{Code: CodePlacementFinalized, Message: "placement already submitted"}
	ErrEmptyFleet         = &Error{Code: CodeEmptyFleet, Message: "fleet has no vessels"}
	ErrInvalidVessel      = &Error{Code: CodeInvalidVessel, Message: "invalid vessel"}
	ErrNotYourTurn        = &Error{Code: CodeNotYourTurn, Message: "not your turn"}
	ErrGameFinished       = &Error{Code: CodeGameFinished, Message: "game is finished"}
	ErrOutOfBounds        = &Error{Code: CodeOutOfBounds, Message: "coordinate outside the grid"}
	ErrNoTargets          = &Error{Code: CodeNoTargets, Message: "no unresolved coordinates left"}
)

// CodeOf extracts the rejection code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
