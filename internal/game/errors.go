package game

import "errors"

// Typed failures returned by Apply. A failed Apply is a no-op: every
// precondition is checked before the first mutation, so callers may keep
// using the state after an error.
var (
	ErrIllegalAction  = errors.New("illegal action")
	ErrHandFull       = errors.New("hand is full")
	ErrScuttleInvalid = errors.New("invalid scuttle")
	ErrCounterBlocked = errors.New("counter blocked")
	ErrJackBlocked    = errors.New("jack blocked")
	ErrTargetMissing  = errors.New("target card missing")
	ErrCardMissing    = errors.New("card missing")
)
