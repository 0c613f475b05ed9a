package combat

import "errors"

// Domain errors returned to the client in the matching response payload.
// Per §7 these are never fatal — transport and dispatch never see them.
var (
	ErrTargetOutOfRange = errors.New("combat: target out of range")
	ErrTargetDead       = errors.New("combat: target is dead")
	ErrTargetNotFound   = errors.New("combat: target not found")
	ErrInsufficientMP   = errors.New("combat: insufficient mp")
)
