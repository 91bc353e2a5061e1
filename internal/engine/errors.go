package engine

import "errors"

// Sentinel errors returned by Engine.Start.
var (
	ErrInvalidLevel  = errors.New("engine: level must be >= 1")
	ErrLevelLocked   = errors.New("engine: level is locked")
	ErrSessionActive = errors.New("engine: a session is already running")
)
