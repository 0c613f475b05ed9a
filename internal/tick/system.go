// Package tick drives the server's single fixed-rate logic loop (§4.M),
// adapted directly from the teacher's internal/core/system package — the
// phase ordering already matches the design's tick contract, so only the
// concrete systems registered into it are new.
package tick

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // drain per-session receive queues and dispatch
	PhasePreUpdate               // unused: the event bus delivers synchronously
	PhaseUpdate                  // combat, monster AI
	PhasePostUpdate              // spawn (drops run from EntityDeath events)
	PhaseOutput                  // build + send outgoing packets
	PhasePersist                 // persistence repository flush
	PhaseCleanup                 // destroy queued entities
)

// System is the interface every tick-driven system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
