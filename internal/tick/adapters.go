package tick

import (
	"context"
	"time"

	"github.com/mirshard/server/internal/ai"
	"github.com/mirshard/server/internal/dispatch"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/persist"
	"github.com/mirshard/server/internal/spawn"
	"github.com/mirshard/server/internal/transport"
	"go.uber.org/zap"
)

// inputSystem is the PhaseInput adapter: it absorbs newly accepted
// connections off the Listener's channel and, once per tick, drains every
// tracked session's InQueue to completion through the Dispatcher. Grounded
// on the teacher's system.NewInputSystem, but collapsed into this single
// fixed-rate tick's Input phase instead of a separate high-frequency poll
// loop.
type inputSystem struct {
	listener     *transport.Listener
	dispatcher   *dispatch.Dispatcher
	sessions     map[*transport.Session]struct{}
	onDisconnect func(*transport.Session)
	log          *zap.Logger
}

// NewInputSystem wires listener's accepted connections and dispatcher's
// handler registry into the tick loop. onDisconnect is called once per
// closed session so the handler package can drop its game-layer state
// (transport has no knowledge of playerSession, per the handler package's
// doc comment on that split).
func NewInputSystem(listener *transport.Listener, dispatcher *dispatch.Dispatcher, onDisconnect func(*transport.Session), log *zap.Logger) System {
	return &inputSystem{
		listener:     listener,
		dispatcher:   dispatcher,
		sessions:     make(map[*transport.Session]struct{}),
		onDisconnect: onDisconnect,
		log:          log,
	}
}

func (i *inputSystem) Phase() Phase { return PhaseInput }

func (i *inputSystem) Update(time.Duration) {
	i.absorbNewSessions()

	for sess := range i.sessions {
		if sess.IsClosed() {
			delete(i.sessions, sess)
			if i.onDisconnect != nil {
				i.onDisconnect(sess)
			}
			continue
		}
		i.drainSession(sess)
	}
}

func (i *inputSystem) absorbNewSessions() {
	for {
		select {
		case sess := <-i.listener.NewSessions():
			i.sessions[sess] = struct{}{}
		default:
			return
		}
	}
}

func (i *inputSystem) drainSession(sess *transport.Session) {
	for {
		select {
		case frame := <-sess.InQueue:
			if err := i.dispatcher.Dispatch(sess, frame.Header, frame.Payload); err != nil {
				i.log.Warn("dispatch failed", zap.Uint64("session", sess.ID), zap.Error(err))
			}
		default:
			return
		}
	}
}

// aiSystem adapts ai.System to the Update phase.
type aiSystem struct{ s *ai.System }

func NewAISystem(s *ai.System) System          { return &aiSystem{s: s} }
func (a *aiSystem) Phase() Phase               { return PhaseUpdate }
func (a *aiSystem) Update(dt time.Duration)    { a.s.Tick(dt) }

// spawnSystem adapts spawn.System to PostUpdate; respawn timers are
// evaluated after combat has had a chance to produce deaths this tick.
type spawnSystem struct{ s *spawn.System }

func NewSpawnSystem(s *spawn.System) System { return &spawnSystem{s: s} }
func (s *spawnSystem) Phase() Phase         { return PhasePostUpdate }
func (s *spawnSystem) Update(time.Duration) { s.s.Tick() }

// cleanupSystem flushes the world's deferred destruction queue.
type cleanupSystem struct{ world *ecs.World }

func NewCleanupSystem(world *ecs.World) System { return &cleanupSystem{world: world} }
func (c *cleanupSystem) Phase() Phase          { return PhaseCleanup }
func (c *cleanupSystem) Update(time.Duration)  { c.world.FlushDestroyQueue() }

// persistSystem runs the Repository's throttled flush once per
// flush_interval, not every tick.
type persistSystem struct {
	repo     *persist.Repository
	log      *zap.Logger
	interval time.Duration
	elapsed  time.Duration
}

func NewPersistSystem(repo *persist.Repository, log *zap.Logger, interval time.Duration) System {
	return &persistSystem{repo: repo, log: log, interval: interval}
}

func (p *persistSystem) Phase() Phase { return PhasePersist }

func (p *persistSystem) Update(dt time.Duration) {
	p.elapsed += dt
	if p.elapsed < p.interval {
		return
	}
	p.elapsed = 0
	if err := p.repo.FlushDirtyCharacters(context.Background()); err != nil {
		p.log.Error("flush_dirty_characters failed", zap.Error(err))
	}
}
