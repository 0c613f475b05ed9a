package handler

import (
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/transport"
)

// loginState is how far a connection has progressed through the
// login -> role-select -> in-world handoff. Handlers that require a later
// state reject messages sent out of order rather than relying on a framing-
// layer allow-list, per this package's doc comment.
type loginState int

const (
	stateUnauthenticated loginState = iota
	stateAuthenticated
	stateInWorld
)

// playerSession is the game-layer state a transport.Session accumulates as
// it progresses through login, character select, and world entry.
// transport.Session itself carries only connection/framing state (see its
// package doc), so this lives alongside it in the handler package instead.
type playerSession struct {
	sess    *transport.Session
	state   loginState
	account string

	characterID int64 // persisted character row id
	entity      ecs.EntityID
}

// sessionFor returns sess's game-layer state, creating it on first contact.
func (d *Deps) sessionFor(sess *transport.Session) *playerSession {
	ps, ok := d.sessions[sess]
	if !ok {
		ps = &playerSession{sess: sess}
		d.sessions[sess] = ps
	}
	return ps
}

// RemoveSession drops sess's game-layer state, called once the transport
// layer reports the connection closed.
func (d *Deps) RemoveSession(sess *transport.Session) {
	delete(d.sessions, sess)
}
