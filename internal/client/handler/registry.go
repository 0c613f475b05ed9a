// Package handler is the client-side Handler Registry of §4.C/§4.M: one
// file per message-id area (movement, combat, system), registered into
// a Registry by RegisterAll(r *Registry, deps *Deps) — the client mirror of
// the server's internal/handler package's RegisterAll + Deps pattern, with
// callbacks optionally scoped to an OwnerExpiry weak handle per the
// duck-typed-callback pattern.
package handler

import (
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
	"go.uber.org/zap"
)

// Handler processes one decoded frame's payload. There is exactly one
// connection on the client side, so unlike the server's dispatch.Handler
// there is no session parameter to thread through.
type Handler func(payload []byte)

type binding struct {
	fn    Handler
	owner *OwnerExpiry
}

// Registry maps msg_id to Handler, mirroring dispatch.Dispatcher's shape
// but keyed for the client's single-connection, owner-expiry-aware callback
// style instead of dispatch.Dispatcher's server sess-any signature.
type Registry struct {
	bindings map[protocol.MsgID]binding
	def      Handler
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{bindings: make(map[protocol.MsgID]binding), log: log}
}

// RegisterHandler binds fn to msgID, optionally scoped to owner. A nil
// owner never expires. A later call for the same id overrides the
// previous binding, matching dispatch.Dispatcher's last-write-wins rule.
func (r *Registry) RegisterHandler(msgID protocol.MsgID, owner *OwnerExpiry, fn Handler) {
	r.bindings[msgID] = binding{fn: fn, owner: owner}
}

// RegisterDefault sets the handler invoked when no binding matches.
func (r *Registry) RegisterDefault(fn Handler) { r.def = fn }

// HandleFrame is passed directly to ClientTransport.Update: it looks up the
// binding for frame's msg_id, skips it if the owner has expired, and
// recovers from a handler panic the same way the server's Dispatcher does
// so one bad UI callback never takes down the client's message pump.
func (r *Registry) HandleFrame(frame transport.Frame) {
	msgID := protocol.MsgID(frame.Header.MsgID)
	b, ok := r.bindings[msgID]
	if !ok {
		if r.def != nil {
			r.safeCall(r.def, frame.Payload)
		} else if r.log != nil {
			r.log.Debug("unhandled msg_id", zap.Uint16("msg_id", frame.Header.MsgID))
		}
		return
	}
	if b.owner.isExpired() {
		return
	}
	r.safeCall(b.fn, frame.Payload)
}

func (r *Registry) safeCall(fn Handler, payload []byte) {
	defer func() {
		if rec := recover(); rec != nil && r.log != nil {
			r.log.Error("client handler panic recovered", zap.Any("panic", rec))
		}
	}()
	fn(payload)
}
