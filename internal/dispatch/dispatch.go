// Package dispatch maps msg_id to handlers and invokes them with panic
// recovery. Grounded on the teacher's internal/net/packet/registry.go, with
// the per-opcode session-state allow-list dropped (no equivalent concept in
// this protocol) and the 1-byte opcode space widened to the 16-bit msg_id
// namespace of the wire catalogue.
package dispatch

import (
	"fmt"

	"github.com/mirshard/server/internal/protocol"
	"go.uber.org/zap"
)

// Handler processes one decoded frame. sess is an opaque connection handle
// (server Session or client state) to avoid an import cycle with transport.
type Handler func(sess any, header protocol.Header, payload []byte)

// Dispatcher maps msg_id to Handler, with an optional default for unmatched
// ids.
type Dispatcher struct {
	handlers map[protocol.MsgID]Handler
	def      Handler
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[protocol.MsgID]Handler),
		log:      log,
	}
}

// RegisterHandler binds fn to msgID. A later call for the same id overrides
// the previous binding.
func (d *Dispatcher) RegisterHandler(msgID protocol.MsgID, fn Handler) {
	d.handlers[msgID] = fn
}

// RegisterDefault sets the handler invoked when no binding matches.
func (d *Dispatcher) RegisterDefault(fn Handler) {
	d.def = fn
}

// Dispatch looks up the handler for header.MsgID and calls it with panic
// recovery, so one malformed or buggy handler never takes down the tick
// loop or I/O pump.
func (d *Dispatcher) Dispatch(sess any, header protocol.Header, payload []byte) error {
	msgID := protocol.MsgID(header.MsgID)
	fn, ok := d.handlers[msgID]
	if !ok {
		if d.def != nil {
			fn = d.def
		} else {
			d.log.Debug("unhandled msg_id", zap.Uint16("msg_id", header.MsgID))
			return nil
		}
	}
	return d.safeCall(fn, sess, header, payload)
}

func (d *Dispatcher) safeCall(fn Handler, sess any, header protocol.Header, payload []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error("handler panic recovered",
				zap.Uint16("msg_id", header.MsgID),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("dispatch: handler panic for msg_id %d: %v", header.MsgID, rec)
		}
	}()
	fn(sess, header, payload)
	return nil
}
