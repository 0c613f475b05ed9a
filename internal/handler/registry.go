package handler

import (
	"github.com/mirshard/server/internal/dispatch"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
)

// RegisterAll wires every inbound msg_id this repo handles into d, mirroring
// the teacher's handler.RegisterAll entry point but against
// dispatch.Dispatcher's flat msg_id map instead of an opcode+session-state
// registry.
func RegisterAll(d *dispatch.Dispatcher, deps *Deps) {
	bind(d, protocol.MsgLoginReq, deps.handleLogin)
	bind(d, protocol.MsgHeartbeatReq, deps.handleHeartbeat)

	bind(d, protocol.MsgRoleListReq, deps.handleRoleList)
	bind(d, protocol.MsgCreateRoleReq, deps.handleCreateRole)
	bind(d, protocol.MsgSelectRoleReq, deps.handleSelectRole)
	bind(d, protocol.MsgEnterGameReq, deps.handleEnterGame)

	bind(d, protocol.MsgMoveReq, deps.handleMove)

	bind(d, protocol.MsgAttackReq, deps.handleAttack)
	bind(d, protocol.MsgSkillReq, deps.handleSkill)

	bindJSON(d, protocol.MsgNpcInteractReq, deps.handleNpcInteract)
	bindJSON(d, protocol.MsgNpcMenuSelect, deps.handleNpcMenuSelect)
}

// bind adapts a (sess, payload)-shaped handler to dispatch.Handler's
// (sess, header, payload) signature for binary-framed messages.
func bind(d *dispatch.Dispatcher, msgID protocol.MsgID, fn func(*transport.Session, []byte)) {
	d.RegisterHandler(msgID, func(sess any, _ protocol.Header, payload []byte) {
		fn(sess.(*transport.Session), payload)
	})
}

// bindJSON is bind for the NPC area's JSON-bodied messages; the handler
// itself still receives the raw payload bytes and unmarshals with
// encoding/json rather than the binary Reader idiom.
func bindJSON(d *dispatch.Dispatcher, msgID protocol.MsgID, fn func(*transport.Session, []byte)) {
	bind(d, msgID, fn)
}
