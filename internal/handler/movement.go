package handler

import (
	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
)

// maxMoveStep bounds how far a single MoveReq may relocate a character in
// one tile step, rejecting a teleport-speed request outright rather than
// clamping it to something plausible.
const maxMoveStep = 1

func (d *Deps) handleMove(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state != stateInWorld {
		return
	}
	req, err := protocol.DecodePayload[protocol.MoveReq](payload)
	if err != nil {
		return
	}

	pos, ok := d.Stores.Position.Get(ps.entity)
	if !ok {
		return
	}
	attrs, ok := d.Stores.Attributes.Get(ps.entity)
	if !ok || attrs.HP <= 0 {
		sess.Send(protocol.MsgMoveRsp, (&protocol.MoveRsp{Code: protocol.RespInvalidAction, X: pos.X, Y: pos.Y}).MarshalBinary())
		return
	}

	if chebyshevDist(pos.X, pos.Y, req.X, req.Y) > maxMoveStep {
		sess.Send(protocol.MsgMoveRsp, (&protocol.MoveRsp{Code: protocol.RespInvalidAction, X: pos.X, Y: pos.Y}).MarshalBinary())
		return
	}

	pos.X = req.X
	pos.Y = req.Y
	pos.Direction = component.Direction(req.Direction)
	d.Grid.Move(ps.entity, pos.MapID, pos.X, pos.Y)
	d.Stores.MarkAttributesDirty(ps.entity) // position changes ride the same dirty flush as attributes

	sess.Send(protocol.MsgMoveRsp, (&protocol.MoveRsp{Code: protocol.RespOK, X: pos.X, Y: pos.Y}).MarshalBinary())
}

func chebyshevDist(x1, y1, x2, y2 int32) int32 {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
