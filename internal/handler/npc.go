package handler

import (
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
)

// npcInteractRange bounds how far a character may stand from an NPC/static
// interactable entity and still open it.
const npcInteractRange = 2

func (d *Deps) handleNpcInteract(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state != stateInWorld {
		return
	}
	req, err := protocol.DecodePayload[protocol.NpcInteractReq](payload)
	if err != nil {
		return
	}

	npc := ecs.EntityID(req.NpcEntityID)
	ident, ok := d.Stores.Identity.Get(npc)
	if !ok {
		sess.Send(protocol.MsgNpcInteractRsp, (&protocol.NpcInteractRsp{Code: protocol.RespTargetNotFound, NpcEntityID: req.NpcEntityID}).MarshalBinary())
		return
	}

	selfPos, ok := d.Stores.Position.Get(ps.entity)
	npcPos, okNpc := d.Stores.Position.Get(npc)
	if !ok || !okNpc || selfPos.MapID != npcPos.MapID || chebyshevDist(selfPos.X, selfPos.Y, npcPos.X, npcPos.Y) > npcInteractRange {
		sess.Send(protocol.MsgNpcInteractRsp, (&protocol.NpcInteractRsp{Code: protocol.RespTargetOutOfRange, NpcEntityID: req.NpcEntityID}).MarshalBinary())
		return
	}

	sess.Send(protocol.MsgNpcInteractRsp, (&protocol.NpcInteractRsp{Code: protocol.RespOK, NpcEntityID: req.NpcEntityID}).MarshalBinary())
	sess.Send(protocol.MsgNpcDialogShow, (&protocol.NpcDialog{
		NpcEntityID: req.NpcEntityID,
		Title:       ident.Name,
		Text:        "...",
	}).MarshalBinary())
}

// handleNpcMenuSelect decodes and verifies the client's choice from a prior
// NpcDialog and then discards it; no response is sent. Dialog trees, shops,
// and quest tables are not modeled.
func (d *Deps) handleNpcMenuSelect(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state != stateInWorld {
		return
	}
	if _, err := protocol.DecodePayload[protocol.NpcMenuSelect](payload); err != nil {
		return
	}
}
