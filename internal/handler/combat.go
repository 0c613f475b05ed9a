package handler

import (
	"errors"
	"time"

	"github.com/mirshard/server/internal/combat"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
)

func (d *Deps) handleAttack(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state != stateInWorld {
		return
	}
	req, err := protocol.DecodePayload[protocol.AttackReq](payload)
	if err != nil {
		return
	}

	target := ecs.EntityID(req.TargetEntityID)
	result, err := d.Resolver.ExecuteAttack(ps.entity, target)
	if err != nil {
		sess.Send(protocol.MsgAttackRsp, (&protocol.AttackRsp{Code: attackErrorCode(err)}).MarshalBinary())
		return
	}

	sess.Send(protocol.MsgAttackRsp, (&protocol.AttackRsp{
		Code:     protocol.RespOK,
		Hit:      result.Hit,
		Critical: result.Critical,
		Damage:   result.TotalDamage,
	}).MarshalBinary())
}

func (d *Deps) handleSkill(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state != stateInWorld {
		return
	}
	req, err := protocol.DecodePayload[protocol.SkillReq](payload)
	if err != nil {
		return
	}

	tmpl := d.SkillTbl.Get(req.SkillID)
	if tmpl == nil {
		sess.Send(protocol.MsgSkillRsp, (&protocol.SkillRsp{Code: protocol.RespInvalidAction}).MarshalBinary())
		return
	}

	list, ok := d.Stores.Skills.Get(ps.entity)
	if !ok || list.IndexOf(req.SkillID) < 0 {
		sess.Send(protocol.MsgSkillRsp, (&protocol.SkillRsp{Code: protocol.RespInvalidAction}).MarshalBinary())
		return
	}
	if until, ok := list.Cooldowns[req.SkillID]; ok && time.Now().Before(until) {
		sess.Send(protocol.MsgSkillRsp, (&protocol.SkillRsp{Code: protocol.RespSkillCooldown}).MarshalBinary())
		return
	}

	if !d.Resolver.ConsumeMP(ps.entity, tmpl.MPCost) {
		sess.Send(protocol.MsgSkillRsp, (&protocol.SkillRsp{Code: protocol.RespInsufficientMP}).MarshalBinary())
		return
	}

	target := ecs.EntityID(req.TargetEntityID)
	if target == 0 {
		target = ps.entity // self-cast ("self" target_type skills)
	}
	at := combat.AttackType{
		HitCount:      1,
		AOERadius:     tmpl.AOERadius,
		RangeOverride: tmpl.Range,
		DamageScalar:  tmpl.DamageScalar,
	}
	if _, err := d.Resolver.ProcessAttackWithType(ps.entity, target, at); err != nil {
		sess.Send(protocol.MsgSkillRsp, (&protocol.SkillRsp{Code: attackErrorCode(err)}).MarshalBinary())
		return
	}

	list.Cooldowns[req.SkillID] = time.Now().Add(time.Duration(tmpl.CooldownMS) * time.Millisecond)
	d.Stores.MarkSkillsDirty(ps.entity)

	sess.Send(protocol.MsgSkillRsp, (&protocol.SkillRsp{Code: protocol.RespOK}).MarshalBinary())
}

// attackErrorCode maps a combat domain error to the wire response code the
// client expects; combat errors never reach the dispatcher as a panic or a
// dropped connection, per this package's handling of ordinary rejections.
func attackErrorCode(err error) protocol.ResponseCode {
	switch {
	case errors.Is(err, combat.ErrTargetNotFound):
		return protocol.RespTargetNotFound
	case errors.Is(err, combat.ErrTargetDead):
		return protocol.RespTargetDead
	case errors.Is(err, combat.ErrTargetOutOfRange):
		return protocol.RespTargetOutOfRange
	case errors.Is(err, combat.ErrInsufficientMP):
		return protocol.RespInsufficientMP
	default:
		return protocol.RespUnknown
	}
}
