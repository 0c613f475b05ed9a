package handler

import "github.com/mirshard/server/internal/protocol"

// registerCombat binds the Combat/Skill message area (§6 0x1300-0x13FF).
// None of these carry enough state for the mirror to react on its own — the
// outcome is purely a UI concern (damage numbers, cooldown bars, effect
// sprites) — so each handler just decodes and forwards to the matching
// Deps callback rather than touching Mirror directly.
func registerCombat(r *Registry, deps *Deps) {
	r.RegisterHandler(protocol.MsgAttackRsp, nil, func(payload []byte) {
		rsp, err := protocol.DecodePayload[protocol.AttackRsp](payload)
		if err != nil {
			return
		}
		if deps.OnAttackResult != nil {
			deps.OnAttackResult(rsp)
		}
	})

	r.RegisterHandler(protocol.MsgSkillRsp, nil, func(payload []byte) {
		rsp, err := protocol.DecodePayload[protocol.SkillRsp](payload)
		if err != nil {
			return
		}
		if deps.OnSkillResult != nil {
			deps.OnSkillResult(rsp)
		}
	})

	r.RegisterHandler(protocol.MsgSkillEffect, nil, func(payload []byte) {
		effect, err := protocol.DecodePayload[protocol.SkillEffect](payload)
		if err != nil {
			return
		}
		if deps.OnSkillEffect != nil {
			deps.OnSkillEffect(effect)
		}
	})

	r.RegisterHandler(protocol.MsgPlayEffect, nil, func(payload []byte) {
		effect, err := protocol.DecodePayload[protocol.PlayEffect](payload)
		if err != nil {
			return
		}
		if deps.OnEffect != nil {
			deps.OnEffect(effect)
		}
	})

	r.RegisterHandler(protocol.MsgPlaySound, nil, func(payload []byte) {
		sound, err := protocol.DecodePayload[protocol.PlaySound](payload)
		if err != nil {
			return
		}
		if deps.OnSound != nil {
			deps.OnSound(sound)
		}
	})
}
