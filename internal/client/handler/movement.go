package handler

import (
	"time"

	"github.com/mirshard/server/internal/client/mirror"
	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/protocol"
)

// nowMillis is the client's wall clock, used only to derive the gap between
// consecutive EntityUpdates for mirror.EntityInterpolator — it never needs
// to agree with the server's clock, only to be monotonic locally.
func nowMillis() int64 { return time.Now().UnixMilli() }

// registerMovement binds the entity-view and movement message area.
// MsgMonsterEnter/MsgMonsterLeave/MsgMonsterMove reuse the same wire shapes
// as their Entity* counterparts (EntitySpawn/EntityDespawn/EntityUpdate) —
// the separate msg_ids exist only so the client can tell a monster's view
// event from a player's without inspecting the payload, per §6.
func registerMovement(r *Registry, deps *Deps) {
	r.RegisterHandler(protocol.MsgMoveRsp, nil, func(payload []byte) {
		rsp, err := protocol.DecodePayload[protocol.MoveRsp](payload)
		if err != nil {
			return
		}
		deps.Movement.HandleMoveRsp(rsp)
	})

	r.RegisterHandler(protocol.MsgEntitySpawn, nil, spawnHandler(deps, component.KindPlayer))
	r.RegisterHandler(protocol.MsgMonsterEnter, nil, spawnHandler(deps, component.KindMonster))

	r.RegisterHandler(protocol.MsgEntityDespawn, nil, despawnHandler(deps))
	r.RegisterHandler(protocol.MsgMonsterLeave, nil, despawnHandler(deps))

	r.RegisterHandler(protocol.MsgEntityUpdate, nil, updateHandler(deps))
	r.RegisterHandler(protocol.MsgMonsterMove, nil, updateHandler(deps))

	r.RegisterHandler(protocol.MsgMonsterStats, nil, func(payload []byte) {
		stats, err := protocol.DecodePayload[protocol.MonsterStats](payload)
		if err != nil {
			return
		}
		deps.Mirror.UpdateEntityStats(ecs.EntityID(stats.EntityID), stats.HP, stats.MaxHP)
	})

	r.RegisterHandler(protocol.MsgMonsterDeath, nil, func(payload []byte) {
		death, err := protocol.DecodePayload[protocol.MonsterDeath](payload)
		if err != nil {
			return
		}
		if e := deps.Mirror.Get(ecs.EntityID(death.EntityID)); e != nil {
			e.HP = 0
		}
	})
}

func spawnHandler(deps *Deps, kind component.EntityKind) Handler {
	return func(payload []byte) {
		spawn, err := protocol.DecodePayload[protocol.EntitySpawn](payload)
		if err != nil {
			return
		}
		deps.Mirror.AddEntity(&mirror.Entity{
			ID:         ecs.EntityID(spawn.EntityID),
			Kind:       kind,
			TemplateID: spawn.TemplateID,
			Name:       spawn.Name,
			X:          spawn.X,
			Y:          spawn.Y,
			Direction:  component.Direction(spawn.Direction),
			Level:      spawn.Level,
			HP:         spawn.HP,
			MaxHP:      spawn.MaxHP,
		})
	}
}

func despawnHandler(deps *Deps) Handler {
	return func(payload []byte) {
		despawn, err := protocol.DecodePayload[protocol.EntityDespawn](payload)
		if err != nil {
			return
		}
		deps.Mirror.RemoveEntity(ecs.EntityID(despawn.EntityID))
	}
}

func updateHandler(deps *Deps) Handler {
	return func(payload []byte) {
		upd, err := protocol.DecodePayload[protocol.EntityUpdate](payload)
		if err != nil {
			return
		}
		id := ecs.EntityID(upd.EntityID)
		if id == deps.SelfID {
			// The locally controlled character's position is authoritative
			// only through MoveRsp; an EntityUpdate for self (e.g. a knockback
			// the server applied) still moves the mirror entity through its
			// interpolator, but doesn't touch Controller.LastConfirmedPosition
			// here — Controller.HandleMoveRsp remains the single writer of
			// that field.
			deps.Mirror.UpdateEntity(id, upd.X, upd.Y, component.Direction(upd.Direction), upd.HP, upd.MaxHP, 0)
			return
		}
		deps.Mirror.UpdateEntity(id, upd.X, upd.Y, component.Direction(upd.Direction), upd.HP, upd.MaxHP, nowMillis())
	}
}
