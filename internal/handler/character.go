package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/persist"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/skill"
	"github.com/mirshard/server/internal/transport"
)

// defaultStartingStats are the level-1 attribute values given to a newly
// created character, independent of class until a class-balance table
// exists in content.
var defaultStartingStats = struct {
	HP, MP         int32
	Attack, Defense int32
}{HP: 100, MP: 50, Attack: 10, Defense: 5}

func (d *Deps) handleRoleList(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state < stateAuthenticated {
		return
	}
	if _, err := protocol.DecodePayload[protocol.RoleListReq](payload); err != nil {
		return
	}

	rows, err := d.Repo.ListCharacters(context.Background(), ps.account)
	if err != nil {
		d.Log.Error("list_characters failed", zap.String("account", ps.account), zap.Error(err))
		sess.Send(protocol.MsgRoleListRsp, (&protocol.RoleListRsp{}).MarshalBinary())
		return
	}

	roles := make([]protocol.RoleSummary, 0, len(rows))
	for _, r := range rows {
		roles = append(roles, protocol.RoleSummary{
			PersistentID: r.ID,
			Name:         r.Name,
			Class:        r.Class,
			Gender:       r.Gender,
			Level:        r.Level,
		})
	}
	sess.Send(protocol.MsgRoleListRsp, (&protocol.RoleListRsp{Roles: roles}).MarshalBinary())
}

func (d *Deps) handleCreateRole(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state < stateAuthenticated {
		return
	}
	req, err := protocol.DecodePayload[protocol.CreateRoleReq](payload)
	if err != nil {
		d.Log.Debug("create_role_req decode failed", zap.Error(err))
		return
	}

	ctx := context.Background()
	exists, err := d.Repo.CharacterNameExists(ctx, req.Name)
	if err != nil {
		d.Log.Error("character_name_exists failed", zap.Error(err))
		sess.Send(protocol.MsgCreateRoleRsp, (&protocol.CreateRoleRsp{Code: protocol.RespUnknown}).MarshalBinary())
		return
	}
	if exists {
		sess.Send(protocol.MsgCreateRoleRsp, (&protocol.CreateRoleRsp{Code: protocol.RespNameExists}).MarshalBinary())
		return
	}

	row := &persist.CharacterRow{
		AccountName: ps.account,
		Name:        req.Name,
		Class:       req.Class,
		Gender:      req.Gender,
		Level:       1,
		HP:          defaultStartingStats.HP,
		MaxHP:       defaultStartingStats.HP,
		MP:          defaultStartingStats.MP,
		MaxMP:       defaultStartingStats.MP,
		Attack:      defaultStartingStats.Attack,
		Defense:     defaultStartingStats.Defense,
		MapID:       d.Cfg.Content.StartingMapID,
		X:           d.Cfg.Content.StartingX,
		Y:           d.Cfg.Content.StartingY,
	}
	if err := d.Repo.CreateCharacter(ctx, row); err != nil {
		d.Log.Error("create_character failed", zap.Error(err))
		sess.Send(protocol.MsgCreateRoleRsp, (&protocol.CreateRoleRsp{Code: protocol.RespUnknown}).MarshalBinary())
		return
	}
	sess.Send(protocol.MsgCreateRoleRsp, (&protocol.CreateRoleRsp{
		Code:         protocol.RespOK,
		PersistentID: row.ID,
	}).MarshalBinary())
}

func (d *Deps) handleSelectRole(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state < stateAuthenticated {
		return
	}
	req, err := protocol.DecodePayload[protocol.SelectRoleReq](payload)
	if err != nil {
		return
	}

	char, _, _, err := d.Repo.LoadCharacterFull(context.Background(), req.PersistentID)
	if err != nil {
		sess.Send(protocol.MsgSelectRoleRsp, (&protocol.SelectRoleRsp{Code: protocol.RespAccountNotFound}).MarshalBinary())
		return
	}
	if char.AccountName != ps.account {
		sess.Send(protocol.MsgSelectRoleRsp, (&protocol.SelectRoleRsp{Code: protocol.RespInvalidAction}).MarshalBinary())
		return
	}

	ps.characterID = char.ID
	sess.Send(protocol.MsgSelectRoleRsp, (&protocol.SelectRoleRsp{Code: protocol.RespOK}).MarshalBinary())
}

func (d *Deps) handleEnterGame(sess *transport.Session, payload []byte) {
	ps := d.sessionFor(sess)
	if ps.state < stateAuthenticated || ps.characterID == 0 {
		return
	}
	if _, err := protocol.DecodePayload[protocol.EnterGameReq](payload); err != nil {
		return
	}

	ctx := context.Background()
	char, items, skills, err := d.Repo.LoadCharacterFull(ctx, ps.characterID)
	if err != nil {
		d.Log.Error("load_character_full failed", zap.Int64("char_id", ps.characterID), zap.Error(err))
		sess.Send(protocol.MsgEnterGameRsp, (&protocol.EnterGameRsp{Code: protocol.RespUnknown}).MarshalBinary())
		return
	}

	e := d.World.CreateEntity()
	ps.entity = e
	ps.state = stateInWorld

	d.Stores.Identity.Set(e, &component.Identity{
		Kind:         component.KindPlayer,
		PersistentID: char.ID,
		AccountName:  char.AccountName,
		Name:         char.Name,
		Gender:       int8(char.Gender),
	})
	pos := &component.Position{X: char.X, Y: char.Y, MapID: char.MapID, Direction: component.Direction(char.Direction), LastActive: time.Now()}
	d.Stores.Position.Set(e, pos)
	d.Stores.Attributes.Set(e, &component.Attributes{
		Level: char.Level, Exp: char.Exp,
		HP: char.HP, MaxHP: char.MaxHP, MP: char.MP, MaxMP: char.MaxMP,
		Attack: char.Attack, Defense: char.Defense,
		MagicAttack: char.MagicAttack, MagicDefense: char.MagicDefense,
		Gold: char.Gold,
	})
	d.Stores.CombatStats.Set(e, &component.CombatStats{AttackRange: 1})
	d.Grid.Index(e, char.MapID, char.X, char.Y)

	equip := &component.Equipment{}
	d.Stores.Equipment.Set(e, equip)
	for _, it := range items {
		item := d.World.CreateEntity()
		d.Stores.Item.Set(item, &component.ItemInstance{
			TemplateID:       it.TemplateID,
			Count:            it.Count,
			Durability:       it.Durability,
			MaxDurability:    it.MaxDurability,
			ShapeCode:        it.ShapeCode,
			EnhancementLevel: it.EnhancementLevel,
			Luck:             it.Luck,
		})
		d.Stores.InventoryOwner.Set(item, &component.InventoryOwner{Owner: e, SlotIndex: it.SlotIndex})
		if it.EquippedSlot >= 0 {
			equip.Set(component.EquipSlot(it.EquippedSlot), item)
		}
	}

	skillList := &component.SkillList{Cooldowns: make(map[int32]time.Time)}
	for _, s := range skills {
		hotkey := int8(0)
		if s.Hotkey > 0 {
			hotkey = int8(s.Hotkey)
		}
		skillList.Skills = append(skillList.Skills, component.SkillInstance{TemplateID: s.TemplateID, Level: s.Level, Hotkey: hotkey})
		if s.CooldownUntil != nil {
			skillList.Cooldowns[s.TemplateID] = *s.CooldownUntil
		}
	}
	d.Stores.Skills.Set(e, skillList)
	skill.RecomputeModifiers(d.Stores, e)

	sess.Send(protocol.MsgEnterGameRsp, (&protocol.EnterGameRsp{
		Code:      protocol.RespOK,
		EntityID:  uint64(e),
		X:         pos.X,
		Y:         pos.Y,
		MapID:     pos.MapID,
		Direction: uint8(pos.Direction),
		Level:     char.Level,
		HP:        char.HP, MaxHP: char.MaxHP,
		MP: char.MP, MaxMP: char.MaxMP,
	}).MarshalBinary())
}
