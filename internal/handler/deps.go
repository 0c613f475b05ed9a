// Package handler binds inbound msg_ids to game logic. Grounded on the
// teacher's internal/handler/context.go Deps-bundle-plus-RegisterAll shape,
// generalized from the teacher's opcode+session-state allow-list (every
// handler registered against a []packet.SessionState slice) to a flat
// msg_id -> dispatch.Handler map: this protocol has no equivalent to the
// teacher's handshake/auth/in-world state machine at the framing layer, so
// handlers gate on session state themselves (see session.go) rather than
// the registry rejecting a mismatched state before the handler ever runs.
package handler

import (
	"go.uber.org/zap"

	"github.com/mirshard/server/internal/combat"
	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/config"
	"github.com/mirshard/server/internal/content"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
	"github.com/mirshard/server/internal/persist"
	"github.com/mirshard/server/internal/snowflake"
	"github.com/mirshard/server/internal/spatial"
	"github.com/mirshard/server/internal/transport"
)

// Deps bundles every collaborator a handler needs to resolve one message.
// The teacher's Deps carries on the order of fifteen manager/repo
// interfaces; this one carries only what the message catalogue in this
// repo's design actually touches.
type Deps struct {
	World    *ecs.World
	Stores   *component.Stores
	Grid     *spatial.Grid
	Bus      *event.Bus
	Resolver *combat.Resolver
	Repo     *persist.Repository
	Accounts *persist.AccountRepo
	Monsters *content.MonsterTable
	SkillTbl *content.SkillTable
	IDs      *snowflake.Generator
	Cfg      *config.Config
	Log      *zap.Logger

	sessions map[*transport.Session]*playerSession
}

func NewDeps(
	world *ecs.World,
	stores *component.Stores,
	grid *spatial.Grid,
	bus *event.Bus,
	resolver *combat.Resolver,
	repo *persist.Repository,
	accounts *persist.AccountRepo,
	monsters *content.MonsterTable,
	skills *content.SkillTable,
	ids *snowflake.Generator,
	cfg *config.Config,
	log *zap.Logger,
) *Deps {
	return &Deps{
		World:    world,
		Stores:   stores,
		Grid:     grid,
		Bus:      bus,
		Resolver: resolver,
		Repo:     repo,
		Accounts: accounts,
		Monsters: monsters,
		SkillTbl: skills,
		IDs:      ids,
		Cfg:      cfg,
		Log:      log,
		sessions: make(map[*transport.Session]*playerSession),
	}
}
