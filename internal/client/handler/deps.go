package handler

import (
	"github.com/mirshard/server/internal/client/mirror"
	"github.com/mirshard/server/internal/client/movement"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
	"go.uber.org/zap"
)

// Deps bundles every collaborator the client handlers need, mirroring the
// server's handler.Deps bundle.
type Deps struct {
	Mirror    *mirror.Mirror
	Movement  *movement.Controller
	Transport *transport.ClientTransport
	SelfID    ecs.EntityID
	Log       *zap.Logger

	// The following are UI-layer callbacks; nil is a valid no-op binding
	// for a headless client (tests, bots) since every handler below checks
	// before calling.
	OnServerNotice func(text string)
	OnKicked       func(reason string)
	OnAttackResult func(*protocol.AttackRsp)
	OnSkillResult  func(*protocol.SkillRsp)
	OnSkillEffect  func(*protocol.SkillEffect)
	OnEffect       func(*protocol.PlayEffect)
	OnSound        func(*protocol.PlaySound)
}

func NewDeps(m *mirror.Mirror, mv *movement.Controller, t *transport.ClientTransport, selfID ecs.EntityID, log *zap.Logger) *Deps {
	return &Deps{Mirror: m, Movement: mv, Transport: t, SelfID: selfID, Log: log}
}

// RegisterAll binds every client message area into r, mirroring the
// server's handler.RegisterAll + handler.Deps pattern.
func RegisterAll(r *Registry, deps *Deps) {
	registerMovement(r, deps)
	registerCombat(r, deps)
	registerSystem(r, deps)
}
