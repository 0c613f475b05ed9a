package handler

import (
	"net"
	"testing"

	"github.com/mirshard/server/internal/combat"
	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/spatial"
	"github.com/mirshard/server/internal/transport"
	"go.uber.org/zap"
)

// newTestDeps builds a Deps with every collaborator handlers actually touch
// in this file's tests (no persistence/content tables wired, matching what
// handleMove/handleAttack/handleSkill/handleNpcInteract read).
func newTestDeps(rng combat.Random) (*Deps, *ecs.World, *component.Stores) {
	world := ecs.NewWorld()
	stores := component.NewStores(world.Registry())
	grid := spatial.NewGrid(spatial.DefaultCellSize)
	bus := event.NewBus()
	resolver := combat.NewResolver(world, stores, grid, bus, rng, combat.DefaultConfig())
	return NewDeps(world, stores, grid, bus, resolver, nil, nil, nil, nil, nil, nil, zap.NewNop()), world, stores
}

func newTestSession(t *testing.T) (*transport.Session, net.Conn) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { serverConn.Close(); clientConn.Close() })
	return transport.NewSession(serverConn, 1, 8, 8, zap.NewNop()), clientConn
}

func spawnCharacter(world *ecs.World, stores *component.Stores, grid *spatial.Grid, mapID, x, y int32) ecs.EntityID {
	e := world.CreateEntity()
	stores.Identity.Set(e, &component.Identity{Kind: component.KindPlayer, Name: "tester"})
	stores.Position.Set(e, &component.Position{MapID: mapID, X: x, Y: y})
	stores.Attributes.Set(e, &component.Attributes{HP: 100, MaxHP: 100, MP: 50, MaxMP: 50, Attack: 20, Defense: 0})
	stores.CombatStats.Set(e, &component.CombatStats{AttackRange: 1})
	grid.Index(e, mapID, x, y)
	return e
}

func recvFrame(t *testing.T, sess *transport.Session) (protocol.Header, []byte) {
	t.Helper()
	select {
	case frame := <-sess.OutQueue:
		h, err := protocol.DecodeHeader(frame[:protocol.HeaderSize])
		if err != nil {
			t.Fatalf("DecodeHeader: %v", err)
		}
		return h, frame[protocol.HeaderSize:]
	default:
		t.Fatal("expected a queued outbound frame, got none")
		return protocol.Header{}, nil
	}
}

func TestHandleMoveAcceptsAdjacentStep(t *testing.T) {
	d, world, stores := newTestDeps(combat.FixedRandom{Value: 0})
	sess, _ := newTestSession(t)
	self := spawnCharacter(world, stores, d.Grid, 1, 5, 5)
	d.sessionFor(sess).state = stateInWorld
	d.sessionFor(sess).entity = self

	d.handleMove(sess, (&protocol.MoveReq{X: 6, Y: 5, Direction: 2}).MarshalBinary())

	_, payload := recvFrame(t, sess)
	rsp, err := protocol.DecodePayload[protocol.MoveRsp](payload)
	if err != nil {
		t.Fatalf("decode MoveRsp: %v", err)
	}
	if rsp.Code != protocol.RespOK || rsp.X != 6 || rsp.Y != 5 {
		t.Fatalf("expected accepted move to (6,5), got code=%v (%d,%d)", rsp.Code, rsp.X, rsp.Y)
	}
	pos, _ := stores.Position.Get(self)
	if pos.X != 6 || pos.Y != 5 {
		t.Fatalf("expected stored position updated to (6,5), got (%d,%d)", pos.X, pos.Y)
	}
}

func TestHandleMoveRejectsTeleportDistance(t *testing.T) {
	d, world, stores := newTestDeps(combat.FixedRandom{Value: 0})
	sess, _ := newTestSession(t)
	self := spawnCharacter(world, stores, d.Grid, 1, 0, 0)
	d.sessionFor(sess).state = stateInWorld
	d.sessionFor(sess).entity = self

	d.handleMove(sess, (&protocol.MoveReq{X: 20, Y: 20, Direction: 0}).MarshalBinary())

	_, payload := recvFrame(t, sess)
	rsp, _ := protocol.DecodePayload[protocol.MoveRsp](payload)
	if rsp.Code != protocol.RespInvalidAction {
		t.Fatalf("expected RespInvalidAction for a teleport-distance move, got %v", rsp.Code)
	}
	pos, _ := stores.Position.Get(self)
	if pos.X != 0 || pos.Y != 0 {
		t.Fatalf("expected position unchanged on rejection, got (%d,%d)", pos.X, pos.Y)
	}
}

func TestHandleMoveIgnoredOutsideInWorldState(t *testing.T) {
	d, world, stores := newTestDeps(combat.FixedRandom{Value: 0})
	sess, _ := newTestSession(t)
	self := spawnCharacter(world, stores, d.Grid, 1, 0, 0)
	d.sessionFor(sess).entity = self // state left at stateUnauthenticated

	d.handleMove(sess, (&protocol.MoveReq{X: 1, Y: 0, Direction: 2}).MarshalBinary())

	select {
	case <-sess.OutQueue:
		t.Fatal("expected no response while not in world")
	default:
	}
}

func TestHandleAttackOutOfRangeReturnsErrorCode(t *testing.T) {
	d, world, stores := newTestDeps(combat.FixedRandom{Value: 0})
	sess, _ := newTestSession(t)
	attacker := spawnCharacter(world, stores, d.Grid, 1, 0, 0)
	target := spawnCharacter(world, stores, d.Grid, 1, 10, 10)
	d.sessionFor(sess).state = stateInWorld
	d.sessionFor(sess).entity = attacker

	d.handleAttack(sess, (&protocol.AttackReq{TargetEntityID: uint64(target)}).MarshalBinary())

	_, payload := recvFrame(t, sess)
	rsp, _ := protocol.DecodePayload[protocol.AttackRsp](payload)
	if rsp.Code != protocol.RespTargetOutOfRange {
		t.Fatalf("expected RespTargetOutOfRange, got %v", rsp.Code)
	}
}

func TestHandleAttackHitDealsDamage(t *testing.T) {
	d, world, stores := newTestDeps(combat.FixedRandom{Value: 0.5}) // 0.5 clears the 0.05 miss roll; variance factor is exactly 1
	sess, _ := newTestSession(t)
	attacker := spawnCharacter(world, stores, d.Grid, 1, 0, 0)
	target := spawnCharacter(world, stores, d.Grid, 1, 1, 0)
	d.sessionFor(sess).state = stateInWorld
	d.sessionFor(sess).entity = attacker

	d.handleAttack(sess, (&protocol.AttackReq{TargetEntityID: uint64(target)}).MarshalBinary())

	_, payload := recvFrame(t, sess)
	rsp, _ := protocol.DecodePayload[protocol.AttackRsp](payload)
	if rsp.Code != protocol.RespOK || !rsp.Hit || rsp.Damage <= 0 {
		t.Fatalf("expected a successful hit with positive damage, got %+v", rsp)
	}
	attrs, _ := stores.Attributes.Get(target)
	if attrs.HP >= 100 {
		t.Fatalf("expected target HP reduced below 100, got %d", attrs.HP)
	}
}

func TestHandleNpcInteractRejectsOutOfRange(t *testing.T) {
	d, world, stores := newTestDeps(combat.FixedRandom{Value: 0})
	sess, _ := newTestSession(t)
	self := spawnCharacter(world, stores, d.Grid, 1, 0, 0)
	npc := world.CreateEntity()
	stores.Identity.Set(npc, &component.Identity{Kind: component.KindDoor, Name: "Gatekeeper"})
	stores.Position.Set(npc, &component.Position{MapID: 1, X: 50, Y: 50})
	d.sessionFor(sess).state = stateInWorld
	d.sessionFor(sess).entity = self

	d.handleNpcInteract(sess, (&protocol.NpcInteractReq{NpcEntityID: uint64(npc)}).MarshalBinary())

	_, payload := recvFrame(t, sess)
	rsp, err := protocol.DecodePayload[protocol.NpcInteractRsp](payload)
	if err != nil {
		t.Fatalf("decode NpcInteractRsp: %v", err)
	}
	if rsp.Code != protocol.RespTargetOutOfRange {
		t.Fatalf("expected RespTargetOutOfRange, got %v", rsp.Code)
	}
}

func TestHandleNpcInteractSendsDialogOnSuccess(t *testing.T) {
	d, world, stores := newTestDeps(combat.FixedRandom{Value: 0})
	sess, _ := newTestSession(t)
	self := spawnCharacter(world, stores, d.Grid, 1, 0, 0)
	npc := world.CreateEntity()
	stores.Identity.Set(npc, &component.Identity{Kind: component.KindDoor, Name: "Gatekeeper"})
	stores.Position.Set(npc, &component.Position{MapID: 1, X: 1, Y: 0})
	d.sessionFor(sess).state = stateInWorld
	d.sessionFor(sess).entity = self

	d.handleNpcInteract(sess, (&protocol.NpcInteractReq{NpcEntityID: uint64(npc)}).MarshalBinary())

	_, okPayload := recvFrame(t, sess)
	okRsp, _ := protocol.DecodePayload[protocol.NpcInteractRsp](okPayload)
	if okRsp.Code != protocol.RespOK {
		t.Fatalf("expected RespOK, got %v", okRsp.Code)
	}
	_, dialogPayload := recvFrame(t, sess)
	dialog, err := protocol.DecodePayload[protocol.NpcDialog](dialogPayload)
	if err != nil {
		t.Fatalf("decode NpcDialog: %v", err)
	}
	if dialog.Title != "Gatekeeper" {
		t.Fatalf("expected dialog title from NPC identity, got %q", dialog.Title)
	}
}
