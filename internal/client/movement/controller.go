// Package movement is the client's authority over the locally controlled
// character's confirmed position. It never predicts: a move request is sent
// and only applied to the mirror once the server's MoveRsp confirms it,
// per §4.L ("no client-side prediction beyond visual interpolation") — the
// interpolator in internal/client/mirror is what makes that feel smooth
// despite the round trip.
package movement

import (
	"github.com/mirshard/server/internal/client/mirror"
	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
)

// IWalkabilityProvider answers whether a tile can be walked onto, letting
// Controller reject an obviously illegal move locally instead of always
// spending a round trip to find out.
type IWalkabilityProvider interface {
	IsWalkable(mapID, x, y int32) bool
}

// Position is a confirmed map-space location.
type Position struct {
	MapID, X, Y int32
}

// Controller drives RequestMove/HandleMoveRsp for the one entity under
// local control.
type Controller struct {
	transport   *transport.ClientTransport
	mirror      *mirror.Mirror
	walkability IWalkabilityProvider
	selfID      ecs.EntityID

	LastConfirmedPosition Position
	pending               bool

	// OnMoveRejected fires with the server's response code whenever a move
	// request comes back with anything other than RespOK.
	OnMoveRejected func(code protocol.ResponseCode)
}

func NewController(t *transport.ClientTransport, m *mirror.Mirror, w IWalkabilityProvider, selfID ecs.EntityID, start Position) *Controller {
	return &Controller{
		transport:             t,
		mirror:                m,
		walkability:           w,
		selfID:                selfID,
		LastConfirmedPosition: start,
	}
}

// RequestMove validates x,y against the walkability provider and, if the
// tile is walkable and no move is already outstanding, sends a MoveReq.
// It returns false without sending anything otherwise.
func (c *Controller) RequestMove(x, y int32, dir component.Direction) bool {
	if c.pending {
		return false
	}
	if c.walkability != nil && !c.walkability.IsWalkable(c.LastConfirmedPosition.MapID, x, y) {
		return false
	}
	c.pending = true
	c.transport.Send(protocol.MsgMoveReq, (&protocol.MoveReq{X: x, Y: y, Direction: uint8(dir)}).MarshalBinary())
	return true
}

// HandleMoveRsp applies the server's authoritative answer to the most
// recent RequestMove. rsp.X/rsp.Y are authoritative in both the accepted
// and rejected case (the server always echoes the character's true
// position), so the rollback on rejection is simply trusting them rather
// than restoring a locally cached value.
func (c *Controller) HandleMoveRsp(rsp *protocol.MoveRsp) {
	c.pending = false
	c.LastConfirmedPosition.X = rsp.X
	c.LastConfirmedPosition.Y = rsp.Y

	if e := c.mirror.Get(c.selfID); e != nil {
		e.X, e.Y = rsp.X, rsp.Y
		// A rejection snaps immediately rather than interpolating: the
		// controlled character never "slides back" from a denied move.
		if rsp.Code != protocol.RespOK {
			e.Pos = mirror.NewEntityInterpolator(rsp.X, rsp.Y)
		} else {
			e.Pos.ReceiveStateNow(rsp.X, rsp.Y)
		}
		c.mirror.UpdateEntityStats(c.selfID, e.HP, e.MaxHP)
	}

	if rsp.Code != protocol.RespOK && c.OnMoveRejected != nil {
		c.OnMoveRejected(rsp.Code)
	}
}
