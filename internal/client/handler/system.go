package handler

import "github.com/mirshard/server/internal/protocol"

// registerSystem binds the login-area heartbeat/kick ids and the System
// message area (§6 0x1500-0x15FF). MsgKick (login-time) and MsgSystemKick
// (mid-session) share the same Kick payload and the same client reaction,
// per protocol.Kick's doc comment, so both route to onKicked.
func registerSystem(r *Registry, deps *Deps) {
	r.RegisterHandler(protocol.MsgHeartbeatRsp, nil, func(payload []byte) {
		if _, err := protocol.DecodePayload[protocol.HeartbeatRsp](payload); err != nil {
			return
		}
		deps.Transport.OnHeartbeatRsp()
	})

	r.RegisterHandler(protocol.MsgServerNotice, nil, func(payload []byte) {
		notice, err := protocol.DecodePayload[protocol.ServerNotice](payload)
		if err != nil {
			return
		}
		if deps.OnServerNotice != nil {
			deps.OnServerNotice(notice.Text)
		}
	})

	r.RegisterHandler(protocol.MsgKick, nil, onKicked(deps))
	r.RegisterHandler(protocol.MsgSystemKick, nil, onKicked(deps))
}

func onKicked(deps *Deps) Handler {
	return func(payload []byte) {
		kick, err := protocol.DecodePayload[protocol.Kick](payload)
		if err != nil {
			return
		}
		if deps.OnKicked != nil {
			deps.OnKicked(kick.Reason)
		}
	}
}
