package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
)

func (d *Deps) handleLogin(sess *transport.Session, payload []byte) {
	req, err := protocol.DecodePayload[protocol.LoginReq](payload)
	if err != nil {
		d.Log.Debug("login_req decode failed", zap.Error(err))
		return
	}

	ctx := context.Background()
	account, err := d.Accounts.Load(ctx, req.AccountName)
	if err != nil {
		d.Log.Error("account load failed", zap.String("account", req.AccountName), zap.Error(err))
		sess.Send(protocol.MsgLoginRsp, (&protocol.LoginRsp{Code: protocol.RespUnknown}).MarshalBinary())
		return
	}
	if account == nil {
		sess.Send(protocol.MsgLoginRsp, (&protocol.LoginRsp{Code: protocol.RespAccountNotFound}).MarshalBinary())
		return
	}
	if account.Banned || !d.Accounts.ValidatePassword(account.PasswordHash, req.Password) {
		sess.Send(protocol.MsgLoginRsp, (&protocol.LoginRsp{Code: protocol.RespPasswordWrong}).MarshalBinary())
		return
	}

	ps := d.sessionFor(sess)
	ps.state = stateAuthenticated
	ps.account = account.Name

	if err := d.Accounts.UpdateLastActive(ctx, account.Name, sess.IP); err != nil {
		d.Log.Warn("update_last_active failed", zap.String("account", account.Name), zap.Error(err))
	}
	if err := d.Accounts.SetOnline(ctx, account.Name, true); err != nil {
		d.Log.Warn("set_online failed", zap.String("account", account.Name), zap.Error(err))
	}

	sess.Send(protocol.MsgLoginRsp, (&protocol.LoginRsp{
		Code:        protocol.RespOK,
		AccessLevel: account.AccessLevel,
	}).MarshalBinary())
}

func (d *Deps) handleHeartbeat(sess *transport.Session, payload []byte) {
	if _, err := protocol.DecodePayload[protocol.HeartbeatReq](payload); err != nil {
		return
	}
	sess.Send(protocol.MsgHeartbeatRsp, (&protocol.HeartbeatRsp{
		ServerTimeMS: time.Now().UnixMilli(),
	}).MarshalBinary())
}
