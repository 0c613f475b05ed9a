package protocol

import "fmt"

// RoleListReq carries no fields; the account to list is known from the
// connection's authenticated session.
type RoleListReq struct{}

func (p *RoleListReq) MarshalBinary() []byte        { return nil }
func (p *RoleListReq) UnmarshalBinary([]byte) error { return nil }
func (p *RoleListReq) Verify() error                { return nil }

// RoleSummary is one row of a role-select screen.
type RoleSummary struct {
	PersistentID int64
	Name         string
	Class        int16
	Gender       int16
	Level        int32
}

// RoleListRsp lists every character on the authenticated account.
type RoleListRsp struct {
	Roles []RoleSummary
}

func (p *RoleListRsp) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteH(uint16(len(p.Roles)))
	for _, r := range p.Roles {
		w.WriteQ(r.PersistentID)
		w.WriteS(r.Name)
		w.WriteH(uint16(r.Class))
		w.WriteH(uint16(r.Gender))
		w.WriteD(r.Level)
	}
	return w.Bytes()
}

func (p *RoleListRsp) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	n := int(r.ReadH())
	p.Roles = make([]RoleSummary, 0, n)
	for i := 0; i < n; i++ {
		var role RoleSummary
		role.PersistentID = r.ReadQ()
		role.Name = r.ReadS()
		role.Class = int16(r.ReadH())
		role.Gender = int16(r.ReadH())
		role.Level = r.ReadD()
		p.Roles = append(p.Roles, role)
	}
	return r.Err()
}

func (p *RoleListRsp) Verify() error {
	if len(p.Roles) > 16 {
		return fmt.Errorf("%w: too many roles", ErrVerifyFailed)
	}
	return nil
}

// CreateRoleReq requests a new character on the authenticated account.
type CreateRoleReq struct {
	Name   string
	Class  int16
	Gender int16
}

func (p *CreateRoleReq) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteS(p.Name)
	w.WriteH(uint16(p.Class))
	w.WriteH(uint16(p.Gender))
	return w.Bytes()
}

func (p *CreateRoleReq) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Name = r.ReadS()
	p.Class = int16(r.ReadH())
	p.Gender = int16(r.ReadH())
	return r.Err()
}

func (p *CreateRoleReq) Verify() error {
	if p.Name == "" || len(p.Name) > 16 {
		return fmt.Errorf("%w: role name length", ErrVerifyFailed)
	}
	return nil
}

// CreateRoleRsp answers a CreateRoleReq.
type CreateRoleRsp struct {
	Code         ResponseCode
	PersistentID int64
}

func (p *CreateRoleRsp) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteC(byte(p.Code))
	w.WriteQ(p.PersistentID)
	return w.Bytes()
}

func (p *CreateRoleRsp) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Code = ResponseCode(r.ReadC())
	p.PersistentID = r.ReadQ()
	return r.Err()
}

func (p *CreateRoleRsp) Verify() error {
	if p.Code > RespUnknown {
		return fmt.Errorf("%w: response code %d out of range", ErrVerifyFailed, p.Code)
	}
	return nil
}

// SelectRoleReq picks a character to enter the world with.
type SelectRoleReq struct {
	PersistentID int64
}

func (p *SelectRoleReq) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(p.PersistentID)
	return w.Bytes()
}

func (p *SelectRoleReq) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.PersistentID = r.ReadQ()
	return r.Err()
}

func (p *SelectRoleReq) Verify() error { return nil }

// SelectRoleRsp answers a SelectRoleReq.
type SelectRoleRsp struct {
	Code ResponseCode
}

func (p *SelectRoleRsp) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteC(byte(p.Code))
	return w.Bytes()
}

func (p *SelectRoleRsp) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Code = ResponseCode(r.ReadC())
	return r.Err()
}

func (p *SelectRoleRsp) Verify() error {
	if p.Code > RespUnknown {
		return fmt.Errorf("%w: response code %d out of range", ErrVerifyFailed, p.Code)
	}
	return nil
}

// EnterGameReq requests the world-entry handoff for the previously
// selected character.
type EnterGameReq struct{}

func (p *EnterGameReq) MarshalBinary() []byte        { return nil }
func (p *EnterGameReq) UnmarshalBinary([]byte) error { return nil }
func (p *EnterGameReq) Verify() error                { return nil }

// EnterGameRsp carries the full snapshot a client needs to render its own
// character the instant it enters the world.
type EnterGameRsp struct {
	Code      ResponseCode
	EntityID  uint64
	X, Y      int32
	MapID     int32
	Direction uint8
	Level     int32
	HP, MaxHP int32
	MP, MaxMP int32
}

func (p *EnterGameRsp) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteC(byte(p.Code))
	w.WriteQ(int64(p.EntityID))
	w.WriteD(p.X)
	w.WriteD(p.Y)
	w.WriteD(p.MapID)
	w.WriteC(p.Direction)
	w.WriteD(p.Level)
	w.WriteD(p.HP)
	w.WriteD(p.MaxHP)
	w.WriteD(p.MP)
	w.WriteD(p.MaxMP)
	return w.Bytes()
}

func (p *EnterGameRsp) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Code = ResponseCode(r.ReadC())
	p.EntityID = uint64(r.ReadQ())
	p.X = r.ReadD()
	p.Y = r.ReadD()
	p.MapID = r.ReadD()
	p.Direction = r.ReadC()
	p.Level = r.ReadD()
	p.HP = r.ReadD()
	p.MaxHP = r.ReadD()
	p.MP = r.ReadD()
	p.MaxMP = r.ReadD()
	return r.Err()
}

func (p *EnterGameRsp) Verify() error {
	if p.Code > RespUnknown {
		return fmt.Errorf("%w: response code %d out of range", ErrVerifyFailed, p.Code)
	}
	if p.Direction > 7 {
		return fmt.Errorf("%w: direction %d out of range", ErrVerifyFailed, p.Direction)
	}
	return nil
}
