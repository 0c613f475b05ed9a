package protocol

import "fmt"

// MoveReq is sent by a client requesting to move its controlled character.
type MoveReq struct {
	X, Y      int32
	Direction uint8
}

func (p *MoveReq) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteD(p.X)
	w.WriteD(p.Y)
	w.WriteC(p.Direction)
	return w.Bytes()
}

func (p *MoveReq) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.X = r.ReadD()
	p.Y = r.ReadD()
	p.Direction = r.ReadC()
	return r.Err()
}

func (p *MoveReq) Verify() error {
	if p.Direction > 7 {
		return fmt.Errorf("%w: direction %d out of range", ErrVerifyFailed, p.Direction)
	}
	return nil
}

// MoveRsp confirms or rejects a MoveReq, echoing the authoritative position.
type MoveRsp struct {
	Code ResponseCode
	X, Y int32
}

func (p *MoveRsp) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteC(byte(p.Code))
	w.WriteD(p.X)
	w.WriteD(p.Y)
	return w.Bytes()
}

func (p *MoveRsp) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Code = ResponseCode(r.ReadC())
	p.X = r.ReadD()
	p.Y = r.ReadD()
	return r.Err()
}

func (p *MoveRsp) Verify() error {
	if p.Code > RespUnknown {
		return fmt.Errorf("%w: response code %d out of range", ErrVerifyFailed, p.Code)
	}
	return nil
}

// EntitySpawn announces a newly visible entity to a client.
type EntitySpawn struct {
	EntityID   uint64
	Kind       uint8
	TemplateID int32
	Name       string
	X, Y       int32
	Direction  uint8
	Level      int32
	HP, MaxHP  int32
}

func (p *EntitySpawn) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.EntityID))
	w.WriteC(p.Kind)
	w.WriteD(p.TemplateID)
	w.WriteS(p.Name)
	w.WriteD(p.X)
	w.WriteD(p.Y)
	w.WriteC(p.Direction)
	w.WriteD(p.Level)
	w.WriteD(p.HP)
	w.WriteD(p.MaxHP)
	return w.Bytes()
}

func (p *EntitySpawn) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.EntityID = uint64(r.ReadQ())
	p.Kind = r.ReadC()
	p.TemplateID = r.ReadD()
	p.Name = r.ReadS()
	p.X = r.ReadD()
	p.Y = r.ReadD()
	p.Direction = r.ReadC()
	p.Level = r.ReadD()
	p.HP = r.ReadD()
	p.MaxHP = r.ReadD()
	return r.Err()
}

func (p *EntitySpawn) Verify() error {
	if len(p.Name) > 64 {
		return fmt.Errorf("%w: name too long", ErrVerifyFailed)
	}
	if p.Direction > 7 {
		return fmt.Errorf("%w: direction %d out of range", ErrVerifyFailed, p.Direction)
	}
	if p.HP < 0 || p.HP > p.MaxHP {
		return fmt.Errorf("%w: hp %d out of range for max %d", ErrVerifyFailed, p.HP, p.MaxHP)
	}
	return nil
}
