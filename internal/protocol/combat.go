package protocol

import "fmt"

// AttackReq requests a basic attack against a target entity.
type AttackReq struct {
	TargetEntityID uint64
}

func (p *AttackReq) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.TargetEntityID))
	return w.Bytes()
}

func (p *AttackReq) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.TargetEntityID = uint64(r.ReadQ())
	return r.Err()
}

func (p *AttackReq) Verify() error { return nil }

// AttackRsp answers an AttackReq with the resolved outcome.
type AttackRsp struct {
	Code     ResponseCode
	Hit      bool
	Critical bool
	Damage   int32
}

func (p *AttackRsp) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteC(byte(p.Code))
	w.WriteC(boolByte(p.Hit))
	w.WriteC(boolByte(p.Critical))
	w.WriteD(p.Damage)
	return w.Bytes()
}

func (p *AttackRsp) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Code = ResponseCode(r.ReadC())
	p.Hit = r.ReadC() != 0
	p.Critical = r.ReadC() != 0
	p.Damage = r.ReadD()
	return r.Err()
}

func (p *AttackRsp) Verify() error {
	if p.Code > RespUnknown {
		return fmt.Errorf("%w: response code %d out of range", ErrVerifyFailed, p.Code)
	}
	return nil
}

// SkillReq casts a learned skill, optionally against a target.
type SkillReq struct {
	SkillID        int32
	TargetEntityID uint64
}

func (p *SkillReq) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteD(p.SkillID)
	w.WriteQ(int64(p.TargetEntityID))
	return w.Bytes()
}

func (p *SkillReq) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.SkillID = r.ReadD()
	p.TargetEntityID = uint64(r.ReadQ())
	return r.Err()
}

func (p *SkillReq) Verify() error { return nil }

// SkillRsp answers a SkillReq.
type SkillRsp struct {
	Code ResponseCode
}

func (p *SkillRsp) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteC(byte(p.Code))
	return w.Bytes()
}

func (p *SkillRsp) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Code = ResponseCode(r.ReadC())
	return r.Err()
}

func (p *SkillRsp) Verify() error {
	if p.Code > RespUnknown {
		return fmt.Errorf("%w: response code %d out of range", ErrVerifyFailed, p.Code)
	}
	return nil
}

// SkillEffect announces a resolved skill cast to everyone in view, carrying
// every entity it affected (the primary target plus any AOE victims).
type SkillEffect struct {
	Caster    uint64
	SkillID   int32
	TargetIDs []uint64
}

func (p *SkillEffect) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.Caster))
	w.WriteD(p.SkillID)
	w.WriteH(uint16(len(p.TargetIDs)))
	for _, id := range p.TargetIDs {
		w.WriteQ(int64(id))
	}
	return w.Bytes()
}

func (p *SkillEffect) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Caster = uint64(r.ReadQ())
	p.SkillID = r.ReadD()
	n := int(r.ReadH())
	p.TargetIDs = make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		p.TargetIDs = append(p.TargetIDs, uint64(r.ReadQ()))
	}
	return r.Err()
}

func (p *SkillEffect) Verify() error {
	if len(p.TargetIDs) > 64 {
		return fmt.Errorf("%w: too many skill effect targets", ErrVerifyFailed)
	}
	return nil
}

// PlayEffect triggers a one-shot visual effect on an entity, with no
// combat meaning of its own (ring procs, level-up flashes).
type PlayEffect struct {
	EntityID uint64
	EffectID int32
}

func (p *PlayEffect) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.EntityID))
	w.WriteD(p.EffectID)
	return w.Bytes()
}

func (p *PlayEffect) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.EntityID = uint64(r.ReadQ())
	p.EffectID = r.ReadD()
	return r.Err()
}

func (p *PlayEffect) Verify() error { return nil }

// PlaySound triggers a one-shot sound anchored to an entity's position.
type PlaySound struct {
	EntityID uint64
	SoundID  int32
}

func (p *PlaySound) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.EntityID))
	w.WriteD(p.SoundID)
	return w.Bytes()
}

func (p *PlaySound) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.EntityID = uint64(r.ReadQ())
	p.SoundID = r.ReadD()
	return r.Err()
}

func (p *PlaySound) Verify() error { return nil }

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
