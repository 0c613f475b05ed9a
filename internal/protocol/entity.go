package protocol

import "fmt"

// EntityDespawn tells a client an entity has left its view.
type EntityDespawn struct {
	EntityID uint64
}

func (p *EntityDespawn) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.EntityID))
	return w.Bytes()
}

func (p *EntityDespawn) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.EntityID = uint64(r.ReadQ())
	return r.Err()
}

func (p *EntityDespawn) Verify() error { return nil }

// EntityUpdate carries a position/facing/resource delta for an already
// visible entity, sent once per tick per moved or damaged entity rather
// than a full EntitySpawn.
type EntityUpdate struct {
	EntityID  uint64
	X, Y      int32
	Direction uint8
	HP, MaxHP int32
}

func (p *EntityUpdate) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.EntityID))
	w.WriteD(p.X)
	w.WriteD(p.Y)
	w.WriteC(p.Direction)
	w.WriteD(p.HP)
	w.WriteD(p.MaxHP)
	return w.Bytes()
}

func (p *EntityUpdate) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.EntityID = uint64(r.ReadQ())
	p.X = r.ReadD()
	p.Y = r.ReadD()
	p.Direction = r.ReadC()
	p.HP = r.ReadD()
	p.MaxHP = r.ReadD()
	return r.Err()
}

func (p *EntityUpdate) Verify() error {
	if p.Direction > 7 {
		return fmt.Errorf("%w: direction %d out of range", ErrVerifyFailed, p.Direction)
	}
	if p.HP < 0 || p.HP > p.MaxHP {
		return fmt.Errorf("%w: hp %d out of range for max %d", ErrVerifyFailed, p.HP, p.MaxHP)
	}
	return nil
}

// MonsterStats refreshes a monster's HP bar without a full EntityUpdate,
// for the common case (a hit landed, nothing else about it changed).
type MonsterStats struct {
	EntityID  uint64
	HP, MaxHP int32
}

func (p *MonsterStats) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.EntityID))
	w.WriteD(p.HP)
	w.WriteD(p.MaxHP)
	return w.Bytes()
}

func (p *MonsterStats) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.EntityID = uint64(r.ReadQ())
	p.HP = r.ReadD()
	p.MaxHP = r.ReadD()
	return r.Err()
}

func (p *MonsterStats) Verify() error {
	if p.HP < 0 || p.HP > p.MaxHP {
		return fmt.Errorf("%w: hp %d out of range for max %d", ErrVerifyFailed, p.HP, p.MaxHP)
	}
	return nil
}

// MonsterDeath announces a monster's death separately from EntityDespawn so
// clients can play a death animation before removing it from view.
type MonsterDeath struct {
	EntityID uint64
	KilledBy uint64
}

func (p *MonsterDeath) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteQ(int64(p.EntityID))
	w.WriteQ(int64(p.KilledBy))
	return w.Bytes()
}

func (p *MonsterDeath) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.EntityID = uint64(r.ReadQ())
	p.KilledBy = uint64(r.ReadQ())
	return r.Err()
}

func (p *MonsterDeath) Verify() error { return nil }

// ServerNotice is a server-authored text broadcast (GM announcement, map
// event) with no gameplay effect of its own.
type ServerNotice struct {
	Text string
}

func (p *ServerNotice) MarshalBinary() []byte {
	w := NewWriter()
	w.WriteS(p.Text)
	return w.Bytes()
}

func (p *ServerNotice) UnmarshalBinary(b []byte) error {
	r := NewReader(b)
	p.Text = r.ReadS()
	return r.Err()
}

func (p *ServerNotice) Verify() error {
	if len(p.Text) > 512 {
		return fmt.Errorf("%w: notice text too long", ErrVerifyFailed)
	}
	return nil
}
