package component

// Attributes holds the primary progression and resource stats of a
// character or monster entity.
type Attributes struct {
	Level  int32
	Exp    int64
	HP     int32
	MaxHP  int32
	MP     int32
	MaxMP  int32
	Attack int32
	Defense int32
	MagicAttack int32
	MagicDefense int32
	Speed  int32
	Gold   int64
}

// CombatStats holds the derived combat-relevant stats consulted by the
// combat resolver. AttackRange is in tiles (Chebyshev distance).
type CombatStats struct {
	AttackRange     int32
	CriticalChance  float64 // 0..1
	EvasionChance   float64 // 0..1
}

// AttributeModifiers is the derived bonus set recomputed from equipped
// items and learned passive skills. Combat reads this alongside Attributes
// rather than mutating Attributes directly, so the base values stay
// recoverable on unequip/unlearn.
type AttributeModifiers struct {
	Attack       int32
	Defense      int32
	MagicAttack  int32
	MagicDefense int32
	MaxHP        int32
	MaxMP        int32
	CriticalChance float64
	EvasionChance  float64
}
