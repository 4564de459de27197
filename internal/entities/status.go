package entities

// StatusKind tags a status effect variant
type StatusKind uint8

// Status effect variants
const (
	StatusCorrupted StatusKind = iota
	StatusPoisoned
	StatusStunned
	StatusBuffed
)

func (k StatusKind) String() string {
	switch k {
	case StatusCorrupted:
		return "corrupted"
	case StatusPoisoned:
		return "poisoned"
	case StatusStunned:
		return "stunned"
	case StatusBuffed:
		return "buffed"
	default:
		return "unknown"
	}
}

// Stat names a buffable stat
type Stat uint8

// Buffable stats. StatCrit amounts are percentage points of crit chance.
const (
	StatAttack Stat = iota
	StatDefense
	StatCrit
)

func (s Stat) String() string {
	switch s {
	case StatAttack:
		return "attack"
	case StatDefense:
		return "defense"
	case StatCrit:
		return "crit"
	default:
		return "unknown"
	}
}

const (
	// MaxPoisonStacks caps Poisoned stacking
	MaxPoisonStacks = 5
	// PoisonDamagePerStack is dealt every status phase per stack
	PoisonDamagePerStack = 1
)

// StatusEffect is a tagged variant; which fields matter depends on Kind.
//
//	Corrupted: Level (total exposure, never expires)
//	Poisoned:  Stacks, Ticks
//	Stunned:   Ticks
//	Buffed:    Stat, Amount, Ticks
type StatusEffect struct {
	Kind   StatusKind `json:"kind"`
	Level  int        `json:"level,omitempty"`
	Stacks int        `json:"stacks,omitempty"`
	Ticks  int        `json:"ticks,omitempty"`
	Stat   Stat       `json:"stat,omitempty"`
	Amount int        `json:"amount,omitempty"`
}

// Corrupted builds a corruption exposure record
func Corrupted(level int) StatusEffect {
	return StatusEffect{Kind: StatusCorrupted, Level: level}
}

// Poisoned builds a poison effect
func Poisoned(stacks, ticks int) StatusEffect {
	return StatusEffect{Kind: StatusPoisoned, Stacks: stacks, Ticks: ticks}
}

// Stunned builds a stun
func Stunned(ticks int) StatusEffect {
	return StatusEffect{Kind: StatusStunned, Ticks: ticks}
}

// Buffed builds a temporary stat change
func Buffed(stat Stat, amount, ticks int) StatusEffect {
	return StatusEffect{Kind: StatusBuffed, Stat: stat, Amount: amount, Ticks: ticks}
}

// sameSlot reports whether two effects occupy the same slot on an entity.
// Buffs on different stats coexist.
func (s StatusEffect) sameSlot(o StatusEffect) bool {
	if s.Kind != o.Kind {
		return false
	}
	return s.Kind != StatusBuffed || s.Stat == o.Stat
}

// StatusTick reports what one status phase did to an entity
type StatusTick struct {
	PoisonDamage int
	Expired      []StatusKind
}
