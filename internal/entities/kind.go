package entities

// Kind is the closed set of entity variants. Behaviour differences between
// kinds live in the Profile table, not in code paths.
type Kind uint8

// Entity kinds
const (
	KindPlayer Kind = iota
	KindRat
	KindSpider
	KindCultist
	KindHusk
	KindWraith
)

// EnemyKinds lists every enemy kind in spawn table order
var EnemyKinds = []Kind{KindRat, KindSpider, KindCultist, KindHusk, KindWraith}

func (k Kind) String() string {
	return Profile(k).Name
}

// IsEnemy reports whether the kind is AI controlled
func (k Kind) IsEnemy() bool {
	return k != KindPlayer
}

// OnHit is an effect an attacker's kind inflicts on a successful hit
type OnHit struct {
	// Chance in [0, 1]; 1 always applies
	Chance float64
	// Effect is added to the defender when set
	Effect *StatusEffect
	// Corruption is routed through the corruption system when positive
	Corruption int
}

// KindProfile holds the per-kind stat and behaviour parameters
type KindProfile struct {
	Name    string
	Glyph   rune
	MaxHP   int
	Attack  int
	Defense int

	// Perception is the sight radius in tiles
	Perception float64
	// Aggression stretches the leash: leash = Perception * (1 + Aggression)
	Aggression float64
	// ReactionDelay is how many ticks an Alert enemy waits before chasing
	ReactionDelay int
	// AttackRange in Chebyshev tiles
	AttackRange int

	FleeCapable bool
	// FleeThreshold is the HP fraction below which a flee-capable kind runs
	FleeThreshold float64
	// DisengageRadius is the distance at which a fleeing enemy calms down
	DisengageRadius float64

	OnHit []OnHit

	// Bounty is the currency paid out when the player kills one
	Bounty int
	// MinDepth is the shallowest floor the kind spawns on
	MinDepth int
	// Weight is the relative spawn weight once eligible
	Weight float64
}

var profiles = map[Kind]KindProfile{
	KindPlayer: {
		Name:        "player",
		Glyph:       '@',
		MaxHP:       30,
		Attack:      6,
		Defense:     2,
		AttackRange: 1,
	},
	KindRat: {
		Name:            "rat",
		Glyph:           'r',
		MaxHP:           6,
		Attack:          3,
		Defense:         0,
		Perception:      6,
		Aggression:      0.8,
		ReactionDelay:   1,
		AttackRange:     1,
		FleeCapable:     true,
		FleeThreshold:   0.3,
		DisengageRadius: 8,
		Bounty:          1,
		MinDepth:        1,
		Weight:          5,
	},
	KindSpider: {
		Name:          "spider",
		Glyph:         's',
		MaxHP:         8,
		Attack:        3,
		Defense:       1,
		Perception:    5,
		Aggression:    1.0,
		ReactionDelay: 1,
		AttackRange:   1,
		OnHit: []OnHit{
			{Chance: 0.5, Effect: &StatusEffect{Kind: StatusPoisoned, Stacks: 1, Ticks: 3}},
		},
		Bounty:   2,
		MinDepth: 1,
		Weight:   3,
	},
	KindCultist: {
		Name:            "cultist",
		Glyph:           'c',
		MaxHP:           10,
		Attack:          4,
		Defense:         1,
		Perception:      7,
		Aggression:      0.5,
		ReactionDelay:   2,
		AttackRange:     1,
		FleeCapable:     true,
		FleeThreshold:   0.2,
		DisengageRadius: 9,
		OnHit: []OnHit{
			{Chance: 1, Corruption: 5},
		},
		Bounty:   3,
		MinDepth: 1,
		Weight:   3,
	},
	KindHusk: {
		Name:          "husk",
		Glyph:         'h',
		MaxHP:         18,
		Attack:        5,
		Defense:       3,
		Perception:    4,
		Aggression:    0.3,
		ReactionDelay: 3,
		AttackRange:   1,
		// Stun lasts two status phases so it covers the victim's next tick
		OnHit: []OnHit{
			{Chance: 0.2, Effect: &StatusEffect{Kind: StatusStunned, Ticks: 2}},
		},
		Bounty:   4,
		MinDepth: 2,
		Weight:   2,
	},
	KindWraith: {
		Name:            "wraith",
		Glyph:           'w',
		MaxHP:           12,
		Attack:          6,
		Defense:         2,
		Perception:      8,
		Aggression:      1.2,
		ReactionDelay:   1,
		AttackRange:     1,
		FleeCapable:     true,
		FleeThreshold:   0.25,
		DisengageRadius: 10,
		OnHit: []OnHit{
			{Chance: 1, Corruption: 8},
		},
		Bounty:   6,
		MinDepth: 3,
		Weight:   1,
	},
}

// Profile returns the parameter table row for a kind. Unknown kinds get an
// inert zero profile named "unknown".
func Profile(k Kind) KindProfile {
	if p, ok := profiles[k]; ok {
		return p
	}
	return KindProfile{Name: "unknown", Glyph: '?'}
}

// LeashRadius is how far from the player a chasing enemy keeps pursuing
func (p KindProfile) LeashRadius() float64 {
	return p.Perception * (1 + p.Aggression)
}
