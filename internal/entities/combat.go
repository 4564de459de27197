package entities

// CombatEvent records one resolved attack. Events are values; the run log
// only ever appends them.
type CombatEvent struct {
	Seq      int      `json:"seq"`
	Tick     int      `json:"tick"`
	Attacker EntityID `json:"attacker"`
	Defender EntityID `json:"defender"`
	// Raw is attack times variance, before mitigation
	Raw       float64 `json:"raw"`
	Mitigated int     `json:"mitigated"`
	Critical  bool    `json:"critical"`
	// DefenderHP is the defender's HP after the hit
	DefenderHP int  `json:"defender_hp"`
	Lethal     bool `json:"lethal"`
	// Effects names what the hit triggered, e.g. "poisoned" or "corruption+5"
	Effects []string `json:"effects,omitempty"`
}
