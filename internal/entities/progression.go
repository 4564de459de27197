package entities

import (
	"slices"
	"time"
)

// ModifierKind names what a modifier changes
type ModifierKind string

// Modifier kinds. Difficulty and Currency amounts are percentages.
const (
	ModMaxHP        ModifierKind = "max_hp"
	ModAttack       ModifierKind = "attack"
	ModDefense      ModifierKind = "defense"
	ModCrit         ModifierKind = "crit"
	ModDifficulty   ModifierKind = "difficulty"
	ModExtraRooms   ModifierKind = "extra_rooms"
	ModStartingItem ModifierKind = "starting_item"
	ModCurrency     ModifierKind = "currency"
)

// Modifier is one run-start effect granted by an owned unlock
type Modifier struct {
	Kind   ModifierKind `json:"kind"`
	Amount int          `json:"amount,omitempty"`
	Item   ItemKind     `json:"item,omitempty"`
	// Source is the unlock ID that granted it
	Source string `json:"source"`
}

// SumModifiers totals the Amount of every modifier of a kind
func SumModifiers(mods []Modifier, kind ModifierKind) int {
	total := 0
	for _, m := range mods {
		if m.Kind == kind {
			total += m.Amount
		}
	}
	return total
}

// ApplyModifiers folds player-facing modifiers into the entity's base stats
// and inventory and records them on the entity
func (e *Entity) ApplyModifiers(mods []Modifier) {
	for _, m := range mods {
		switch m.Kind {
		case ModMaxHP:
			e.MaxHP = max(1, e.MaxHP+m.Amount)
			e.HP = e.MaxHP
		case ModAttack:
			e.Attack = max(0, e.Attack+m.Amount)
		case ModDefense:
			e.Defense = max(0, e.Defense+m.Amount)
		case ModCrit:
			// permanent crit is a buff that never runs out within a run
			e.Statuses = append(e.Statuses, Buffed(StatCrit, m.Amount, permanentTicks))
		case ModStartingItem:
			if m.Item != ItemNone {
				e.AddItem(m.Item)
			}
		}
		e.Modifiers = append(e.Modifiers, m)
	}
}

const permanentTicks = 1 << 30

// Unlock is a permanent upgrade. Cost zero marks an achievement that cannot
// be bought, only earned.
type Unlock struct {
	ID          string
	Name        string
	Description string
	Cost        int
	Modifiers   []Modifier
}

// Purchasable reports whether the unlock is sold for currency
func (u Unlock) Purchasable() bool {
	return u.Cost > 0
}

// Achievement unlock IDs granted by run outcomes
const (
	UnlockFirstVictory = "first_victory"
	UnlockUnbroken     = "unbroken"
)

var unlockCatalog = []Unlock{
	{ID: "vigor", Name: "Vigor", Description: "+5 max HP", Cost: 10,
		Modifiers: []Modifier{{Kind: ModMaxHP, Amount: 5}}},
	{ID: "whetstone", Name: "Whetstone", Description: "+1 attack", Cost: 15,
		Modifiers: []Modifier{{Kind: ModAttack, Amount: 1}}},
	{ID: "plating", Name: "Plating", Description: "+1 defense", Cost: 15,
		Modifiers: []Modifier{{Kind: ModDefense, Amount: 1}}},
	{ID: "keen_eye", Name: "Keen Eye", Description: "+5% crit chance", Cost: 20,
		Modifiers: []Modifier{{Kind: ModCrit, Amount: 5}}},
	{ID: "satchel", Name: "Satchel", Description: "start with a potion", Cost: 10,
		Modifiers: []Modifier{{Kind: ModStartingItem, Item: ItemPotion}}},
	{ID: "purifier", Name: "Purifier", Description: "start with purifying salt", Cost: 12,
		Modifiers: []Modifier{{Kind: ModStartingItem, Item: ItemSalt}}},
	{ID: "cartographer", Name: "Cartographer", Description: "+2 rooms per floor", Cost: 25,
		Modifiers: []Modifier{{Kind: ModExtraRooms, Amount: 2}}},
	{ID: "delver", Name: "Delver's Mark", Description: "+25% enemies, +25% currency", Cost: 30,
		Modifiers: []Modifier{{Kind: ModDifficulty, Amount: 25}, {Kind: ModCurrency, Amount: 25}}},
	{ID: UnlockFirstVictory, Name: "Victor", Description: "won a run: +5 max HP",
		Modifiers: []Modifier{{Kind: ModMaxHP, Amount: 5}}},
	{ID: UnlockUnbroken, Name: "Unbroken", Description: "won while consumed: +1 defense",
		Modifiers: []Modifier{{Kind: ModDefense, Amount: 1}}},
}

// Catalog returns every known unlock in display order
func Catalog() []Unlock {
	return slices.Clone(unlockCatalog)
}

// LookupUnlock finds an unlock by ID
func LookupUnlock(id string) (Unlock, bool) {
	for _, u := range unlockCatalog {
		if u.ID == id {
			return u, true
		}
	}
	return Unlock{}, false
}

// ModifiersFor expands owned unlock IDs into modifiers in catalog order.
// Unknown IDs are skipped.
func ModifiersFor(owned []string) []Modifier {
	var out []Modifier
	for _, u := range unlockCatalog {
		if !slices.Contains(owned, u.ID) {
			continue
		}
		for _, m := range u.Modifiers {
			m.Source = u.ID
			out = append(out, m)
		}
	}
	return out
}

// RecordVersion is the current ProgressionRecord schema version
const RecordVersion = 1

// BestRun holds the best-run statistics across all committed runs
type BestRun struct {
	DeepestDepth          int `json:"deepest_depth"`
	MostKills             int `json:"most_kills"`
	MostCurrency          int `json:"most_currency"`
	MaxCorruptionSurvived int `json:"max_corruption_survived"`
	Victories             int `json:"victories"`
	Deaths                int `json:"deaths"`
}

// ProgressionRecord is the persistent cross-run state
type ProgressionRecord struct {
	Version int `json:"version"`
	// Currency is the spendable balance
	Currency int `json:"currency"`
	// CurrencyEarned is the lifetime total, unaffected by spending
	CurrencyEarned int      `json:"currency_earned"`
	Unlocks        []string `json:"unlocks"`
	RunCount       int      `json:"run_count"`
	Best           BestRun  `json:"best"`
	// RecentRuns holds the IDs of the last committed runs, newest last
	RecentRuns []string  `json:"recent_runs,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewProgressionRecord returns the default record for a fresh profile
func NewProgressionRecord() *ProgressionRecord {
	return &ProgressionRecord{
		Version: RecordVersion,
		Unlocks: []string{},
	}
}

// HasUnlock reports whether an unlock is owned
func (r *ProgressionRecord) HasUnlock(id string) bool {
	return slices.Contains(r.Unlocks, id)
}

// AddUnlock adds an unlock, keeping the set sorted. Returns false when it
// was already owned.
func (r *ProgressionRecord) AddUnlock(id string) bool {
	i, found := slices.BinarySearch(r.Unlocks, id)
	if found {
		return false
	}
	r.Unlocks = slices.Insert(r.Unlocks, i, id)
	return true
}

// Clone returns a deep copy
func (r *ProgressionRecord) Clone() *ProgressionRecord {
	c := *r
	c.Unlocks = slices.Clone(r.Unlocks)
	c.RecentRuns = slices.Clone(r.RecentRuns)
	return &c
}

// RunOutcome summarises a finished run. Only finished runs produce one.
type RunOutcome struct {
	RunID          string   `json:"run_id"`
	Seed           int64    `json:"seed"`
	Victory        bool     `json:"victory"`
	Died           bool     `json:"died"`
	DepthReached   int      `json:"depth_reached"`
	CurrencyEarned int      `json:"currency_earned"`
	UnlocksEarned  []string `json:"unlocks_earned,omitempty"`
	Kills          int      `json:"kills"`
	Ticks          int      `json:"ticks"`
	MaxCorruption  int      `json:"max_corruption"`
}
