package entities

// ItemKind is a consumable the player can carry. The zero value means no item.
type ItemKind uint8

// Items
const (
	ItemNone ItemKind = iota
	ItemPotion
	ItemSalt
)

// Item effect sizes
const (
	// PotionHeal is the HP restored by a potion
	PotionHeal = 12
	// SaltCure is the corruption removed by purifying salt
	SaltCure = 20
)

func (k ItemKind) String() string {
	switch k {
	case ItemPotion:
		return "potion"
	case ItemSalt:
		return "salt"
	default:
		return "none"
	}
}

// Glyph is the ASCII marker for an item lying on the floor
func (k ItemKind) Glyph() rune {
	switch k {
	case ItemPotion:
		return '!'
	case ItemSalt:
		return '*'
	default:
		return '?'
	}
}
