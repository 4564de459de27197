package entities

// IntentKind is the action an entity asks for in a tick
type IntentKind uint8

// Intent kinds
const (
	IntentWait IntentKind = iota
	IntentMove
	IntentAttack
	IntentUseItem
)

func (k IntentKind) String() string {
	switch k {
	case IntentWait:
		return "wait"
	case IntentMove:
		return "move"
	case IntentAttack:
		return "attack"
	case IntentUseItem:
		return "use_item"
	default:
		return "unknown"
	}
}

// Intent is a requested action. Dir is set for moves, Target for attacks
// and Item for item use.
type Intent struct {
	Kind   IntentKind `json:"kind"`
	Dir    Position   `json:"dir,omitempty"`
	Target EntityID   `json:"target,omitempty"`
	Item   ItemKind   `json:"item,omitempty"`
}

// Wait does nothing
func Wait() Intent {
	return Intent{Kind: IntentWait}
}

// Move steps one tile. Moving into a hostile is a bump attack.
func Move(dir Position) Intent {
	return Intent{Kind: IntentMove, Dir: dir}
}

// Attack targets an entity by ID
func Attack(target EntityID) Intent {
	return Intent{Kind: IntentAttack, Target: target}
}

// UseItem consumes one inventory item
func UseItem(item ItemKind) Intent {
	return Intent{Kind: IntentUseItem, Item: item}
}
