package v1alpha1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/run"
)

// decode copies a request struct into a typed request
func decode(req *structpb.Struct, into any) error {
	if req == nil {
		return nil
	}
	data, err := req.MarshalJSON()
	if err != nil {
		return errors.InvalidArgument("request is not valid JSON")
	}
	if err := json.Unmarshal(data, into); err != nil {
		return errors.InvalidArgumentf("malformed request: %v", err)
	}
	return nil
}

// encode renders a typed response as a struct
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	return out, nil
}

type profileRequest struct {
	ProfileID string `json:"profile_id"`
}

type runRequest struct {
	RunID string `json:"run_id"`
}

type startRequest struct {
	ProfileID string `json:"profile_id"`
	// Seed is a decimal string so 64-bit seeds survive JSON numbers
	Seed *int64 `json:"seed,string,omitempty"`
}

type autoplayRequest struct {
	startRequest
	MaxTicks int `json:"max_ticks"`
}

type intentMessage struct {
	Kind   string             `json:"kind"`
	Dir    *entities.Position `json:"dir,omitempty"`
	Target int                `json:"target,omitempty"`
	Item   string             `json:"item,omitempty"`
}

type stepRequest struct {
	RunID  string        `json:"run_id"`
	Intent intentMessage `json:"intent"`
}

type purchaseRequest struct {
	ProfileID string `json:"profile_id"`
	UnlockID  string `json:"unlock_id"`
}

type modifierMessage struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount,omitempty"`
	Item   string `json:"item,omitempty"`
	Source string `json:"source"`
}

type commitMessage struct {
	Applied    bool                        `json:"applied"`
	NewUnlocks []string                    `json:"new_unlocks,omitempty"`
	Record     *entities.ProgressionRecord `json:"record"`
}

type startResponse struct {
	RunID     string               `json:"run_id"`
	Seed      int64                `json:"seed,string"`
	Modifiers []modifierMessage    `json:"modifiers"`
	Snapshot  *simulation.Snapshot `json:"snapshot"`
}

type reportMessage struct {
	Tick          int                    `json:"tick"`
	Depth         int                    `json:"depth"`
	Status        string                 `json:"status"`
	Descended     bool                   `json:"descended"`
	DescendFailed bool                   `json:"descend_failed,omitempty"`
	Combat        []entities.CombatEvent `json:"combat"`
	Thresholds    []thresholdMessage     `json:"thresholds"`
	Deaths        []entities.EntityID    `json:"deaths"`
}

type thresholdMessage struct {
	Entity entities.EntityID `json:"entity"`
	Level  int               `json:"level"`
	Name   string            `json:"name"`
	Tag    string            `json:"tag"`
	// Corruption is the entity's corruption when the effect landed
	Corruption int `json:"corruption"`
}

type outcomeMessage struct {
	entities.RunOutcome
	Seed int64 `json:"seed,string"`
}

type stepResponse struct {
	Report   *reportMessage       `json:"report,omitempty"`
	Snapshot *simulation.Snapshot `json:"snapshot"`
	Outcome  *outcomeMessage      `json:"outcome,omitempty"`
	Commit   *commitMessage       `json:"commit,omitempty"`
}

type autoplayResponse struct {
	RunID    string               `json:"run_id"`
	Seed     int64                `json:"seed,string"`
	Outcome  *outcomeMessage      `json:"outcome"`
	Commit   *commitMessage       `json:"commit"`
	Snapshot *simulation.Snapshot `json:"snapshot"`
}

type abortResponse struct {
	Tick int `json:"tick"`
}

type getResponse struct {
	Snapshot  *simulation.Snapshot   `json:"snapshot"`
	CombatLog []entities.CombatEvent `json:"combat_log"`
}

type listResponse struct {
	RunIDs []string `json:"run_ids"`
}

type progressionResponse struct {
	Record  *entities.ProgressionRecord `json:"record"`
	Fresh   bool                        `json:"fresh"`
	Warning string                      `json:"warning,omitempty"`
}

type unlockMessage struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Cost        int               `json:"cost"`
	Purchasable bool              `json:"purchasable"`
	Owned       bool              `json:"owned"`
	Modifiers   []modifierMessage `json:"modifiers"`
}

type unlocksResponse struct {
	Currency int             `json:"currency"`
	Unlocks  []unlockMessage `json:"unlocks"`
}

type purchaseResponse struct {
	Unlock unlockMessage               `json:"unlock"`
	Record *entities.ProgressionRecord `json:"record"`
}

type resetResponse struct {
	Existed bool `json:"existed"`
}

var itemsByName = map[string]entities.ItemKind{
	entities.ItemPotion.String(): entities.ItemPotion,
	entities.ItemSalt.String():   entities.ItemSalt,
}

// toIntent validates a wire intent. Wait is the default kind.
func toIntent(m intentMessage) (entities.Intent, error) {
	switch m.Kind {
	case "", entities.IntentWait.String():
		return entities.Wait(), nil
	case entities.IntentMove.String():
		if m.Dir == nil {
			return entities.Intent{}, errors.InvalidArgument("move intent requires dir")
		}
		return entities.Move(*m.Dir), nil
	case entities.IntentAttack.String():
		if m.Target <= 0 {
			return entities.Intent{}, errors.InvalidArgument("attack intent requires a target")
		}
		return entities.Attack(entities.EntityID(m.Target)), nil
	case entities.IntentUseItem.String():
		item, ok := itemsByName[m.Item]
		if !ok {
			return entities.Intent{}, errors.InvalidArgumentf("unknown item %q", m.Item)
		}
		return entities.UseItem(item), nil
	default:
		return entities.Intent{}, errors.InvalidArgumentf("unknown intent kind %q", m.Kind)
	}
}

func fromModifiers(mods []entities.Modifier) []modifierMessage {
	out := make([]modifierMessage, len(mods))
	for i, m := range mods {
		out[i] = modifierMessage{
			Kind:   string(m.Kind),
			Amount: m.Amount,
			Source: m.Source,
		}
		if m.Item != entities.ItemNone {
			out[i].Item = m.Item.String()
		}
	}
	return out
}

func fromReport(r *simulation.TickReport) *reportMessage {
	if r == nil {
		return nil
	}
	out := &reportMessage{
		Tick:          r.Tick,
		Depth:         r.Depth,
		Status:        r.Status.String(),
		Descended:     r.Descended,
		DescendFailed: r.DescendFailed,
		Combat:        r.Combat,
		Deaths:        r.Deaths,
	}
	for _, t := range r.Thresholds {
		out.Thresholds = append(out.Thresholds, thresholdMessage{
			Entity:     t.Entity,
			Level:      t.Threshold.Level,
			Name:       t.Threshold.Name,
			Tag:        t.Threshold.Tag,
			Corruption: t.Level,
		})
	}
	return out
}

func fromOutcome(o *entities.RunOutcome) *outcomeMessage {
	if o == nil {
		return nil
	}
	return &outcomeMessage{RunOutcome: *o, Seed: o.Seed}
}

func fromCommit(c *run.CommitResult) *commitMessage {
	if c == nil {
		return nil
	}
	return &commitMessage{Applied: c.Applied, NewUnlocks: c.NewUnlocks, Record: c.Record}
}

func fromUnlock(u entities.Unlock, owned bool) unlockMessage {
	return unlockMessage{
		ID:          u.ID,
		Name:        u.Name,
		Description: u.Description,
		Cost:        u.Cost,
		Purchasable: u.Purchasable(),
		Owned:       owned,
		Modifiers:   fromModifiers(u.Modifiers),
	}
}

func warningText(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("progression record unreadable, defaults used: %s", errors.GetMessage(err))
}
