package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

func TestModifiersForFollowsCatalogOrder(t *testing.T) {
	mods := entities.ModifiersFor([]string{"delver", "vigor", "no_such_unlock"})

	assert.Equal(t, []entities.Modifier{
		{Kind: entities.ModMaxHP, Amount: 5, Source: "vigor"},
		{Kind: entities.ModDifficulty, Amount: 25, Source: "delver"},
		{Kind: entities.ModCurrency, Amount: 25, Source: "delver"},
	}, mods)
	assert.Equal(t, 25, entities.SumModifiers(mods, entities.ModDifficulty))
	assert.Zero(t, entities.SumModifiers(mods, entities.ModExtraRooms))
}

func TestApplyModifiers(t *testing.T) {
	player := entities.NewEntity(1, entities.KindPlayer, entities.Position{})
	player.ApplyModifiers(entities.ModifiersFor([]string{"vigor", "whetstone", "keen_eye", "satchel"}))

	assert.Equal(t, 35, player.MaxHP)
	assert.Equal(t, 35, player.HP)
	assert.Equal(t, 7, player.Attack)
	assert.Equal(t, 5, player.CritBonus())
	assert.Equal(t, []entities.ItemKind{entities.ItemPotion}, player.Inventory)
	assert.Len(t, player.Modifiers, 4)
}

func TestProgressionRecordUnlocks(t *testing.T) {
	r := entities.NewProgressionRecord()
	assert.True(t, r.AddUnlock("whetstone"))
	assert.True(t, r.AddUnlock("plating"))
	assert.False(t, r.AddUnlock("whetstone"))

	assert.Equal(t, []string{"plating", "whetstone"}, r.Unlocks)
	assert.True(t, r.HasUnlock("plating"))

	c := r.Clone()
	c.AddUnlock("vigor")
	assert.Len(t, r.Unlocks, 2)
}

func TestCatalogAchievementsAreNotForSale(t *testing.T) {
	for _, id := range []string{entities.UnlockFirstVictory, entities.UnlockUnbroken} {
		u, ok := entities.LookupUnlock(id)
		assert.True(t, ok)
		assert.False(t, u.Purchasable())
	}
}
