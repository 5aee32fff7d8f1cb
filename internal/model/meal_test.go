package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealSlotKeepsUnknownFields(t *testing.T) {
	payload := `{"recipe_id":"r-9","title":"omelette","ingredients":["eggs"],"nutrition":{"kcal":320},"servings":2}`

	var slot MealSlot
	require.NoError(t, json.Unmarshal([]byte(payload), &slot))

	assert.Equal(t, "r-9", slot.RecipeID)
	assert.Equal(t, "omelette", slot.Title)
	assert.Equal(t, []string{"eggs"}, slot.Ingredients)
	assert.Contains(t, slot.Extra, "nutrition")
	assert.Contains(t, slot.Extra, "servings")

	out, err := json.Marshal(slot)
	require.NoError(t, err)

	var roundTripped MealSlot
	require.NoError(t, json.Unmarshal(out, &roundTripped))
	assert.True(t, slot.Equal(roundTripped))
}

func TestMealSlotEqual(t *testing.T) {
	base := MealSlot{
		RecipeID:    "r-1",
		Title:       "soup",
		Ingredients: []string{"water", "salt"},
		Extra:       map[string]json.RawMessage{"kcal": json.RawMessage(`120`)},
	}

	same := base
	same.Extra = map[string]json.RawMessage{"kcal": json.RawMessage(` 120 `)}
	assert.True(t, base.Equal(same), "extension values compare as decoded JSON")

	otherTitle := base
	otherTitle.Title = "stew"
	assert.False(t, base.Equal(otherTitle))

	otherIngredients := base
	otherIngredients.Ingredients = []string{"salt", "water"}
	assert.False(t, base.Equal(otherIngredients), "ingredient order matters")

	otherExtra := base
	otherExtra.Extra = map[string]json.RawMessage{"kcal": json.RawMessage(`121`)}
	assert.False(t, base.Equal(otherExtra))

	missingExtra := base
	missingExtra.Extra = nil
	assert.False(t, base.Equal(missingExtra))
}

func TestMealPlanContentEqualIgnoresProvenanceTimestamp(t *testing.T) {
	early := time.Now().Add(-time.Hour)
	late := time.Now()
	source := "plan-1"
	reasoning := "variety"

	a := MealPlanContent{
		SourceMealPlanID: &source,
		SourceCreatedAt:  &early,
		Breakfast:        MealSlot{Title: "toast"},
		Reasoning:        &reasoning,
	}
	b := a
	b.SourceCreatedAt = &late
	assert.True(t, a.Equal(b))

	c := a
	otherSource := "plan-2"
	c.SourceMealPlanID = &otherSource
	assert.False(t, a.Equal(c))

	d := a
	d.Reasoning = nil
	assert.False(t, a.Equal(d))

	e := a
	e.Dinner = MealSlot{Title: "pasta"}
	assert.False(t, a.Equal(e))
}

func TestContentOfRoundTrip(t *testing.T) {
	reasoning := "simple"
	content := MealPlanContent{
		Breakfast: MealSlot{Title: "toast", Extra: map[string]json.RawMessage{"kcal": json.RawMessage(`200`)}},
		Lunch:     MealSlot{RecipeID: "r-2", Ingredients: []string{"rice"}},
		Dinner:    MealSlot{},
		Reasoning: &reasoning,
	}

	breakfast, err := EncodeSlot(content.Breakfast)
	require.NoError(t, err)
	lunch, err := EncodeSlot(content.Lunch)
	require.NoError(t, err)
	dinner, err := EncodeSlot(content.Dinner)
	require.NoError(t, err)

	plan := MealPlan{
		Breakfast: breakfast,
		Lunch:     lunch,
		Dinner:    dinner,
		Reasoning: &reasoning,
	}

	decoded, err := ContentOf(&plan)
	require.NoError(t, err)
	assert.True(t, content.Equal(decoded))
}

func TestValidAgeGroup(t *testing.T) {
	assert.True(t, ValidAgeGroup("adult"))
	assert.True(t, ValidAgeGroup("baby"))
	assert.False(t, ValidAgeGroup("grown-up"))
	assert.False(t, ValidAgeGroup(""))
}

func TestValidDietaryGroup(t *testing.T) {
	assert.True(t, ValidDietaryGroup("vegetarian"))
	assert.False(t, ValidDietaryGroup("carnivore-only"))
}
