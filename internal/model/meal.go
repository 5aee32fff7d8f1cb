package model

import (
	"encoding/json"
	"reflect"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the calendar-date wire and storage format.
const DateLayout = "2006-01-02"

// MealSlot is the structured payload of one meal (breakfast, lunch or
// dinner). Upstream generators attach fields we do not model; those are
// kept verbatim in Extra so stored content round-trips byte-for-meaning.
type MealSlot struct {
	RecipeID    string
	Title       string
	Ingredients []string
	Directions  []string
	Extra       map[string]json.RawMessage
}

var knownSlotKeys = map[string]bool{
	"recipe_id":   true,
	"title":       true,
	"ingredients": true,
	"directions":  true,
}

func (s MealSlot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		out[k] = v
	}
	if s.RecipeID != "" {
		out["recipe_id"] = s.RecipeID
	}
	if s.Title != "" {
		out["title"] = s.Title
	}
	if len(s.Ingredients) > 0 {
		out["ingredients"] = s.Ingredients
	}
	if len(s.Directions) > 0 {
		out["directions"] = s.Directions
	}
	return json.Marshal(out)
}

func (s *MealSlot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = MealSlot{}
	if v, ok := raw["recipe_id"]; ok {
		if err := json.Unmarshal(v, &s.RecipeID); err != nil {
			return err
		}
	}
	if v, ok := raw["title"]; ok {
		if err := json.Unmarshal(v, &s.Title); err != nil {
			return err
		}
	}
	if v, ok := raw["ingredients"]; ok {
		if err := json.Unmarshal(v, &s.Ingredients); err != nil {
			return err
		}
	}
	if v, ok := raw["directions"]; ok {
		if err := json.Unmarshal(v, &s.Directions); err != nil {
			return err
		}
	}
	for k, v := range raw {
		if knownSlotKeys[k] {
			continue
		}
		if s.Extra == nil {
			s.Extra = map[string]json.RawMessage{}
		}
		s.Extra[k] = v
	}
	return nil
}

// Equal reports structural equality. Extension-bag values are compared as
// decoded JSON values, so formatting differences do not matter.
func (s MealSlot) Equal(o MealSlot) bool {
	if s.RecipeID != o.RecipeID || s.Title != o.Title {
		return false
	}
	if !stringSlicesEqual(s.Ingredients, o.Ingredients) || !stringSlicesEqual(s.Directions, o.Directions) {
		return false
	}
	return rawMapsEqual(s.Extra, o.Extra)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func rawMapsEqual(a, b map[string]json.RawMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		var x, y any
		if json.Unmarshal(av, &x) != nil || json.Unmarshal(bv, &y) != nil {
			return false
		}
		if !reflect.DeepEqual(x, y) {
			return false
		}
	}
	return true
}

// MealPlanContent is the content of a plan as far as deduplication is
// concerned: the three slots, the reasoning text and the upstream plan id.
// SourceCreatedAt is provenance only and takes no part in equality.
type MealPlanContent struct {
	SourceMealPlanID *string
	SourceCreatedAt  *time.Time
	Breakfast        MealSlot
	Lunch            MealSlot
	Dinner           MealSlot
	Reasoning        *string
}

func (c MealPlanContent) Equal(o MealPlanContent) bool {
	return ptrEqual(c.SourceMealPlanID, o.SourceMealPlanID) &&
		ptrEqual(c.Reasoning, o.Reasoning) &&
		c.Breakfast.Equal(o.Breakfast) &&
		c.Lunch.Equal(o.Lunch) &&
		c.Dinner.Equal(o.Dinner)
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ContentOf decodes a stored plan row back into comparable content.
func ContentOf(p *MealPlan) (MealPlanContent, error) {
	c := MealPlanContent{
		SourceMealPlanID: p.SourceMealPlanID,
		SourceCreatedAt:  p.SourceCreatedAt,
		Reasoning:        p.Reasoning,
	}
	if err := json.Unmarshal(p.Breakfast, &c.Breakfast); err != nil {
		return c, err
	}
	if err := json.Unmarshal(p.Lunch, &c.Lunch); err != nil {
		return c, err
	}
	if err := json.Unmarshal(p.Dinner, &c.Dinner); err != nil {
		return c, err
	}
	return c, nil
}

// EncodeSlot stores a slot in its canonical JSON form.
func EncodeSlot(s MealSlot) (datatypes.JSON, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
