package model

// DietaryGroups is the accepted set of dietary preferences and
// restrictions a member profile may carry.
var DietaryGroups = []string{
	"omnivore", "vegetarian", "lacto_vegetarian", "ovo_vegetarian",
	"lacto_ovo_vegetarian", "pescatarian", "vegan", "raw_vegan",
	"plant_based", "flexitarian", "halal", "kosher", "jain",
	"buddhist_vegetarian", "gluten_free", "nut_free", "peanut_free",
	"dairy_free", "egg_free", "soy_free", "shellfish_free", "fish_free",
	"sesame_free", "low_carb", "low_fat", "low_sodium", "sugar_free",
	"no_added_sugar", "high_protein", "high_fiber", "low_cholesterol",
	"low_calorie", "keto", "paleo", "whole30", "mediterranean",
}

var dietaryGroupSet = func() map[string]bool {
	m := make(map[string]bool, len(DietaryGroups))
	for _, g := range DietaryGroups {
		m[g] = true
	}
	return m
}()

func ValidDietaryGroup(s string) bool { return dietaryGroupSet[s] }
