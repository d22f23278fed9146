package constants

import "strings"

// MealType tags when a recipe is typically eaten.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealDessert   MealType = "dessert"
	MealSnack     MealType = "snack"
	MealAny       MealType = "any"
)

var allMealTypes = []MealType{
	MealBreakfast,
	MealLunch,
	MealDinner,
	MealDessert,
	MealSnack,
	MealAny,
}

// CanonicalMealType maps a raw model label onto the enum, defaulting to any.
func CanonicalMealType(s string) MealType {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, mt := range allMealTypes {
		if normalized == string(mt) {
			return mt
		}
	}
	return MealAny
}

// DishRole distinguishes mains, sides, and nested components.
type DishRole string

const (
	RoleMain      DishRole = "main"
	RoleSide      DishRole = "side"
	RoleSubRecipe DishRole = "sub_recipe"
)

// CanonicalDishRole maps a raw model label onto the enum, defaulting to main.
func CanonicalDishRole(s string) DishRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleSide):
		return RoleSide
	case string(RoleSubRecipe), "subrecipe", "sub-recipe":
		return RoleSubRecipe
	default:
		return RoleMain
	}
}

// Macro band thresholds for the derived index, parsed leniently from
// free-form macro strings.
const (
	HighProteinGrams = 30  // > 30g protein
	LowCarbGrams     = 20  // < 20g carbs
	LowCalorieKcal   = 400 // < 400 calories
)

// MacroBands are the valid values for the random-pick macro filter.
var MacroBands = []string{"high_protein", "low_carb", "low_calorie"}

// IsMacroBand reports whether s names a known macro band.
func IsMacroBand(s string) bool {
	for _, b := range MacroBands {
		if s == b {
			return true
		}
	}
	return false
}
