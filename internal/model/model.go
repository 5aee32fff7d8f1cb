package model

import "time"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// --- Households & members ---

type HouseholdCreateRequest struct {
	Name     string                `json:"name" binding:"required"`
	Region   *string               `json:"region"`
	Metadata map[string]any        `json:"metadata"`
	Members  []MemberCreateRequest `json:"members"`
}

type HouseholdUpdateRequest struct {
	Name     *string        `json:"name"`
	Region   *string        `json:"region"`
	Metadata map[string]any `json:"metadata"`
}

type MemberCreateRequest struct {
	Name        string                `json:"name" binding:"required"`
	AgeGroup    string                `json:"age_group" binding:"required"`
	ImageURL    *string               `json:"image_url"`
	HouseholdID string                `json:"household_id"`
	Profile     *ProfileUpdateRequest `json:"profile"`
}

type MemberUpdateRequest struct {
	Name     *string               `json:"name"`
	AgeGroup *string               `json:"age_group"`
	ImageURL *string               `json:"image_url"`
	Profile  *ProfileUpdateRequest `json:"profile"`
}

type ProfileUpdateRequest struct {
	NutritionalPreferences map[string]any `json:"nutritional_preferences"`
	DietaryGroups          []string       `json:"dietary_groups"`
	Allergies              []string       `json:"allergies"`
	Properties             map[string]any `json:"properties"`
}

// --- Meal plans ---

// MealPlanSpec is the payload produced by an upstream generator. Its id and
// created_at identify the upstream artifact and become the stored plan's
// provenance fields.
type MealPlanSpec struct {
	ID        *string    `json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	Breakfast MealSlot   `json:"breakfast"`
	Lunch     MealSlot   `json:"lunch"`
	Dinner    MealSlot   `json:"dinner"`
	Reasoning *string    `json:"reasoning"`
}

func (s MealPlanSpec) Content() MealPlanContent {
	return MealPlanContent{
		SourceMealPlanID: s.ID,
		SourceCreatedAt:  s.CreatedAt,
		Breakfast:        s.Breakfast,
		Lunch:            s.Lunch,
		Dinner:           s.Dinner,
		Reasoning:        s.Reasoning,
	}
}

type MealPlanStoreRequest struct {
	Date               string        `json:"date"`
	MealPlan           *MealPlanSpec `json:"meal_plan" binding:"required"`
	AppliesToMemberIDs []string      `json:"applies_to_member_ids"`
}

// PlanRecord is the full representation of a stored plan, annotated
// relative to a reference member.
type PlanRecord struct {
	ID                 string     `json:"id"`
	HouseholdID        string     `json:"household_id"`
	Date               string     `json:"date"`
	SourceMealPlanID   *string    `json:"source_meal_plan_id"`
	SourceCreatedAt    *time.Time `json:"source_created_at"`
	Breakfast          MealSlot   `json:"breakfast"`
	Lunch              MealSlot   `json:"lunch"`
	Dinner             MealSlot   `json:"dinner"`
	Reasoning          *string    `json:"reasoning"`
	AppliesToMemberIDs []string   `json:"applies_to_member_ids"`
	OtherMemberIDs     []string   `json:"other_member_ids"`
	CreatedAt          time.Time  `json:"created_at"`
}

type RevokeResult struct {
	MealPlanID           string `json:"meal_plan_id"`
	RevokedForMemberID   string `json:"revoked_for_member_id"`
	RevokedForAllMembers bool   `json:"revoked_for_all_members"`
	MealPlanDeleted      bool   `json:"meal_plan_deleted"`
}

// --- Upstream proxy payloads ---

type ChatMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type QARequest struct {
	Question       string  `json:"question" binding:"required"`
	MemberID       *string `json:"member_id"`
	UserID         string  `json:"user_id"`
	Model          *string `json:"model"`
	ExpertiseLevel *string `json:"expertise_level"`
}

type SummarizeRequest struct {
	Query          string   `json:"query" binding:"required"`
	Results        []any    `json:"results"`
	Language       *string  `json:"language"`
	UserID         string   `json:"user_id"`
	ExpertiseLevel *string  `json:"expertise_level"`
}

type RecipeSearchRequest struct {
	Question         string   `json:"question" binding:"required"`
	ExcludeAllergens []string `json:"exclude_allergens"`
}

type RecipeProfileRequest struct {
	RawRecipe string `json:"raw_recipe" binding:"required"`
}
