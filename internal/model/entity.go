package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account is a login identity. Households reference accounts by owner id;
// household members are profiles, not accounts.
type Account struct {
	ID       string `gorm:"primaryKey;size:64" json:"id"`
	Username string `gorm:"size:255;uniqueIndex" json:"username"`
	Password string `json:"-"`
	Name     string `gorm:"size:255" json:"name"`
	Role     string `gorm:"size:32;default:owner" json:"role"`
}

type Household struct {
	ID        string            `gorm:"primaryKey;size:64" json:"id"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	Region    *string           `gorm:"size:100" json:"region"`
	OwnerID   string            `gorm:"size:100;not null;index" json:"owner_id"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Members   []HouseholdMember `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	MealPlans []MealPlan        `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"-"`
}

type HouseholdMember struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	ImageURL    *string   `gorm:"type:text" json:"image_url"`
	AgeGroup    string    `gorm:"size:32;not null" json:"age_group"`
	HouseholdID string    `gorm:"size:100;not null;index" json:"household_id"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`

	Profile *MemberProfile `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// MemberProfile holds dietary preferences for one member (1:1).
type MemberProfile struct {
	ID                     string            `gorm:"primaryKey;size:64" json:"id"`
	MemberID               string            `gorm:"size:100;not null;uniqueIndex" json:"household_member_id"`
	NutritionalPreferences datatypes.JSONMap `json:"nutritional_preferences"`
	DietaryGroups          datatypes.JSON    `json:"dietary_groups"`
	Allergies              datatypes.JSON    `json:"allergies"`
	Properties             datatypes.JSONMap `json:"properties"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// MealPlan is one day's plan for a household. Slot contents are immutable
// once the row is created; only the assignment set changes afterwards.
type MealPlan struct {
	ID               string         `gorm:"primaryKey;size:64" json:"id"`
	HouseholdID      string         `gorm:"size:100;not null;index" json:"household_id"`
	AppliedOn        string         `gorm:"type:date;not null;index" json:"date"`
	SourceMealPlanID *string        `gorm:"size:100" json:"source_meal_plan_id"`
	SourceCreatedAt  *time.Time     `json:"source_created_at"`
	Breakfast        datatypes.JSON `gorm:"not null" json:"breakfast"`
	Lunch            datatypes.JSON `gorm:"not null" json:"lunch"`
	Dinner           datatypes.JSON `gorm:"not null" json:"dinner"`
	Reasoning        *string        `gorm:"type:text" json:"reasoning"`
	CreatedAt        time.Time      `json:"created_at"`

	Assignments []MealPlanAssignment `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE" json:"-"`
}

// MealPlanAssignment links one plan to one member. A member can hold the
// same plan only once.
type MealPlanAssignment struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	MealPlanID string    `gorm:"size:64;not null;index;uniqueIndex:uq_plan_member" json:"meal_plan_id"`
	MemberID   string    `gorm:"size:100;not null;index;uniqueIndex:uq_plan_member" json:"member_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Account) TableName() string            { return "accounts" }
func (Household) TableName() string          { return "households" }
func (HouseholdMember) TableName() string    { return "household_members" }
func (MemberProfile) TableName() string      { return "member_profiles" }
func (MealPlan) TableName() string           { return "meal_plans" }
func (MealPlanAssignment) TableName() string { return "meal_plan_assignments" }

func (a *Account) BeforeCreate(*gorm.DB) error            { ensureID(&a.ID); return nil }
func (h *Household) BeforeCreate(*gorm.DB) error          { ensureID(&h.ID); return nil }
func (m *HouseholdMember) BeforeCreate(*gorm.DB) error    { ensureID(&m.ID); return nil }
func (p *MemberProfile) BeforeCreate(*gorm.DB) error      { ensureID(&p.ID); return nil }
func (p *MealPlan) BeforeCreate(*gorm.DB) error           { ensureID(&p.ID); return nil }
func (a *MealPlanAssignment) BeforeCreate(*gorm.DB) error { ensureID(&a.ID); return nil }

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// AgeGroups lists the accepted household member age groups.
var AgeGroups = []string{"baby", "child", "teen", "young_adult", "adult", "middle_aged", "senior"}

func ValidAgeGroup(s string) bool {
	for _, g := range AgeGroups {
		if g == s {
			return true
		}
	}
	return false
}
