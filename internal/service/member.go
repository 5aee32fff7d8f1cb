package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"wisefood/internal/apperr"
	"wisefood/internal/cache"
	"wisefood/internal/model"
)

// MemberService manages household member profiles and resolves member
// sets to their household for the meal plan store.
type MemberService struct {
	db    *gorm.DB
	plans *cache.PlanCache
}

func NewMemberService(db *gorm.DB, plans *cache.PlanCache) *MemberService {
	return &MemberService{db: db, plans: plans}
}

func (s *MemberService) Create(ctx context.Context, req model.MemberCreateRequest) (*model.HouseholdMember, error) {
	if req.HouseholdID == "" {
		return nil, apperr.Invalidf("household_id is required to create a member")
	}
	if !model.ValidAgeGroup(req.AgeGroup) {
		return nil, apperr.Invalidf("unknown age group %q", req.AgeGroup)
	}

	var member model.HouseholdMember
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var household model.Household
		if err := tx.First(&household, "id = ?", req.HouseholdID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("household %s not found", req.HouseholdID)
			}
			return apperr.Internalf(err, "load household")
		}

		member = model.HouseholdMember{
			Name:        req.Name,
			ImageURL:    req.ImageURL,
			AgeGroup:    req.AgeGroup,
			HouseholdID: req.HouseholdID,
		}
		if err := tx.Create(&member).Error; err != nil {
			return apperr.Internalf(err, "create member")
		}
		if req.Profile != nil {
			if _, err := upsertProfile(tx, member.ID, *req.Profile); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, member.ID)
}

func (s *MemberService) Get(ctx context.Context, id string) (*model.HouseholdMember, error) {
	var member model.HouseholdMember
	err := s.db.WithContext(ctx).Preload("Profile").First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("household member %s not found", id)
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load member")
	}
	return &member, nil
}

func (s *MemberService) List(ctx context.Context, householdID string, limit, offset int) ([]model.HouseholdMember, error) {
	q := s.db.WithContext(ctx).Preload("Profile").Order("joined_at DESC")
	if householdID != "" {
		q = q.Where("household_id = ?", householdID)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var members []model.HouseholdMember
	if err := q.Find(&members).Error; err != nil {
		return nil, apperr.Internalf(err, "list members")
	}
	return members, nil
}

func (s *MemberService) Update(ctx context.Context, id string, req model.MemberUpdateRequest) (*model.HouseholdMember, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.HouseholdMember
		if err := tx.First(&member, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("household member %s not found", id)
			}
			return apperr.Internalf(err, "load member")
		}

		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.AgeGroup != nil {
			if !model.ValidAgeGroup(*req.AgeGroup) {
				return apperr.Invalidf("unknown age group %q", *req.AgeGroup)
			}
			updates["age_group"] = *req.AgeGroup
		}
		if req.ImageURL != nil {
			updates["image_url"] = *req.ImageURL
		}
		if len(updates) > 0 {
			if err := tx.Model(&member).Updates(updates).Error; err != nil {
				return apperr.Internalf(err, "update member")
			}
		}
		if req.Profile != nil {
			if _, err := upsertProfile(tx, id, *req.Profile); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *MemberService) Delete(ctx context.Context, id string) error {
	var stale []planLookup
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&model.MemberProfile{}).Error; err != nil {
			return apperr.Internalf(err, "delete member profile")
		}
		var planIDs []string
		if err := tx.Model(&model.MealPlanAssignment{}).Where("member_id = ?", id).Pluck("meal_plan_id", &planIDs).Error; err != nil {
			return apperr.Internalf(err, "list member assignments")
		}
		// Removing assignments is an implicit revoke: every member sharing
		// these plans has a cached lookup going stale.
		var lookupErr error
		stale, lookupErr = planLookups(tx, planIDs)
		if lookupErr != nil {
			return lookupErr
		}
		if err := tx.Where("member_id = ?", id).Delete(&model.MealPlanAssignment{}).Error; err != nil {
			return apperr.Internalf(err, "delete member assignments")
		}
		// A plan whose last assignment went away is meaningless; drop it.
		for _, planID := range planIDs {
			var remaining int64
			if err := tx.Model(&model.MealPlanAssignment{}).Where("meal_plan_id = ?", planID).Count(&remaining).Error; err != nil {
				return apperr.Internalf(err, "count plan assignments")
			}
			if remaining == 0 {
				if err := tx.Where("id = ?", planID).Delete(&model.MealPlan{}).Error; err != nil {
					return apperr.Internalf(err, "delete orphaned plan")
				}
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.HouseholdMember{})
		if res.Error != nil {
			return apperr.Internalf(res.Error, "delete member")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFoundf("household member %s not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	dropLookups(ctx, s.plans, stale)
	return nil
}

// --- Profiles ---

func (s *MemberService) UpsertProfile(ctx context.Context, memberID string, req model.ProfileUpdateRequest) (*model.MemberProfile, error) {
	var profile *model.MemberProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.HouseholdMember
		if err := tx.First(&member, "id = ?", memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("household member %s not found", memberID)
			}
			return apperr.Internalf(err, "load member")
		}
		p, err := upsertProfile(tx, memberID, req)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *MemberService) GetProfile(ctx context.Context, memberID string) (*model.MemberProfile, error) {
	var profile model.MemberProfile
	err := s.db.WithContext(ctx).First(&profile, "member_id = ?", memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("no profile for member %s", memberID)
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load profile")
	}
	return &profile, nil
}

func (s *MemberService) DeleteProfile(ctx context.Context, memberID string) error {
	res := s.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&model.MemberProfile{})
	if res.Error != nil {
		return apperr.Internalf(res.Error, "delete profile")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("no profile for member %s", memberID)
	}
	return nil
}

func upsertProfile(tx *gorm.DB, memberID string, req model.ProfileUpdateRequest) (*model.MemberProfile, error) {
	for _, g := range req.DietaryGroups {
		if !model.ValidDietaryGroup(g) {
			return nil, apperr.Invalidf("unknown dietary group %q", g)
		}
	}

	var profile model.MemberProfile
	err := tx.First(&profile, "member_id = ?", memberID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = model.MemberProfile{MemberID: memberID}
	case err != nil:
		return nil, apperr.Internalf(err, "load profile")
	}

	if req.NutritionalPreferences != nil {
		profile.NutritionalPreferences = req.NutritionalPreferences
	}
	if req.DietaryGroups != nil {
		b, _ := json.Marshal(req.DietaryGroups)
		profile.DietaryGroups = b
	}
	if req.Allergies != nil {
		b, _ := json.Marshal(req.Allergies)
		profile.Allergies = b
	}
	if req.Properties != nil {
		profile.Properties = req.Properties
	}
	profile.UpdatedAt = time.Now()

	if err := tx.Save(&profile).Error; err != nil {
		return nil, apperr.Internalf(err, "save profile")
	}
	return &profile, nil
}

// ResolveSameHousehold looks up every id in memberIDs and checks the set
// resolves to exactly one household. Missing ids fail with a not-found
// error naming them; a mixed-household set fails with a conflict.
func (s *MemberService) ResolveSameHousehold(ctx context.Context, memberIDs []string) ([]model.HouseholdMember, error) {
	var members []model.HouseholdMember
	if err := s.db.WithContext(ctx).Where("id IN ?", memberIDs).Find(&members).Error; err != nil {
		return nil, apperr.Internalf(err, "resolve members")
	}

	if len(members) != len(memberIDs) {
		found := make(map[string]bool, len(members))
		for _, m := range members {
			found[m.ID] = true
		}
		var missing []string
		for _, id := range memberIDs {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		sort.Strings(missing)
		return nil, apperr.NotFoundf("members not found: %s", strings.Join(missing, ", "))
	}

	households := map[string]bool{}
	for _, m := range members {
		households[m.HouseholdID] = true
	}
	if len(households) != 1 {
		return nil, apperr.Conflictf("all assigned members must belong to the same household")
	}
	return members, nil
}
