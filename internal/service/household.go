package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wisefood/internal/apperr"
	"wisefood/internal/cache"
	"wisefood/internal/model"
)

type HouseholdService struct {
	db    *gorm.DB
	plans *cache.PlanCache
}

func NewHouseholdService(db *gorm.DB, plans *cache.PlanCache) *HouseholdService {
	return &HouseholdService{db: db, plans: plans}
}

func (s *HouseholdService) Create(ctx context.Context, ownerID string, req model.HouseholdCreateRequest) (*model.Household, error) {
	for _, m := range req.Members {
		if !model.ValidAgeGroup(m.AgeGroup) {
			return nil, apperr.Invalidf("unknown age group %q", m.AgeGroup)
		}
	}

	household := model.Household{
		Name:     req.Name,
		Region:   req.Region,
		OwnerID:  ownerID,
		Metadata: req.Metadata,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&household).Error; err != nil {
			return apperr.Internalf(err, "create household")
		}
		for _, m := range req.Members {
			member := model.HouseholdMember{
				Name:        m.Name,
				ImageURL:    m.ImageURL,
				AgeGroup:    m.AgeGroup,
				HouseholdID: household.ID,
			}
			if err := tx.Create(&member).Error; err != nil {
				return apperr.Internalf(err, "create initial member")
			}
			if m.Profile != nil {
				if _, err := upsertProfile(tx, member.ID, *m.Profile); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, household.ID, true)
}

func (s *HouseholdService) Get(ctx context.Context, id string, withMembers bool) (*model.Household, error) {
	q := s.db.WithContext(ctx)
	if withMembers {
		q = q.Preload("Members.Profile").Preload("Members")
	}
	var household model.Household
	err := q.First(&household, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("household %s not found", id)
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load household")
	}
	return &household, nil
}

// GetByOwner returns the household owned by the account, if any.
func (s *HouseholdService) GetByOwner(ctx context.Context, ownerID string) (*model.Household, error) {
	var household model.Household
	err := s.db.WithContext(ctx).
		Preload("Members.Profile").Preload("Members").
		First(&household, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("no household for account %s", ownerID)
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load household")
	}
	return &household, nil
}

func (s *HouseholdService) List(ctx context.Context, limit, offset int) ([]model.Household, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var households []model.Household
	if err := q.Find(&households).Error; err != nil {
		return nil, apperr.Internalf(err, "list households")
	}
	return households, nil
}

func (s *HouseholdService) Update(ctx context.Context, id string, req model.HouseholdUpdateRequest) (*model.Household, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var household model.Household
		if err := tx.First(&household, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("household %s not found", id)
			}
			return apperr.Internalf(err, "load household")
		}

		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Region != nil {
			updates["region"] = *req.Region
		}
		if req.Metadata != nil {
			household.Metadata = req.Metadata
			if err := tx.Model(&household).Update("metadata", household.Metadata).Error; err != nil {
				return apperr.Internalf(err, "update household metadata")
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&household).Updates(updates).Error; err != nil {
				return apperr.Internalf(err, "update household")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id, true)
}

// Delete removes a household and everything hanging off it. The deletes
// are explicit rather than left to FK cascade so the outcome does not
// depend on how the storage engine was provisioned.
func (s *HouseholdService) Delete(ctx context.Context, id string) error {
	var stale []planLookup
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var household model.Household
		if err := tx.First(&household, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("household %s not found", id)
			}
			return apperr.Internalf(err, "load household")
		}

		var planIDs []string
		if err := tx.Model(&model.MealPlan{}).Where("household_id = ?", id).Pluck("id", &planIDs).Error; err != nil {
			return apperr.Internalf(err, "list household plans")
		}
		var lookupErr error
		stale, lookupErr = planLookups(tx, planIDs)
		if lookupErr != nil {
			return lookupErr
		}
		if len(planIDs) > 0 {
			if err := tx.Where("meal_plan_id IN ?", planIDs).Delete(&model.MealPlanAssignment{}).Error; err != nil {
				return apperr.Internalf(err, "delete plan assignments")
			}
			if err := tx.Where("id IN ?", planIDs).Delete(&model.MealPlan{}).Error; err != nil {
				return apperr.Internalf(err, "delete plans")
			}
		}

		var memberIDs []string
		if err := tx.Model(&model.HouseholdMember{}).Where("household_id = ?", id).Pluck("id", &memberIDs).Error; err != nil {
			return apperr.Internalf(err, "list household members")
		}
		if len(memberIDs) > 0 {
			if err := tx.Where("member_id IN ?", memberIDs).Delete(&model.MemberProfile{}).Error; err != nil {
				return apperr.Internalf(err, "delete member profiles")
			}
			if err := tx.Where("id IN ?", memberIDs).Delete(&model.HouseholdMember{}).Error; err != nil {
				return apperr.Internalf(err, "delete members")
			}
		}

		if err := tx.Delete(&household).Error; err != nil {
			return apperr.Internalf(err, "delete household")
		}
		return nil
	})
	if err != nil {
		return err
	}
	dropLookups(ctx, s.plans, stale)
	return nil
}
