package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"wisefood/internal/apperr"
	"wisefood/internal/cache"
	"wisefood/internal/logger"
	"wisefood/internal/model"
)

// MembershipResolver validates that a set of member ids exists and
// belongs to exactly one household.
type MembershipResolver interface {
	ResolveSameHousehold(ctx context.Context, memberIDs []string) ([]model.HouseholdMember, error)
}

// MealPlanService stores one meal plan per member per date, merging
// identical content onto shared rows and refusing to overwrite differing
// content. Plans are deleted when their last assignment is revoked.
type MealPlanService struct {
	db      *gorm.DB
	members MembershipResolver
	plans   *cache.PlanCache
}

func NewMealPlanService(db *gorm.DB, members MembershipResolver, plans *cache.PlanCache) *MealPlanService {
	return &MealPlanService{db: db, members: members, plans: plans}
}

// StoreForMembers stores content for the requested member and any
// additional members on a date. Identical existing content is reused;
// differing content for any target member fails the whole request.
func (s *MealPlanService) StoreForMembers(
	ctx context.Context,
	requestedMemberID string,
	targetDate string,
	content model.MealPlanContent,
	additionalMemberIDs []string,
) (*model.PlanRecord, error) {
	if _, err := time.Parse(model.DateLayout, targetDate); err != nil {
		return nil, apperr.Validationf("invalid date %q, expected YYYY-MM-DD", targetDate)
	}
	if targetDate < time.Now().Format(model.DateLayout) {
		return nil, apperr.Validationf("meal plans cannot be stored for past date %s", targetDate)
	}

	targetIDs := dedupeSorted(append([]string{requestedMemberID}, additionalMemberIDs...))
	members, err := s.members.ResolveSameHousehold(ctx, targetIDs)
	if err != nil {
		return nil, err
	}
	householdID := members[0].HouseholdID

	var record *model.PlanRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plans, err := candidatePlans(tx, householdID, targetDate, targetIDs)
		if err != nil {
			return err
		}

		targetSet := make(map[string]bool, len(targetIDs))
		for _, id := range targetIDs {
			targetSet[id] = true
		}

		// For every (target member, plan) assignment pair, the stored
		// content either matches the request exactly or conflicts.
		matched := map[string]string{}
		assigned := map[string]bool{}
		conflicted := map[string]bool{}
		for i := range plans {
			stored, err := model.ContentOf(&plans[i])
			if err != nil {
				return apperr.Internalf(err, "decode stored plan %s", plans[i].ID)
			}
			equal := stored.Equal(content)
			for _, a := range plans[i].Assignments {
				if !targetSet[a.MemberID] {
					continue
				}
				assigned[a.MemberID] = true
				if equal {
					if _, ok := matched[a.MemberID]; !ok {
						matched[a.MemberID] = plans[i].ID
					}
				} else {
					conflicted[a.MemberID] = true
				}
			}
		}

		if len(conflicted) > 0 {
			ids := make([]string, 0, len(conflicted))
			for id := range conflicted {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			return apperr.Conflictf(
				"meal plan with different content already exists for date %s and members: %s",
				targetDate, strings.Join(ids, ", "))
		}

		// Prefer a plan already matching the requester, then any match.
		planID := matched[requestedMemberID]
		if planID == "" {
		scan:
			for i := range plans {
				for _, id := range targetIDs {
					if matched[id] == plans[i].ID {
						planID = plans[i].ID
						break scan
					}
				}
			}
		}

		if planID != "" {
			for _, id := range targetIDs {
				if assigned[id] {
					continue
				}
				a := model.MealPlanAssignment{MealPlanID: planID, MemberID: id}
				if err := tx.Create(&a).Error; err != nil {
					return apperr.Internalf(err, "assign member %s", id)
				}
			}
		} else {
			plan, err := newPlanRow(householdID, targetDate, content)
			if err != nil {
				return apperr.Internalf(err, "encode plan content")
			}
			if err := tx.Create(plan).Error; err != nil {
				return apperr.Internalf(err, "create plan")
			}
			planID = plan.ID
			for _, id := range targetIDs {
				a := model.MealPlanAssignment{MealPlanID: planID, MemberID: id}
				if err := tx.Create(&a).Error; err != nil {
					return apperr.Internalf(err, "assign member %s", id)
				}
			}
		}

		record, err = loadPlanRecord(tx, planID, requestedMemberID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.plans.Invalidate(ctx, targetDate, append(append([]string{}, targetIDs...), record.AppliesToMemberIDs...)...)
	logger.Info("meal plan stored",
		"plan_id", record.ID, "household_id", householdID,
		"date", targetDate, "members", record.AppliesToMemberIDs)
	return record, nil
}

// GetForMemberAndDate returns the most recently created plan assigned to
// the member for the date.
func (s *MealPlanService) GetForMemberAndDate(ctx context.Context, memberID, targetDate string) (*model.PlanRecord, error) {
	if _, err := time.Parse(model.DateLayout, targetDate); err != nil {
		return nil, apperr.Validationf("invalid date %q, expected YYYY-MM-DD", targetDate)
	}

	if rec, ok := s.plans.Get(ctx, memberID, targetDate); ok {
		return rec, nil
	}

	var plan model.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Assignments").
		Joins("JOIN meal_plan_assignments ON meal_plan_assignments.meal_plan_id = meal_plans.id").
		Where("meal_plan_assignments.member_id = ? AND meal_plans.applied_on = ?", memberID, targetDate).
		Order("meal_plans.created_at DESC, meal_plans.id DESC").
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("no meal plan found for member %s on date %s", memberID, targetDate)
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load plan")
	}

	rec, err := planRecord(&plan, memberID)
	if err != nil {
		return nil, err
	}
	s.plans.Set(ctx, memberID, targetDate, rec)
	return rec, nil
}

// Revoke removes a member's assignment to a plan, or the whole plan. A
// plan with no remaining assignments is deleted; the deletion outcome is
// reported back.
func (s *MealPlanService) Revoke(ctx context.Context, memberID, mealPlanID string, revokeForAllMembers bool) (*model.RevokeResult, error) {
	var (
		appliedOn   string
		assignedIDs []string
		deleted     bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.HouseholdMember
		if err := tx.First(&member, "id = ?", memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("household member %s not found", memberID)
			}
			return apperr.Internalf(err, "load member")
		}

		var plan model.MealPlan
		if err := tx.Preload("Assignments").First(&plan, "id = ?", mealPlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("meal plan %s not found", mealPlanID)
			}
			return apperr.Internalf(err, "load plan")
		}

		// A plan in another household looks exactly like a missing one.
		if plan.HouseholdID != member.HouseholdID {
			return apperr.NotFoundf("meal plan %s not found for member %s", mealPlanID, memberID)
		}

		isAssigned := false
		for _, a := range plan.Assignments {
			assignedIDs = append(assignedIDs, a.MemberID)
			if a.MemberID == memberID {
				isAssigned = true
			}
		}
		if !isAssigned {
			return apperr.NotFoundf("meal plan %s not assigned to member %s", mealPlanID, memberID)
		}
		appliedOn = dateOnly(plan.AppliedOn)

		if revokeForAllMembers {
			if err := deletePlanRow(tx, mealPlanID); err != nil {
				return err
			}
			deleted = true
			return nil
		}

		res := tx.Where("meal_plan_id = ? AND member_id = ?", mealPlanID, memberID).
			Delete(&model.MealPlanAssignment{})
		if res.Error != nil {
			return apperr.Internalf(res.Error, "delete assignment")
		}

		var remaining int64
		if err := tx.Model(&model.MealPlanAssignment{}).
			Where("meal_plan_id = ?", mealPlanID).
			Count(&remaining).Error; err != nil {
			return apperr.Internalf(err, "count assignments")
		}
		if remaining == 0 {
			if err := deletePlanRow(tx, mealPlanID); err != nil {
				return err
			}
			deleted = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.plans.Invalidate(ctx, appliedOn, assignedIDs...)
	logger.Info("meal plan revoked",
		"plan_id", mealPlanID, "member_id", memberID,
		"all_members", revokeForAllMembers, "plan_deleted", deleted)
	return &model.RevokeResult{
		MealPlanID:           mealPlanID,
		RevokedForMemberID:   memberID,
		RevokedForAllMembers: revokeForAllMembers,
		MealPlanDeleted:      deleted,
	}, nil
}

// candidatePlans loads all plans for (household, date) holding at least
// one assignment among the target members, most recent first.
func candidatePlans(tx *gorm.DB, householdID, targetDate string, targetIDs []string) ([]model.MealPlan, error) {
	sub := tx.Model(&model.MealPlanAssignment{}).
		Select("meal_plan_id").
		Where("member_id IN ?", targetIDs)

	var plans []model.MealPlan
	err := tx.Preload("Assignments").
		Where("household_id = ? AND applied_on = ?", householdID, targetDate).
		Where("id IN (?)", sub).
		Order("created_at DESC, id DESC").
		Find(&plans).Error
	if err != nil {
		return nil, apperr.Internalf(err, "load candidate plans")
	}
	return plans, nil
}

// deletePlanRow removes a plan and its assignments. The join rows go
// first so the outcome does not depend on FK cascade support.
func deletePlanRow(tx *gorm.DB, planID string) error {
	if err := tx.Where("meal_plan_id = ?", planID).Delete(&model.MealPlanAssignment{}).Error; err != nil {
		return apperr.Internalf(err, "delete plan assignments")
	}
	if err := tx.Where("id = ?", planID).Delete(&model.MealPlan{}).Error; err != nil {
		return apperr.Internalf(err, "delete plan")
	}
	return nil
}

func newPlanRow(householdID, targetDate string, content model.MealPlanContent) (*model.MealPlan, error) {
	breakfast, err := model.EncodeSlot(content.Breakfast)
	if err != nil {
		return nil, err
	}
	lunch, err := model.EncodeSlot(content.Lunch)
	if err != nil {
		return nil, err
	}
	dinner, err := model.EncodeSlot(content.Dinner)
	if err != nil {
		return nil, err
	}
	return &model.MealPlan{
		HouseholdID:      householdID,
		AppliedOn:        targetDate,
		SourceMealPlanID: content.SourceMealPlanID,
		SourceCreatedAt:  content.SourceCreatedAt,
		Breakfast:        breakfast,
		Lunch:            lunch,
		Dinner:           dinner,
		Reasoning:        content.Reasoning,
	}, nil
}

func loadPlanRecord(tx *gorm.DB, planID, refMemberID string) (*model.PlanRecord, error) {
	var plan model.MealPlan
	if err := tx.Preload("Assignments").First(&plan, "id = ?", planID).Error; err != nil {
		return nil, apperr.Internalf(err, "reload plan")
	}
	return planRecord(&plan, refMemberID)
}

// planRecord builds the full representation of a plan, annotated relative
// to refMemberID.
func planRecord(plan *model.MealPlan, refMemberID string) (*model.PlanRecord, error) {
	content, err := model.ContentOf(plan)
	if err != nil {
		return nil, apperr.Internalf(err, "decode plan %s", plan.ID)
	}

	memberIDs := make([]string, 0, len(plan.Assignments))
	for _, a := range plan.Assignments {
		memberIDs = append(memberIDs, a.MemberID)
	}
	sort.Strings(memberIDs)

	others := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != refMemberID {
			others = append(others, id)
		}
	}

	return &model.PlanRecord{
		ID:                 plan.ID,
		HouseholdID:        plan.HouseholdID,
		Date:               dateOnly(plan.AppliedOn),
		SourceMealPlanID:   plan.SourceMealPlanID,
		SourceCreatedAt:    plan.SourceCreatedAt,
		Breakfast:          content.Breakfast,
		Lunch:              content.Lunch,
		Dinner:             content.Dinner,
		Reasoning:          plan.Reasoning,
		AppliesToMemberIDs: memberIDs,
		OtherMemberIDs:     others,
		CreatedAt:          plan.CreatedAt,
	}, nil
}

// planLookup identifies one cached (member, date) plan lookup.
type planLookup struct {
	MemberID  string
	AppliedOn string
}

// planLookups lists every lookup touching the given plans. Callers that
// delete assignments collect these inside the transaction, then drop the
// keys after commit.
func planLookups(tx *gorm.DB, planIDs []string) ([]planLookup, error) {
	if len(planIDs) == 0 {
		return nil, nil
	}
	var lookups []planLookup
	err := tx.Model(&model.MealPlanAssignment{}).
		Select("meal_plan_assignments.member_id, meal_plans.applied_on").
		Joins("JOIN meal_plans ON meal_plans.id = meal_plan_assignments.meal_plan_id").
		Where("meal_plan_assignments.meal_plan_id IN ?", planIDs).
		Scan(&lookups).Error
	if err != nil {
		return nil, apperr.Internalf(err, "list plan lookups")
	}
	return lookups, nil
}

// dropLookups invalidates the cached lookups, batched per date.
func dropLookups(ctx context.Context, plans *cache.PlanCache, lookups []planLookup) {
	byDate := map[string][]string{}
	for _, l := range lookups {
		d := dateOnly(l.AppliedOn)
		byDate[d] = append(byDate[d], l.MemberID)
	}
	for d, memberIDs := range byDate {
		plans.Invalidate(ctx, d, dedupeSorted(memberIDs)...)
	}
}

// dateOnly trims the time part MySQL date scans may carry.
func dateOnly(s string) string {
	if len(s) > len(model.DateLayout) {
		return s[:len(model.DateLayout)]
	}
	return s
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
