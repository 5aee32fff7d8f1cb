package service

import (
	"context"
	"sort"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisefood/internal/apperr"
	"wisefood/internal/cache"
	"wisefood/internal/model"
)

func TestHouseholdCreateWithInitialMembers(t *testing.T) {
	db := newTestDB(t)
	svc := NewHouseholdService(db, nil)

	region := "el"
	household, err := svc.Create(context.Background(), "owner-1", model.HouseholdCreateRequest{
		Name:     "The Papadopoulos",
		Region:   &region,
		Metadata: map[string]any{"plan_style": "mediterranean"},
		Members: []model.MemberCreateRequest{
			{Name: "Maria", AgeGroup: "adult", Profile: &model.ProfileUpdateRequest{DietaryGroups: []string{"pescatarian"}}},
			{Name: "Nikos", AgeGroup: "child"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "owner-1", household.OwnerID)
	require.Len(t, household.Members, 2)
	names := []string{household.Members[0].Name, household.Members[1].Name}
	assert.ElementsMatch(t, []string{"Maria", "Nikos"}, names)

	byOwner, err := svc.GetByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, household.ID, byOwner.ID)
}

func TestHouseholdCreateRejectsBadAgeGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewHouseholdService(db, nil)

	_, err := svc.Create(context.Background(), "owner-1", model.HouseholdCreateRequest{
		Name:    "H",
		Members: []model.MemberCreateRequest{{Name: "X", AgeGroup: "grown-up"}},
	})
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
	assert.Equal(t, int64(0), countRows(t, db, &model.Household{}))
}

func TestHouseholdUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewHouseholdService(db, nil)

	household, err := svc.Create(context.Background(), "owner-1", model.HouseholdCreateRequest{Name: "Before"})
	require.NoError(t, err)

	name := "After"
	region := "de"
	updated, err := svc.Update(context.Background(), household.ID, model.HouseholdUpdateRequest{
		Name:     &name,
		Region:   &region,
		Metadata: map[string]any{"notes": "updated"},
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	require.NotNil(t, updated.Region)
	assert.Equal(t, "de", *updated.Region)
	assert.Equal(t, "updated", updated.Metadata["notes"])

	_, err = svc.Update(context.Background(), "ghost", model.HouseholdUpdateRequest{Name: &name})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestHouseholdDeleteRemovesEverything(t *testing.T) {
	db := newTestDB(t)
	households := NewHouseholdService(db, nil)
	members := NewMemberService(db, nil)
	plans := NewMealPlanService(db, members, nil)

	household, err := households.Create(context.Background(), "owner-1", model.HouseholdCreateRequest{
		Name: "Doomed",
		Members: []model.MemberCreateRequest{
			{Name: "A", AgeGroup: "adult", Profile: &model.ProfileUpdateRequest{DietaryGroups: []string{"vegan"}}},
			{Name: "B", AgeGroup: "adult"},
		},
	})
	require.NoError(t, err)
	memberID := household.Members[0].ID

	_, err = plans.StoreForMembers(context.Background(), memberID, futureDate(1), sampleContent("last supper"), nil)
	require.NoError(t, err)

	require.NoError(t, households.Delete(context.Background(), household.ID))

	assert.Equal(t, int64(0), countRows(t, db, &model.Household{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.HouseholdMember{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.MemberProfile{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.MealPlan{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.MealPlanAssignment{}))

	err = households.Delete(context.Background(), household.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestHouseholdDeleteInvalidatesPlanCache(t *testing.T) {
	db := newTestDB(t)
	rdb, mock := redismock.NewClientMock()
	households := NewHouseholdService(db, cache.NewPlanCache(rdb))
	members := NewMemberService(db, nil)
	plans := NewMealPlanService(db, members, nil)
	householdID, ids := seedHousehold(t, db, 2)
	date := futureDate(1)

	_, err := plans.StoreForMembers(context.Background(), ids[0], date, sampleContent("shared"), []string{ids[1]})
	require.NoError(t, err)

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	keys := make([]string, 0, len(sorted))
	for _, id := range sorted {
		keys = append(keys, "mealplan:"+id+":"+date)
	}
	mock.ExpectDel(keys...).SetVal(int64(len(keys)))

	require.NoError(t, households.Delete(context.Background(), householdID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
