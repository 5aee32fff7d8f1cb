package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisefood/internal/model"
)

func TestPlanCacheGetHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewPlanCache(rdb)

	rec := &model.PlanRecord{ID: "p-1", HouseholdID: "h-1", Date: "2026-09-01"}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	mock.ExpectGet("mealplan:m-1:2026-09-01").SetVal(string(data))

	got, ok := c.Get(context.Background(), "m-1", "2026-09-01")
	require.True(t, ok)
	assert.Equal(t, "p-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanCacheGetMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewPlanCache(rdb)

	mock.ExpectGet("mealplan:m-1:2026-09-01").RedisNil()

	_, ok := c.Get(context.Background(), "m-1", "2026-09-01")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanCacheSet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewPlanCache(rdb)

	rec := &model.PlanRecord{ID: "p-1", Date: "2026-09-01"}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	mock.ExpectSet("mealplan:m-1:2026-09-01", data, 15*time.Minute).SetVal("OK")

	c.Set(context.Background(), "m-1", "2026-09-01", rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanCacheInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewPlanCache(rdb)

	mock.ExpectDel("mealplan:m-1:2026-09-01", "mealplan:m-2:2026-09-01").SetVal(2)

	c.Invalidate(context.Background(), "2026-09-01", "m-1", "m-2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanCacheDisabled(t *testing.T) {
	var c *PlanCache
	_, ok := c.Get(context.Background(), "m-1", "2026-09-01")
	assert.False(t, ok)
	c.Set(context.Background(), "m-1", "2026-09-01", &model.PlanRecord{})
	c.Invalidate(context.Background(), "2026-09-01", "m-1")

	c = NewPlanCache(nil)
	_, ok = c.Get(context.Background(), "m-1", "2026-09-01")
	assert.False(t, ok)
}
