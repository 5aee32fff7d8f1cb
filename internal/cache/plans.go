// Package cache keeps a short-lived per-member copy of plan lookups in
// redis. Every successful store or revoke drops the affected keys, so a
// hit is never stale relative to committed writes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wisefood/internal/logger"
	"wisefood/internal/model"
)

const planTTL = 15 * time.Minute

type PlanCache struct {
	rdb *redis.Client
}

// NewPlanCache accepts a nil client; all methods degrade to no-ops then.
func NewPlanCache(rdb *redis.Client) *PlanCache {
	return &PlanCache{rdb: rdb}
}

func planKey(memberID, date string) string {
	return fmt.Sprintf("mealplan:%s:%s", memberID, date)
}

func (c *PlanCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *PlanCache) Get(ctx context.Context, memberID, date string) (*model.PlanRecord, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, planKey(memberID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("plan cache get failed", "member_id", memberID, "err", err)
		}
		return nil, false
	}
	var rec model.PlanRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Warn("plan cache decode failed", "member_id", memberID, "err", err)
		return nil, false
	}
	return &rec, true
}

func (c *PlanCache) Set(ctx context.Context, memberID, date string, rec *model.PlanRecord) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, planKey(memberID, date), data, planTTL).Err(); err != nil {
		logger.Warn("plan cache set failed", "member_id", memberID, "err", err)
	}
}

// Invalidate drops the cached lookup for each member on the given date.
func (c *PlanCache) Invalidate(ctx context.Context, date string, memberIDs ...string) {
	if !c.enabled() || len(memberIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		keys = append(keys, planKey(id, date))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("plan cache invalidate failed", "date", date, "err", err)
	}
}
