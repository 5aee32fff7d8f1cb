package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wisefood/internal/model"
	"wisefood/internal/service"
)

type MealPlanHandler struct {
	plans  *service.MealPlanService
	access *Access
}

func NewMealPlanHandler(plans *service.MealPlanService, access *Access) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, access: access}
}

// POST /api/v1/members/:member_id/meal-plans
func (h *MealPlanHandler) Store(c *gin.Context) {
	memberID := c.Param("member_id")
	if _, err := h.access.Member(c, memberID); err != nil {
		fail(c, err)
		return
	}

	var req model.MealPlanStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	targetDate := req.Date
	if targetDate == "" {
		targetDate = time.Now().Format(model.DateLayout)
	}

	rec, err := h.plans.StoreForMembers(
		c.Request.Context(), memberID, targetDate,
		req.MealPlan.Content(), req.AppliesToMemberIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /api/v1/members/:member_id/meal-plans?date=YYYY-MM-DD
func (h *MealPlanHandler) Get(c *gin.Context) {
	memberID := c.Param("member_id")
	if _, err := h.access.Member(c, memberID); err != nil {
		fail(c, err)
		return
	}

	targetDate := c.Query("date")
	if targetDate == "" {
		targetDate = time.Now().Format(model.DateLayout)
	}

	rec, err := h.plans.GetForMemberAndDate(c.Request.Context(), memberID, targetDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DELETE /api/v1/members/:member_id/meal-plans/:plan_id?revoke_for_all_members=
func (h *MealPlanHandler) Revoke(c *gin.Context) {
	memberID := c.Param("member_id")
	if _, err := h.access.Member(c, memberID); err != nil {
		fail(c, err)
		return
	}

	revokeAll := false
	if v := c.Query("revoke_for_all_members"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "revoke_for_all_members must be a boolean")
			return
		}
		revokeAll = b
	}

	result, err := h.plans.Revoke(c.Request.Context(), memberID, c.Param("plan_id"), revokeAll)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
