package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wisefood/internal/apperr"
	"wisefood/internal/middleware"
	"wisefood/internal/model"
	"wisefood/internal/service"
)

type HouseholdHandler struct {
	households *service.HouseholdService
	access     *Access
}

func NewHouseholdHandler(households *service.HouseholdService, access *Access) *HouseholdHandler {
	return &HouseholdHandler{households: households, access: access}
}

// POST /api/v1/households
func (h *HouseholdHandler) Create(c *gin.Context) {
	var req model.HouseholdCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	id := middleware.CurrentIdentity(c)
	household, err := h.households.Create(c.Request.Context(), id.Subject, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, household)
}

// GET /api/v1/households/mine
func (h *HouseholdHandler) Mine(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	household, err := h.households.GetByOwner(c.Request.Context(), id.Subject)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, household)
}

// GET /api/v1/households/:household_id
func (h *HouseholdHandler) Get(c *gin.Context) {
	if _, err := h.access.Household(c, c.Param("household_id")); err != nil {
		fail(c, err)
		return
	}
	household, err := h.households.Get(c.Request.Context(), c.Param("household_id"), true)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, household)
}

// PATCH /api/v1/households/:household_id
func (h *HouseholdHandler) Update(c *gin.Context) {
	if _, err := h.access.Household(c, c.Param("household_id")); err != nil {
		fail(c, err)
		return
	}

	var req model.HouseholdUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	household, err := h.households.Update(c.Request.Context(), c.Param("household_id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, household)
}

// DELETE /api/v1/households/:household_id
func (h *HouseholdHandler) Delete(c *gin.Context) {
	if _, err := h.access.Household(c, c.Param("household_id")); err != nil {
		fail(c, err)
		return
	}
	if err := h.households.Delete(c.Request.Context(), c.Param("household_id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GET /api/v1/households  (admin only)
func (h *HouseholdHandler) List(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if !id.IsPrivileged() {
		fail(c, apperr.Forbiddenf("listing households requires an administrative role"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	households, err := h.households.List(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	if households == nil {
		households = []model.Household{}
	}
	c.JSON(http.StatusOK, households)
}
