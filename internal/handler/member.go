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

type MemberHandler struct {
	members *service.MemberService
	access  *Access
}

func NewMemberHandler(members *service.MemberService, access *Access) *MemberHandler {
	return &MemberHandler{members: members, access: access}
}

// POST /api/v1/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req model.MemberCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.HouseholdID == "" {
		badRequest(c, "household_id is required")
		return
	}
	if _, err := h.access.Household(c, req.HouseholdID); err != nil {
		fail(c, err)
		return
	}

	member, err := h.members.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// GET /api/v1/members/:member_id
func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.access.Member(c, c.Param("member_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// GET /api/v1/members?household_id=&limit=&offset=
func (h *MemberHandler) List(c *gin.Context) {
	householdID := c.Query("household_id")
	if householdID == "" {
		id := middleware.CurrentIdentity(c)
		if !id.IsPrivileged() {
			fail(c, apperr.Forbiddenf("listing all members requires an administrative role"))
			return
		}
	} else if _, err := h.access.Household(c, householdID); err != nil {
		fail(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	members, err := h.members.List(c.Request.Context(), householdID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	if members == nil {
		members = []model.HouseholdMember{}
	}
	c.JSON(http.StatusOK, members)
}

// PATCH /api/v1/members/:member_id
func (h *MemberHandler) Update(c *gin.Context) {
	if _, err := h.access.Member(c, c.Param("member_id")); err != nil {
		fail(c, err)
		return
	}

	var req model.MemberUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	member, err := h.members.Update(c.Request.Context(), c.Param("member_id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// DELETE /api/v1/members/:member_id
func (h *MemberHandler) Delete(c *gin.Context) {
	if _, err := h.access.Member(c, c.Param("member_id")); err != nil {
		fail(c, err)
		return
	}
	if err := h.members.Delete(c.Request.Context(), c.Param("member_id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// PUT /api/v1/members/:member_id/profile
func (h *MemberHandler) UpsertProfile(c *gin.Context) {
	if _, err := h.access.Member(c, c.Param("member_id")); err != nil {
		fail(c, err)
		return
	}

	var req model.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	profile, err := h.members.UpsertProfile(c.Request.Context(), c.Param("member_id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GET /api/v1/members/:member_id/profile
func (h *MemberHandler) GetProfile(c *gin.Context) {
	if _, err := h.access.Member(c, c.Param("member_id")); err != nil {
		fail(c, err)
		return
	}
	profile, err := h.members.GetProfile(c.Request.Context(), c.Param("member_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DELETE /api/v1/members/:member_id/profile
func (h *MemberHandler) DeleteProfile(c *gin.Context) {
	if _, err := h.access.Member(c, c.Param("member_id")); err != nil {
		fail(c, err)
		return
	}
	if err := h.members.DeleteProfile(c.Request.Context(), c.Param("member_id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
