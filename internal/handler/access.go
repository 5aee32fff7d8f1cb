package handler

import (
	"github.com/gin-gonic/gin"

	"wisefood/internal/apperr"
	"wisefood/internal/middleware"
	"wisefood/internal/model"
	"wisefood/internal/service"
)

// Access answers "may this identity touch this household or member".
// Owners see their own household; admin and agent roles see everything.
type Access struct {
	households *service.HouseholdService
	members    *service.MemberService
}

func NewAccess(households *service.HouseholdService, members *service.MemberService) *Access {
	return &Access{households: households, members: members}
}

func (a *Access) Household(c *gin.Context, householdID string) (*model.Household, error) {
	household, err := a.households.Get(c.Request.Context(), householdID, false)
	if err != nil {
		return nil, err
	}
	id := middleware.CurrentIdentity(c)
	if household.OwnerID != id.Subject && !id.IsPrivileged() {
		return nil, apperr.Forbiddenf("you do not have access to this household")
	}
	return household, nil
}

// Member resolves a member and checks household access in one step.
func (a *Access) Member(c *gin.Context, memberID string) (*model.HouseholdMember, error) {
	member, err := a.members.Get(c.Request.Context(), memberID)
	if err != nil {
		return nil, err
	}
	if _, err := a.Household(c, member.HouseholdID); err != nil {
		return nil, err
	}
	return member, nil
}
