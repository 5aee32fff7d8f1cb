package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wisefood/internal/model"
	"wisefood/internal/service"
)

type FoodChatHandler struct {
	chat   *service.FoodChat
	access *Access
}

func NewFoodChatHandler(chat *service.FoodChat, access *Access) *FoodChatHandler {
	return &FoodChatHandler{chat: chat, access: access}
}

// GET /api/v1/foodchat/status
func (h *FoodChatHandler) Status(c *gin.Context) {
	doc, err := h.chat.Status(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// POST /api/v1/foodchat/members/:member_id/sessions
func (h *FoodChatHandler) CreateSession(c *gin.Context) {
	memberID := c.Param("member_id")
	if _, err := h.access.Member(c, memberID); err != nil {
		fail(c, err)
		return
	}
	doc, err := h.chat.CreateSession(c.Request.Context(), memberID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/v1/foodchat/members/:member_id/sessions
func (h *FoodChatHandler) MemberSessions(c *gin.Context) {
	memberID := c.Param("member_id")
	if _, err := h.access.Member(c, memberID); err != nil {
		fail(c, err)
		return
	}
	doc, err := h.chat.GetMemberSessions(c.Request.Context(), memberID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/v1/foodchat/sessions/:session_id
func (h *FoodChatHandler) GetSession(c *gin.Context) {
	doc, err := h.chat.GetSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DELETE /api/v1/foodchat/sessions/:session_id
func (h *FoodChatHandler) DeleteSession(c *gin.Context) {
	doc, err := h.chat.DeleteSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// POST /api/v1/foodchat/sessions/:session_id/messages
func (h *FoodChatHandler) SendMessage(c *gin.Context) {
	var req model.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	doc, err := h.chat.SendMessage(c.Request.Context(), c.Param("session_id"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/v1/foodchat/sessions/:session_id/messages?limit=
func (h *FoodChatHandler) GetMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	doc, err := h.chat.GetMessages(c.Request.Context(), c.Param("session_id"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/v1/foodchat/sessions/:session_id/meal-plans
func (h *FoodChatHandler) SessionMealPlans(c *gin.Context) {
	doc, err := h.chat.GetMealPlans(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
