package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wisefood/internal/middleware"
	"wisefood/internal/model"
	"wisefood/internal/service"
)

type FoodScholarHandler struct {
	scholar *service.FoodScholar
}

func NewFoodScholarHandler(scholar *service.FoodScholar) *FoodScholarHandler {
	return &FoodScholarHandler{scholar: scholar}
}

// GET /api/v1/foodscholar/status
func (h *FoodScholarHandler) Status(c *gin.Context) {
	doc, err := h.scholar.Status(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// POST /api/v1/foodscholar/qa/ask
func (h *FoodScholarHandler) Ask(c *gin.Context) {
	var req model.QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	req.UserID = middleware.CurrentIdentity(c).Subject

	doc, err := h.scholar.AskQuestion(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/v1/foodscholar/qa/models
func (h *FoodScholarHandler) Models(c *gin.Context) {
	doc, err := h.scholar.ListQAModels(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/v1/foodscholar/qa/questions
func (h *FoodScholarHandler) SuggestedQuestions(c *gin.Context) {
	doc, err := h.scholar.SuggestedQuestions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/v1/foodscholar/qa/tips
func (h *FoodScholarHandler) Tips(c *gin.Context) {
	doc, err := h.scholar.Tips(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// POST /api/v1/foodscholar/search/summarize
func (h *FoodScholarHandler) Summarize(c *gin.Context) {
	var req model.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	req.UserID = middleware.CurrentIdentity(c).Subject

	doc, err := h.scholar.SearchSummary(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
