package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wisefood/internal/model"
	"wisefood/internal/service"
)

type RecipeWranglerHandler struct {
	recipes *service.RecipeWrangler
}

func NewRecipeWranglerHandler(recipes *service.RecipeWrangler) *RecipeWranglerHandler {
	return &RecipeWranglerHandler{recipes: recipes}
}

// GET /api/v1/recipewrangler/status
func (h *RecipeWranglerHandler) Status(c *gin.Context) {
	doc, err := h.recipes.Status(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/v1/recipewrangler/recipes/:recipe_id
func (h *RecipeWranglerHandler) Get(c *gin.Context) {
	doc, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("recipe_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// POST /api/v1/recipewrangler/recipes/search
func (h *RecipeWranglerHandler) Search(c *gin.Context) {
	var req model.RecipeSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	doc, err := h.recipes.SearchRecipes(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// POST /api/v1/recipewrangler/recipes/profile
func (h *RecipeWranglerHandler) Profile(c *gin.Context) {
	var req model.RecipeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	doc, err := h.recipes.ProfileRecipe(c.Request.Context(), req.RawRecipe)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
