package service

import (
	"context"
	"time"

	"wisefood/internal/model"
)

// RecipeWrangler forwards recipe knowledge-base lookups.
type RecipeWrangler struct {
	*upstream
}

func NewRecipeWrangler(baseURL string, timeout time.Duration) *RecipeWrangler {
	return &RecipeWrangler{upstream: newUpstream("recipewrangler", baseURL, timeout)}
}

func (r *RecipeWrangler) GetRecipe(ctx context.Context, recipeID string) (Document, error) {
	return r.getJSON(ctx, pathf("/api/v1/recipes/%s", recipeID))
}

func (r *RecipeWrangler) SearchRecipes(ctx context.Context, req model.RecipeSearchRequest) (Document, error) {
	if req.ExcludeAllergens == nil {
		req.ExcludeAllergens = []string{}
	}
	return r.postJSON(ctx, "/api/v1/recipes/search", req)
}

func (r *RecipeWrangler) ProfileRecipe(ctx context.Context, rawRecipe string) (Document, error) {
	return r.postJSON(ctx, "/api/v1/recipes/profile", model.RecipeProfileRequest{RawRecipe: rawRecipe})
}
