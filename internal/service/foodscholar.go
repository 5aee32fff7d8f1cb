package service

import (
	"context"
	"time"

	"wisefood/internal/model"
)

// FoodScholar forwards scientific Q&A and summarization requests.
type FoodScholar struct {
	*upstream
}

func NewFoodScholar(baseURL string, timeout time.Duration) *FoodScholar {
	return &FoodScholar{upstream: newUpstream("foodscholar", baseURL, timeout)}
}

func (f *FoodScholar) AskQuestion(ctx context.Context, req model.QARequest) (Document, error) {
	return f.postJSON(ctx, "/qa/ask", req)
}

func (f *FoodScholar) ListQAModels(ctx context.Context) (Document, error) {
	return f.getJSON(ctx, "/qa/models")
}

func (f *FoodScholar) SuggestedQuestions(ctx context.Context) (Document, error) {
	return f.getJSON(ctx, "/qa/questions")
}

func (f *FoodScholar) Tips(ctx context.Context) (Document, error) {
	return f.getJSON(ctx, "/qa/tips")
}

func (f *FoodScholar) SearchSummary(ctx context.Context, req model.SummarizeRequest) (Document, error) {
	return f.postJSON(ctx, "/search/summarize", req)
}
