package service

import (
	"context"
	"strconv"
	"time"
)

// FoodChat forwards conversational meal-plan generation to the FoodChat
// service. It keeps no state of its own.
type FoodChat struct {
	*upstream
	longTimeout *upstream
}

// NewFoodChat builds the client. Message sends get a dedicated client
// with a longer timeout since plan generation can take tens of seconds.
func NewFoodChat(baseURL string, timeout time.Duration) *FoodChat {
	return &FoodChat{
		upstream:    newUpstream("foodchat", baseURL, timeout),
		longTimeout: newUpstream("foodchat", baseURL, 60*time.Second),
	}
}

func (f *FoodChat) CreateSession(ctx context.Context, memberID string) (Document, error) {
	return f.postJSON(ctx, "/foodchat/sessions", map[string]string{"member_id": memberID})
}

func (f *FoodChat) GetSession(ctx context.Context, sessionID string) (Document, error) {
	return f.getJSON(ctx, pathf("/foodchat/sessions/%s", sessionID))
}

func (f *FoodChat) DeleteSession(ctx context.Context, sessionID string) (Document, error) {
	return f.deleteJSON(ctx, pathf("/foodchat/sessions/%s", sessionID))
}

func (f *FoodChat) SendMessage(ctx context.Context, sessionID, content string) (Document, error) {
	return f.longTimeout.postJSON(ctx,
		pathf("/foodchat/sessions/%s/messages", sessionID),
		map[string]string{"content": content})
}

func (f *FoodChat) GetMessages(ctx context.Context, sessionID string, limit int) (Document, error) {
	path := pathf("/foodchat/sessions/%s/messages", sessionID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return f.getJSON(ctx, path)
}

func (f *FoodChat) GetMealPlans(ctx context.Context, sessionID string) (Document, error) {
	return f.getJSON(ctx, pathf("/foodchat/sessions/%s/meal-plans", sessionID))
}

func (f *FoodChat) GetMemberSessions(ctx context.Context, memberID string) (Document, error) {
	return f.getJSON(ctx, pathf("/foodchat/members/%s/sessions", memberID))
}
