package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisefood/internal/apperr"
	"wisefood/internal/model"
)

func TestUpstreamJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/health":
			json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
		case r.Method == http.MethodPost && r.URL.Path == "/qa/ask":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			json.NewEncoder(w).Encode(map[string]any{"answer": "yes", "question": body["question"]})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	scholar := NewFoodScholar(srv.URL, 5*time.Second)

	doc, err := scholar.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", doc["status"])

	doc, err = scholar.AskQuestion(context.Background(), model.QARequest{Question: "is oat milk fortified?"})
	require.NoError(t, err)
	assert.Equal(t, "yes", doc["answer"])
	assert.Equal(t, "is oat milk fortified?", doc["question"])
}

func TestUpstreamErrorStatusBecomesBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	u := newUpstream("testsvc", srv.URL, 5*time.Second)
	_, err := u.getJSON(context.Background(), "/anything")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.BadGateway))
	assert.Contains(t, err.Error(), "500")
}

func TestUpstreamBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	u := newUpstream("flaky", srv.URL, 5*time.Second)
	for i := 0; i < 5; i++ {
		_, err := u.getJSON(context.Background(), "/x")
		assert.True(t, apperr.IsKind(err, apperr.BadGateway))
	}

	_, err := u.getJSON(context.Background(), "/x")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Unavailable))
}

func TestUpstreamTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	u := newUpstream("slow", srv.URL, 20*time.Millisecond)
	_, err := u.getJSON(context.Background(), "/x")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Timeout))
}

func TestDeleteJSONDefaultsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	u := newUpstream("testsvc", srv.URL, 5*time.Second)
	doc, err := u.deleteJSON(context.Background(), "/sessions/abc")
	require.NoError(t, err)
	assert.Equal(t, "deleted", doc["status"])
}

func TestPathfEscapesArguments(t *testing.T) {
	assert.Equal(t, "/foodchat/sessions/a%2Fb", pathf("/foodchat/sessions/%s", "a/b"))
	assert.Equal(t, "/api/v1/recipes/r%201", pathf("/api/v1/recipes/%s", "r 1"))
}
