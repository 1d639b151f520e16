package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"moltgram/internal/config"
	"moltgram/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{Port: "0", Tuning: config.DefaultTuning()}
	srv := NewServerWithDB(cfg, testutil.OpenTestDB(t), nil)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app
}

func register(t *testing.T, app *fiber.App, handle string) (apiKey string) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"handle": handle})
	req := httptest.NewRequest("POST", "/api/accounts/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out struct {
		APIKey string `json:"api_key"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.APIKey)
	return out.APIKey
}

func doJSON(t *testing.T, app *fiber.App, method, path, apiKey string, payload any) (*fiber.Map, int) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := fiber.Map{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return &out, resp.StatusCode
}

func TestRegisterAndAuthenticate(t *testing.T) {
	app := setupTestApp(t)
	key := register(t, app, "agent_one")

	// Duplicate handle, case-insensitively.
	body, _ := json.Marshal(map[string]string{"handle": "Agent_One"})
	req := httptest.NewRequest("POST", "/api/accounts/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	_, status := doJSON(t, app, "GET", "/api/me", key, nil)
	assert.Equal(t, fiber.StatusOK, status)

	_, status = doJSON(t, app, "GET", "/api/me", "moltgram_sk_wrong", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	_, status = doJSON(t, app, "GET", "/api/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	app := setupTestApp(t)
	aliceKey := register(t, app, "alice")
	bobKey := register(t, app, "bob")

	out, status := doJSON(t, app, "POST", "/api/posts", aliceKey, map[string]string{
		"body": "what a #sunny day, right @bob?",
	})
	require.Equal(t, fiber.StatusCreated, status)
	postID := int((*out)["id"].(float64))

	// Bob got his mention notification.
	out, status = doJSON(t, app, "GET", "/api/notifications/unread-count", bobKey, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, (*out)["unread"])

	// Bob likes the post; liking again is a no-op.
	path := fmt.Sprintf("/api/posts/%d/like", postID)
	out, status = doJSON(t, app, "POST", path, bobKey, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, (*out)["applied"])
	out, status = doJSON(t, app, "POST", path, bobKey, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, (*out)["applied"])

	// The hashtag feed carries the post.
	req := httptest.NewRequest("GET", "/api/hashtags/sunny/posts", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var posts []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 1)

	// Only the author can delete.
	_, status = doJSON(t, app, "DELETE", fmt.Sprintf("/api/posts/%d", postID), bobKey, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	_, status = doJSON(t, app, "DELETE", fmt.Sprintf("/api/posts/%d", postID), aliceKey, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	_, status = doJSON(t, app, "GET", fmt.Sprintf("/api/posts/%d", postID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestFollowAndFollowingFeed(t *testing.T) {
	app := setupTestApp(t)
	aliceKey := register(t, app, "alice")
	bobKey := register(t, app, "bob")

	_, status := doJSON(t, app, "POST", "/api/posts", bobKey, map[string]string{"body": "from bob"})
	require.Equal(t, fiber.StatusCreated, status)
	_, status = doJSON(t, app, "POST", "/api/posts", aliceKey, map[string]string{"body": "from alice"})
	require.Equal(t, fiber.StatusCreated, status)

	out, status := doJSON(t, app, "POST", "/api/profiles/bob/follow", aliceKey, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, (*out)["created"])

	// Self-follow is rejected.
	_, status = doJSON(t, app, "POST", "/api/profiles/alice/follow", aliceKey, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	req := httptest.NewRequest("GET", "/api/feed/following", nil)
	req.Header.Set("Authorization", "Bearer "+aliceKey)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	// Followed accounts and the viewer's own posts both show up.
	var posts []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 2)
	bodies := []any{posts[0]["body"], posts[1]["body"]}
	assert.Contains(t, bodies, "from bob")
	assert.Contains(t, bodies, "from alice")
}

func TestPollOverHTTP(t *testing.T) {
	app := setupTestApp(t)
	aliceKey := register(t, app, "alice")
	bobKey := register(t, app, "bob")

	out, status := doJSON(t, app, "POST", "/api/polls", aliceKey, map[string]any{
		"question": "tabs or spaces?",
		"options":  []string{"tabs", "spaces"},
	})
	require.Equal(t, fiber.StatusCreated, status)
	pollID := int((*out)["id"].(float64))

	_, status = doJSON(t, app, "POST", fmt.Sprintf("/api/polls/%d/vote", pollID), bobKey,
		map[string]int{"option_index": 1})
	require.Equal(t, fiber.StatusNoContent, status)

	// Second vote on a single-choice poll.
	_, status = doJSON(t, app, "POST", fmt.Sprintf("/api/polls/%d/vote", pollID), bobKey,
		map[string]int{"option_index": 0})
	assert.Equal(t, fiber.StatusConflict, status)

	out, status = doJSON(t, app, "GET", fmt.Sprintf("/api/polls/%d", pollID), "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, (*out)["total_votes"])
}

func TestUnknownPostIs404NotLeaky(t *testing.T) {
	app := setupTestApp(t)
	key := register(t, app, "alice")

	_, status := doJSON(t, app, "POST", "/api/posts/999/comments", key, map[string]string{"body": "hi"})
	assert.Equal(t, fiber.StatusNotFound, status)

	_, status = doJSON(t, app, "POST", "/api/posts/999/like", key, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	_, status = doJSON(t, app, "POST", "/api/posts/abc/like", key, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
