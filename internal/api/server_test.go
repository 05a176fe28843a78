package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiportalapp/aiportal-server/internal/auth"
	"github.com/aiportalapp/aiportal-server/internal/http/response"
	"github.com/aiportalapp/aiportal-server/internal/search"
	"github.com/aiportalapp/aiportal-server/internal/service"
	"github.com/aiportalapp/aiportal-server/internal/store"
)

// stubCompleter returns a fixed assistant reply.
type stubCompleter struct {
	reply string
	err   error
}

func (c *stubCompleter) Complete(context.Context, string, string) (string, error) {
	return c.reply, c.err
}

// testServer bundles the server with the services tests seed data through.
type testServer struct {
	server  *Server
	store   *store.Store
	catalog *service.CatalogService
}

// setupTestServer creates a test server with all dependencies on temporary
// storage and an in-memory search index.
func setupTestServer(t *testing.T, completer service.Completer) (*testServer, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "aiportal-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.New(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)

	idx, err := search.NewSearchIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	s.SetSearchIndexer(idx)

	keyHex, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(keyHex, time.Hour)
	require.NoError(t, err)

	if completer == nil {
		completer = &stubCompleter{reply: "stub reply"}
	}

	authService := service.NewAuthService(s, tokenService, logger)
	catalogService := service.NewCatalogService(s, idx, logger)
	assistantService := service.NewAssistantService(s, completer, logger)

	server := NewServer(authService, catalogService, assistantService, logger)

	cleanup := func() {
		_ = idx.Close()
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &testServer{server: server, store: s, catalog: catalogService}, cleanup
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// registerUser registers a user and returns the bearer token.
func registerUser(t *testing.T, server *Server, username, email string) string {
	t.Helper()

	rec := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data service.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

// seedTool creates a catalog entry through the service.
func seedTool(t *testing.T, ts *testServer, title string, categories ...string) string {
	t.Helper()
	tool, err := ts.catalog.CreateTool(context.Background(), service.CreateToolRequest{
		Title:    title,
		Caption:  "caption for " + title,
		Link:     "https://example.com",
		Category: categories,
	})
	require.NoError(t, err)
	return tool.ID
}

func TestHealthCheck(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	rec := doJSON(t, ts.server, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}

func TestAuthStatus(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	rec := doJSON(t, ts.server, http.MethodGet, "/api/auth/status", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")
	assert.NotEmpty(t, token)

	// Duplicate registration fails with 400.
	rec := doJSON(t, ts.server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestRegisterEndpoint_BadBody(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	registerUser(t, ts.server, "alice", "alice@example.com")

	rec := doJSON(t, ts.server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, ts.server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/tools/fetchall/All"},
		{http.MethodGet, "/api/tools/search/gpt"},
		{http.MethodGet, "/api/tools/liked"},
		{http.MethodPost, "/api/tools/like/tool-123"},
		{http.MethodPost, "/api/ai/ask"},
	}

	for _, p := range paths {
		rec := doJSON(t, ts.server, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}

	// Garbage tokens are rejected too.
	rec := doJSON(t, ts.server, http.MethodGet, "/api/tools/fetchall/All", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFetchAllEndpoint(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")
	for i := range 15 {
		seedTool(t, ts, fmt.Sprintf("Tool %d", i), "Writing")
	}

	rec := doJSON(t, ts.server, http.MethodGet, "/api/tools/fetchall/All?page=2&limit=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data store.ToolPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Tools, 5)
	assert.Equal(t, 2, resp.Data.CurrentPage)
	assert.Equal(t, 15, resp.Data.TotalTools)
	assert.Equal(t, 2, resp.Data.TotalPages)
	assert.False(t, resp.Data.HasMore)
}

func TestFetchAllEndpoint_CategoryFilter(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")
	seedTool(t, ts, "Writer", "Writing")
	seedTool(t, ts, "Coder", "Coding")

	rec := doJSON(t, ts.server, http.MethodGet, "/api/tools/fetchall/Coding", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data store.ToolPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Tools, 1)
	assert.Equal(t, "Coder", resp.Data.Tools[0].Title)
}

func TestSearchEndpoint(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")
	seedTool(t, ts, "ChatGPT Helper", "Chat")

	rec := doJSON(t, ts.server, http.MethodGet, "/api/tools/search/gpt", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// No hits is a 404.
	rec = doJSON(t, ts.server, http.MethodGet, "/api/tools/search/nothing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeEndpoint(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")
	toolID := seedTool(t, ts, "Liked Tool", "Writing")

	rec := doJSON(t, ts.server, http.MethodPost, "/api/tools/like/"+toolID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Tool liked", env.Message)

	rec = doJSON(t, ts.server, http.MethodPost, "/api/tools/like/"+toolID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, "Tool unliked", env.Message)
}

func TestLikeEndpoint_InvalidID(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")

	rec := doJSON(t, ts.server, http.MethodPost, "/api/tools/like/bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikedEndpoint(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")
	writingID := seedTool(t, ts, "Writer", "Writing")
	codingID := seedTool(t, ts, "Coder", "Coding")

	doJSON(t, ts.server, http.MethodPost, "/api/tools/like/"+writingID, token, nil)
	doJSON(t, ts.server, http.MethodPost, "/api/tools/like/"+codingID, token, nil)

	rec := doJSON(t, ts.server, http.MethodGet, "/api/tools/liked?category=writing", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			LikedTools []struct {
				Title string `json:"title"`
			} `json:"likedTools"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.LikedTools, 1)
	assert.Equal(t, "Writer", resp.Data.LikedTools[0].Title)
}

func TestCommentEndpoint(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")
	toolID := seedTool(t, ts, "Commented Tool", "Writing")

	rec := doJSON(t, ts.server, http.MethodPost, "/api/tools/"+toolID+"/comments", token, map[string]string{
		"text": "great tool",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			CommentsCount int `json:"commentsCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.CommentsCount)
}

func TestAskEndpoint(t *testing.T) {
	ts, cleanup := setupTestServer(t, &stubCompleter{reply: "Try ChatGPT Helper."})
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")
	seedTool(t, ts, "ChatGPT Helper", "Chat")

	rec := doJSON(t, ts.server, http.MethodPost, "/api/ai/ask", token, map[string]string{
		"prompt": "what should I use?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data service.AskResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Try ChatGPT Helper.", resp.Data.Reply)
}

func TestAskEndpoint_EmptyPrompt(t *testing.T) {
	ts, cleanup := setupTestServer(t, nil)
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")

	rec := doJSON(t, ts.server, http.MethodPost, "/api/ai/ask", token, map[string]string{"prompt": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskEndpoint_UpstreamFailure(t *testing.T) {
	ts, cleanup := setupTestServer(t, &stubCompleter{err: fmt.Errorf("status 502")})
	defer cleanup()

	token := registerUser(t, ts.server, "alice", "alice@example.com")

	rec := doJSON(t, ts.server, http.MethodPost, "/api/ai/ask", token, map[string]string{"prompt": "hi"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
