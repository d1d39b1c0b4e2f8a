package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/groundcheck/internal/ontology"
	"github.com/ashita-ai/groundcheck/internal/storage"
	"github.com/ashita-ai/groundcheck/internal/verify"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.Default()
	store, err := storage.Open(filepath.Join(t.TempDir(), "gc.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := verify.NewEngine(verify.Config{Tables: ontology.Default(logger)})
	return New(store, engine, nil, logger, "default", "test")
}

func callReq(name string, args map[string]any) mcplib.CallToolRequest {
	return mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Name: name, Arguments: args},
	}
}

// parseToolText extracts the first TextContent text from a CallToolResult.
func parseToolText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected TextContent")
	return tc.Text
}

func TestHandleRememberAndVerify(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleRemember(ctx, callReq("groundcheck_remember", map[string]any{
		"text":  "User works at Microsoft",
		"trust": 0.9,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, parseToolText(t, res))

	res, err = s.handleVerify(ctx, callReq("groundcheck_verify", map[string]any{
		"draft": "You work at Amazon",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, parseToolText(t, res))

	var resp verifyResponse
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, res)), &resp))
	assert.False(t, resp.Passed)
	assert.Equal(t, []string{"Amazon"}, resp.Hallucinations)
	require.NotNil(t, resp.Corrected)
	assert.Equal(t, "You work at Microsoft", *resp.Corrected)
	assert.Equal(t, 1, resp.MemoriesChecked)
}

func TestHandleVerify_MissingDraft(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleVerify(context.Background(), callReq("groundcheck_verify", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleRemember_TrustValidated(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleRemember(context.Background(), callReq("groundcheck_remember", map[string]any{
		"text":  "fact",
		"trust": 1.7,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleRecall_NamespaceScoped(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleRemember(ctx, callReq("groundcheck_remember", map[string]any{
		"text": "fact in project", "namespace": "proj",
	}))
	require.NoError(t, err)

	res, err := s.handleRecall(ctx, callReq("groundcheck_recall", map[string]any{
		"namespace": "proj",
	}))
	require.NoError(t, err)
	var resp struct {
		Namespace string `json:"namespace"`
		Count     int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, res)), &resp))
	assert.Equal(t, "proj", resp.Namespace)
	assert.Equal(t, 1, resp.Count)

	// Default namespace sees nothing.
	res, err = s.handleRecall(ctx, callReq("groundcheck_recall", map[string]any{}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, res)), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestHandleForget(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleRemember(ctx, callReq("groundcheck_remember", map[string]any{"text": "fact"}))
	require.NoError(t, err)
	var stored struct {
		MemoryID string `json:"memory_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, res)), &stored))

	res, err = s.handleForget(ctx, callReq("groundcheck_forget", map[string]any{"memory_id": stored.MemoryID}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleForget(ctx, callReq("groundcheck_forget", map[string]any{"memory_id": stored.MemoryID}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "second delete reports the missing id")

	res, err = s.handleForget(ctx, callReq("groundcheck_forget", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "memory_id or namespace required")
}
