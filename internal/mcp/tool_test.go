package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyrchen/codebank/internal/bank"
)

// Test Plan for the MCP tools:
// - gen validates path and strategy before generating
// - gen returns the generated markdown as text content
// - gen_file requires output and writes the document to disk

func newTestBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.New()
	require.NoError(t, err)
	return b
}

func request(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestGenHandlerRequiresPath(t *testing.T) {
	t.Parallel()

	handler := createGenHandler(newTestBank(t))
	result, err := handler(context.Background(), request(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGenHandlerRejectsMissingPath(t *testing.T) {
	t.Parallel()

	handler := createGenHandler(newTestBank(t))
	result, err := handler(context.Background(), request(map[string]interface{}{
		"path": "/nonexistent/path/xyz",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGenHandlerRejectsBadStrategy(t *testing.T) {
	t.Parallel()

	handler := createGenHandler(newTestBank(t))
	result, err := handler(context.Background(), request(map[string]interface{}{
		"path":     t.TempDir(),
		"strategy": "everything",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGenHandlerGenerates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.rs"), []byte("pub fn a() {}\n"), 0o644))

	handler := createGenHandler(newTestBank(t))
	result, err := handler(context.Background(), request(map[string]interface{}{
		"path":     root,
		"strategy": "summary",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "# Code Bank")
	assert.Contains(t, text, "pub fn a() { ... }")
}

func TestGenFileHandlerRequiresOutput(t *testing.T) {
	t.Parallel()

	handler := createGenFileHandler(newTestBank(t))
	result, err := handler(context.Background(), request(map[string]interface{}{
		"path": t.TempDir(),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGenFileHandlerWritesFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.rs"), []byte("pub fn a() {}\n"), 0o644))
	output := filepath.Join(t.TempDir(), "bank.md")

	handler := createGenFileHandler(newTestBank(t))
	result, err := handler(context.Background(), request(map[string]interface{}{
		"path":   root,
		"output": output,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Code Bank")
}
