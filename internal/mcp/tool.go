package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tyrchen/codebank/internal/bank"
	"github.com/tyrchen/codebank/internal/parser"
)

// AddGenTool registers the gen tool, which returns the generated markdown.
func AddGenTool(s *server.MCPServer, b *bank.Bank) {
	tool := mcp.NewTool(
		"gen",
		mcp.WithDescription("Generate a code bank from source files. Helps understand codebase structure and summarize code functionality. Useful for code review, onboarding, and maintaining a codebase overview."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the source directory. Provide the absolute path.")),
		mcp.WithString("strategy",
			mcp.Description("Strategy for generation: default, summary or no-tests (default: default)")),
	)
	s.AddTool(tool, createGenHandler(b))
}

// AddGenFileTool registers the gen_file tool, which writes the markdown to
// a file and returns a confirmation.
func AddGenFileTool(s *server.MCPServer, b *bank.Bank) {
	tool := mcp.NewTool(
		"gen_file",
		mcp.WithDescription("Generate a code bank from source files and save it to an output file."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the source directory. Provide the absolute path.")),
		mcp.WithString("strategy",
			mcp.Description("Strategy for generation: default, summary or no-tests (default: default)")),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Output file path. Provide the absolute path.")),
	)
	s.AddTool(tool, createGenFileHandler(b))
}

func createGenHandler(b *bank.Bank) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cfg, errResult := parseGenArgs(request)
		if errResult != nil {
			return errResult, nil
		}
		content, err := b.Generate(cfg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to generate code bank: %v", err)), nil
		}
		return mcp.NewToolResultText(content), nil
	}
}

func createGenFileHandler(b *bank.Bank) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cfg, errResult := parseGenArgs(request)
		if errResult != nil {
			return errResult, nil
		}
		output, ok := stringArg(request, "output")
		if !ok || output == "" {
			return mcp.NewToolResultError("output parameter is required"), nil
		}
		if err := b.GenerateToFile(cfg, output); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to generate code bank: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Successfully generated code bank and saved to %s", output)), nil
	}
}

// parseGenArgs validates the arguments the two tools share. The second
// return value is a ready error result when validation fails.
func parseGenArgs(request mcp.CallToolRequest) (*bank.Config, *mcp.CallToolResult) {
	path, ok := stringArg(request, "path")
	if !ok || path == "" {
		return nil, mcp.NewToolResultError("path parameter is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path))
	}

	spelling, ok := stringArg(request, "strategy")
	if !ok || spelling == "" {
		spelling = "default"
	}
	strategy, valid := parser.ParseStrategy(spelling)
	if !valid {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid strategy: %s. Available strategies: default, summary, no-tests", spelling))
	}

	return &bank.Config{RootDir: path, Strategy: strategy}, nil
}

func stringArg(request mcp.CallToolRequest, key string) (string, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", false
	}
	value, ok := args[key].(string)
	return value, ok
}
