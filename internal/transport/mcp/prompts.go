package mcp

import (
	"context"
	"fmt"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	promptsvc "github.com/alanyang/stlc-manager/internal/service/prompt"
)

// RegisterPrompts registers one MCP native prompt per process, named by its
// type (e.g. "code_review"). The prompt text is the stored base template
// followed by the effective system suffix, placeholders left in place.
func RegisterPrompts(s *mcpserver.MCPServer, registry *process.Registry, promptSvc *promptsvc.Service) {
	for _, cfg := range registry.All() {
		s.AddPrompt(
			mcpmcp.NewPrompt(string(cfg.Type),
				mcpmcp.WithPromptDescription(fmt.Sprintf("Base %s prompt with placeholders %v.", cfg.Slug, cfg.Placeholders)),
			),
			promptHandler(cfg, promptSvc),
		)
	}
}

func promptHandler(cfg process.Config, promptSvc *promptsvc.Service) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.GetPromptRequest) (*mcpmcp.GetPromptResult, error) {
		view, err := promptSvc.Describe(ctx, cfg.Type)
		if err != nil {
			return nil, fmt.Errorf("get %s prompt: %w", cfg.Type, err)
		}

		return mcpmcp.NewGetPromptResult(
			fmt.Sprintf("Base prompt for %s", cfg.Slug),
			[]mcpmcp.PromptMessage{
				mcpmcp.NewPromptMessage(
					mcpmcp.RoleUser,
					mcpmcp.TextContent{
						Type: "text",
						Text: view.PromptText + view.SystemSuffix,
					},
				),
			},
		), nil
	}
}
