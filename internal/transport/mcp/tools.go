package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
	domainupload "github.com/alanyang/stlc-manager/internal/domain/upload"
	"github.com/alanyang/stlc-manager/internal/service/runner"
	sessionsvc "github.com/alanyang/stlc-manager/internal/service/session"
)

// RegisterTools registers all MCP tools on the server.
func RegisterTools(
	s *mcpserver.MCPServer,
	registry *process.Registry,
	runSvc *runner.Service,
	sessionSvc *sessionsvc.Service,
) {
	s.AddTool(mcpmcp.NewTool("list_processes",
		mcpmcp.WithDescription("List the STLC processes that can be run, with their slugs, placeholders and whether per-file type tags are required."),
	), listProcessesHandler(registry))

	s.AddTool(mcpmcp.NewTool("run_process",
		mcpmcp.WithDescription("Run one STLC process over a set of documents and return the generated report."),
		mcpmcp.WithString("process", mcpmcp.Required(), mcpmcp.Description("Process slug or type, e.g. code-review")),
		mcpmcp.WithString("files", mcpmcp.Required(), mcpmcp.Description(`JSON array of {"name","content","type"}; type is required for requirement-analysis and environment-setup ("Requirement Document" or any other tag)`)),
		mcpmcp.WithString("model", mcpmcp.Description("Model short key; unknown keys fall back to the default model")),
		mcpmcp.WithString("custom_prompt", mcpmcp.Description("Prompt template to use instead of the stored base prompt")),
		mcpmcp.WithString("session_id", mcpmcp.Description("Session to record the result under")),
	), runProcessHandler(runSvc))

	s.AddTool(mcpmcp.NewTool("get_session",
		mcpmcp.WithDescription("Read back every process result stored under a session id."),
		mcpmcp.WithString("session_id", mcpmcp.Required(), mcpmcp.Description("Session id")),
	), getSessionHandler(sessionSvc))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

func listProcessesHandler(registry *process.Registry) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		type entry struct {
			Slug          string       `json:"slug"`
			Type          process.Type `json:"process_type"`
			Placeholders  []string     `json:"placeholders"`
			RequiresTypes bool         `json:"requires_types"`
		}
		all := registry.All()
		out := make([]entry, 0, len(all))
		for _, cfg := range all {
			out = append(out, entry{cfg.Slug, cfg.Type, cfg.Placeholders, cfg.RequiresTypes})
		}
		data, _ := json.Marshal(out)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

type toolFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

func runProcessHandler(runSvc *runner.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		name := mcpmcp.ParseString(req, "process", "")
		rawFiles := mcpmcp.ParseString(req, "files", "")

		var files []toolFile
		if err := json.Unmarshal([]byte(rawFiles), &files); err != nil {
			return mcpmcp.NewToolResultText("error: files must be a JSON array of {name, content, type}"), nil
		}

		runReq := runner.Request{
			ModelKey:     mcpmcp.ParseString(req, "model", ""),
			CustomPrompt: mcpmcp.ParseString(req, "custom_prompt", ""),
			SessionID:    mcpmcp.ParseString(req, "session_id", ""),
		}
		anyTyped := false
		for _, f := range files {
			runReq.Files = append(runReq.Files, domainupload.File{Name: f.Name, Type: f.Type, Content: []byte(f.Content)})
			anyTyped = anyTyped || f.Type != ""
		}
		if anyTyped {
			for _, f := range files {
				runReq.Types = append(runReq.Types, f.Type)
			}
		}

		res, err := runSvc.Run(context.WithoutCancel(ctx), name, runReq)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		data, _ := json.Marshal(map[string]interface{}{
			"process_type":         res.Config.Type,
			"files":                res.Files,
			res.Config.OutputField: res.Output,
			"prompt_source":        res.Source,
			"model":                res.Model,
			"session_id":           res.SessionID,
			"record_id":            res.RecordID,
		})
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func getSessionHandler(sessionSvc *sessionsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseString(req, "session_id", "")
		if id == "" {
			return mcpmcp.NewToolResultText("error: session_id is required"), nil
		}

		rec, err := sessionSvc.Get(ctx, id)
		if errors.Is(err, domainsession.ErrNotFound) {
			return mcpmcp.NewToolResultText("null"), nil
		}
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		data, _ := json.Marshal(rec)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}
