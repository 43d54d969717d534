// CLAUDE:SUMMARY MCP surface: audit_run, audit_rules, and audit_extract tools.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/axaudit/checklist"
	"github.com/hazyhaar/axaudit/dom"
)

// RegisterMCP registers the audit tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerRunTool(srv)
	p.registerRulesTool(srv)
	p.registerExtractTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool wires a plain handler into the MCP server, marshalling the reply
// as JSON text content and reporting handler failures as tool errors.
func addTool(srv *mcp.Server, tool *mcp.Tool, handler func(ctx context.Context, args json.RawMessage) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := handler(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- run ---

type runReq struct {
	HTMLFile         string `json:"html_file"`
	DryRun           bool   `json:"dry_run"`
	IncludeSummaries bool   `json:"include_summaries"`
}

func (p *Pipeline) registerRunTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "audit_run",
		Description: "Audit an HTML file for accessibility issues and return the run manifest.",
		InputSchema: inputSchema(map[string]any{
			"html_file":         map[string]any{"type": "string", "description": "Path to the HTML file to audit"},
			"dry_run":           map[string]any{"type": "boolean", "description": "Record prompts without calling the model"},
			"include_summaries": map[string]any{"type": "boolean", "description": "Run per-checklist summary tasks too"},
		}, []string{"html_file"}),
	}

	addTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		var r runReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		src, err := os.ReadFile(r.HTMLFile)
		if err != nil {
			return nil, fmt.Errorf("read html: %w", err)
		}
		rep, err := p.Run(ctx, src, Options{
			HTMLFile:         r.HTMLFile,
			DryRun:           r.DryRun,
			IncludeSummaries: r.IncludeSummaries,
		})
		if err != nil {
			return nil, err
		}
		return rep.Manifest, nil
	})
}

// --- rules ---

func (p *Pipeline) registerRulesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "audit_rules",
		Description: "List the deterministic accessibility rules the engine checks.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	type ruleInfo struct {
		RuleID   string `json:"rule_id"`
		RuleName string `json:"rule_name"`
		WCAG     string `json:"wcag_criterion"`
		WCAGName string `json:"wcag_name"`
	}

	addTool(srv, tool, func(_ context.Context, _ json.RawMessage) (any, error) {
		catalog := p.engine.Rules()
		out := make([]ruleInfo, 0, len(catalog))
		for _, r := range catalog {
			out = append(out, ruleInfo{
				RuleID:   r.ID,
				RuleName: r.Name,
				WCAG:     r.Criterion,
				WCAGName: r.CriterionName,
			})
		}
		return map[string]any{"rules": out}, nil
	})
}

// --- extract ---

type extractReq struct {
	HTMLFile string `json:"html_file"`
}

func (p *Pipeline) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "audit_extract",
		Description: "Extract the three structural payloads (semantic, forms, non-text) from an HTML file without auditing.",
		InputSchema: inputSchema(map[string]any{
			"html_file": map[string]any{"type": "string", "description": "Path to the HTML file to extract"},
		}, []string{"html_file"}),
	}

	addTool(srv, tool, func(_ context.Context, args json.RawMessage) (any, error) {
		var r extractReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		src, err := os.ReadFile(r.HTMLFile)
		if err != nil {
			return nil, fmt.Errorf("read html: %w", err)
		}
		doc, err := dom.ParseBytes(src)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		return map[string]any{
			"semantic": checklist.ExtractSemantic(doc),
			"forms":    checklist.ExtractForms(doc),
			"nontext":  checklist.ExtractNontext(doc),
		}, nil
	})
}
