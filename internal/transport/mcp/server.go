// Package mcpserver exposes the orchestrator's operations as MCP tools over
// stdio, for tool-calling clients. Like the HTTP layer, it only parses and
// serializes.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"lexgate/internal/judgments"
	"lexgate/internal/judgments/providers"
	"lexgate/internal/orchestrator"
)

// mcpCaller is the rate-limiter identity for tool-protocol callers; stdio
// sessions have a single peer.
const mcpCaller = "mcp"

type searchArgs struct {
	Provider   string `json:"provider,omitempty" jsonschema:"judgment provider: saos or portal"`
	Query      string `json:"query,omitempty"`
	CaseNumber string `json:"caseNumber,omitempty"`
	DateFrom   string `json:"dateFrom,omitempty" jsonschema:"inclusive ISO date lower bound"`
	DateTo     string `json:"dateTo,omitempty" jsonschema:"inclusive ISO date upper bound"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"pageSize,omitempty"`
}

type detailArgs struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	MaxChars int    `json:"maxChars,omitempty"`
	Offset   int    `json:"offset,omitempty" jsonschema:"continuation offset from a previous truncated read"`
}

type linksArgs struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
}

type healthArgs struct{}

// NewServer builds an MCP server with the four judgment tools registered.
func NewServer(orch *orchestrator.Orchestrator, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "lexgate", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        orchestrator.OpSearch,
		Description: "Search KIO court judgments by full-text query, case number, or date range",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, any, error) {
		provider := args.Provider
		if provider == "" {
			provider = providers.NameSAOS
		}
		resp, err := orch.Search(ctx, mcpCaller, provider, judgments.SearchParams{
			Query:      args.Query,
			CaseNumber: args.CaseNumber,
			DateFrom:   args.DateFrom,
			DateTo:     args.DateTo,
			Page:       args.Page,
			PageSize:   args.PageSize,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, resp, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        orchestrator.OpGetDetail,
		Description: "Fetch one judgment's metadata and a window of its normalized text",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args detailArgs) (*mcp.CallToolResult, any, error) {
		resp, err := orch.GetDetail(ctx, mcpCaller, args.Provider, judgments.DetailParams{
			ID:       args.ID,
			MaxChars: args.MaxChars,
			Offset:   args.Offset,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, resp, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        orchestrator.OpSourceLinks,
		Description: "Return the upstream source URLs for a judgment id",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args linksArgs) (*mcp.CallToolResult, any, error) {
		links, err := orch.SourceLinks(ctx, mcpCaller, args.Provider, args.ID)
		if err != nil {
			return nil, nil, err
		}
		return nil, links, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        orchestrator.OpHealth,
		Description: "Check availability of all judgment providers",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ healthArgs) (*mcp.CallToolResult, any, error) {
		resp, err := orch.HealthCheck(ctx, mcpCaller)
		if err != nil {
			return nil, nil, err
		}
		return nil, resp, nil
	})

	return server
}

// RunStdio serves the MCP server over stdio until ctx is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
