package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"substring to search for across all tracked documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of matching paragraphs to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single matching paragraph.
type SearchResultOutput struct {
	Document  string `json:"document"`
	Origin    string `json:"origin"`
	Paragraph string `json:"paragraph"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the tracked documents"`
	Origin   string `json:"origin,omitempty" jsonschema:"restrict the answer to documents from this source URL"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string `json:"answer"`
	Batches int    `json:"batches"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search all tracked regulatory documents for a phrase",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the tracked regulatory documents",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	matches, err := s.ports.Query.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(matches)),
		Count:   len(matches),
	}
	for i := range matches {
		output.Results[i] = SearchResultOutput{
			Document:  matches[i].DocumentName,
			Origin:    matches[i].Origin,
			Paragraph: matches[i].Text,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Query.Ask(ctx, input.Question, domain.AskScope{Origin: input.Origin})
	if err != nil && answer.Text == "" {
		return nil, AskOutput{}, err
	}

	// Partial answers carry explicit failure markers; surface them rather
	// than discarding the parts that succeeded.
	return nil, AskOutput{
		Answer:  answer.Text,
		Batches: answer.Batches,
	}, nil
}
