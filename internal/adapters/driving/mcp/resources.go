package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// uriScheme is the custom URI scheme for watch resources.
const uriScheme = "lexwatch://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "List of all tracked source URLs",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Current records for every tracked document",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)
}

// handleSourcesResource returns the tracked source URLs.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var urls []string
	if s.ports.Source != nil {
		list, err := s.ports.Source.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing sources: %w", err)
		}
		urls = list
	}
	if urls == nil {
		urls = []string{}
	}

	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentsResource returns every current document record.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Query.ListDocuments(ctx, domain.AskScope{})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		Name    string `json:"name"`
		Origin  string `json:"origin"`
		URL     string `json:"url"`
		Version int    `json:"version"`
		Status  string `json:"status"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			Name:    docs[i].Identity.Name,
			Origin:  docs[i].Identity.Origin,
			URL:     docs[i].ContentURL,
			Version: docs[i].Version,
			Status:  docs[i].Status.String(),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
