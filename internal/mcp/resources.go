package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var resSessions = mcp.NewResource(
	"planmap://sessions",
	"Editing Sessions",
	mcp.WithResourceDescription("All live workout editing sessions with their document, validation state, and export readiness"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) sessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snaps, err := h.ds.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(snaps)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
