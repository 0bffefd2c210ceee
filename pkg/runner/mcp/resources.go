package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerFavoritesResource(srv, svc)
	registerPokemonTemplate(srv, svc)
	registerTypeTemplate(srv, svc)
}

func registerFavoritesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"pokedex://favorites",
		"Favorites",
		mcp.WithResourceDescription("Locally bookmarked Pokemon."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, label, err := svc.Favorites()
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"favorites": list,
			"count":     len(list),
			"label":     label,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerPokemonTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"pokedex://pokemon/{id}",
		"Pokemon Details",
		mcp.WithTemplateDescription("Stats, abilities and moves of a single Pokemon."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request, "id")
		if id == "" {
			return nil, fmt.Errorf("pokemon id is required")
		}

		dto, err := svc.Pokemon(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"pokemon": dto})
	})
}

func registerTypeTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"pokedex://types/{name}",
		"Type Effectiveness",
		mcp.WithTemplateDescription("Damage relations of a type."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := templateArg(request, "name")
		if name == "" {
			return nil, fmt.Errorf("type name is required")
		}

		dto, err := svc.Type(ctx, name)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"type": dto})
	})
}

// templateArg reads a URI template variable. Depending on the server version
// the value arrives as a string or a single-element slice.
func templateArg(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
