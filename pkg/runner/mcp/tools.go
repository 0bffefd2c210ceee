package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListPokemonTool(srv, svc)
	registerGetPokemonTool(srv, svc)
	registerSearchPokemonTool(srv, svc)
	registerGetTypeTool(srv, svc)
	registerGetMoveTool(srv, svc)
	registerListFavoritesTool(srv, svc)
	registerToggleFavoriteTool(srv, svc)
}

func registerListPokemonTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_pokemon",
		mcp.WithDescription("List one page of Pokemon, optionally restricted to a type."),
		mcp.WithNumber("page",
			mcp.Description("Page number starting at 1 (default 1)."),
			mcp.Min(1),
		),
		mcp.WithNumber("limit",
			mcp.Description("Entries per page (default 20)."),
			mcp.Min(1),
			mcp.Max(maxLimit),
		),
		mcp.WithString("type",
			mcp.Description("Optional type name such as fire or water."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Page  int    `json:"page"`
			Limit int    `json:"limit"`
			Type  string `json:"type"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		page, err := svc.ListPokemon(ctx, args.Type, args.Page, args.Limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(page)
	})
}

func registerGetPokemonTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_pokemon",
		mcp.WithDescription("Fetch a single Pokemon with stats, abilities and moves."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Pokemon id or name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Pokemon(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSearchPokemonTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_pokemon",
		mcp.WithDescription("Look a Pokemon up by exact name. Names need more than 2 characters."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Pokemon name, case-insensitive."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Search(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetTypeTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_type",
		mcp.WithDescription("Fetch the damage relations of a type."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Type name such as fire."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Type(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetMoveTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_move",
		mcp.WithDescription("Fetch a move with power, accuracy, PP, priority and description."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Move id or name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Move(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListFavoritesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_favorites",
		mcp.WithDescription("List locally bookmarked Pokemon."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, label, err := svc.Favorites()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"favorites": list,
			"count":     len(list),
			"label":     label,
		})
	})
}

func registerToggleFavoriteTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_favorite",
		mcp.WithDescription("Add a Pokemon to favorites, or remove it when already present."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Pokemon id or name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.ToggleFavorite(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
