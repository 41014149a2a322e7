package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerFormatTool(srv, "beautify", "Pretty-print JSON, XML or HTML text.", svc.Beautify)
	registerFormatTool(srv, "minify", "Compact JSON, XML or HTML text.", svc.Minify)
	registerOpenViewerTool(srv, svc)
	registerReadRecordTool(srv, svc)
	registerRenderTreeTool(srv, svc)
	registerListRecordsTool(srv, svc)
}

func recordRefOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("key",
			mcp.Description("Record key such as json-view:<token>."),
		),
		mcp.WithString("url",
			mcp.Description("Viewer URL such as http://127.0.0.1:7483/json-viewer?k=<token>."),
		),
		mcp.WithString("kind",
			mcp.Description("Record kind, used together with token."),
			mcp.Enum("json", "xml"),
		),
		mcp.WithString("token",
			mcp.Description("Record token, used together with kind."),
		),
	}
}

func registerFormatTool(srv *server.MCPServer, name, description string, fn func(kind, text string) (FormatResult, error)) {
	tool := mcp.NewTool(
		name,
		mcp.WithDescription(description),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to format."),
		),
		mcp.WithString("kind",
			mcp.Description("Format of the text. Detected from the text when auto or omitted."),
			mcp.Enum("auto", "json", "xml", "html"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := fn(request.GetString("kind", "auto"), text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(result)
	})
}

func registerOpenViewerTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"open_viewer",
		mcp.WithDescription("Store JSON or XML text as a record and open the tree viewer for it. Invalid text is rejected and nothing is stored."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to view."),
		),
		mcp.WithString("kind",
			mcp.Description("Format of the text. Detected from the text when auto or omitted."),
			mcp.Enum("auto", "json", "xml"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.OpenViewer(ctx, request.GetString("kind", "auto"), text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerReadRecordTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Fetch the raw text of a stored record."),
	}, recordRefOptions()...)
	tool := mcp.NewTool("read_record", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var ref RecordRef
		if err := request.BindArguments(&ref); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.ReadRecord(ctx, ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRenderTreeTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Render a stored record as the collapsible tree the viewer shows."),
		mcp.WithBoolean("collapsed",
			mcp.Description("Start with every node collapsed instead of expanded."),
		),
		mcp.WithArray("toggles",
			mcp.Description("Node paths to toggle after the default expansion, e.g. $.0.1."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	}, recordRefOptions()...)
	tool := mcp.NewTool("render_tree", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			RecordRef
			Collapsed bool     `json:"collapsed"`
			Toggles   []string `json:"toggles"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.RenderTree(ctx, args.RecordRef, args.Collapsed, args.Toggles)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListRecordsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_records",
		mcp.WithDescription("List stored records with their viewer URLs."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, err := svc.ListRecords(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"records": records,
			"count":   len(records),
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
