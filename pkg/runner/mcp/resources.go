package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const recordsURI = "jview://records"

func registerResources(srv *server.MCPServer, svc *Service) {
	registerRecordsResource(srv, svc)
	registerRecordTemplate(srv, svc)
}

func registerRecordsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		recordsURI,
		"Records",
		mcp.WithResourceDescription("Records handed to the viewer, with their viewer URLs."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		records, err := svc.ListRecords(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"records": records,
			"count":   len(records),
		})
	})
}

func registerRecordTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		recordsURI+"/{key}",
		"Record",
		mcp.WithTemplateDescription("Raw text of a single record."),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		key := strings.TrimPrefix(request.Params.URI, recordsURI+"/")
		if key == "" || key == request.Params.URI {
			return nil, fmt.Errorf("record key is required")
		}
		dto, err := svc.ReadRecord(ctx, RecordRef{Key: key})
		if err != nil {
			return nil, err
		}
		mime := "application/json"
		if dto.Kind == "xml" {
			mime = "application/xml"
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: mime,
				Text:     dto.Text,
			},
		}, nil
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     strings.TrimSuffix(data.String(), "\n"),
		},
	}, nil
}
