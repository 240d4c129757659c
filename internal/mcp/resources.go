package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/manaworks/jobportal/internal/model"
)

const (
	jobsURI       = "jobportal://jobs"
	jobURIPrefix  = "jobportal://jobs/"
	jobURIPattern = "jobportal://jobs/{id}"
)

// registerResources adds MCP resource definitions to the server. Resources
// provide read-only data that LLM clients can load into their context.
func (s *MCPServer) registerResources(srv *server.MCPServer) {
	srv.AddResource(
		mcp.NewResource(
			jobsURI,
			"Active Job Postings",
			mcp.WithResourceDescription("Every active job posting, most recent first."),
			mcp.WithMIMEType("application/json"),
		),
		s.handleJobsResource,
	)

	srv.AddResourceTemplate(
		mcp.NewResourceTemplate(
			jobURIPattern,
			"Job Posting",
			mcp.WithTemplateDescription("A single active job posting by id."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleJobResource,
	)
}

func (s *MCPServer) handleJobsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jobs, err := s.jobs.ListActive(ctx, model.Page{})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jsonContents(jobsURI, jobs)
}

func (s *MCPServer) handleJobResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, err := strconv.ParseInt(strings.TrimPrefix(uri, jobURIPrefix), 10, 64)
	if err != nil || !strings.HasPrefix(uri, jobURIPrefix) {
		return nil, fmt.Errorf("invalid job URI %q: expected %s", uri, jobURIPattern)
	}

	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("job %d: %w", id, err)
	}
	return jsonContents(uri, job)
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
