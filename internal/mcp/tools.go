package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/manaworks/jobportal/internal/model"
	"github.com/manaworks/jobportal/internal/service"
)

// registerTools registers the job portal tools on the given server.
func (s *MCPServer) registerTools(srv *server.MCPServer) {
	pageOpts := []mcp.ToolOption{
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of postings to return (default 25, max 1000)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of postings to skip"),
		),
	}

	srv.AddTool(
		mcp.NewTool("jobs_list",
			append([]mcp.ToolOption{
				mcp.WithDescription(
					"List active job postings, most recent first. Use jobs_search to filter " +
						"by text, experience or location.",
				),
				mcp.WithToolAnnotation(readOnlyAnnotation()),
			}, pageOpts...)...,
		),
		s.handleList,
	)

	srv.AddTool(
		mcp.NewTool("jobs_get",
			mcp.WithDescription("Get one active job posting by id, including its full description."),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Job posting id"),
			),
		),
		s.handleGet,
	)

	srv.AddTool(
		mcp.NewTool("jobs_search",
			append([]mcp.ToolOption{
				mcp.WithDescription(
					"Search active job postings. Every filter is a case-insensitive substring " +
						"match and all given filters must match. The years filter matches the raw " +
						"experience text, so \"2\" matches \"0-2\" and \"25+\". Use jobs_years and " +
						"jobs_locations to discover valid values.",
				),
				mcp.WithToolAnnotation(readOnlyAnnotation()),
				mcp.WithString("q",
					mcp.Description("Text to find in the job name, company or description"),
				),
				mcp.WithString("years",
					mcp.Description("Experience band text, e.g. \"0-2\""),
				),
				mcp.WithString("location",
					mcp.Description("Location text, e.g. \"Remote\""),
				),
			}, pageOpts...)...,
		),
		s.handleSearch,
	)

	srv.AddTool(
		mcp.NewTool("jobs_years",
			mcp.WithDescription("List the sorted distinct experience bands used by active postings."),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
		),
		s.handleYears,
	)

	srv.AddTool(
		mcp.NewTool("jobs_locations",
			mcp.WithDescription("List the distinct locations of active postings."),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
		),
		s.handleLocations,
	)

	srv.AddTool(
		mcp.NewTool("jobs_stats",
			mcp.WithDescription(
				"Site statistics: total visits, unique visitors and active postings. "+
					"Pass job_id to get the view count of one posting instead.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("job_id",
				mcp.Description("Optional job posting id"),
			),
		),
		s.handleStats,
	)
}

func (s *MCPServer) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobs, err := s.jobs.ListActive(ctx, pageArgs(request))
	if err != nil {
		return toolError("Failed to list jobs: %v", err)
	}
	return successJSON(jobs)
}

func (s *MCPServer) handleGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := optionalInt(request, "id", 0)
	if id <= 0 {
		return toolError("missing or invalid parameter \"id\": expected a positive job id")
	}

	job, err := s.jobs.Get(ctx, int64(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return toolError("Job %d not found. Use jobs_list or jobs_search to find valid ids.", id)
		}
		return toolError("Failed to get job: %v", err)
	}
	return successJSON(job)
}

func (s *MCPServer) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := model.SearchFilter{
		Query:    optionalString(request, "q"),
		Years:    optionalString(request, "years"),
		Location: optionalString(request, "location"),
	}
	jobs, err := s.jobs.Search(ctx, filter, pageArgs(request))
	if err != nil {
		return toolError("Failed to search jobs: %v", err)
	}
	return successJSON(jobs)
}

func (s *MCPServer) handleYears(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	years, err := s.jobs.DistinctYears(ctx)
	if err != nil {
		return toolError("Failed to list years: %v", err)
	}
	return successJSON(years)
}

func (s *MCPServer) handleLocations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	locs, err := s.jobs.DistinctLocations(ctx)
	if err != nil {
		return toolError("Failed to list locations: %v", err)
	}
	return successJSON(locs)
}

func (s *MCPServer) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := optionalInt(request, "job_id", 0); id > 0 {
		views, err := s.visits.ViewsForJob(ctx, int64(id))
		if err != nil {
			return toolError("Failed to load job stats: %v", err)
		}
		return successJSON(views)
	}

	stats, err := s.visits.Stats(ctx)
	if err != nil {
		return toolError("Failed to load stats: %v", err)
	}
	return successJSON(stats)
}
