package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Generate builds the OpenAPI 3.1 document describing the job portal API.
func Generate(version, baseURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "Job Portal API",
			Description: "Browse, search and manage job postings. Mutating endpoints require an admin session token.",
			Version:     version,
		},
	}
	if baseURL != "" {
		doc.Servers = openapi3.Servers{{URL: baseURL}}
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components

	doc.Components.SecuritySchemes["tokenQuery"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type: "apiKey",
			In:   "query",
			Name: "token",
		},
	}
	doc.Components.SecuritySchemes["bearerAuth"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:        "http",
			Scheme:      "bearer",
			Description: "Opaque session token returned by /api/admin/login.",
		},
	}

	addSchemas(doc.Components.Schemas)

	doc.Paths = openapi3.NewPaths()
	addAdminPaths(doc)
	addJobPaths(doc)
	addLookupPaths(doc)
	addStatsPaths(doc)

	return doc
}

// ─── Schemas ────────────────────────────────────────────────────────────────

func addSchemas(schemas openapi3.Schemas) {
	str := func() *openapi3.SchemaRef { return openapi3.NewStringSchema().NewRef() }
	i64 := func() *openapi3.SchemaRef { return openapi3.NewInt64Schema().NewRef() }

	schemas["ErrorResponse"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"code":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
							"message": str(),
							"context": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
						},
					},
				},
			},
		},
	}

	schemas["Message"] = objectSchema(openapi3.Schemas{"message": str()}, "message")

	schemas["LoginRequest"] = objectSchema(openapi3.Schemas{
		"username": str(),
		"password": &openapi3.SchemaRef{Value: openapi3.NewStringSchema().WithFormat("password")},
	}, "username", "password")

	schemas["LoginResponse"] = objectSchema(openapi3.Schemas{
		"access_token": str(),
		"token_type":   str(),
		"admin_id":     i64(),
		"expires_in":   &openapi3.SchemaRef{Value: openapi3.NewInt32Schema()},
	}, "access_token", "token_type", "admin_id")

	schemas["VerifyResponse"] = objectSchema(openapi3.Schemas{
		"valid":    &openapi3.SchemaRef{Value: openapi3.NewBoolSchema()},
		"admin_id": i64(),
	}, "valid", "admin_id")

	schemas["Job"] = objectSchema(jobProperties(func(p openapi3.Schemas) {
		p["id"] = &openapi3.SchemaRef{Value: readOnly(openapi3.NewInt64Schema())}
		p["is_active"] = &openapi3.SchemaRef{Value: readOnly(openapi3.NewBoolSchema())}
		p["created_at"] = &openapi3.SchemaRef{Value: readOnly(openapi3.NewDateTimeSchema())}
		p["updated_at"] = &openapi3.SchemaRef{Value: readOnly(openapi3.NewDateTimeSchema())}
	}), "id", "job_name", "company", "is_active", "created_at", "updated_at")

	schemas["JobCreate"] = objectSchema(jobProperties(nil), "job_name", "company")

	// Every field optional; only the fields sent are changed.
	schemas["JobUpdate"] = objectSchema(jobProperties(nil))

	schemas["JobList"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{Type: &openapi3.Types{"array"}, Items: ref("Job")},
	}

	schemas["StringList"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{Type: &openapi3.Types{"array"}, Items: str()},
	}

	schemas["Stats"] = objectSchema(openapi3.Schemas{
		"total_visits":    i64(),
		"unique_visitors": i64(),
		"total_jobs":      i64(),
	}, "total_visits", "unique_visitors", "total_jobs")

	schemas["JobViews"] = objectSchema(openapi3.Schemas{
		"job_id": i64(),
		"views":  i64(),
	}, "job_id", "views")
}

// jobProperties returns the editable posting fields. extra may add more.
func jobProperties(extra func(openapi3.Schemas)) openapi3.Schemas {
	props := openapi3.Schemas{}
	for _, name := range []string{"job_name", "company", "eligible_years", "qualification", "link", "location", "last_date"} {
		props[name] = &openapi3.SchemaRef{Value: openapi3.NewStringSchema().WithMaxLength(1024)}
	}
	props["job_description"] = &openapi3.SchemaRef{Value: openapi3.NewStringSchema().WithMaxLength(65535)}
	props["eligible_years"].Value.Description = "Comma separated experience bands, e.g. \"0-2, 2-5\"."
	props["last_date"].Value.Description = "Free text, not validated as a date."
	if extra != nil {
		extra(props)
	}
	return props
}

func objectSchema(props openapi3.Schemas, required ...string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:       &openapi3.Types{"object"},
			Properties: props,
			Required:   required,
		},
	}
}

func readOnly(s *openapi3.Schema) *openapi3.Schema {
	s.ReadOnly = true
	return s
}

func ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

// ─── Paths ──────────────────────────────────────────────────────────────────

func addAdminPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/admin/login", &openapi3.PathItem{
		Post: &openapi3.Operation{
			Tags:        []string{"admin"},
			Summary:     "Log in as the configured admin",
			OperationID: "adminLogin",
			RequestBody: jsonBody(ref("LoginRequest")),
			Responses:   newResponses("200", "Session issued", ref("LoginResponse")),
		},
	})
	doc.Paths.Set("/api/admin/logout", &openapi3.PathItem{
		Post: &openapi3.Operation{
			Tags:        []string{"admin"},
			Summary:     "Revoke a session token",
			Description: "Always succeeds, including for unknown tokens.",
			OperationID: "adminLogout",
			Parameters:  openapi3.Parameters{tokenParam()},
			Responses:   newResponses("200", "Logged out", ref("Message")),
		},
	})
	doc.Paths.Set("/api/admin/verify", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"admin"},
			Summary:     "Check whether a session token is live",
			OperationID: "adminVerify",
			Parameters:  openapi3.Parameters{tokenParam()},
			Responses:   newResponses("200", "Token is valid", ref("VerifyResponse")),
		},
	})
}

func addJobPaths(doc *openapi3.T) {
	secured := &openapi3.SecurityRequirements{
		{"tokenQuery": {}},
		{"bearerAuth": {}},
	}

	doc.Paths.Set("/api/jobs", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"jobs"},
			Summary:     "List active job postings, most recent first",
			OperationID: "listJobs",
			Parameters:  pageParams(),
			Responses:   newResponses("200", "Active postings", ref("JobList")),
		},
		Post: &openapi3.Operation{
			Tags:        []string{"jobs"},
			Summary:     "Create a job posting",
			OperationID: "createJob",
			Security:    secured,
			RequestBody: jsonBody(ref("JobCreate")),
			Responses:   newResponses("201", "Created posting", ref("Job")),
		},
	})

	doc.Paths.Set("/api/jobs/{jobId}", &openapi3.PathItem{
		Parameters: openapi3.Parameters{jobIDParam()},
		Get: &openapi3.Operation{
			Tags:        []string{"jobs"},
			Summary:     "Get an active job posting",
			OperationID: "getJob",
			Responses:   newResponses("200", "Posting", ref("Job")),
		},
		Put: &openapi3.Operation{
			Tags:        []string{"jobs"},
			Summary:     "Partially update a posting you own",
			OperationID: "updateJob",
			Security:    secured,
			RequestBody: jsonBody(ref("JobUpdate")),
			Responses:   newResponses("200", "Updated posting", ref("Job")),
		},
		Delete: &openapi3.Operation{
			Tags:        []string{"jobs"},
			Summary:     "Deactivate a posting you own",
			OperationID: "deleteJob",
			Security:    secured,
			Responses:   newResponses("200", "Deactivated", ref("Message")),
		},
	})

	params := openapi3.Parameters{
		queryParam("q", "Case-insensitive substring of name, company or description."),
		queryParam("years", "Case-insensitive substring of the eligible years text."),
		queryParam("location", "Case-insensitive substring of the location."),
	}
	doc.Paths.Set("/api/search", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"jobs"},
			Summary:     "Search active job postings",
			OperationID: "searchJobs",
			Parameters:  append(params, pageParams()...),
			Responses:   newResponses("200", "Matching postings", ref("JobList")),
		},
	})
}

func addLookupPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/years", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"lookup"},
			Summary:     "Sorted distinct experience bands of active postings",
			OperationID: "listYears",
			Responses:   newResponses("200", "Experience bands", ref("StringList")),
		},
	})
	doc.Paths.Set("/api/locations", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"lookup"},
			Summary:     "Distinct locations of active postings",
			OperationID: "listLocations",
			Responses:   newResponses("200", "Locations", ref("StringList")),
		},
	})
}

func addStatsPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/stats", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"stats"},
			Summary:     "Site visit statistics",
			OperationID: "siteStats",
			Responses:   newResponses("200", "Statistics", ref("Stats")),
		},
	})
	doc.Paths.Set("/api/stats/jobs/{jobId}", &openapi3.PathItem{
		Parameters: openapi3.Parameters{jobIDParam()},
		Get: &openapi3.Operation{
			Tags:        []string{"stats"},
			Summary:     "View count of one posting",
			OperationID: "jobStats",
			Responses:   newResponses("200", "Views", ref("JobViews")),
		},
	})
}

// ─── Builders ───────────────────────────────────────────────────────────────

func jsonBody(schema *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Required: true,
			Content:  openapi3.NewContentWithJSONSchemaRef(schema),
		},
	}
}

func tokenParam() *openapi3.ParameterRef {
	return queryParam("token", "Session token. An Authorization: Bearer header is accepted instead.")
}

func jobIDParam() *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("jobId").
			WithDescription("Job posting id.").
			WithSchema(openapi3.NewInt64Schema()),
	}
}

func queryParam(name, description string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: openapi3.NewQueryParameter(name).
			WithDescription(description).
			WithSchema(openapi3.NewStringSchema()),
	}
}

func pageParams() openapi3.Parameters {
	return openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("limit").
				WithDescription("Maximum number of postings to return (max 1000). Omit for all.").
				WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}),
		},
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("offset").
				WithDescription("Number of postings to skip.").
				WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}),
		},
	}
}

// newResponses builds a Responses map with a success response and standard error responses.
func newResponses(statusCode, description string, schema *openapi3.SchemaRef) *openapi3.Responses {
	responses := openapi3.NewResponses()

	successDesc := description
	responses.Set(statusCode, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &successDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})

	errorRef := ref("ErrorResponse")
	for _, e := range []struct{ code, desc string }{
		{"400", "Bad request"},
		{"401", "Unauthorized"},
		{"404", "Not found"},
		{"500", "Internal server error"},
	} {
		desc := e.desc
		responses.Set(e.code, &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: &desc,
				Content:     openapi3.NewContentWithJSONSchemaRef(errorRef),
			},
		})
	}

	return responses
}
