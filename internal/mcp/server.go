// Package mcp exposes the classification and retrieval operations as MCP
// tools. The wire protocol is owned by the MCP SDK; this package only maps
// tool calls onto the domain services.
package mcp

import (
	"context"

	"omnitech/internal/category"
	"omnitech/internal/classify"
	"omnitech/internal/retrieve"
	"omnitech/internal/validate"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server around the support-tool surface. All
// dependencies are injected at construction; tool handlers convert internal
// failures into structured error fields instead of protocol errors, so a
// degraded answer is always preferred over a failed call.
type Server struct {
	MCPServer *sdkmcp.Server

	reg        *category.Registry
	classifier *classify.Classifier
	retriever  *retrieve.Retriever
}

// NewServer creates the MCP server with all seven support tools registered.
func NewServer(reg *category.Registry, retriever *retrieve.Retriever, version string) *Server {
	s := &Server{
		reg:        reg,
		classifier: classify.New(reg),
		retriever:  retriever,
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "omnitech-support", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_canonical_queries",
		Description: "List the available support categories with descriptions and example queries.",
	}, s.handleListCategories)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "classify_canonical_query",
		Description: "Match a user query to the best support category using keyword and word-overlap scoring.",
	}, s.handleClassify)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_query_template",
		Description: "Get the response template and description for a support category.",
	}, s.handleGetTemplate)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "vector_search_knowledge",
		Description: "Semantic search through the support knowledge base, optionally scoped to a category.",
	}, s.handleVectorSearch)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_knowledge_for_query",
		Description: "Retrieve and concatenate the most relevant knowledge for a category and query.",
	}, s.handleGetKnowledge)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_support_query",
		Description: "Check whether a query is acceptable for customer support.",
	}, s.handleValidate)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_knowledge_base_stats",
		Description: "Get indexed-chunk counts for the knowledge base, broken down by source document.",
	}, s.handleStats)
}

// --- Tool input/output types ---

type listCategoriesInput struct{}

type categorySummary struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ExampleQueries []string `json:"example_queries"`
}

type listCategoriesOutput struct {
	Queries []categorySummary `json:"queries"`
}

type classifyInput struct {
	UserQuery string `json:"user_query" jsonschema:"the user's free-text support question"`
}

type getTemplateInput struct {
	QueryName string `json:"query_name" jsonschema:"category name from list_canonical_queries"`
}

type getTemplateOutput struct {
	Template    string `json:"template,omitempty"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

type vectorSearchInput struct {
	Query    string `json:"query" jsonschema:"search text"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of matches (default 5)"`
	Category string `json:"category,omitempty" jsonschema:"optional category to scope the search"`
}

type getKnowledgeInput struct {
	Category string `json:"category" jsonschema:"support category name"`
	Query    string `json:"query" jsonschema:"the user's question"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of knowledge chunks to retrieve (default 3)"`
}

type validateInput struct {
	Query string `json:"query" jsonschema:"the query to validate"`
}

type statsInput struct{}

// --- Tool handlers ---

func (s *Server) handleListCategories(_ context.Context, _ *sdkmcp.CallToolRequest, _ listCategoriesInput) (*sdkmcp.CallToolResult, listCategoriesOutput, error) {
	out := listCategoriesOutput{Queries: make([]categorySummary, 0, s.reg.Len())}
	for _, c := range s.reg.All() {
		examples := c.Examples
		if len(examples) > 3 {
			examples = examples[:3]
		}
		out.Queries = append(out.Queries, categorySummary{
			Name:           c.Name,
			Description:    c.Description,
			ExampleQueries: examples,
		})
	}
	return nil, out, nil
}

func (s *Server) handleClassify(_ context.Context, _ *sdkmcp.CallToolRequest, input classifyInput) (*sdkmcp.CallToolResult, classify.Result, error) {
	return nil, s.classifier.Classify(input.UserQuery), nil
}

func (s *Server) handleGetTemplate(_ context.Context, _ *sdkmcp.CallToolRequest, input getTemplateInput) (*sdkmcp.CallToolResult, getTemplateOutput, error) {
	c, ok := s.reg.Get(input.QueryName)
	if !ok {
		return nil, getTemplateOutput{Error: "Unknown canonical query: " + input.QueryName}, nil
	}
	return nil, getTemplateOutput{Template: c.Template, Description: c.Description}, nil
}

func (s *Server) handleVectorSearch(ctx context.Context, _ *sdkmcp.CallToolRequest, input vectorSearchInput) (*sdkmcp.CallToolResult, retrieve.SearchResult, error) {
	return nil, s.retriever.Search(ctx, input.Query, input.TopK, input.Category), nil
}

func (s *Server) handleGetKnowledge(ctx context.Context, _ *sdkmcp.CallToolRequest, input getKnowledgeInput) (*sdkmcp.CallToolResult, retrieve.KnowledgeResult, error) {
	return nil, s.retriever.Knowledge(ctx, input.Category, input.Query, input.TopK), nil
}

func (s *Server) handleValidate(_ context.Context, _ *sdkmcp.CallToolRequest, input validateInput) (*sdkmcp.CallToolResult, validate.Result, error) {
	return nil, validate.Query(input.Query), nil
}

func (s *Server) handleStats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ statsInput) (*sdkmcp.CallToolResult, retrieve.Stats, error) {
	return nil, s.retriever.GetStats(ctx), nil
}
