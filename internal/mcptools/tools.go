package mcptools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/internal/roster"
	"github.com/HerbHall/roster/pkg/models"
)

// QueryInput mirrors the table's URL state plus the advanced filter.
type QueryInput struct {
	SearchField    string `json:"search_field,omitempty" jsonschema:"field to search: name, fullname, powerstats, race, gender, height, weight, placeofbirth or alignment"`
	SearchOperator string `json:"search_operator,omitempty" jsonschema:"include, exclude, equal, notEqual, greaterThan or lessThan"`
	SearchValue    string `json:"search_value,omitempty" jsonschema:"search text"`
	SortColumn     string `json:"sort_column,omitempty" jsonschema:"column to sort by"`
	SortOrder      string `json:"sort_order,omitempty" jsonschema:"asc or desc"`
	PageSize       string `json:"page_size,omitempty" jsonschema:"rows per page or all"`
	Page           int    `json:"page,omitempty" jsonschema:"1-based page number"`
	Filter         string `json:"filter,omitempty" jsonschema:"AIP-160 filter expression, e.g. publisher = \"Marvel Comics\" AND strength >= 80"`
}

// State converts the input into a query.State using the same fallbacks as
// URL decoding.
func (in QueryInput) State() query.State {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(query.ParamField, in.SearchField)
	set(query.ParamOperator, in.SearchOperator)
	set(query.ParamText, in.SearchValue)
	set(query.ParamSortColumn, in.SortColumn)
	set(query.ParamSortOrder, in.SortOrder)
	set(query.ParamPageSize, in.PageSize)
	if in.Page > 0 {
		v.Set(query.ParamPage, strconv.Itoa(in.Page))
	}
	return query.Decode(v)
}

// QueryResult is one page of characters.
type QueryResult struct {
	Characters []models.Character `json:"characters" jsonschema:"characters on this page"`
	Total      int                `json:"total" jsonschema:"matching characters across all pages"`
	Page       int                `json:"page" jsonschema:"page returned after clamping"`
	PageSize   string             `json:"page_size" jsonschema:"rows per page or all"`
	TotalPages int                `json:"total_pages"`
	Query      string             `json:"query" jsonschema:"canonical query string for the table view"`
}

// GetInput identifies one character.
type GetInput struct {
	ID int `json:"id" jsonschema:"character id"`
}

// GetResult wraps a single character.
type GetResult struct {
	Character models.Character `json:"character"`
}

// SuggestInput is a partial name.
type SuggestInput struct {
	Q     string `json:"q" jsonschema:"partial character name"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum suggestions, 1-50, default 10"`
}

// SuggestResult lists fuzzy name matches, best first.
type SuggestResult struct {
	Suggestions []roster.Suggestion `json:"suggestions"`
}

// QueryCharactersTool defines the MCP tool schema for table queries.
func QueryCharactersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "query_characters",
		Description: "Searches, sorts and paginates the superhero roster",
	}
}

// QueryCharactersHandler runs a table query.
func QueryCharactersHandler(svc Querier) mcp.ToolHandlerFor[QueryInput, QueryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, QueryResult, error) {
		view, err := svc.Query(ctx, in.State(), in.Filter)
		if err != nil {
			return nil, QueryResult{}, fmt.Errorf("query characters: %w", err)
		}
		return nil, QueryResult{
			Characters: view.Items,
			Total:      view.Total,
			Page:       view.State.Page,
			PageSize:   view.PageSize.String(),
			TotalPages: view.TotalPages,
			Query:      view.State.Encode(),
		}, nil
	}
}

// GetCharacterTool defines the MCP tool schema for a single lookup.
func GetCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_character",
		Description: "Returns the full record of one character by id",
	}
}

// GetCharacterHandler looks up one character.
func GetCharacterHandler(svc Querier) mcp.ToolHandlerFor[GetInput, GetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GetInput) (*mcp.CallToolResult, GetResult, error) {
		c, err := svc.Get(ctx, in.ID)
		if err != nil {
			return nil, GetResult{}, err
		}
		return nil, GetResult{Character: c}, nil
	}
}

// SuggestCharactersTool defines the MCP tool schema for name suggestions.
func SuggestCharactersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "suggest_characters",
		Description: "Fuzzy-matches character names for a partial query",
	}
}

// SuggestCharactersHandler returns fuzzy name matches. Limits above the
// maximum are capped.
func SuggestCharactersHandler(svc Querier) mcp.ToolHandlerFor[SuggestInput, SuggestResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SuggestInput) (*mcp.CallToolResult, SuggestResult, error) {
		limit := min(in.Limit, roster.MaxSuggestLimit)
		if limit < 1 {
			limit = roster.DefaultSuggestLimit
		}
		out, err := svc.Suggest(ctx, in.Q, limit)
		if err != nil {
			return nil, SuggestResult{}, fmt.Errorf("suggest characters: %w", err)
		}
		return nil, SuggestResult{Suggestions: out}, nil
	}
}
