// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"context"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// NewSchema creates a schema from a root query and an optional root mutation.
func NewSchema(query, mutation *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// Request is the standard GraphQL-over-HTTP POST body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Execute runs req against schema.
func Execute(ctx context.Context, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// Handler answers POST requests carrying a Request body. Execution errors
// are reported inside the result with status 200; only an unreadable body
// or a missing query is a 400.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if _, err := bind.JSON(w, r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			response.Error(w, http.StatusBadRequest, "query is required")
			return
		}
		response.Success(w, Execute(r.Context(), schema, req))
	}
}

// Error is a resolver error with GraphQL extensions, such as a code and
// per-field details.
type Error struct {
	Message string
	Ext     map[string]interface{}
}

func (e *Error) Error() string { return e.Message }

// Extensions is read by graphql-go when formatting the error.
func (e *Error) Extensions() map[string]interface{} { return e.Ext }

// NewError builds an Error with the given code extension.
func NewError(code, message string) *Error {
	return &Error{Message: message, Ext: map[string]interface{}{"code": code}}
}
