package graphql

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSchema(t *testing.T) graphql.Schema {
	t.Helper()
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"echo": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"text": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					text := p.Args["text"].(string)
					if text == "fail" {
						return nil, NewError("BAD_INPUT", "cannot echo fail")
					}
					return text, nil
				},
			},
		},
	})
	schema, err := NewSchema(query, nil)
	require.NoError(t, err)
	return schema
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerExecutesWithVariables(t *testing.T) {
	h := Handler(echoSchema(t))
	rec := post(h, `{"query":"query($t: String!){ echo(text: $t) }","variables":{"t":"hi"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"echo":"hi"}}`, rec.Body.String())
}

func TestHandlerReportsExtensions(t *testing.T) {
	h := Handler(echoSchema(t))
	rec := post(h, `{"query":"{ echo(text: \"fail\") }"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"cannot echo fail"`)
	assert.Contains(t, rec.Body.String(), `"code":"BAD_INPUT"`)
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	h := Handler(echoSchema(t))

	assert.Equal(t, http.StatusBadRequest, post(h, `{"query":`).Code)
	assert.Equal(t, http.StatusBadRequest, post(h, `{"query":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(h, ``).Code)
}
