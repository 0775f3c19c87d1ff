package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	allProductsQuery = `query {
  allProducts {
    id
    name
    price
    quantity
    categoryName
  }
}`

	productByIDQuery = `query {
  productById(id: %d) {
    id
    name
    price
    quantity
    categoryName
  }
}`

	allCategoriesQuery = `query {
  allCategories {
    id
    name
    description
  }
}`
)

// GraphQLService sends query documents to the GraphQL endpoint.
type GraphQLService struct {
	c *Client
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []graphqlError             `json:"errors"`
}

// Query posts query with variables and decodes data.<field> into out. When
// the response lists errors, the first message is returned as the error.
// A null field leaves out untouched.
func (s *GraphQLService) Query(ctx context.Context, query string, variables map[string]any, field string, out any) error {
	op := "graphql." + field

	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	raw, status, err := s.c.send(ctx, op, http.MethodPost, s.c.graphqlURL, payload)
	if err != nil {
		return err
	}
	ok := status >= 200 && status <= 299

	var resp graphqlResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		if !ok {
			return apiError(op, status, raw)
		}
		return malformedError(op, status, err)
	}

	if len(resp.Errors) > 0 {
		kind := KindValidation
		if !ok {
			kind = KindForStatus(status)
		}
		msg := resp.Errors[0].Message
		if msg == "" {
			msg = "GraphQL Error"
		}
		return &Error{Kind: kind, Operation: op, StatusCode: status, Message: msg}
	}
	if !ok {
		return apiError(op, status, raw)
	}

	value, found := resp.Data[field]
	if !found {
		return malformedError(op, status, errors.New("response is missing field "+field))
	}
	if isNull(value) {
		return nil
	}
	if err := json.Unmarshal(value, out); err != nil {
		return malformedError(op, status, err)
	}
	return nil
}
