// Package client is the typed boundary to the SmartShop REST and GraphQL
// APIs. Every operation attaches the held credential token, speaks JSON and
// returns an *Error on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartshop/shopctl/internal/logging"
	"github.com/smartshop/shopctl/internal/metrics"
)

const (
	DefaultBaseURL    = "http://localhost:8080/api"
	DefaultGraphQLURL = "http://localhost:8080/graphql"
	DefaultTimeout    = 30 * time.Second

	// RequestIDHeader carries the per-call correlation id.
	RequestIDHeader = "X-Request-ID"
)

// Config locates the remote service.
type Config struct {
	BaseURL string
	// GraphQLURL defaults to DeriveGraphQLURL(BaseURL).
	GraphQLURL string
	Timeout    time.Duration
}

// DeriveGraphQLURL swaps a trailing "/api" on base for "/graphql". Bases
// without that suffix get "/graphql" appended.
func DeriveGraphQLURL(base string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return DefaultGraphQLURL
	}
	if strings.HasSuffix(base, "/api") {
		return strings.TrimSuffix(base, "/api") + "/graphql"
	}
	return base + "/graphql"
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithCredentials shares a token holder with the client, typically the
// one the session store writes to.
func WithCredentials(creds *Credentials) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

// Client talks to the SmartShop API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	graphqlURL string
	http       *http.Client
	creds      *Credentials
	logger     *logging.Logger

	Users      *UsersService
	Auth       *AuthService
	Categories *CategoriesService
	Products   *ProductsService
	Orders     *OrdersService
	Inventory  *InventoryService
	Reviews    *ReviewsService
	Cart       *CartService
	GraphQL    *GraphQLService
}

// New builds a Client for cfg.
func New(cfg Config, opts ...Option) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	gql := cfg.GraphQLURL
	if gql == "" {
		gql = DeriveGraphQLURL(base)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    base,
		graphqlURL: gql,
		http:       &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.creds == nil {
		c.creds = NewCredentials(nil)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}

	c.Users = &UsersService{c: c}
	c.Auth = &AuthService{c: c}
	c.Categories = &CategoriesService{c: c}
	c.Products = &ProductsService{c: c}
	c.Orders = &OrdersService{c: c}
	c.Inventory = &InventoryService{c: c}
	c.Reviews = &ReviewsService{c: c}
	c.Cart = &CartService{c: c}
	c.GraphQL = &GraphQLService{c: c}
	return c
}

// Credentials returns the token holder used by this client.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) GraphQLURL() string {
	return c.graphqlURL
}

// errorBody is the union of the error shapes the server produces. Errors
// is only adopted when it is a field-to-message object.
type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// do performs one REST call. When out is non-nil the envelope's data is
// decoded into it, and a missing payload is reported as a malformed
// response.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	raw, status, err := c.send(ctx, op, method, target, payload)
	if err != nil {
		return err
	}

	if status < 200 || status > 299 {
		return apiError(op, status, raw)
	}

	if out == nil {
		return nil
	}

	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return malformedError(op, status, err)
	}
	if isNull(env.Data) {
		return malformedError(op, status, errors.New("response carried no data"))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return malformedError(op, status, err)
	}
	return nil
}

// send executes the request and returns the raw body and status. Only
// transport failures are returned as errors.
func (c *Client) send(ctx context.Context, op, method, target string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := logging.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
		ctx = logging.ContextWithRequestID(ctx, requestID)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if token := c.creds.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		metrics.ObserveRequest(op, 0, elapsed)
		c.logger.DebugContext(ctx, "api request failed",
			logging.Operation(op),
			logging.Method(method),
			logging.Duration(elapsed.Milliseconds()),
			logging.Error(err),
		)
		return nil, 0, transportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.ObserveRequest(op, resp.StatusCode, elapsed)
	if err != nil {
		return nil, resp.StatusCode, transportError(op, err)
	}

	c.logger.DebugContext(ctx, "api request",
		logging.Operation(op),
		logging.Method(method),
		logging.Path(req.URL.Path),
		logging.Status(resp.StatusCode),
		logging.Duration(elapsed.Milliseconds()),
	)
	return raw, resp.StatusCode, nil
}

func apiError(op string, status int, raw []byte) *Error {
	e := &Error{
		Kind:       KindForStatus(status),
		Operation:  op,
		StatusCode: status,
	}

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		e.Message = eb.Message
		var fields map[string]string
		if len(eb.Errors) > 0 && json.Unmarshal(eb.Errors, &fields) == nil && len(fields) > 0 {
			e.Fields = fields
		}
	}
	if e.Message == "" && len(e.Fields) > 0 {
		e.Message = joinFields(e.Fields)
	}
	if e.Message == "" {
		e.Message = statusMessage(status)
	}
	return e
}

// call is do for operations returning a decoded payload.
func call[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, body any) (*T, error) {
	var out T
	if err := c.do(ctx, op, method, path, query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// list is call for paginated endpoints; the page is checked against the
// requested size.
func list[T any](ctx context.Context, c *Client, op, path string, query url.Values, size int) (*Page[T], error) {
	page, err := call[Page[T]](ctx, c, op, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if err := page.Validate(size); err != nil {
		c.logger.WarnContext(ctx, "inconsistent page from server",
			logging.Operation(op),
			logging.Error(err),
		)
	}
	return page, nil
}

func pageQuery(page, size int) url.Values {
	return Paging(page, size).Query()
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
