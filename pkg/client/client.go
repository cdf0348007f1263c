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

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// DefaultBaseURL is the hosted form service.
const DefaultBaseURL = "https://dynamic-form-generator-9rl7.onrender.com"

const (
	messageUserCreated  = "User created successfully"
	messageUserExists   = "User already exists"
	messageCreateFailed = "Failed to create user. Please try again."
	maxResponseSize     = 4 << 20
)

// ErrCreateUser is returned when the service rejects or cannot process a
// create-user request.
var ErrCreateUser = errors.New("client: create user failed")

// User identifies the student filling the form.
type User struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

// CreateUserResult reports the service response. Existing users count as a
// successful login.
type CreateUserResult struct {
	Success bool
	Existed bool
	Message string
}

// Logger receives diagnostic messages for transport failures.
type Logger interface {
	Printf(format string, args ...any)
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(raw), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger routes transport diagnostics to logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to the form service: it registers users and fetches the form
// assigned to them.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  Logger
}

var _ wizard.SchemaProvider = (*Client)(nil)

// New constructs a client using DefaultBaseURL and http.DefaultClient unless
// overridden.
func New(options ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// CreateUser registers the user. HTTP 409 means the user already exists and is
// treated as success. Transport failures are reported as an unsuccessful
// result wrapping ErrCreateUser.
func (c *Client) CreateUser(ctx context.Context, user User) (CreateUserResult, error) {
	body, err := json.Marshal(user)
	if err != nil {
		return CreateUserResult{}, fmt.Errorf("client: encode user: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create-user", bytes.NewReader(body))
	if err != nil {
		return CreateUserResult{}, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("client: create user: %v", err)
		return CreateUserResult{Message: messageCreateFailed}, fmt.Errorf("%w: %v", ErrCreateUser, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	message := readMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return CreateUserResult{Success: true, Existed: true, Message: orDefault(message, messageUserExists)}, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return CreateUserResult{Success: true, Message: orDefault(message, messageUserCreated)}, nil
	default:
		result := CreateUserResult{Message: orDefault(message, messageCreateFailed)}
		return result, fmt.Errorf("%w: %s: %s", ErrCreateUser, resp.Status, result.Message)
	}
}

// FetchForm retrieves the form assigned to rollNumber. Any failure wraps
// wizard.ErrSchemaUnavailable; the client does not retry.
func (c *Client) FetchForm(ctx context.Context, rollNumber string) (model.FormSchema, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	endpoint := c.baseURL + "/get-form?" + url.Values{"rollNumber": {rollNumber}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("%w: %v", wizard.ErrSchemaUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("client: fetch form: %v", err)
		return model.FormSchema{}, fmt.Errorf("%w: %v", wizard.ErrSchemaUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logf("client: fetch form: unexpected status %s", resp.Status)
		return model.FormSchema{}, fmt.Errorf("%w: unexpected status %s", wizard.ErrSchemaUnavailable, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("%w: read body: %v", wizard.ErrSchemaUnavailable, err)
	}

	doc, err := schema.NewDocument(schema.SourceFromURL(endpoint), data)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("%w: %v", wizard.ErrSchemaUnavailable, err)
	}
	decoded, err := schema.Decode(doc)
	if err != nil {
		c.logf("client: fetch form: %v", err)
		return model.FormSchema{}, fmt.Errorf("%w: %v", wizard.ErrSchemaUnavailable, err)
	}
	return decoded.Form, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

func readMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(body, maxResponseSize))
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
