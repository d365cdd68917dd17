// Package conduit provides a client for the Conduit API of a
// Phabricator-style code review service.
package conduit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
)

// DefaultRequestTimeout is the timeout applied to API calls that carry no
// deadline of their own.
const DefaultRequestTimeout = 30 * time.Second

// Client is the surface of the review service that the resolver and the
// patch engine consume.
type Client interface {
	// Check verifies that the API is reachable and the token is accepted
	Check(ctx context.Context) error

	// GetRevisionByID fetches a single revision by its numeric id
	GetRevisionByID(ctx context.Context, id int) (*Revision, error)

	// GetRevisionsByPHIDs fetches revisions by handle, in input order
	GetRevisionsByPHIDs(ctx context.Context, phids []string) ([]*Revision, error)

	// GetAncestorPHIDs walks parent edges from a revision, nearest first
	GetAncestorPHIDs(ctx context.Context, phid string) ([]string, error)

	// GetSuccessorPHIDs walks child edges from a revision, nearest first
	GetSuccessorPHIDs(ctx context.Context, phid string, includeAbandoned bool) ([]string, error)

	// GetDiffs fetches diff metadata keyed by diff handle
	GetDiffs(ctx context.Context, diffPHIDs []string) (map[string]*Diff, error)

	// GetRawDiff fetches the raw patch text of a diff
	GetRawDiff(ctx context.Context, diffID int) (string, error)

	// BaseURL returns the service URL revisions are linked against
	BaseURL() string
}

// HTTPClient implements Client against a real Conduit endpoint.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the service at baseURL, authenticating
// with the given API token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// BaseURL returns the service URL revisions are linked against
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Check verifies that the API is reachable and the token is accepted
func (c *HTTPClient) Check(ctx context.Context) error {
	return c.call(ctx, "conduit.ping", map[string]interface{}{}, nil)
}

// call posts a Conduit method. Parameters travel as a JSON blob in the
// "params" form field alongside the API token, and the response envelope is
// unwrapped into result.
func (c *HTTPClient) call(ctx context.Context, method string, params map[string]interface{}, result interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}

	if params == nil {
		params = map[string]interface{}{}
	}
	params["__conduit__"] = map[string]string{"token": c.token}

	encoded, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}

	form := url.Values{}
	form.Set("params", string(encoded))
	form.Set("output", "json")
	form.Set("__conduit__", "True")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+method, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("conduit method %s failed: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("conduit method %s failed: HTTP %d", method, resp.StatusCode)
	}

	var envelope struct {
		Result    json.RawMessage `json:"result"`
		ErrorCode *string         `json:"error_code"`
		ErrorInfo string          `json:"error_info"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", method, err)
	}

	if envelope.ErrorCode != nil && *envelope.ErrorCode != "" {
		return &stackpatcherrors.ConduitError{
			Method: method,
			Code:   *envelope.ErrorCode,
			Info:   envelope.ErrorInfo,
		}
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to parse %s result: %w", method, err)
		}
	}
	return nil
}
