package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/c67-mcp/go-c67/src/json"
)

const (
	// DefaultBaseURL is the public Context7 API.
	DefaultBaseURL = "https://context7.com/api"

	DefaultTokens uint32 = 5000
	MinimumTokens uint32 = 1000

	sourceHeader = "X-Context7-Source"
	sourceValue  = "mcp-server"
)

// ClientConfig is fixed at construction and never mutated afterwards.
type ClientConfig struct {
	// APIKey is sent as a bearer token when non-empty.
	APIKey  string
	BaseURL string
	// Insecure disables TLS certificate verification.
	Insecure bool
	// Timeout bounds each upstream call. Zero means no limit.
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the Context7 documentation API. It is safe for
// concurrent use; calls share one connection pool.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     func(format string, args ...interface{})
}

// NewClient constructs a Client. A nil logger discards log output.
func NewClient(config ClientConfig, logger func(format string, args ...interface{})) *Client {
	if logger == nil {
		logger = func(format string, args ...interface{}) {}
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	return &Client{
		config: config,
		httpClient: &http.Client{
			Transport: newTransport(config.Insecure),
			Timeout:   config.Timeout,
		},
		logger: logger,
	}
}

// Config returns the configuration the client was built with.
func (c *Client) Config() ClientConfig {
	return c.config
}

// NormalizeLibraryID strips a single leading slash so the id can be used
// as a path below /v1/.
func NormalizeLibraryID(id string) string {
	return strings.TrimPrefix(id, "/")
}

// ResolveTokens applies the default and the lower bound to a requested
// token budget.
func ResolveTokens(tokens *uint32) uint32 {
	if tokens == nil {
		return DefaultTokens
	}
	return max(*tokens, MinimumTokens)
}

// Search looks up libraries matching query. Upstream failures are reported
// through SearchOutcome.Error; the returned error is non-nil only when a
// successful response cannot be decoded or ctx ends before the call
// completes.
func (c *Client) Search(ctx context.Context, query string) (SearchOutcome, error) {
	c.logger("Searching for library: %s", query)

	req, err := c.newRequest(ctx, c.config.BaseURL+"/v1/search", url.Values{"query": {query}})
	if err != nil {
		return searchFailed(err), nil
	}
	res, err := c.execute(ctx, req)
	if err != nil {
		return SearchOutcome{}, err
	}
	if res.err != nil {
		c.logger("Search request failed: %v", res.err)
		return searchFailed(res.err), nil
	}

	switch {
	case res.status == http.StatusTooManyRequests:
		c.logger("Search rate limited (status %d)", res.status)
		return SearchOutcome{Error: MsgRateLimited}, nil
	case res.status == http.StatusUnauthorized:
		c.logger("Search unauthorized (status %d)", res.status)
		return SearchOutcome{Error: MsgUnauthorized}, nil
	case isSuccess(res.status):
		if res.readErr != nil {
			return SearchOutcome{}, fmt.Errorf("read search response: %w", res.readErr)
		}
		var body searchResponse
		if err := json.DecodeBody(res.body, &body); err != nil {
			return SearchOutcome{}, fmt.Errorf("decode search response: %w", err)
		}
		outcome, err := body.outcome()
		if err != nil {
			return SearchOutcome{}, fmt.Errorf("decode search response: %w", err)
		}
		c.logger("Search returned %d libraries", len(outcome.Matches))
		return outcome, nil
	default:
		return searchFailed(&statusError{url: req.URL.String(), status: res.status}), nil
	}
}

// FetchDocumentation retrieves documentation text for a library. The bool
// is false when upstream had no content for the library. Every upstream
// failure is reported as text; the error is non-nil only when ctx ends
// before the call completes.
func (c *Client) FetchDocumentation(ctx context.Context, doc DocumentationRequest) (string, bool, error) {
	query := url.Values{}
	query.Set("tokens", strconv.FormatUint(uint64(ResolveTokens(doc.Tokens)), 10))
	query.Set("type", "txt")
	if doc.Topic != nil {
		query.Set("topic", *doc.Topic)
	}
	c.logger("Fetching docs for library: %s, params: %s", doc.LibraryID, query.Encode())

	req, err := c.newRequest(ctx, c.config.BaseURL+"/v1/"+NormalizeLibraryID(doc.LibraryID), query)
	if err != nil {
		return fetchFailed(err), true, nil
	}
	req.Header.Set(sourceHeader, sourceValue)

	res, err := c.execute(ctx, req)
	if err != nil {
		return "", false, err
	}
	if res.err != nil {
		c.logger("Documentation request failed: %v", res.err)
		return fetchFailed(res.err), true, nil
	}

	switch {
	case res.status == http.StatusTooManyRequests:
		return MsgRateLimited, true, nil
	case res.status == http.StatusNotFound:
		return MsgLibraryNotFound, true, nil
	case res.status == http.StatusUnauthorized:
		return MsgUnauthorized, true, nil
	case isSuccess(res.status):
		if res.readErr != nil {
			return fetchFailed(res.readErr), true, nil
		}
		text := string(res.body)
		if _, empty := noContentBodies[text]; empty || text == "" {
			return "", false, nil
		}
		return text, true, nil
	default:
		return fetchFailed(&statusError{url: req.URL.String(), status: res.status}), true, nil
	}
}

func (c *Client) newRequest(ctx context.Context, endpoint string, query url.Values) (*http.Request, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	u.RawQuery = query.Encode()

	// The call is allowed to finish even if the caller stops waiting.
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	return req, nil
}

type result struct {
	status  int
	body    []byte
	err     error
	readErr error
}

// execute performs req on its own goroutine and waits for it or for ctx.
func (c *Client) execute(ctx context.Context, req *http.Request) (*result, error) {
	done := make(chan *result, 1)
	go func() {
		done <- c.roundTrip(req)
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) roundTrip(req *http.Request) *result {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &result{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return &result{status: resp.StatusCode, body: body, readErr: err}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func searchFailed(cause error) SearchOutcome {
	return SearchOutcome{Error: fmt.Sprintf("Failed to search libraries: %v", cause)}
}

func fetchFailed(cause error) string {
	return fmt.Sprintf("Failed to fetch documentation: %v", cause)
}
