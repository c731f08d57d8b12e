// Package forkify is a client for the forkify recipe API.
package forkify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"forkify/internal/recipe"
	"forkify/internal/search"
)

// DefaultBaseURL is the public forkify API.
const DefaultBaseURL = "https://forkify-api.herokuapp.com/api"

// ErrFetch is the single failure signal for every search or recipe fetch.
var ErrFetch = errors.New("fetch failed")

// Client represents a client for the forkify API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new client for the API at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// searchResponse represents the response body of /search.
type searchResponse struct {
	Count   int              `json:"count"`
	Recipes []search.Summary `json:"recipes"`
	Error   string           `json:"error"`
}

// getResponse represents the response body of /get.
type getResponse struct {
	Recipe *recipe.RawRecipe `json:"recipe"`
	Error  string            `json:"error"`
}

// Search returns the recipes matching query in API order.
func (c *Client) Search(ctx context.Context, query string) ([]search.Summary, error) {
	var resp searchResponse
	if err := c.get(ctx, "/search", url.Values{"q": {query}}, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("search %q: %w: %s", query, ErrFetch, resp.Error)
	}
	return resp.Recipes, nil
}

// GetRecipe returns the recipe with the given id.
func (c *Client) GetRecipe(ctx context.Context, id string) (*recipe.RawRecipe, error) {
	var resp getResponse
	if err := c.get(ctx, "/get", url.Values{"rId": {id}}, &resp); err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}
	if resp.Error != "" || resp.Recipe == nil {
		return nil, fmt.Errorf("get recipe %s: %w: %s", id, ErrFetch, resp.Error)
	}
	return resp.Recipe, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to send request: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: received non-OK status code: %d", ErrFetch, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response body: %w", ErrFetch, err)
	}
	return nil
}
