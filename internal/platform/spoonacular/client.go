// Package spoonacular is a thin client for the Spoonacular recipe search API.
package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// pageSize is the fixed number of results requested per search.
const pageSize = 10

// Client calls the Spoonacular complexSearch endpoint. The API key stays
// server-side and is never part of a response.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a Spoonacular client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    "https://api.spoonacular.com",
	}
}

// searchResponse mirrors the fields we read from complexSearch. Results are
// kept as raw JSON so they can be relayed verbatim.
type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// Search runs a recipe search for query and returns the upstream result
// list unmodified.
func (c *Client) Search(ctx context.Context, query string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", fmt.Sprint(pageSize))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/recipes/complexSearch?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return body.Results, nil
}
