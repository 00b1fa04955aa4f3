package mixcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mixdeck/internal/domain"
)

const (
	defaultBaseURL     = "https://api.mixcloud.com"
	defaultHTTPTimeout = 10 * time.Second
	// SearchType is the only result type requested
	SearchType = "cloudcast"
)

// Config describes the Mixcloud client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client wraps the public Mixcloud search endpoint.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("mixcloud: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, http: client}, nil
}

// Page is one page of search results.
type Page struct {
	Results []domain.SearchResult
	// Next is the upstream next-page link; empty on the last page
	Next string
}

// HasNext reports whether the upstream declared another page
func (p Page) HasNext() bool {
	return p.Next != ""
}

type searchResponse struct {
	Data   []cloudcast `json:"data"`
	Paging *struct {
		Next json.RawMessage `json:"next"`
	} `json:"paging"`
}

type cloudcast struct {
	Key           string            `json:"key"`
	URL           string            `json:"url"`
	Name          string            `json:"name"`
	PlayCount     int               `json:"play_count"`
	FavoriteCount int               `json:"favorite_count"`
	Pictures      map[string]string `json:"pictures"`
}

// SearchURL builds the request URL for a query page
func (c *Client) SearchURL(query string, offset, limit int) string {
	endpoint := c.baseURL.JoinPath("search/")
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", SearchType)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	endpoint.RawQuery = params.Encode()
	return endpoint.String()
}

// Search fetches one page of cloudcasts matching query.
// Errors are *APIError for HTTP failures and *NetworkError for transport failures.
func (c *Client) Search(ctx context.Context, query string, offset, limit int) (Page, error) {
	if c == nil {
		return Page{}, errors.New("mixcloud: client is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(query, offset, limit), nil)
	if err != nil {
		return Page{}, fmt.Errorf("mixcloud: build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Page{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, newAPIError(resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Page{}, &APIError{StatusCode: resp.StatusCode, Kind: KindUnexpected, Err: fmt.Errorf("decode search response: %w", err)}
	}

	results := make([]domain.SearchResult, 0, len(payload.Data))
	for _, cc := range payload.Data {
		results = append(results, domain.SearchResult{
			ID:            cc.Key,
			SourceURL:     cc.URL,
			Title:         cc.Name,
			PlayCount:     cc.PlayCount,
			FavoriteCount: cc.FavoriteCount,
			Images:        domain.ImageSet(cc.Pictures),
		})
	}

	page := Page{Results: results}
	if payload.Paging != nil {
		page.Next = nextLink(payload.Paging.Next)
	}
	return page, nil
}

// nextLink only accepts a non-empty string; anything else means no next page
func nextLink(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
