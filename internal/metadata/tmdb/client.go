package tmdb

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

	"github.com/rs/zerolog"

	"github.com/cinetrack/cinetrack/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("TMDB resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
	ErrTransport     = errors.New("TMDB transport error")
)

// Media type path segments used by the TMDB API.
const (
	MediaMovie = "movie"
	MediaTV    = "tv"
)

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. A zero Timeout leaves requests unbounded.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}
	return c.get(ctx, "configuration", nil, &result)
}

// Trending fetches this week's trending titles for mediaType.
func (c *Client) Trending(ctx context.Context, mediaType string) ([]Payload, error) {
	var response TrendingResponse
	if err := c.get(ctx, fmt.Sprintf("trending/%s/week", mediaType), nil, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("mediaType", mediaType).
		Int("results", len(response.Results)).
		Msg("Got trending titles")

	return response.Results, nil
}

// Search runs a title search. The page is forwarded verbatim.
func (c *Client) Search(ctx context.Context, mediaType, query string, page int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var response SearchResponse
	if err := c.get(ctx, "search/"+mediaType, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("mediaType", mediaType).
		Str("query", query).
		Int("page", page).
		Int("results", len(response.Results)).
		Int("totalResults", response.TotalResults).
		Msg("Search completed")

	return &response, nil
}

// Details fetches the full details object for a title.
func (c *Client) Details(ctx context.Context, mediaType, id string) (Payload, error) {
	var details Payload
	if err := c.get(ctx, mediaPath(mediaType, id, ""), nil, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("mediaType", mediaType).
		Str("id", id).
		Str("title", details.Title()).
		Msg("Got details")

	return details, nil
}

// Videos fetches the video listing for a title.
func (c *Client) Videos(ctx context.Context, mediaType, id string) ([]Video, error) {
	var response VideosResponse
	if err := c.get(ctx, mediaPath(mediaType, id, "videos"), nil, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// Credits fetches the cast listing for a title, in billing order.
func (c *Client) Credits(ctx context.Context, mediaType, id string) ([]Payload, error) {
	var response CreditsResponse
	if err := c.get(ctx, mediaPath(mediaType, id, "credits"), nil, &response); err != nil {
		return nil, err
	}
	return response.Cast, nil
}

// GetImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) GetImageURL(path string, size string) string {
	return ImageURL(c.config.ImageBaseURL, path, size)
}

// ImageURL joins an image base URL, size and file path.
func ImageURL(base, path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", strings.TrimRight(base, "/"), size, path)
}

func mediaPath(mediaType, id, sub string) string {
	p := mediaType + "/" + url.PathEscape(id)
	if sub != "" {
		p += "/" + sub
	}
	return p
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.config.APIKey)

	return c.doRequest(ctx, fmt.Sprintf("%s/%s", c.config.BaseURL, path), params, result)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("url", endpoint).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
