package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/brunca/internal/domain"
	"github.com/timmy/brunca/internal/loader"
	"github.com/timmy/brunca/internal/logger"
)

const defaultTimeout = 15 * time.Second

// Config holds configuration for the catalog API client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the remote content API and serves pages of its
// collections to loaders.
type Client struct {
	client *resty.Client
}

// NewClient creates a new catalog client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &Client{client: client}
}

// Destinations returns the fetcher for destinations by category and location.
func (c *Client) Destinations() loader.Fetcher[domain.Destination, domain.DestinationQuery] {
	return loader.FetcherFunc[domain.Destination, domain.DestinationQuery](
		func(ctx context.Context, req loader.Request[domain.DestinationQuery]) (domain.Page[domain.Destination], error) {
			params := url.Values{}
			params.Set("category", req.Query.CategoryID)
			params.Set("location", strconv.Itoa(req.Query.LocationID))
			return fetchPage[domain.Destination](ctx, c, "catalog.destinations", "/destinations", params, req.Locale, req.Page)
		})
}

// News returns the fetcher for the news feed.
func (c *Client) News() loader.Fetcher[domain.News, domain.NewsQuery] {
	return loader.FetcherFunc[domain.News, domain.NewsQuery](
		func(ctx context.Context, req loader.Request[domain.NewsQuery]) (domain.Page[domain.News], error) {
			return fetchPage[domain.News](ctx, c, "catalog.news", "/news", url.Values{}, req.Locale, req.Page)
		})
}

// Search returns the fetcher for free-text destination search.
func (c *Client) Search() loader.Fetcher[domain.Destination, domain.SearchQuery] {
	return loader.FetcherFunc[domain.Destination, domain.SearchQuery](
		func(ctx context.Context, req loader.Request[domain.SearchQuery]) (domain.Page[domain.Destination], error) {
			params := url.Values{}
			params.Set("q", req.Query.Normalized().Term)
			return fetchPage[domain.Destination](ctx, c, "catalog.search", "/search", params, req.Locale, req.Page)
		})
}

// fetchPage issues one GET for a page and normalizes the payload.
func fetchPage[T domain.Item](ctx context.Context, c *Client, op, path string, params url.Values, locale string, page int) (domain.Page[T], error) {
	params.Set("page", strconv.Itoa(page))
	r := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params)
	if locale != "" {
		r.SetQueryParam("lang", locale)
		r.SetHeader("Accept-Language", locale)
	}

	httpResp, err := r.Get(path)
	if err != nil {
		return domain.Page[T]{}, domain.NewNetworkError(op, 0, fmt.Errorf("failed to call catalog API: %w", err))
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return domain.Page[T]{}, domain.NewNetworkError(op, httpResp.StatusCode(),
			fmt.Errorf("catalog API error: %s", httpResp.Status()))
	}

	result, err := decodePage[T](httpResp.Body())
	if err != nil {
		return domain.Page[T]{}, domain.NewMalformedError(op, err)
	}

	logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldComponent: op,
		logger.FieldPage:      result.Meta.CurrentPage,
		logger.FieldCount:     len(result.Items),
		logger.FieldStatus:    httpResp.StatusCode(),
	}).Debug("catalog page received")

	return result, nil
}
