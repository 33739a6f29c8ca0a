package hnpwa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// IDPlaceholder is substituted with the item id in the detail URL template.
const IDPlaceholder = "@id"

var (
	ErrTransport = errors.New("hnpwa transport failure")
	ErrDecode    = errors.New("hnpwa malformed response")
)

// FeedItem is one entry of the paginated news list.
type FeedItem struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Domain        string `json:"domain"`
	User          string `json:"user"`
	Points        int    `json:"points"`
	TimeAgo       string `json:"time_ago"`
	CommentsCount int    `json:"comments_count"`

	Read bool `json:"-"`
}

// DetailItem is a single story with its full comment tree.
type DetailItem struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	Domain        string        `json:"domain"`
	User          string        `json:"user"`
	Points        int           `json:"points"`
	TimeAgo       string        `json:"time_ago"`
	Content       string        `json:"content"`
	CommentsCount int           `json:"comments_count"`
	Comments      []CommentNode `json:"comments"`
}

// CommentNode is one reply. Level is the depth reported by the API.
type CommentNode struct {
	ID       int64         `json:"id"`
	User     string        `json:"user"`
	TimeAgo  string        `json:"time_ago"`
	Content  string        `json:"content"`
	Level    int           `json:"level"`
	Comments []CommentNode `json:"comments"`
}

type requester struct {
	http *http.Client
}

func newRequester(httpClient *http.Client) requester {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return requester{http: httpClient}
}

func getJSON[T any](ctx context.Context, r requester, rawURL, resource string) (T, error) {
	var out T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return out, fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("%s request failed: %w: %w", resource, ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return out, fmt.Errorf("%s failed with status %d: %s: %w", resource, resp.StatusCode, strings.TrimSpace(string(body)), ErrTransport)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s response: %w: %w", resource, ErrDecode, err)
	}
	return out, nil
}

// FeedClient fetches the news list.
type FeedClient struct {
	req requester
	url string
}

func NewFeedClient(feedURL string, httpClient *http.Client) *FeedClient {
	return &FeedClient{req: newRequester(httpClient), url: strings.TrimSpace(feedURL)}
}

func (c *FeedClient) ListFeed(ctx context.Context) ([]FeedItem, error) {
	items, err := getJSON[[]FeedItem](ctx, c.req, c.url, "news feed")
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []FeedItem{}
	}
	return items, nil
}

// DetailClient fetches one item through a URL template containing IDPlaceholder.
type DetailClient struct {
	req         requester
	urlTemplate string
}

func NewDetailClient(urlTemplate string, httpClient *http.Client) *DetailClient {
	return &DetailClient{req: newRequester(httpClient), urlTemplate: strings.TrimSpace(urlTemplate)}
}

func (c *DetailClient) GetItem(ctx context.Context, id int64) (DetailItem, error) {
	return getJSON[DetailItem](ctx, c.req, ItemURL(c.urlTemplate, id), "item "+strconv.FormatInt(id, 10))
}

func ItemURL(urlTemplate string, id int64) string {
	return strings.Replace(urlTemplate, IDPlaceholder, strconv.FormatInt(id, 10), 1)
}

// Client bundles the feed and detail clients over one HTTP client.
type Client struct {
	Feed   *FeedClient
	Detail *DetailClient
}

func NewClient(feedURL, itemURLTemplate string, httpClient *http.Client) *Client {
	req := newRequester(httpClient)
	return &Client{
		Feed:   &FeedClient{req: req, url: strings.TrimSpace(feedURL)},
		Detail: &DetailClient{req: req, urlTemplate: strings.TrimSpace(itemURLTemplate)},
	}
}

func (c *Client) ListFeed(ctx context.Context) ([]FeedItem, error) {
	return c.Feed.ListFeed(ctx)
}

func (c *Client) GetItem(ctx context.Context, id int64) (DetailItem, error) {
	return c.Detail.GetItem(ctx, id)
}
