package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	booksBaseURL     = "https://www.googleapis.com/books/v1"
	booksSearchLimit = 3
)

type booksClient struct {
	apiKey string
	httpc  *http.Client
}

func newBooksClient(apiKey string, httpc *http.Client) *booksClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &booksClient{apiKey: strings.TrimSpace(apiKey), httpc: httpc}
}

func (c *booksClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

func (c *booksClient) doGET(ctx context.Context, endpoint string, q url.Values, v any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: google books: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: google books: %s", ErrNotFound, endpoint)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: google books: %s", ErrUpstreamUnavailable, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

type booksIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type booksImageLinks struct {
	Thumbnail string `json:"thumbnail"`
}

type booksVolumeInfo struct {
	Title               string            `json:"title"`
	Subtitle            string            `json:"subtitle"`
	Authors             []string          `json:"authors"`
	Publisher           string            `json:"publisher"`
	PublishedDate       string            `json:"publishedDate"`
	Description         string            `json:"description"`
	Categories          []string          `json:"categories"`
	AverageRating       float64           `json:"averageRating"`
	IndustryIdentifiers []booksIdentifier `json:"industryIdentifiers"`
	ImageLinks          booksImageLinks   `json:"imageLinks"`
}

type booksVolume struct {
	ID         string          `json:"id"`
	VolumeInfo booksVolumeInfo `json:"volumeInfo"`
}

func (c *booksClient) searchVolumes(ctx context.Context, query string) ([]booksVolume, error) {
	if !c.isConfigured() {
		return nil, fmt.Errorf("%w: google books api key not configured", ErrUpstreamUnavailable)
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", fmt.Sprintf("%d", booksSearchLimit))

	var payload struct {
		Items []booksVolume `json:"items"`
	}
	if err := c.doGET(ctx, booksBaseURL+"/volumes", q, &payload); err != nil {
		return nil, err
	}
	items := payload.Items
	if len(items) > booksSearchLimit {
		items = items[:booksSearchLimit]
	}
	return items, nil
}

func (c *booksClient) volumeDetails(ctx context.Context, nativeID string) (*booksVolume, error) {
	if !c.isConfigured() {
		return nil, fmt.Errorf("%w: google books api key not configured", ErrUpstreamUnavailable)
	}
	var vol booksVolume
	if err := c.doGET(ctx, booksBaseURL+"/volumes/"+url.PathEscape(nativeID), nil, &vol); err != nil {
		return nil, err
	}
	return &vol, nil
}
