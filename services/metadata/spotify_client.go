package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	spotifyBaseURL  = "https://api.spotify.com/v1"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	spotifySearchLimit = 3

	// Refresh the bearer token this long before it actually expires so a
	// request never goes out with a token about to lapse mid-flight.
	tokenRefreshMargin = 5 * time.Minute
)

// tokenCache holds one client-credentials bearer token. Safe for concurrent
// use; a refresh that loses the race simply overwrites with an equally valid
// token.
type tokenCache struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
	now    func() time.Time
}

func newTokenCache() *tokenCache {
	return &tokenCache{now: time.Now}
}

func (tc *tokenCache) get() (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.token == "" || !tc.now().Before(tc.expiry.Add(-tokenRefreshMargin)) {
		return "", false
	}
	return tc.token, true
}

func (tc *tokenCache) put(token string, ttl time.Duration) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.token = token
	tc.expiry = tc.now().Add(ttl)
}

type spotifyClient struct {
	clientID     string
	clientSecret string
	httpc        *http.Client
	tokens       *tokenCache
}

func newSpotifyClient(clientID, clientSecret string, httpc *http.Client) *spotifyClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &spotifyClient{
		clientID:     strings.TrimSpace(clientID),
		clientSecret: strings.TrimSpace(clientSecret),
		httpc:        httpc,
		tokens:       newTokenCache(),
	}
}

func (c *spotifyClient) isConfigured() bool {
	return c != nil && c.clientID != "" && c.clientSecret != ""
}

// getToken returns a usable bearer token, exchanging client credentials when
// the cached one is absent or near expiry. Returns "" on any failure; the
// caller degrades to zero results for this provider.
func (c *spotifyClient) getToken(ctx context.Context) string {
	if tok, ok := c.tokens.get(); ok {
		return tok
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, spotifyTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[metadata] spotify token exchange failed: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[metadata] spotify token exchange failed: %s", resp.Status)
		return ""
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.AccessToken == "" {
		log.Printf("[metadata] spotify token response unusable: %v", err)
		return ""
	}

	c.tokens.put(payload.AccessToken, time.Duration(payload.ExpiresIn)*time.Second)
	return payload.AccessToken
}

func (c *spotifyClient) doGET(ctx context.Context, endpoint string, q url.Values, v any) error {
	token := c.getToken(ctx)
	if token == "" {
		return fmt.Errorf("%w: spotify: no bearer token", ErrAuthenticationFailed)
	}

	u := endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: spotify: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: spotify: %s", ErrNotFound, endpoint)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: spotify: %s", ErrUpstreamUnavailable, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyTrack struct {
	Name        string `json:"name"`
	DurationMs  int64  `json:"duration_ms"`
	TrackNumber int    `json:"track_number"`
}

type spotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Label       string          `json:"label"`
	Genres      []string        `json:"genres"`
	Images      []spotifyImage  `json:"images"`
	Artists     []spotifyArtist `json:"artists"`
	Tracks      struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
	ExternalIDs struct {
		UPC string `json:"upc"`
		EAN string `json:"ean"`
	} `json:"external_ids"`
}

func (c *spotifyClient) searchAlbums(ctx context.Context, query string) ([]spotifyAlbum, error) {
	if !c.isConfigured() {
		return nil, fmt.Errorf("%w: spotify credentials not configured", ErrAuthenticationFailed)
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "album")
	q.Set("limit", fmt.Sprintf("%d", spotifySearchLimit))

	var payload struct {
		Albums struct {
			Items []spotifyAlbum `json:"items"`
		} `json:"albums"`
	}
	if err := c.doGET(ctx, spotifyBaseURL+"/search", q, &payload); err != nil {
		return nil, err
	}
	items := payload.Albums.Items
	if len(items) > spotifySearchLimit {
		items = items[:spotifySearchLimit]
	}
	return items, nil
}

func (c *spotifyClient) albumDetails(ctx context.Context, nativeID string) (*spotifyAlbum, error) {
	if !c.isConfigured() {
		return nil, fmt.Errorf("%w: spotify credentials not configured", ErrAuthenticationFailed)
	}
	var album spotifyAlbum
	if err := c.doGET(ctx, spotifyBaseURL+"/albums/"+url.PathEscape(nativeID), nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}
