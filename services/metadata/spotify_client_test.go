package metadata

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func TestTokenCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tc := newTokenCache()
	tc.now = func() time.Time { return now }

	if _, ok := tc.get(); ok {
		t.Fatal("empty cache must miss")
	}

	tc.put("tok", time.Hour)
	if tok, ok := tc.get(); !ok || tok != "tok" {
		t.Fatalf("get = %q, %v", tok, ok)
	}

	// Still comfortably inside the refresh margin.
	now = now.Add(54 * time.Minute)
	if _, ok := tc.get(); !ok {
		t.Fatal("token 6 minutes from expiry must still be usable")
	}

	// Within 5 minutes of expiry the cache must miss so a refresh happens.
	now = now.Add(2 * time.Minute)
	if _, ok := tc.get(); ok {
		t.Fatal("token 4 minutes from expiry must be refreshed")
	}
}

func TestGetTokenCachedAcrossCalls(t *testing.T) {
	var exchanges atomic.Int32
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Host == "accounts.spotify.com" {
				exchanges.Add(1)
				user, pass, ok := req.BasicAuth()
				if !ok || user != "id" || pass != "secret" {
					t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
				}
				return jsonResponse(http.StatusOK, `{"access_token": "tok", "expires_in": 3600}`), nil
			}
			if got := req.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("authorization = %q", got)
			}
			return jsonResponse(http.StatusOK, `{"albums":{"items":[]}}`), nil
		}),
	}

	c := newSpotifyClient("id", "secret", httpc)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.searchAlbums(ctx, "q"); err != nil {
			t.Fatalf("searchAlbums: %v", err)
		}
	}
	if got := exchanges.Load(); got != 1 {
		t.Fatalf("token exchanges = %d, want 1", got)
	}
}

func TestGetTokenFailure(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{"error": "invalid_client"}`), nil
		}),
	}

	c := newSpotifyClient("id", "wrong", httpc)
	if tok := c.getToken(context.Background()); tok != "" {
		t.Fatalf("getToken = %q, want empty", tok)
	}
	_, err := c.searchAlbums(context.Background(), "q")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestSpotifyUnconfigured(t *testing.T) {
	c := newSpotifyClient("", "", nil)
	if _, err := c.searchAlbums(context.Background(), "q"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}
}
