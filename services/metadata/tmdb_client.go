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
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	// w200 is plenty for search result thumbnails; detail views get the
	// full-size artwork.
	tmdbThumbSize  = "w200"
	tmdbDetailSize = "original"

	tmdbSearchLimit = 5
)

type tmdbClient struct {
	apiKey string
	httpc  *http.Client
}

func newTMDBClient(apiKey string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{apiKey: strings.TrimSpace(apiKey), httpc: httpc}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

func (c *tmdbClient) doGET(ctx context.Context, endpoint string, q url.Values, v any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: tmdb: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: tmdb: %s", ErrNotFound, endpoint)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: tmdb: %s", ErrUpstreamUnavailable, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

type tmdbSearchHit struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
	PosterPath   string `json:"poster_path"`
}

type tmdbGenre struct {
	Name string `json:"name"`
}

type tmdbCompany struct {
	Name string `json:"name"`
}

type tmdbCastMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type tmdbCrewMember struct {
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

type tmdbCredits struct {
	Cast []tmdbCastMember `json:"cast"`
	Crew []tmdbCrewMember `json:"crew"`
}

type tmdbReleases struct {
	Countries []tmdbCertification `json:"countries"`
}

type tmdbCertification struct {
	ISO31661      string `json:"iso_3166_1"`
	Certification string `json:"certification"`
}

type tmdbContentRatings struct {
	Results []tmdbContentRating `json:"results"`
}

type tmdbContentRating struct {
	ISO31661 string `json:"iso_3166_1"`
	Rating   string `json:"rating"`
}

type tmdbExternalIDs struct {
	IMDBID     string `json:"imdb_id"`
	TVDBID     int64  `json:"tvdb_id"`
	WikidataID string `json:"wikidata_id"`
}

type tmdbMovie struct {
	ID                  int64           `json:"id"`
	Title               string          `json:"title"`
	OriginalTitle       string          `json:"original_title"`
	Overview            string          `json:"overview"`
	ReleaseDate         string          `json:"release_date"`
	Runtime             int             `json:"runtime"`
	VoteAverage         float64         `json:"vote_average"`
	PosterPath          string          `json:"poster_path"`
	BackdropPath        string          `json:"backdrop_path"`
	IMDBID              string          `json:"imdb_id"`
	Genres              []tmdbGenre     `json:"genres"`
	ProductionCompanies []tmdbCompany   `json:"production_companies"`
	Releases            tmdbReleases    `json:"releases"`
	Credits             tmdbCredits     `json:"credits"`
	ExternalIDs         tmdbExternalIDs `json:"external_ids"`
}

type tmdbShow struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	OriginalName   string             `json:"original_name"`
	Overview       string             `json:"overview"`
	FirstAirDate   string             `json:"first_air_date"`
	EpisodeRunTime []int              `json:"episode_run_time"`
	VoteAverage    float64            `json:"vote_average"`
	PosterPath     string             `json:"poster_path"`
	BackdropPath   string             `json:"backdrop_path"`
	Genres         []tmdbGenre        `json:"genres"`
	Networks       []tmdbCompany      `json:"networks"`
	ContentRatings tmdbContentRatings `json:"content_ratings"`
	Credits        tmdbCredits        `json:"credits"`
	ExternalIDs    tmdbExternalIDs    `json:"external_ids"`
}

type tmdbSearchResponse struct {
	Results []tmdbSearchHit `json:"results"`
}

func (c *tmdbClient) searchMovies(ctx context.Context, query, year string) ([]tmdbSearchHit, error) {
	if !c.isConfigured() {
		return nil, fmt.Errorf("%w: tmdb api key not configured", ErrUpstreamUnavailable)
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	if year != "" {
		q.Set("year", year)
	}
	var payload tmdbSearchResponse
	if err := c.doGET(ctx, tmdbBaseURL+"/search/movie", q, &payload); err != nil {
		return nil, err
	}
	hits := payload.Results
	if len(hits) > tmdbSearchLimit {
		hits = hits[:tmdbSearchLimit]
	}
	return hits, nil
}

func (c *tmdbClient) searchShows(ctx context.Context, query, year string) ([]tmdbSearchHit, error) {
	if !c.isConfigured() {
		return nil, fmt.Errorf("%w: tmdb api key not configured", ErrUpstreamUnavailable)
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	if year != "" {
		q.Set("first_air_date_year", year)
	}
	var payload tmdbSearchResponse
	if err := c.doGET(ctx, tmdbBaseURL+"/search/tv", q, &payload); err != nil {
		return nil, err
	}
	hits := payload.Results
	if len(hits) > tmdbSearchLimit {
		hits = hits[:tmdbSearchLimit]
	}
	return hits, nil
}

// movieDetails fetches a movie with credits, certifications, external IDs and
// similar titles expanded in a single round trip.
func (c *tmdbClient) movieDetails(ctx context.Context, nativeID string) (*tmdbMovie, error) {
	if !c.isConfigured() {
		return nil, fmt.Errorf("%w: tmdb api key not configured", ErrUpstreamUnavailable)
	}
	q := url.Values{}
	q.Set("append_to_response", "credits,releases,external_ids,similar")
	var movie tmdbMovie
	if err := c.doGET(ctx, tmdbBaseURL+"/movie/"+url.PathEscape(nativeID), q, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *tmdbClient) showDetails(ctx context.Context, nativeID string) (*tmdbShow, error) {
	if !c.isConfigured() {
		return nil, fmt.Errorf("%w: tmdb api key not configured", ErrUpstreamUnavailable)
	}
	q := url.Values{}
	q.Set("append_to_response", "credits,content_ratings,external_ids,similar")
	var show tmdbShow
	if err := c.doGET(ctx, tmdbBaseURL+"/tv/"+url.PathEscape(nativeID), q, &show); err != nil {
		return nil, err
	}
	return &show, nil
}
