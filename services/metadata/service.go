// Package metadata aggregates search and detail lookups across the upstream
// catalogs (TMDB for movies and TV, Spotify for music, Google Books for
// books) and normalizes everything into the canonical agent schema.
//
// Provider failures never fail a request. A provider that errors, times out,
// or lacks credentials simply contributes zero results.
package metadata

import (
	"context"
	"log"
	"net/http"

	"github.com/sourcegraph/conc"

	"metarelay/config"
	"metarelay/internal/guid"
	"metarelay/models"
)

// Service routes requests to provider clients and normalizes their responses.
type Service struct {
	movies *tmdbClient
	music  *spotifyClient
	books  *booksClient
	region string
}

// NewService wires the three provider clients from configured credentials.
// All clients share httpc; pass nil to give each a default 15s-timeout client.
func NewService(p config.ProviderSettings, httpc *http.Client) *Service {
	region := p.Region
	if region == "" {
		region = "US"
	}
	return &Service{
		movies: newTMDBClient(p.TMDBAPIKey, httpc),
		music:  newSpotifyClient(p.SpotifyClientID, p.SpotifyClientSecret, httpc),
		books:  newBooksClient(p.GoogleBooksAPIKey, httpc),
		region: region,
	}
}

// Search fans a query out to the providers responsible for kind and returns
// the merged matches. An unknown kind and any provider failure both yield
// zero results, not an error.
func (s *Service) Search(ctx context.Context, query string, kind guid.Kind, year string) []models.SearchMatch {
	switch kind {
	case guid.KindMovie:
		hits, err := s.movies.searchMovies(ctx, query, year)
		if err != nil {
			log.Printf("[metadata] movie search degraded: %v", err)
			return []models.SearchMatch{}
		}
		matches := make([]models.SearchMatch, 0, len(hits))
		for _, h := range hits {
			matches = append(matches, movieMatch(h))
		}
		return matches

	case guid.KindShow:
		hits, err := s.movies.searchShows(ctx, query, year)
		if err != nil {
			log.Printf("[metadata] show search degraded: %v", err)
			return []models.SearchMatch{}
		}
		matches := make([]models.SearchMatch, 0, len(hits))
		for _, h := range hits {
			matches = append(matches, showMatch(h))
		}
		return matches

	case guid.KindAlbum, guid.KindBook:
		// Music and book catalogs are queried together; album matches are
		// listed ahead of book matches.
		var (
			albums  []spotifyAlbum
			volumes []booksVolume
			wg      conc.WaitGroup
		)
		wg.Go(func() {
			a, err := s.music.searchAlbums(ctx, query)
			if err != nil {
				log.Printf("[metadata] album search degraded: %v", err)
				return
			}
			albums = a
		})
		wg.Go(func() {
			v, err := s.books.searchVolumes(ctx, query)
			if err != nil {
				log.Printf("[metadata] book search degraded: %v", err)
				return
			}
			volumes = v
		})
		wg.Wait()

		matches := make([]models.SearchMatch, 0, len(albums)+len(volumes))
		for _, a := range albums {
			matches = append(matches, albumMatch(a))
		}
		for _, v := range volumes {
			matches = append(matches, bookMatch(v))
		}
		return matches

	default:
		return []models.SearchMatch{}
	}
}

// Metadata decodes an opaque identifier, fetches the full record from the
// owning provider, and normalizes it. Returns nil for unrecognized
// identifiers and for any provider failure; the handler renders that as an
// empty envelope.
func (s *Service) Metadata(ctx context.Context, token string) *models.MediaMetadata {
	g, err := guid.Decode(token)
	if err != nil {
		log.Printf("[metadata] %v", err)
		return nil
	}

	switch g.Provider {
	case guid.ProviderTMDB:
		switch g.Kind {
		case guid.KindMovie:
			movie, err := s.movies.movieDetails(ctx, g.NativeID)
			if err != nil {
				log.Printf("[metadata] movie lookup %s degraded: %v", g, err)
				return nil
			}
			md := normalizeMovie(movie, s.region)
			return &md
		case guid.KindShow:
			show, err := s.movies.showDetails(ctx, g.NativeID)
			if err != nil {
				log.Printf("[metadata] show lookup %s degraded: %v", g, err)
				return nil
			}
			md := normalizeShow(show, s.region)
			return &md
		}

	case guid.ProviderSpotify:
		album, err := s.music.albumDetails(ctx, g.NativeID)
		if err != nil {
			log.Printf("[metadata] album lookup %s degraded: %v", g, err)
			return nil
		}
		md := normalizeAlbum(album)
		return &md

	case guid.ProviderGoogleBooks:
		vol, err := s.books.volumeDetails(ctx, g.NativeID)
		if err != nil {
			log.Printf("[metadata] book lookup %s degraded: %v", g, err)
			return nil
		}
		md := normalizeBook(vol)
		return &md
	}

	return nil
}
