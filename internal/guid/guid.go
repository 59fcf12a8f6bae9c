// Package guid implements the opaque composite identifiers that name items
// across the upstream catalogs. A token encodes which provider sourced an item
// plus that provider's native ID, so a later detail lookup can be routed
// without any state.
package guid

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnrecognizedIdentifier is returned when a token matches no known
// provider prefix.
var ErrUnrecognizedIdentifier = errors.New("unrecognized identifier")

// Provider identifies an upstream catalog.
type Provider int

const (
	ProviderUnknown Provider = iota
	ProviderTMDB
	ProviderSpotify
	ProviderGoogleBooks
)

func (p Provider) String() string {
	switch p {
	case ProviderTMDB:
		return "tmdb"
	case ProviderSpotify:
		return "spotify"
	case ProviderGoogleBooks:
		return "google"
	default:
		return "unknown"
	}
}

// Kind is the media category of an item. Books are carried as a distinct kind
// internally even though they surface as albums in the output schema.
type Kind int

const (
	KindUnknown Kind = iota
	KindMovie
	KindShow
	KindAlbum
	KindBook
)

func (k Kind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindShow:
		return "show"
	case KindAlbum:
		return "album"
	case KindBook:
		return "book"
	default:
		return "unknown"
	}
}

// MediaType returns the kind as it appears in responses. Books masquerade as
// albums so that a four-kind client scheme accepts them.
func (k Kind) MediaType() string {
	if k == KindBook {
		return "album"
	}
	return k.String()
}

// GUID is a decoded opaque identifier.
type GUID struct {
	Provider Provider
	Kind     Kind
	NativeID string
}

// prefixes is matched in order; earlier entries win. Order is fixed and part
// of the identifier contract.
var prefixes = []struct {
	prefix   string
	provider Provider
	kind     Kind
}{
	{"tmdb-movie-", ProviderTMDB, KindMovie},
	{"tmdb-show-", ProviderTMDB, KindShow},
	{"spotify-album-", ProviderSpotify, KindAlbum},
	{"google-book-", ProviderGoogleBooks, KindBook},
}

// Prefixes returns the known identifier prefixes, in match priority order.
func Prefixes() []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, p.prefix)
	}
	return out
}

// Encode serializes a GUID into its token form, e.g. "tmdb-movie-603".
func (g GUID) Encode() string {
	var prefix string
	for _, p := range prefixes {
		if p.provider == g.Provider && p.kind == g.Kind {
			prefix = p.prefix
			break
		}
	}
	if prefix == "" {
		prefix = fmt.Sprintf("%s-%s-", g.Provider, g.Kind)
	}
	return prefix + g.NativeID
}

func (g GUID) String() string { return g.Encode() }

// Decode parses a token back into a GUID. The token may arrive wrapped in a
// larger URI (agent scheme, host, path segments, query string); Decode strips
// all of that down to the trailing opaque segment before matching prefixes.
func Decode(token string) (GUID, error) {
	seg := trailingSegment(token)
	for _, p := range prefixes {
		if strings.HasPrefix(seg, p.prefix) {
			native := seg[len(p.prefix):]
			if native == "" {
				return GUID{}, fmt.Errorf("%w: %q has empty native id", ErrUnrecognizedIdentifier, token)
			}
			return GUID{Provider: p.provider, Kind: p.kind, NativeID: native}, nil
		}
	}
	return GUID{}, fmt.Errorf("%w: %q", ErrUnrecognizedIdentifier, token)
}

// ProviderOf reports which provider owns a token without fully decoding it.
func ProviderOf(token string) (Provider, error) {
	g, err := Decode(token)
	if err != nil {
		return ProviderUnknown, err
	}
	return g.Provider, nil
}

// trailingSegment reduces a possibly URI-wrapped token to its opaque tail:
// drop scheme and host, drop query/fragment, keep the last path segment.
func trailingSegment(token string) string {
	s := strings.TrimSpace(token)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+len("://"):]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if unescaped, err := url.PathUnescape(s); err == nil {
		s = unescaped
	}
	return s
}

// ParseKind maps a request "type" parameter to a Kind. Both string names and
// the numeric codes used by media-manager clients are accepted. Artist
// searches resolve to the album kind; unknown spellings yield KindUnknown,
// which the dispatcher treats as "no results" rather than an error.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "1":
		return KindMovie
	case "show", "tv", "series", "2":
		return KindShow
	case "artist", "8":
		return KindAlbum
	case "album", "9":
		return KindAlbum
	case "book":
		return KindBook
	default:
		return KindUnknown
	}
}
