package models

// Canonical output schema for the agent protocol. Every record is built fresh
// per request by the normalizer and never mutated afterwards.

// Contributor is a credited person on a media item: cast, director, writer,
// recording artist, or author. Order is 1-based display order.
type Contributor struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Thumb string `json:"thumb,omitempty"`
	Order int    `json:"order"`
}

// ExternalID cross-references an item in another catalog, e.g. an IMDB id or
// a UPC. Entries are only emitted when the upstream supplied a value.
type ExternalID struct {
	Source string `json:"source"`
	ID     string `json:"id"`
}

// Track is a single album track. Duration is always emitted, zero when the
// upstream did not report one.
type Track struct {
	Index      int    `json:"index"`
	Title      string `json:"title"`
	DurationMs int64  `json:"duration"`
}

// MediaMetadata is the normalized detail record for a single item.
//
// Image URLs always use https. List fields are always present, empty when the
// upstream supplied nothing. Duration is milliseconds. ContentRating carries
// the "NR" sentinel when the movie/TV catalog has no home-region
// certification and is omitted entirely for catalogs without a ratings
// concept.
type MediaMetadata struct {
	ID                    string        `json:"id"`
	Type                  string        `json:"type"` // movie | show | album
	Title                 string        `json:"title"`
	OriginalTitle         string        `json:"originalTitle,omitempty"`
	Summary               string        `json:"summary,omitempty"`
	Year                  int           `json:"year,omitempty"`
	OriginallyAvailableAt string        `json:"originallyAvailableAt,omitempty"`
	DurationMs            int64         `json:"duration,omitempty"`
	ContentRating         string        `json:"contentRating,omitempty"`
	Thumb                 string        `json:"thumb,omitempty"`
	Art                   string        `json:"art,omitempty"`
	Studio                string        `json:"studio,omitempty"`
	Artist                string        `json:"artist,omitempty"`
	Rating                float64       `json:"rating,omitempty"`
	Genres                []string      `json:"genres"`
	Roles                 []Contributor `json:"roles"`
	ExternalIDs           []ExternalID  `json:"externalIds"`
	Tracks                []Track       `json:"tracks"`
}

// NewMediaMetadata returns a record with every list field initialized so
// serialized output never carries null sequences.
func NewMediaMetadata(id, mediaType, title string) MediaMetadata {
	return MediaMetadata{
		ID:          id,
		Type:        mediaType,
		Title:       title,
		Genres:      []string{},
		Roles:       []Contributor{},
		ExternalIDs: []ExternalID{},
		Tracks:      []Track{},
	}
}

// SearchMatch is the reduced projection used in search responses. Its ID
// resolves, via a subsequent metadata lookup, to a full MediaMetadata from
// the same provider.
type SearchMatch struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	Thumb  string `json:"thumb,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// SearchContainer is the envelope for search responses.
type SearchContainer struct {
	Size       int           `json:"size"`
	Identifier string        `json:"identifier"`
	Results    []SearchMatch `json:"results"`
}

// MetadataContainer is the envelope for detail responses; Size is 0 or 1.
type MetadataContainer struct {
	Size       int             `json:"size"`
	Identifier string          `json:"identifier"`
	Results    []MediaMetadata `json:"results"`
}

// ManifestKind describes one supported media kind and its identifier scheme.
type ManifestKind struct {
	Type     string   `json:"type"`
	Prefixes []string `json:"prefixes"`
}

// Manifest is the provider self-description served at the root path.
type Manifest struct {
	Identifier string         `json:"identifier"`
	Name       string         `json:"name"`
	Version    string         `json:"version"`
	Kinds      []ManifestKind `json:"kinds"`
}
