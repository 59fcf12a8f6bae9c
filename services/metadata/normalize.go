package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"metarelay/internal/guid"
	"metarelay/models"
)

// Normalization caps. Cast lists get long and the agent protocol only shows a
// handful, so trim at the source.
const (
	castLimit   = 15
	writerLimit = 3
)

// yearOf extracts the leading four-digit year from a date string like
// "2015-03-06". Returns 0 when no year is present.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

func minutesToMs(min int) int64 {
	return int64(min) * 60 * 1000
}

// secureURL rewrites a plain-http URL to https. Upstreams occasionally hand
// back http image links that mixed-content policies would block.
func secureURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// stripTags removes markup from an HTML-bearing description, keeping only the
// text content with entities decoded.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	var b strings.Builder
	tz := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(tz.Text())
		}
	}
}

func tmdbImage(path, size string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + "/" + size + path
}

// movieCertification picks the home-region certification from a movie's
// release list, falling back to the "NR" sentinel.
func movieCertification(countries []tmdbCertification, region string) string {
	for _, c := range countries {
		if c.ISO31661 == region && c.Certification != "" {
			return c.Certification
		}
	}
	return "NR"
}

func showCertification(results []tmdbContentRating, region string) string {
	for _, r := range results {
		if r.ISO31661 == region && r.Rating != "" {
			return r.Rating
		}
	}
	return "NR"
}

func movieGUID(id int64) string {
	return guid.GUID{Provider: guid.ProviderTMDB, Kind: guid.KindMovie, NativeID: strconv.FormatInt(id, 10)}.Encode()
}

func showGUID(id int64) string {
	return guid.GUID{Provider: guid.ProviderTMDB, Kind: guid.KindShow, NativeID: strconv.FormatInt(id, 10)}.Encode()
}

func albumGUID(id string) string {
	return guid.GUID{Provider: guid.ProviderSpotify, Kind: guid.KindAlbum, NativeID: id}.Encode()
}

func bookGUID(id string) string {
	return guid.GUID{Provider: guid.ProviderGoogleBooks, Kind: guid.KindBook, NativeID: id}.Encode()
}

func movieMatch(h tmdbSearchHit) models.SearchMatch {
	return models.SearchMatch{
		ID:    movieGUID(h.ID),
		Type:  guid.KindMovie.MediaType(),
		Title: h.Title,
		Year:  yearOf(h.ReleaseDate),
		Thumb: tmdbImage(h.PosterPath, tmdbThumbSize),
	}
}

func showMatch(h tmdbSearchHit) models.SearchMatch {
	return models.SearchMatch{
		ID:    showGUID(h.ID),
		Type:  guid.KindShow.MediaType(),
		Title: h.Name,
		Year:  yearOf(h.FirstAirDate),
		Thumb: tmdbImage(h.PosterPath, tmdbThumbSize),
	}
}

func albumMatch(a spotifyAlbum) models.SearchMatch {
	m := models.SearchMatch{
		ID:    albumGUID(a.ID),
		Type:  guid.KindAlbum.MediaType(),
		Title: a.Name,
		Year:  yearOf(a.ReleaseDate),
	}
	if len(a.Images) > 0 {
		m.Thumb = secureURL(a.Images[0].URL)
	}
	if len(a.Artists) > 0 {
		m.Artist = a.Artists[0].Name
	}
	return m
}

func bookMatch(v booksVolume) models.SearchMatch {
	info := v.VolumeInfo
	m := models.SearchMatch{
		ID:     bookGUID(v.ID),
		Type:   guid.KindBook.MediaType(),
		Title:  info.Title,
		Year:   yearOf(info.PublishedDate),
		Thumb:  secureURL(info.ImageLinks.Thumbnail),
		Artist: "Unknown Author",
	}
	if len(info.Authors) > 0 {
		m.Artist = info.Authors[0]
	}
	return m
}

func normalizeMovie(m *tmdbMovie, region string) models.MediaMetadata {
	md := models.NewMediaMetadata(movieGUID(m.ID), guid.KindMovie.MediaType(), m.Title)
	md.OriginalTitle = m.OriginalTitle
	md.Summary = stripTags(m.Overview)
	md.Year = yearOf(m.ReleaseDate)
	md.OriginallyAvailableAt = m.ReleaseDate
	if m.Runtime > 0 {
		md.DurationMs = minutesToMs(m.Runtime)
	}
	md.ContentRating = movieCertification(m.Releases.Countries, region)
	md.Thumb = tmdbImage(m.PosterPath, tmdbDetailSize)
	md.Art = tmdbImage(m.BackdropPath, tmdbDetailSize)
	md.Rating = m.VoteAverage
	if len(m.ProductionCompanies) > 0 {
		md.Studio = m.ProductionCompanies[0].Name
	}
	for _, g := range m.Genres {
		md.Genres = append(md.Genres, g.Name)
	}
	md.Roles = creditRoles(m.Credits)

	imdb := m.ExternalIDs.IMDBID
	if imdb == "" {
		imdb = m.IMDBID
	}
	if imdb != "" {
		md.ExternalIDs = append(md.ExternalIDs, models.ExternalID{Source: "imdb", ID: imdb})
	}
	if m.ExternalIDs.WikidataID != "" {
		md.ExternalIDs = append(md.ExternalIDs, models.ExternalID{Source: "wikidata", ID: m.ExternalIDs.WikidataID})
	}
	return md
}

func normalizeShow(sh *tmdbShow, region string) models.MediaMetadata {
	md := models.NewMediaMetadata(showGUID(sh.ID), guid.KindShow.MediaType(), sh.Name)
	md.OriginalTitle = sh.OriginalName
	md.Summary = stripTags(sh.Overview)
	md.Year = yearOf(sh.FirstAirDate)
	md.OriginallyAvailableAt = sh.FirstAirDate
	if len(sh.EpisodeRunTime) > 0 && sh.EpisodeRunTime[0] > 0 {
		md.DurationMs = minutesToMs(sh.EpisodeRunTime[0])
	}
	md.ContentRating = showCertification(sh.ContentRatings.Results, region)
	md.Thumb = tmdbImage(sh.PosterPath, tmdbDetailSize)
	md.Art = tmdbImage(sh.BackdropPath, tmdbDetailSize)
	md.Rating = sh.VoteAverage
	if len(sh.Networks) > 0 {
		md.Studio = sh.Networks[0].Name
	}
	for _, g := range sh.Genres {
		md.Genres = append(md.Genres, g.Name)
	}
	md.Roles = creditRoles(sh.Credits)

	if sh.ExternalIDs.IMDBID != "" {
		md.ExternalIDs = append(md.ExternalIDs, models.ExternalID{Source: "imdb", ID: sh.ExternalIDs.IMDBID})
	}
	if sh.ExternalIDs.TVDBID != 0 {
		md.ExternalIDs = append(md.ExternalIDs, models.ExternalID{Source: "tvdb", ID: strconv.FormatInt(sh.ExternalIDs.TVDBID, 10)})
	}
	if sh.ExternalIDs.WikidataID != "" {
		md.ExternalIDs = append(md.ExternalIDs, models.ExternalID{Source: "wikidata", ID: sh.ExternalIDs.WikidataID})
	}
	return md
}

// creditRoles flattens TMDB credits into one ordered contributor list: cast
// first (up to castLimit), then directors, then writers (up to writerLimit).
func creditRoles(credits tmdbCredits) []models.Contributor {
	roles := []models.Contributor{}

	cast := credits.Cast
	if len(cast) > castLimit {
		cast = cast[:castLimit]
	}
	for _, c := range cast {
		roles = append(roles, models.Contributor{
			Name:  c.Name,
			Role:  c.Character,
			Thumb: tmdbImage(c.ProfilePath, tmdbThumbSize),
			Order: len(roles) + 1,
		})
	}

	writers := 0
	for _, c := range credits.Crew {
		switch {
		case c.Job == "Director":
			roles = append(roles, models.Contributor{
				Name:  c.Name,
				Role:  "Director",
				Thumb: tmdbImage(c.ProfilePath, tmdbThumbSize),
				Order: len(roles) + 1,
			})
		case c.Department == "Writing" && writers < writerLimit:
			writers++
			roles = append(roles, models.Contributor{
				Name:  c.Name,
				Role:  "Writer",
				Thumb: tmdbImage(c.ProfilePath, tmdbThumbSize),
				Order: len(roles) + 1,
			})
		}
	}
	return roles
}

func normalizeAlbum(a *spotifyAlbum) models.MediaMetadata {
	md := models.NewMediaMetadata(albumGUID(a.ID), guid.KindAlbum.MediaType(), a.Name)
	md.Year = yearOf(a.ReleaseDate)
	md.OriginallyAvailableAt = a.ReleaseDate
	md.Studio = a.Label
	md.Genres = append(md.Genres, a.Genres...)
	if len(a.Images) > 0 {
		md.Thumb = secureURL(a.Images[0].URL)
	}
	if len(a.Artists) > 0 {
		md.Artist = a.Artists[0].Name
		md.Summary = fmt.Sprintf("Album by %s with %d tracks.", md.Artist, a.TotalTracks)
	}
	for i, ar := range a.Artists {
		md.Roles = append(md.Roles, models.Contributor{Name: ar.Name, Role: "Artist", Order: i + 1})
	}
	var total int64
	for i, t := range a.Tracks.Items {
		idx := t.TrackNumber
		if idx == 0 {
			idx = i + 1
		}
		md.Tracks = append(md.Tracks, models.Track{Index: idx, Title: t.Name, DurationMs: t.DurationMs})
		total += t.DurationMs
	}
	if total > 0 {
		md.DurationMs = total
	}
	if a.ExternalIDs.UPC != "" {
		md.ExternalIDs = append(md.ExternalIDs, models.ExternalID{Source: "upc", ID: a.ExternalIDs.UPC})
	}
	if a.ExternalIDs.EAN != "" {
		md.ExternalIDs = append(md.ExternalIDs, models.ExternalID{Source: "ean", ID: a.ExternalIDs.EAN})
	}
	return md
}

func normalizeBook(v *booksVolume) models.MediaMetadata {
	info := v.VolumeInfo
	md := models.NewMediaMetadata(bookGUID(v.ID), guid.KindBook.MediaType(), info.Title)
	md.Summary = stripTags(info.Description)
	md.Year = yearOf(info.PublishedDate)
	md.OriginallyAvailableAt = info.PublishedDate
	md.Studio = info.Publisher
	md.Thumb = secureURL(info.ImageLinks.Thumbnail)
	md.Rating = info.AverageRating
	md.Genres = append(md.Genres, info.Categories...)
	md.Artist = "Unknown"
	if len(info.Authors) > 0 {
		md.Artist = info.Authors[0]
	}
	for i, a := range info.Authors {
		md.Roles = append(md.Roles, models.Contributor{Name: a, Role: "Author", Order: i + 1})
	}
	for _, id := range info.IndustryIdentifiers {
		if id.Identifier == "" {
			continue
		}
		md.ExternalIDs = append(md.ExternalIDs, models.ExternalID{Source: strings.ToLower(id.Type), ID: id.Identifier})
	}
	return md
}
