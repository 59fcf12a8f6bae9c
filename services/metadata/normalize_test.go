package metadata

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearOf(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2015-03-06", 2015},
		{"1999-03-30", 1999},
		{"1965", 1965},
		{"", 0},
		{"19", 0},
		{"abcd-01-01", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, yearOf(c.date), "yearOf(%q)", c.date)
	}
}

func TestSecureURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a.jpg", secureURL("http://example.com/a.jpg"))
	assert.Equal(t, "https://example.com/a.jpg", secureURL("https://example.com/a.jpg"))
	assert.Equal(t, "", secureURL(""))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello World", stripTags("<b>Hello</b> World"))
	assert.Equal(t, "plain text", stripTags("plain text"))
	assert.Equal(t, "A classic.", stripTags("<p><i>A classic.</i></p>"))
}

func TestNormalizeMovieDefaults(t *testing.T) {
	md := normalizeMovie(&tmdbMovie{ID: 42, Title: "Bare"}, "US")

	assert.Equal(t, "tmdb-movie-42", md.ID)
	assert.Equal(t, "NR", md.ContentRating, "no home-region certification falls back to NR")
	assert.Zero(t, md.Year)
	assert.Zero(t, md.DurationMs)

	require.NotNil(t, md.Genres)
	require.NotNil(t, md.Roles)
	require.NotNil(t, md.ExternalIDs)
	require.NotNil(t, md.Tracks)
	assert.Empty(t, md.Genres)
	assert.Empty(t, md.ExternalIDs)
}

func TestCreditRolesCaps(t *testing.T) {
	var credits tmdbCredits
	for i := 0; i < 20; i++ {
		credits.Cast = append(credits.Cast, tmdbCastMember{Name: fmt.Sprintf("Actor %d", i), Character: "X"})
	}
	credits.Crew = append(credits.Crew, tmdbCrewMember{Name: "D", Job: "Director", Department: "Directing"})
	for i := 0; i < 5; i++ {
		credits.Crew = append(credits.Crew, tmdbCrewMember{Name: fmt.Sprintf("Writer %d", i), Job: "Screenplay", Department: "Writing"})
	}

	roles := creditRoles(credits)
	require.Len(t, roles, castLimit+1+writerLimit)
	for i, r := range roles {
		assert.Equal(t, i+1, r.Order, "order is 1-based array position")
	}
	assert.Equal(t, "Director", roles[castLimit].Role)
	assert.Equal(t, "Writer", roles[castLimit+1].Role)
}

func TestNormalizeShowCertificationRegion(t *testing.T) {
	sh := &tmdbShow{
		ID:   100,
		Name: "Show",
		ContentRatings: tmdbContentRatings{Results: []tmdbContentRating{
			{ISO31661: "GB", Rating: "15"},
			{ISO31661: "US", Rating: "TV-MA"},
		}},
		EpisodeRunTime: []int{45},
	}
	md := normalizeShow(sh, "US")
	assert.Equal(t, "TV-MA", md.ContentRating)
	assert.Equal(t, int64(2700000), md.DurationMs)

	md = normalizeShow(sh, "FR")
	assert.Equal(t, "NR", md.ContentRating)
}

func TestNormalizeExternalIDs(t *testing.T) {
	m := &tmdbMovie{ID: 603, Title: "The Matrix"}
	m.ExternalIDs.IMDBID = "tt0133093"
	m.ExternalIDs.WikidataID = "Q83495"
	md := normalizeMovie(m, "US")
	require.Len(t, md.ExternalIDs, 2)
	assert.Equal(t, "imdb", md.ExternalIDs[0].Source)
	assert.Equal(t, "wikidata", md.ExternalIDs[1].Source)
	assert.Equal(t, "Q83495", md.ExternalIDs[1].ID)

	sh := &tmdbShow{ID: 1396, Name: "Breaking Bad"}
	sh.ExternalIDs.IMDBID = "tt0903747"
	sh.ExternalIDs.TVDBID = 81189
	sh.ExternalIDs.WikidataID = "Q1079"
	smd := normalizeShow(sh, "US")
	require.Len(t, smd.ExternalIDs, 3)
	assert.Equal(t, "tvdb", smd.ExternalIDs[1].Source)
	assert.Equal(t, "wikidata", smd.ExternalIDs[2].Source)
}

func TestNormalizeAlbum(t *testing.T) {
	a := &spotifyAlbum{
		ID:          "alb1",
		Name:        "OST",
		ReleaseDate: "2021-09-17",
		TotalTracks: 2,
		Label:       "WaterTower",
		Images:      []spotifyImage{{URL: "http://i.scdn.co/img.jpg"}},
		Artists:     []spotifyArtist{{Name: "Hans Zimmer"}},
	}
	a.Tracks.Items = []spotifyTrack{
		{Name: "One", DurationMs: 60000, TrackNumber: 1},
		{Name: "Two", DurationMs: 90000, TrackNumber: 2},
	}
	a.ExternalIDs.UPC = "12345"

	md := normalizeAlbum(a)
	assert.Equal(t, "spotify-album-alb1", md.ID)
	assert.Equal(t, "album", md.Type)
	assert.Equal(t, "Hans Zimmer", md.Artist)
	assert.Equal(t, 2021, md.Year)
	assert.Equal(t, "https://i.scdn.co/img.jpg", md.Thumb, "thumbnails are rewritten to https")
	assert.Equal(t, int64(150000), md.DurationMs, "album duration is the track sum")
	require.Len(t, md.Tracks, 2)
	assert.Equal(t, 1, md.Tracks[0].Index)
	require.Len(t, md.ExternalIDs, 1)
	assert.Equal(t, "upc", md.ExternalIDs[0].Source)
	require.Len(t, md.Roles, 1)
	assert.Equal(t, "Artist", md.Roles[0].Role)
}

func TestNormalizeBook(t *testing.T) {
	v := &booksVolume{
		ID: "vol1",
		VolumeInfo: booksVolumeInfo{
			Title:         "Dune",
			Authors:       []string{"Frank Herbert"},
			Publisher:     "Chilton",
			PublishedDate: "1965-08-01",
			Description:   "<b>Hello</b> World",
			Categories:    []string{"Fiction"},
			AverageRating: 4.5,
			IndustryIdentifiers: []booksIdentifier{
				{Type: "ISBN_13", Identifier: "9780441013593"},
				{Type: "ISBN_10", Identifier: "0441013597"},
			},
			ImageLinks: booksImageLinks{Thumbnail: "http://books.google.com/t.jpg"},
		},
	}

	md := normalizeBook(v)
	assert.Equal(t, "google-book-vol1", md.ID)
	assert.Equal(t, "album", md.Type, "books surface as albums")
	assert.Equal(t, "Hello World", md.Summary)
	assert.Equal(t, 1965, md.Year)
	assert.Equal(t, "Frank Herbert", md.Artist)
	assert.Equal(t, "Chilton", md.Studio)
	assert.Equal(t, "https://books.google.com/t.jpg", md.Thumb)
	require.Len(t, md.ExternalIDs, 2)
	assert.Equal(t, "isbn_13", md.ExternalIDs[0].Source)
	require.Len(t, md.Roles, 1)
	assert.Equal(t, "Author", md.Roles[0].Role)
	assert.Empty(t, md.Tracks)
}
