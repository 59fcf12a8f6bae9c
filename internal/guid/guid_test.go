package guid

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []GUID{
		{ProviderTMDB, KindMovie, "603"},
		{ProviderTMDB, KindShow, "1396"},
		{ProviderSpotify, KindAlbum, "4aawyAB9vmqN3uQ7FjRGTy"},
		{ProviderGoogleBooks, KindBook, "zyTCAlFPjgYC"},
	}
	for _, g := range cases {
		token := g.Encode()
		got, err := Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q): %v", token, err)
		}
		if got != g {
			t.Errorf("Decode(%q) = %+v, want %+v", token, got, g)
		}
	}
}

func TestDecodeStripsURIWrapping(t *testing.T) {
	want := GUID{ProviderTMDB, KindMovie, "603"}
	cases := []string{
		"tmdb-movie-603",
		"com.plexapp.agents.metarelay://tmdb-movie-603?lang=en",
		"metarelay://library/metadata/tmdb-movie-603",
		"https://gateway.example/metadata/tmdb-movie-603/",
		"tmdb-movie-603#fragment",
	}
	for _, token := range cases {
		got, err := Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q): %v", token, err)
		}
		if got != want {
			t.Errorf("Decode(%q) = %+v", token, got)
		}
	}
}

func TestDecodeUnrecognized(t *testing.T) {
	for _, token := range []string{"", "xyz-unknown-1", "tmdb-movie-", "imdb://tt0133093"} {
		if _, err := Decode(token); !errors.Is(err, ErrUnrecognizedIdentifier) {
			t.Errorf("Decode(%q) err = %v, want ErrUnrecognizedIdentifier", token, err)
		}
	}
}

func TestProviderOf(t *testing.T) {
	p, err := ProviderOf("spotify-album-abc")
	if err != nil || p != ProviderSpotify {
		t.Fatalf("ProviderOf = %v, %v", p, err)
	}
	if _, err := ProviderOf("nope"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"movie", KindMovie},
		{"1", KindMovie},
		{"show", KindShow},
		{"tv", KindShow},
		{"series", KindShow},
		{"2", KindShow},
		{"artist", KindAlbum},
		{"8", KindAlbum},
		{"album", KindAlbum},
		{"9", KindAlbum},
		{"book", KindBook},
		{" Movie ", KindMovie},
		{"", KindUnknown},
		{"podcast", KindUnknown},
	}
	for _, c := range cases {
		if got := ParseKind(c.in); got != c.want {
			t.Errorf("ParseKind(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMediaType(t *testing.T) {
	if got := KindBook.MediaType(); got != "album" {
		t.Errorf("book media type = %q, want album", got)
	}
	if got := KindMovie.MediaType(); got != "movie" {
		t.Errorf("movie media type = %q", got)
	}
}
