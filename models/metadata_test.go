package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewMediaMetadataSerializesEmptyLists(t *testing.T) {
	b, err := json.Marshal(NewMediaMetadata("tmdb-movie-603", "movie", "The Matrix"))
	if err != nil {
		t.Fatal(err)
	}
	body := string(b)
	for _, field := range []string{`"genres":[]`, `"roles":[]`, `"externalIds":[]`, `"tracks":[]`} {
		if !strings.Contains(body, field) {
			t.Errorf("missing %s in %s", field, body)
		}
	}
	if strings.Contains(body, "null") {
		t.Errorf("record serialized a null: %s", body)
	}
}

// A track with no reported length still carries the duration field.
func TestTrackZeroDurationIsEmitted(t *testing.T) {
	b, err := json.Marshal(Track{Index: 1, Title: "Untimed"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"duration":0`) {
		t.Errorf("zero duration omitted: %s", b)
	}
}
