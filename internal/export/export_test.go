package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

func TestWriteJSONDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target", "data_20240413120000.json")
	artists := []records.Artist{{
		Dates:            "2024-04-13",
		IDs:              "1",
		Names:            "THE BAND",
		MonthlyListeners: 100,
		Popularity:       3,
		Followers:        0,
		Genres:           []string{"rock", "pop"},
		FirstRelease:     "",
		LastRelease:      "2020",
		NumReleases:      4,
		NumTracks:        40,
		PlaylistsFound:   "yes",
		FeatTrackIDs:     []string{},
	}}

	if err := WriteJSON(path, artists); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	// Field order inside each record is part of the export contract.
	want := `{
  "row_count": 1,
  "data": [
    {
      "dates": "2024-04-13",
      "ids": "1",
      "names": "THE BAND",
      "monthly_listeners": 100,
      "popularity": 3,
      "followers": 0,
      "genres": [
        "rock",
        "pop"
      ],
      "first_release": "",
      "last_release": "2020",
      "num_releases": 4,
      "num_tracks": 40,
      "playlists_found": "yes",
      "feat_track_ids": []
    }
  ]
}
`
	if string(got) != want {
		t.Fatalf("document mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := WriteJSON(path, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "{\n  \"row_count\": 0,\n  \"data\": []\n}\n"
	if string(got) != want {
		t.Fatalf("empty document: got %q want %q", got, want)
	}
}

func TestWriteCSVRawRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target", "data_reject_20240413120000.csv")
	batch := records.Batch{
		Columns: []string{records.ColIDs, records.ColDates, records.ColGenres},
		Header:  []string{" IDs ", "Dates", "Génres"},
		Rows: []records.Raw{
			{Line: 3, IDs: "1", Dates: "13/04/2024", Genres: "[rock, pop]"},
		},
	}

	if err := WriteCSV(path, batch); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	// Original header spellings and untouched raw values; the genres cell
	// is quoted because it contains the delimiter.
	want := " IDs ,Dates,Génres\n1,13/04/2024,\"[rock, pop]\"\n"
	if string(got) != want {
		t.Fatalf("csv mismatch:\ngot %q\nwant %q", got, want)
	}
}

func TestWriteJSONCreatesTargetDir(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "a", "b", "data.json")
	if err := WriteJSON(path, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}
