package transform

import (
	"reflect"
	"testing"

	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
)

func fullBatch() records.Batch {
	return records.Batch{
		Columns: records.Schema,
		Header:  records.Schema,
		Rows: []records.Raw{
			{
				Line:             2,
				IDs:              "1",
				Dates:            "13/04/2024",
				Names:            "the band",
				MonthlyListeners: "100",
				Popularity:       "3.9",
				Followers:        "abc",
				Genres:           "[rock, 'pop']",
				FirstRelease:     "nan",
				LastRelease:      "2020",
				NumReleases:      "-2",
				NumTracks:        "",
				PlaylistsFound:   "yes",
				FeatTrackIDs:     "[]",
			},
		},
	}
}

func TestApplyNormalizesFields(t *testing.T) {
	got, warns := Apply(fullBatch(), 1)
	if len(warns) != 0 {
		t.Fatalf("warnings: got %#v want none", warns)
	}
	want := []records.Artist{{
		Dates:            "2024-04-13",
		IDs:              "1",
		Names:            "THE BAND",
		MonthlyListeners: 100,
		Popularity:       3,
		Followers:        0,
		Genres:           []string{"rock", "pop"},
		FirstRelease:     "",
		LastRelease:      "2020",
		NumReleases:      -2,
		NumTracks:        0,
		PlaylistsFound:   "yes",
		FeatTrackIDs:     []string{},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply: got %#v want %#v", got, want)
	}
}

func TestApplyWarnsOnDateFallback(t *testing.T) {
	b := records.Batch{
		Columns: []string{records.ColIDs, records.ColDates},
		Header:  []string{"ids", "dates"},
		Rows: []records.Raw{
			{Line: 2, IDs: "1", Dates: "2024-04-13"},
			{Line: 3, IDs: "2", Dates: "soon"},
			{Line: 4, IDs: "3", Dates: "tomorrow"},
		},
	}
	got, warns := Apply(b, 2)

	if got[0].Dates != "2024-04-13" {
		t.Fatalf("row 0 dates: got %q want 2024-04-13", got[0].Dates)
	}
	// Fallback keeps the raw value on the record.
	if got[1].Dates != "soon" || got[2].Dates != "tomorrow" {
		t.Fatalf("fallback dates: got %q, %q", got[1].Dates, got[2].Dates)
	}
	want := []Warning{
		{Line: 3, Field: records.ColDates, Value: "soon"},
		{Line: 4, Field: records.ColDates, Value: "tomorrow"},
	}
	if !reflect.DeepEqual(warns, want) {
		t.Fatalf("warnings: got %#v want %#v", warns, want)
	}
}

func TestApplyAbsentColumnsDefault(t *testing.T) {
	b := records.Batch{
		Columns: []string{records.ColIDs},
		Header:  []string{"ids"},
		Rows:    []records.Raw{{Line: 2, IDs: "9"}},
	}
	got, warns := Apply(b, 1)
	if len(warns) != 0 {
		t.Fatalf("warnings: got %#v want none", warns)
	}
	a := got[0]
	if a.IDs != "9" || a.Dates != "" || a.Names != "" || a.MonthlyListeners != 0 {
		t.Fatalf("defaults: got %#v", a)
	}
	// Array fields must be empty slices, not nil, so JSON emits [].
	if a.Genres == nil || a.FeatTrackIDs == nil {
		t.Fatalf("array fields nil: %#v", a)
	}
	if len(a.Genres) != 0 || len(a.FeatTrackIDs) != 0 {
		t.Fatalf("array fields not empty: %#v", a)
	}
}

func TestApplyOrderStableAcrossWorkers(t *testing.T) {
	b := records.Batch{
		Columns: []string{records.ColIDs, records.ColDates},
		Header:  []string{"ids", "dates"},
	}
	for i := 0; i < 200; i++ {
		d := "13/04/2024"
		if i%7 == 0 {
			d = "junk"
		}
		b.Rows = append(b.Rows, records.Raw{Line: i + 2, IDs: string(rune('a' + i%26)), Dates: d})
	}

	serial, serialWarns := Apply(b, 1)
	parallel, parallelWarns := Apply(b, 8)

	if !reflect.DeepEqual(serial, parallel) {
		t.Fatalf("parallel output differs from serial output")
	}
	if !reflect.DeepEqual(serialWarns, parallelWarns) {
		t.Fatalf("parallel warnings differ: got %#v want %#v", parallelWarns, serialWarns)
	}
}

func TestApplyEmptyBatch(t *testing.T) {
	got, warns := Apply(records.Batch{Columns: records.Schema}, 4)
	if got == nil {
		t.Fatalf("Apply returned nil slice for empty batch")
	}
	if len(got) != 0 || len(warns) != 0 {
		t.Fatalf("empty batch: got %d records, %d warnings", len(got), len(warns))
	}
}
