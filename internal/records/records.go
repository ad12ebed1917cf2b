// Package records defines the typed row model for the cleansing job.
//
// The source CSV has a fixed, known column set, so rows are modeled as
// structs rather than maps:
//
//   - Raw holds a row exactly as read from the CSV: every cell a string,
//     plus the 1-based source line for diagnostics. The reject CSV export
//     and the dedup stage operate on Raw values.
//   - Artist holds a row after normalization: parsed dates, coerced
//     integers, split arrays. Field declaration order matches the JSON
//     export order, so encoding/json emits the document fields in the
//     contract order with no extra machinery.
//   - Batch groups rows with the column subset actually present in the
//     source file. Column presence is a property of the file, not of
//     individual rows; stages consult Batch.Columns before touching a
//     field.
package records

// Canonical column names. The CSV reader maps normalized header cells onto
// these; everything else in the program speaks canonical names only.
const (
	ColIDs              = "ids"
	ColDates            = "dates"
	ColNames            = "names"
	ColMonthlyListeners = "monthly_listeners"
	ColPopularity       = "popularity"
	ColFollowers        = "followers"
	ColGenres           = "genres"
	ColFirstRelease     = "first_release"
	ColLastRelease      = "last_release"
	ColNumReleases      = "num_releases"
	ColNumTracks        = "num_tracks"
	ColPlaylistsFound   = "playlists_found"
	ColFeatTrackIDs     = "feat_track_ids"
)

// RejectReasonColumn is appended to reject-table inserts only; it never
// appears in a Batch.
const RejectReasonColumn = "reject_reason"

// RejectReasonDuplicateID marks rows rejected by ids deduplication.
const RejectReasonDuplicateID = "Duplicate ID"

// Schema lists every recognized column. Order here is the conventional
// source order; a Batch carries the order actually seen in the file.
var Schema = []string{
	ColIDs,
	ColDates,
	ColNames,
	ColMonthlyListeners,
	ColPopularity,
	ColFollowers,
	ColGenres,
	ColFirstRelease,
	ColLastRelease,
	ColNumReleases,
	ColNumTracks,
	ColPlaylistsFound,
	ColFeatTrackIDs,
}

// Known reports whether col is part of the recognized schema.
func Known(col string) bool {
	for _, c := range Schema {
		if c == col {
			return true
		}
	}
	return false
}

// IntColumns are the columns coerced to integers during transformation.
var IntColumns = []string{
	ColMonthlyListeners,
	ColPopularity,
	ColFollowers,
	ColNumReleases,
	ColNumTracks,
}

// ArrayColumns are the columns parsed into string sequences.
var ArrayColumns = []string{ColGenres, ColFeatTrackIDs}

// ReleaseColumns are the columns with empty-like sentinel cleanup.
var ReleaseColumns = []string{ColFirstRelease, ColLastRelease}

// Raw is one source row before any transformation. All cells are kept as
// the strings the CSV reader produced. Line is the 1-based line number in
// the source file (the header is line 1).
type Raw struct {
	Line int

	IDs              string
	Dates            string
	Names            string
	MonthlyListeners string
	Popularity       string
	Followers        string
	Genres           string
	FirstRelease     string
	LastRelease      string
	NumReleases      string
	NumTracks        string
	PlaylistsFound   string
	FeatTrackIDs     string
}

// Cell returns the raw cell value for a canonical column name. Unknown
// columns return the empty string.
func (r Raw) Cell(col string) string {
	switch col {
	case ColIDs:
		return r.IDs
	case ColDates:
		return r.Dates
	case ColNames:
		return r.Names
	case ColMonthlyListeners:
		return r.MonthlyListeners
	case ColPopularity:
		return r.Popularity
	case ColFollowers:
		return r.Followers
	case ColGenres:
		return r.Genres
	case ColFirstRelease:
		return r.FirstRelease
	case ColLastRelease:
		return r.LastRelease
	case ColNumReleases:
		return r.NumReleases
	case ColNumTracks:
		return r.NumTracks
	case ColPlaylistsFound:
		return r.PlaylistsFound
	case ColFeatTrackIDs:
		return r.FeatTrackIDs
	}
	return ""
}

// SetCell stores a raw cell value under a canonical column name. Unknown
// columns are dropped silently; the reader filters them before this point.
func (r *Raw) SetCell(col, val string) {
	switch col {
	case ColIDs:
		r.IDs = val
	case ColDates:
		r.Dates = val
	case ColNames:
		r.Names = val
	case ColMonthlyListeners:
		r.MonthlyListeners = val
	case ColPopularity:
		r.Popularity = val
	case ColFollowers:
		r.Followers = val
	case ColGenres:
		r.Genres = val
	case ColFirstRelease:
		r.FirstRelease = val
	case ColLastRelease:
		r.LastRelease = val
	case ColNumReleases:
		r.NumReleases = val
	case ColNumTracks:
		r.NumTracks = val
	case ColPlaylistsFound:
		r.PlaylistsFound = val
	case ColFeatTrackIDs:
		r.FeatTrackIDs = val
	}
}

// Artist is one row after normalization. Declaration order is the JSON
// export field order; keep both in sync when the schema changes.
type Artist struct {
	Dates            string   `json:"dates"`
	IDs              string   `json:"ids"`
	Names            string   `json:"names"`
	MonthlyListeners int64    `json:"monthly_listeners"`
	Popularity       int64    `json:"popularity"`
	Followers        int64    `json:"followers"`
	Genres           []string `json:"genres"`
	FirstRelease     string   `json:"first_release"`
	LastRelease      string   `json:"last_release"`
	NumReleases      int64    `json:"num_releases"`
	NumTracks        int64    `json:"num_tracks"`
	PlaylistsFound   string   `json:"playlists_found"`
	FeatTrackIDs     []string `json:"feat_track_ids"`
}

// Value returns the typed value for a canonical column name, shaped for a
// database bind parameter: strings for text columns, int64 for numeric
// columns, []string for array columns. Unknown columns return nil.
func (a Artist) Value(col string) any {
	switch col {
	case ColIDs:
		return a.IDs
	case ColDates:
		return a.Dates
	case ColNames:
		return a.Names
	case ColMonthlyListeners:
		return a.MonthlyListeners
	case ColPopularity:
		return a.Popularity
	case ColFollowers:
		return a.Followers
	case ColGenres:
		return a.Genres
	case ColFirstRelease:
		return a.FirstRelease
	case ColLastRelease:
		return a.LastRelease
	case ColNumReleases:
		return a.NumReleases
	case ColNumTracks:
		return a.NumTracks
	case ColPlaylistsFound:
		return a.PlaylistsFound
	case ColFeatTrackIDs:
		return a.FeatTrackIDs
	}
	return nil
}

// Batch is an ordered set of raw rows sharing one column layout.
//
// Columns holds canonical names in source-file order and defines which
// fields of each Raw are meaningful. Header holds the original header
// spellings, index-aligned with Columns; the reject CSV export writes
// Header so the exported file matches the source file's own vocabulary.
type Batch struct {
	Columns []string
	Header  []string
	Rows    []Raw
}

// Has reports whether the batch's source file carried the given column.
func (b Batch) Has(col string) bool {
	for _, c := range b.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (b Batch) Len() int { return len(b.Rows) }

// Empty reports whether the batch has no rows.
func (b Batch) Empty() bool { return len(b.Rows) == 0 }
