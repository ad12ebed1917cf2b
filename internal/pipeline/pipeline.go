// Package pipeline orchestrates one cleansing run end to end: read the
// source CSV, split duplicate ids away from clean rows, normalize both
// partitions, insert them into their destination tables, export the
// transformed clean rows as JSON and the duplicates (as read, before any
// transformation) as CSV, then verify table counts.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/bintangfajarr/csv-data-cleansing/internal/config"
	"github.com/bintangfajarr/csv-data-cleansing/internal/datasource"
	"github.com/bintangfajarr/csv-data-cleansing/internal/datasource/file"
	"github.com/bintangfajarr/csv-data-cleansing/internal/export"
	"github.com/bintangfajarr/csv-data-cleansing/internal/metrics"
	csvparser "github.com/bintangfajarr/csv-data-cleansing/internal/parser/csv"
	"github.com/bintangfajarr/csv-data-cleansing/internal/records"
	"github.com/bintangfajarr/csv-data-cleansing/internal/storage"
	"github.com/bintangfajarr/csv-data-cleansing/internal/transform"
)

const (
	jobName        = "cleanse"
	runStampLayout = "20060102150405"

	// maxWarnSample caps how many unparsed-date warnings reach the log.
	maxWarnSample = 5
)

// Summary captures one run's tallies. On error it is valid up to the
// failing step.
type Summary struct {
	RowsRead      int
	CleanRows     int
	DuplicateRows int
	DateFallbacks int

	DataInserted   int64
	DataFailed     int64
	RejectInserted int64
	RejectFailed   int64

	// Verification counts read back from the database; a failing count is
	// reported as zero, never as an error.
	DataCount   int64
	RejectCount int64

	JSONFile   string
	CSVFile    string
	CSVWritten bool
}

// Pipeline wires a configured run. Construct with New; tests may replace
// source and openRepo before calling Run.
type Pipeline struct {
	cfg    *config.Config
	source datasource.Source
	stamp  string

	// openRepo is a seam for tests; the default goes through the storage
	// factory with the configured driver, DSN, and retry policy.
	openRepo func(ctx context.Context) (storage.Repository, error)
}

// New builds a Pipeline for cfg. The run stamp is fixed at construction
// so all export files of one run share it.
func New(cfg *config.Config) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		source: file.NewLocal(cfg.SourceCSV()),
		stamp:  time.Now().Format(runStampLayout),
	}
	p.openRepo = p.defaultOpenRepo
	return p
}

func (p *Pipeline) defaultOpenRepo(ctx context.Context) (storage.Repository, error) {
	dsn, err := p.cfg.DatabaseDSN()
	if err != nil {
		return nil, err
	}
	return storage.New(ctx, storage.Config{
		Kind: p.cfg.DBDriver,
		DSN:  dsn,
		Retry: storage.RetryPolicy{
			MaxAttempts: p.cfg.ConnectAttempts,
			Delay:       time.Duration(p.cfg.ConnectDelaySeconds) * time.Second,
		},
	})
}

// Run executes the whole job. The returned Summary is also populated on
// error, up to the step that failed.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	banner := strings.Repeat("=", 50)
	log.Println(banner)
	log.Println("Starting Data Cleansing Process")
	log.Println(banner)

	sum := &Summary{}

	log.Println("Step 1: Reading CSV file...")
	start := time.Now()
	batch, err := p.readSource(ctx)
	metrics.RecordStep(jobName, "read", err, time.Since(start))
	if err != nil {
		return sum, fmt.Errorf("read source: %w", err)
	}
	sum.RowsRead = batch.Len()
	metrics.RecordRows(jobName, "read", int64(batch.Len()))
	log.Printf("Successfully read CSV file: %s", p.cfg.SourceCSV())
	log.Printf("Total rows in CSV: %d", batch.Len())
	log.Printf("Columns: %v", batch.Columns)

	log.Println("Step 2: Cleaning data (removing duplicates)...")
	start = time.Now()
	clean, dup := transform.Partition(batch, records.ColIDs)
	metrics.RecordStep(jobName, "dedup", nil, time.Since(start))
	sum.CleanRows, sum.DuplicateRows = clean.Len(), dup.Len()
	metrics.RecordRows(jobName, "clean", int64(clean.Len()))
	metrics.RecordRows(jobName, "duplicate", int64(dup.Len()))
	log.Printf("Clean records: %d", clean.Len())
	log.Printf("Duplicate records: %d", dup.Len())

	log.Println("Step 3: Transforming data...")
	start = time.Now()
	cleanArtists, cleanWarns := p.transformBatch(clean)
	dupArtists, dupWarns := p.transformBatch(dup)
	metrics.RecordStep(jobName, "transform", nil, time.Since(start))
	logDateWarnings(cleanWarns)
	logDateWarnings(dupWarns)
	sum.DateFallbacks = len(cleanWarns) + len(dupWarns)
	metrics.RecordRows(jobName, "date_fallback", int64(sum.DateFallbacks))

	log.Println("Step 4: Inserting data to database...")
	start = time.Now()
	err = p.persist(ctx, batch.Columns, cleanArtists, dupArtists, sum)
	metrics.RecordStep(jobName, "persist", err, time.Since(start))
	if err != nil {
		return sum, fmt.Errorf("insert: %w", err)
	}

	// The duplicate export writes the rows as they were read, not the
	// transformed values that went into the reject table.
	log.Println("Step 5: Saving duplicate data to CSV...")
	sum.CSVFile = filepath.Join(p.cfg.TargetPath, fmt.Sprintf("data_reject_%s.csv", p.stamp))
	start = time.Now()
	var csvErr error
	if dup.Empty() {
		log.Println("No duplicate data to save")
	} else {
		csvErr = export.WriteCSV(sum.CSVFile, dup)
	}
	metrics.RecordStep(jobName, "export_csv", csvErr, time.Since(start))
	if csvErr != nil {
		return sum, fmt.Errorf("save duplicates csv: %w", csvErr)
	}
	if !dup.Empty() {
		sum.CSVWritten = true
		log.Printf("CSV file saved: %s", sum.CSVFile)
	}

	log.Println("Step 6: Saving clean data to JSON...")
	sum.JSONFile = filepath.Join(p.cfg.TargetPath, fmt.Sprintf("data_%s.json", p.stamp))
	start = time.Now()
	err = export.WriteJSON(sum.JSONFile, cleanArtists)
	metrics.RecordStep(jobName, "export_json", err, time.Since(start))
	if err != nil {
		return sum, fmt.Errorf("save clean json: %w", err)
	}
	log.Printf("JSON file saved: %s", sum.JSONFile)

	log.Println("Step 7: Verifying database records...")
	start = time.Now()
	sum.DataCount = p.tableCount(ctx, p.cfg.DataTable)
	sum.RejectCount = p.tableCount(ctx, p.cfg.RejectTable)
	metrics.RecordStep(jobName, "verify", nil, time.Since(start))

	log.Println(banner)
	log.Println("Process Completed Successfully!")
	log.Printf("Clean records in database: %d", sum.DataCount)
	log.Printf("Duplicate records in database: %d", sum.RejectCount)
	log.Printf("JSON file: %s", sum.JSONFile)
	log.Printf("CSV file: %s", sum.CSVFile)
	if sum.DateFallbacks > 0 {
		log.Printf("Unparsed dates kept as-is: %d", sum.DateFallbacks)
	}
	log.Println(banner)

	return sum, nil
}

func (p *Pipeline) readSource(ctx context.Context) (records.Batch, error) {
	rc, err := p.source.Open(ctx)
	if err != nil {
		return records.Batch{}, err
	}
	defer rc.Close()

	parser := csvparser.NewParser(csvparser.Options{})
	return parser.Parse(rc)
}

// transformBatch normalizes one partition, with the date narration the
// operators grep for.
func (p *Pipeline) transformBatch(batch records.Batch) ([]records.Artist, []transform.Warning) {
	if batch.Has(records.ColDates) {
		log.Println("Transforming dates...")
	}
	artists, warns := transform.Apply(batch, p.cfg.TransformWorkers)
	if batch.Has(records.ColDates) {
		log.Printf("Sample dates after transformation: %v", sampleDates(artists, 3))
	}
	log.Println("Data transformation completed successfully")
	return artists, warns
}

func sampleDates(artists []records.Artist, n int) []string {
	if len(artists) < n {
		n = len(artists)
	}
	out := make([]string, 0, n)
	for _, a := range artists[:n] {
		out = append(out, a.Dates)
	}
	return out
}

func logDateWarnings(warns []transform.Warning) {
	for i, w := range warns {
		if i == maxWarnSample {
			log.Printf("... and %d more unparsed dates", len(warns)-maxWarnSample)
			return
		}
		log.Printf("Could not parse date: %q (line %d), keeping value as-is", w.Value, w.Line)
	}
}

// persist inserts both partitions through one repository: clean rows into
// the data table, transformed duplicates into the reject table with the
// reject_reason column appended. columns is the column set actually seen
// in the source; absent columns are not inserted.
func (p *Pipeline) persist(ctx context.Context, columns []string, clean, dup []records.Artist, sum *Summary) error {
	if len(clean) == 0 && len(dup) == 0 {
		log.Println("No records to insert")
		return nil
	}

	log.Printf("Connection details: driver=%s, host=%s, db=%s", p.cfg.DBDriver, p.cfg.DBHost, p.cfg.DBName)
	repo, err := p.openRepo(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	if p.cfg.AutoCreate {
		if err := storage.EnsureTables(ctx, p.cfg.DBDriver, repo, p.cfg.DataTable, p.cfg.RejectTable); err != nil {
			return fmt.Errorf("ensure tables: %w", err)
		}
	}

	if len(clean) > 0 {
		res, err := repo.InsertRows(ctx, p.cfg.DataTable, columns, artistRows(columns, clean, false))
		if err != nil {
			return err
		}
		sum.DataInserted, sum.DataFailed = res.Inserted, res.Failed
		metrics.RecordRows(jobName, "inserted", res.Inserted)
		metrics.RecordRows(jobName, "insert_failed", res.Failed)
		metrics.RecordBatches(jobName, 1)
		log.Printf("Successfully inserted %d rows into %s table", res.Inserted, p.cfg.DataTable)
		if res.Failed > 0 {
			log.Printf("Failed to insert %d rows", res.Failed)
		}
	}

	if len(dup) > 0 {
		rejectCols := append(append([]string{}, columns...), records.RejectReasonColumn)
		res, err := repo.InsertRows(ctx, p.cfg.RejectTable, rejectCols, artistRows(columns, dup, true))
		if err != nil {
			return err
		}
		sum.RejectInserted, sum.RejectFailed = res.Inserted, res.Failed
		metrics.RecordRows(jobName, "inserted", res.Inserted)
		metrics.RecordRows(jobName, "insert_failed", res.Failed)
		metrics.RecordBatches(jobName, 1)
		log.Printf("Successfully inserted %d rows into %s table", res.Inserted, p.cfg.RejectTable)
		if res.Failed > 0 {
			log.Printf("Failed to insert %d rows", res.Failed)
		}
	}

	return nil
}

// artistRows renders artists as positional rows aligned with columns.
// withReason appends the fixed duplicate-id reject reason to every row.
func artistRows(columns []string, artists []records.Artist, withReason bool) [][]any {
	rows := make([][]any, len(artists))
	for i, a := range artists {
		row := make([]any, 0, len(columns)+1)
		for _, col := range columns {
			row = append(row, a.Value(col))
		}
		if withReason {
			row = append(row, records.RejectReasonDuplicateID)
		}
		rows[i] = row
	}
	return rows
}

// tableCount mirrors the verification step's tolerance: any failure is
// logged and reported as zero.
func (p *Pipeline) tableCount(ctx context.Context, table string) int64 {
	repo, err := p.openRepo(ctx)
	if err != nil {
		log.Printf("Error getting table count: %v", err)
		return 0
	}
	defer repo.Close()

	n, err := repo.Count(ctx, table)
	if err != nil {
		log.Printf("Error getting table count: %v", err)
		return 0
	}
	return n
}
