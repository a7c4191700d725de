// Package report prints human-readable progress for a seeding run.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/sells-group/locseed/internal/loader"
)

// Reporter writes one line per event. It satisfies source.Observer and
// loader.Observer.
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
}

// New creates a Reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// Start announces the run.
func (r *Reporter) Start() {
	r.printf("Fetching Norwegian postal codes...")
}

// SourceStarted announces a download attempt.
func (r *Reporter) SourceStarted(name string) {
	r.printf("Trying source: %s", name)
}

// SourceFailed reports a source that could not be fetched or parsed.
func (r *Reporter) SourceFailed(name string, err error) {
	r.printf("Failed to fetch from %s: %v", name, err)
}

// SourceEmpty reports a source that parsed to zero records.
func (r *Reporter) SourceEmpty(name string) {
	r.printf("Source %s returned no records", name)
}

// SourceSucceeded reports the winning source and its record count.
func (r *Reporter) SourceSucceeded(name string, records int) {
	r.printf("Parsed %d records from %s", records, name)
}

// FallbackUsed reports that the built-in catalog replaced the remote sources.
func (r *Reporter) FallbackUsed(records int) {
	r.printf("Using fallback catalog of %d Norwegian cities", records)
}

// Loading announces the batch size before the load transaction opens.
func (r *Reporter) Loading(records int) {
	r.printf("Populating database with %d records...", records)
}

// Clearing announces the delete of existing rows.
func (r *Reporter) Clearing(table string) {
	r.printf("Clearing existing rows from %s...", table)
}

// Progress reports the running insert count.
func (r *Reporter) Progress(inserted int) {
	r.printf("Inserted %d records...", inserted)
}

// RowFailed reports a rejected row. The load continues.
func (r *Reporter) RowFailed(err *loader.InsertRowError) {
	r.printf("Error inserting record %s: %v", err.Record.Label(), err.Err)
}

// DryRun reports a run that skipped the database.
func (r *Reporter) DryRun(source string, records int) {
	r.printf("Dry run: %d records from %s, database untouched", records, source)
}

// Summary prints the totals of a committed load.
func (r *Reporter) Summary(res *loader.LoadResult) {
	r.printf("Successfully inserted %d Norwegian location records!", res.Inserted)
	if res.Failed > 0 {
		r.printf("Skipped %d records that the database rejected", res.Failed)
	}
	if res.Summary == nil {
		r.printf("Summary: unavailable")
		return
	}
	r.printf("Summary:")
	r.printf("- Total records: %d", res.Summary.Records)
	r.printf("- Unique cities: %d", res.Summary.Places)
	r.printf("- Unique counties: %d", res.Summary.Counties)
}

// Done closes a successful run.
func (r *Reporter) Done() {
	r.printf("Norwegian location seeding completed successfully!")
}
