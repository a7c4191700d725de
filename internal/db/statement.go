package db

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Placeholder renders the bind parameter for the 1-based position i.
type Placeholder func(i int) string

// Dollar renders Postgres-style $1, $2, ... placeholders.
func Dollar(i int) string { return fmt.Sprintf("$%d", i) }

// Question renders SQLite-style ? placeholders.
func Question(int) string { return "?" }

// InsertSQL builds a single-row INSERT for table and columns.
func InsertSQL(table string, columns []string, ph Placeholder) string {
	params := make([]string, len(columns))
	for i := range columns {
		params[i] = ph(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		SanitizeTable(table),
		QuoteAndJoin(columns),
		strings.Join(params, ", "),
	)
}

// DeleteAllSQL builds an unfiltered DELETE for table.
func DeleteAllSQL(table string) string {
	return "DELETE FROM " + SanitizeTable(table)
}

// SummarySQL builds the read-back aggregate over table: total rows, distinct
// place names and distinct county names.
func SummarySQL(table string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*), COUNT(DISTINCT %s), COUNT(DISTINCT %s) FROM %s",
		pgx.Identifier{"place_name"}.Sanitize(),
		pgx.Identifier{"county_name"}.Sanitize(),
		SanitizeTable(table),
	)
}

// SanitizeTable handles schema-qualified table names like "public.norwegian_locations".
func SanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// QuoteAndJoin quotes each column name and joins with commas.
func QuoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
