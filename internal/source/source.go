// Package source acquires normalized location records from an ordered list of
// upstream providers, falling back to a compiled-in catalog.
package source

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Format identifies how a source document is laid out.
type Format string

const (
	// Delimited is a header line followed by tab- or semicolon-separated lines
	// (postal code, place, municipality, county).
	Delimited Format = "delimited"
	// TaggedCSV is comma-separated with a header naming each column.
	TaggedCSV Format = "csv"
	// Spreadsheet is an XLSX workbook whose first sheet has a named header row.
	Spreadsheet Format = "xlsx"
)

// String returns the config name of the format.
func (f Format) String() string { return string(f) }

// ParseFormat converts a config string into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delimited", "tsv", "txt":
		return Delimited, nil
	case "csv":
		return TaggedCSV, nil
	case "xlsx":
		return Spreadsheet, nil
	default:
		return "", eris.Errorf("source: unknown format %q (valid: delimited, csv, xlsx)", s)
	}
}

// Descriptor names one upstream provider.
type Descriptor struct {
	Name    string `yaml:"name" mapstructure:"name"`
	URL     string `yaml:"url" mapstructure:"url"`
	Format  Format `yaml:"format" mapstructure:"format"`
	Charset string `yaml:"charset,omitempty" mapstructure:"charset"` // empty means UTF-8
}

// Validate checks that the descriptor can be fetched and parsed.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return eris.New("source: descriptor has no name")
	}
	if strings.TrimSpace(d.URL) == "" {
		return eris.Errorf("source: %s has no url", d.Name)
	}
	if _, err := ParseFormat(string(d.Format)); err != nil {
		return eris.Wrapf(err, "source: %s", d.Name)
	}
	return nil
}

// DefaultSources returns the upstream providers in priority order, most
// comprehensive first.
func DefaultSources() []Descriptor {
	return []Descriptor{
		{
			Name:    "PostNord CSV",
			URL:     "https://www.bring.no/postnummerregister-ansi.txt",
			Format:  Delimited,
			Charset: "windows-1252",
		},
		{
			Name:   "Alternative postal codes",
			URL:    "https://raw.githubusercontent.com/datasets/postal-codes-no/master/data/postal-codes-no.csv",
			Format: TaggedCSV,
		},
	}
}
