package source

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/locseed/internal/model"
)

// Named header columns shared by the TaggedCSV and Spreadsheet formats.
const (
	colPostalCode       = "postal_code"
	colPlaceName        = "place_name"
	colMunicipality     = "municipality"
	colCounty           = "county"
	colMunicipalityCode = "municipality_code"
	colCountyCode       = "county_code"
)

// delimitedMinFields is the number of fields a delimited line needs to count.
const delimitedMinFields = 4

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse converts a raw source document into normalized records. Malformed
// rows are skipped silently; only an unreadable document is an error, and it
// is always a *ParseError.
func Parse(content []byte, format Format, charset string) ([]model.LocationRecord, error) {
	var (
		records []model.LocationRecord
		err     error
	)

	if f, ferr := ParseFormat(string(format)); ferr == nil {
		format = f
	}

	switch format {
	case Delimited, TaggedCSV:
		text, derr := decode(content, charset)
		if derr != nil {
			return nil, &ParseError{Format: format, Err: derr}
		}
		if format == Delimited {
			records = parseDelimited(text)
		} else {
			records, err = parseTaggedCSV(text)
		}
	case Spreadsheet:
		records, err = parseSpreadsheet(content)
	default:
		err = eris.Errorf("unsupported format %q", format)
	}

	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	return records, nil
}

// decode turns the body into UTF-8 text. Without a charset the body must
// already be valid UTF-8.
func decode(content []byte, charset string) (string, error) {
	cs := strings.ToLower(strings.TrimSpace(charset))
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		content = bytes.TrimPrefix(content, utf8BOM)
		if !utf8.Valid(content) {
			return "", eris.New("body is not valid UTF-8")
		}
		return string(content), nil
	}

	enc, err := htmlindex.Get(cs)
	if err != nil {
		return "", eris.Wrapf(err, "unsupported charset %q", charset)
	}
	out, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return "", eris.Wrapf(err, "decode %s", charset)
	}
	return string(bytes.TrimPrefix(out, utf8BOM)), nil
}

// parseDelimited reads the register layout: one header line, then
// postal code, place, municipality and county per line.
func parseDelimited(text string) []model.LocationRecord {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	var records []model.LocationRecord
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		sep := ";"
		if strings.Contains(line, "\t") {
			sep = "\t"
		}
		parts := strings.Split(line, sep)
		if len(parts) < delimitedMinFields {
			continue
		}

		records = append(records, model.NewStreetAddress(
			parts[0],
			parts[1],
			parts[2],
			parts[3],
			"",
			"",
		))
	}
	return records
}

func parseTaggedCSV(text string) ([]model.LocationRecord, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "read CSV header")
	}
	colIdx := mapColumns(header)

	var records []model.LocationRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		records = append(records, recordFromColumns(row, colIdx))
	}
	return records, nil
}

func parseSpreadsheet(content []byte) ([]model.LocationRecord, error) {
	wb, err := xlsx.OpenBinary(content)
	if err != nil {
		return nil, eris.Wrap(err, "open workbook")
	}
	if len(wb.Sheets) == 0 {
		return nil, eris.New("workbook has no sheets")
	}

	sheet := wb.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	colIdx := mapColumns(rowToStrings(sheet.Rows[0]))

	var records []model.LocationRecord
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		if isBlank(cells) {
			continue
		}
		records = append(records, recordFromColumns(cells, colIdx))
	}
	return records, nil
}

func recordFromColumns(row []string, colIdx map[string]int) model.LocationRecord {
	return model.NewStreetAddress(
		getCol(row, colIdx, colPostalCode),
		getCol(row, colIdx, colPlaceName),
		getCol(row, colIdx, colMunicipality),
		getCol(row, colIdx, colCounty),
		getCol(row, colIdx, colMunicipalityCode),
		getCol(row, colIdx, colCountyCode),
	)
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name, returning empty string if not found.
func getCol(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
