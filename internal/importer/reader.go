// Package importer implements the bulk election-result import and
// reconciliation pipeline: spreadsheet reading, row validation, reference
// resolution, and the idempotent upsert of booth results inside one
// transaction.
package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/senthilk/partybase/internal/errors"
	"github.com/xuri/excelize/v2"
)

// ErrMalformedFile indicates the uploaded bytes could not be parsed as a
// spreadsheet at all. Surfaces as HTTP 400; no transaction is opened.
var ErrMalformedFile = errors.NewStd("file cannot be parsed as a spreadsheet")

// Format identifies the tabular file format of an upload.
type Format int

const (
	FormatXLSX Format = iota
	FormatCSV
)

// DetectFormat picks the reader format from the upload's declared content
// type and filename. XLSX is the default when neither gives a clear answer.
func DetectFormat(filename, contentType string) Format {
	switch contentType {
	case "text/csv", "application/csv":
		return FormatCSV
	}
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// RawRow is one loosely-typed spreadsheet row: a mapping from column header
// to cell value. Values are nil, string, or float64; no coercion happens at
// the reader level.
type RawRow map[string]any

// ReadRows parses the uploaded bytes into an ordered sequence of raw rows.
// Only the first sheet is read. A missing or empty sheet yields an empty
// sequence; bytes that cannot be parsed at all yield ErrMalformedFile.
func ReadRows(r io.Reader, format Format) ([]RawRow, error) {
	switch format {
	case FormatCSV:
		return readCSVRows(r)
	default:
		return readXLSXRows(r)
	}
}

func readXLSXRows(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.New(ErrMalformedFile).
			Category(errors.CategoryFileParsing).
			Component("importer").
			Context("cause", err.Error()).
			Build()
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.New(ErrMalformedFile).
			Category(errors.CategoryFileParsing).
			Component("importer").
			Context("sheet", sheets[0]).
			Build()
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rowsFromRecords(rows[0], rows[1:]), nil
}

func readCSVRows(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New(ErrMalformedFile).
			Category(errors.CategoryFileParsing).
			Component("importer").
			Context("cause", err.Error()).
			Build()
	}
	if len(records) == 0 {
		return nil, nil
	}

	return rowsFromRecords(records[0], records[1:]), nil
}

// rowsFromRecords maps data records onto the header row. Cells past the
// header width are dropped; missing and empty cells stay absent so the
// validator sees them as nil.
func rowsFromRecords(header []string, records [][]string) []RawRow {
	rows := make([]RawRow, 0, len(records))
	for _, record := range records {
		row := make(RawRow, len(header))
		for i, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if i < len(record) && strings.TrimSpace(record[i]) != "" {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
