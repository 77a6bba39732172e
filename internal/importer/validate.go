package importer

import (
	"math"
	"strconv"
	"strings"
)

// Column headers the import file must carry for a row to be usable.
const (
	columnConstituencyID    = "constituency_id"
	columnBoothNo           = "booth_no"
	columnVillageName       = "village_name"
	columnYear              = "year"
	columnPollingPercentage = "polling_percentage"
	columnPartyPercentage   = "party_percentage"
)

// ImportRow is the validated shape a raw spreadsheet row must match before
// processing continues. It is transient and never persisted.
type ImportRow struct {
	ConstituencyID    int
	BoothNo           int
	VillageName       string
	Year              int
	PollingPercentage float64
	PartyPercentage   float64
}

// ValidateRow type-checks and coerces one raw row. A row is accepted only if
// constituency_id, booth_no, and year are all present and integer-valued;
// every other field is optional and defaults to its zero value. A rejected
// row is a counted skip, never an error.
func ValidateRow(row RawRow) (ImportRow, bool) {
	constituencyID, ok := intValue(row[columnConstituencyID])
	if !ok {
		return ImportRow{}, false
	}
	boothNo, ok := intValue(row[columnBoothNo])
	if !ok {
		return ImportRow{}, false
	}
	year, ok := intValue(row[columnYear])
	if !ok {
		return ImportRow{}, false
	}

	villageName, _ := stringValue(row[columnVillageName])
	pollingPercentage, _ := floatValue(row[columnPollingPercentage])
	partyPercentage, _ := floatValue(row[columnPartyPercentage])

	return ImportRow{
		ConstituencyID:    constituencyID,
		BoothNo:           boothNo,
		VillageName:       villageName,
		Year:              year,
		PollingPercentage: pollingPercentage,
		PartyPercentage:   partyPercentage,
	}, true
}

// intValue coerces a cell to an integer. Floats qualify only when they carry
// no fractional part; numeric strings are accepted the way the loosely-typed
// source data demands.
func intValue(v any) (int, bool) {
	switch value := v.(type) {
	case int:
		return value, true
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n, true
		}
		// Spreadsheet exports often render integers as "5.0"
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == math.Trunc(f) {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func floatValue(v any) (float64, bool) {
	switch value := v.(type) {
	case int:
		return float64(value), true
	case float64:
		return value, true
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringValue(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}
