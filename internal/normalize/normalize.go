package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"housing_filters/internal/housing"

	"github.com/rs/zerolog/log"
)

// Options controls how a fetched table is read.
type Options struct {
	// HeaderRow is the 0-based index of the header row in the fetched values.
	HeaderRow int
	// HeaderOffset is added to a row index to get the spreadsheet row number.
	HeaderOffset int
	Headers      HeaderTable
}

type column struct {
	index int
	field string
}

// Normalize turns raw sheet values into normalized rows, in source order.
// Rows without a guest count are dropped.
func Normalize(values [][]interface{}, opts Options) ([]housing.NormalizedRow, error) {
	if len(values) == 0 {
		return nil, housing.ErrEmptySource
	}
	if opts.HeaderRow < 0 || opts.HeaderRow >= len(values) {
		return nil, fmt.Errorf("header row %d not present in %d rows: %w", opts.HeaderRow, len(values), housing.ErrEmptySource)
	}
	if opts.Headers == nil {
		opts.Headers = NeedHeaders()
	}

	columns := resolveColumns(values[opts.HeaderRow], opts.Headers)

	var rows []housing.NormalizedRow
	dropped := 0
	for k := opts.HeaderRow + 1; k < len(values); k++ {
		fields := extractFields(values[k], columns)
		if strings.TrimSpace(fields[FieldGuests]) == "" {
			dropped++
			log.Debug().
				Int("row", k+1).
				Str("full_name", fields[FieldFullName]).
				Msg("Skipping row without number of guests")
			continue
		}
		rows = append(rows, buildRow(k+1-opts.HeaderOffset, fields))
	}

	log.Debug().
		Int("total_rows", len(values)-opts.HeaderRow-1).
		Int("normalized", len(rows)).
		Int("dropped", dropped).
		Msg("Normalized sheet rows")
	return rows, nil
}

// resolveColumns maps header cells to canonical fields. When two headers
// resolve to the same field only the first column is kept.
func resolveColumns(header []interface{}, table HeaderTable) []column {
	seen := make(map[string]bool, len(header))
	columns := make([]column, 0, len(header))
	for j, cell := range header {
		field := table.Canonical(CellString(cell))
		if seen[field] {
			log.Debug().
				Int("column", j).
				Str("field", field).
				Msg("Dropping duplicate column")
			continue
		}
		seen[field] = true
		columns = append(columns, column{index: j, field: field})
	}
	return columns
}

func extractFields(row []interface{}, columns []column) map[string]string {
	fields := make(map[string]string, len(columns))
	for _, c := range columns {
		v := ""
		if c.index < len(row) {
			v = CellString(row[c.index])
		}
		if strings.TrimSpace(v) == housing.CoupleToken {
			v = housing.CoupleCount
		}
		fields[c.field] = v
	}
	return fields
}

func buildRow(rowIndex int, fields map[string]string) housing.NormalizedRow {
	return housing.NormalizedRow{
		RowIndex:       rowIndex,
		FullName:       strings.TrimSpace(fields[FieldFullName]),
		NumberOfGuests: strings.TrimSpace(fields[FieldGuests]),
		Kosher:         housing.ParseFlag(fields[FieldKosher]),
		Pets:           housing.ParseFlag(fields[FieldPets]),
		MamadRequired:  housing.ParseFlag(fields[FieldMamad]),
		Accessible:     strings.TrimSpace(fields[FieldAccessible]),
		RequestStatus:  strings.TrimSpace(fields[FieldRequestStatus]),
		Treatment:      strings.TrimSpace(fields[FieldTreatment]),
		Fields:         fields,
	}
}

// InScope keeps the rows whose request status is empty or contains one of
// the open statuses.
func InScope(rows []housing.NormalizedRow, openStatuses []string) []housing.NormalizedRow {
	out := make([]housing.NormalizedRow, 0, len(rows))
	for _, row := range rows {
		if isOpen(row.RequestStatus, openStatuses) {
			out = append(out, row)
		}
	}
	log.Debug().
		Int("rows", len(rows)).
		Int("in_scope", len(out)).
		Msg("Filtered rows by request status")
	return out
}

func isOpen(status string, openStatuses []string) bool {
	if status == "" {
		return true
	}
	for _, open := range openStatuses {
		if open != "" && strings.Contains(status, open) {
			return true
		}
	}
	return false
}

// CellString renders a sheet cell as text. Numbers are written without a
// trailing fraction so that 2.0 reads as "2".
func CellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
