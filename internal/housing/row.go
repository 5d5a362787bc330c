package housing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySource is returned when a fetched table has no rows at all.
var ErrEmptySource = errors.New("source table is empty")

// Flag is the three-valued answer to a yes/no form question.
type Flag int

const (
	Unspecified Flag = iota
	Negative
	Affirmative
)

func (f Flag) String() string {
	switch f {
	case Negative:
		return "negative"
	case Affirmative:
		return "affirmative"
	default:
		return "unspecified"
	}
}

// ParseFlag maps a raw cell to a Flag. "לא" is negative, an empty cell is
// unspecified and anything else counts as affirmative.
func ParseFlag(raw string) Flag {
	v := strings.TrimSpace(raw)
	switch v {
	case "":
		return Unspecified
	case NegativeToken:
		return Negative
	default:
		return Affirmative
	}
}

// NormalizedRow is one cleaned housing request (or offer) row.
type NormalizedRow struct {
	RowIndex       int
	FullName       string
	NumberOfGuests string
	Kosher         Flag
	Pets           Flag
	MamadRequired  Flag
	Accessible     string
	RequestStatus  string
	Treatment      string

	// Fields holds every canonical column by name, including the ones above,
	// in their cleaned string form.
	Fields map[string]string
}

// RowNumber is the 1-based spreadsheet row the record came from.
func (r NormalizedRow) RowNumber(headerOffset int) int {
	return r.RowIndex + headerOffset
}

// Title is the filter view name for the row, unique within a spreadsheet.
func (r NormalizedRow) Title(headerOffset int) string {
	return fmt.Sprintf("%d_%s", r.RowNumber(headerOffset), r.FullName)
}
