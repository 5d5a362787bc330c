package filters

import (
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Kind selects how a criterion compares a cell.
type Kind int

const (
	Contains Kind = iota + 1
	NotContains
	Equals
	GreaterOrEqual
	HiddenValues
	Blank
)

var conditionTypes = map[Kind]string{
	Contains:       "TEXT_CONTAINS",
	NotContains:    "TEXT_NOT_CONTAINS",
	Equals:         "TEXT_EQ",
	GreaterOrEqual: "NUMBER_GREATER_THAN_EQ",
	Blank:          "BLANK",
}

func (k Kind) String() string {
	if k == HiddenValues {
		return "HIDDEN_VALUES"
	}
	if t, ok := conditionTypes[k]; ok {
		return t
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Criterion is a single comparison scoped to one column.
type Criterion struct {
	Column int
	Kind   Kind
	Value  string
	Hidden []string
}

func NotContainsCriterion(column int, value string) Criterion {
	return Criterion{Column: column, Kind: NotContains, Value: value}
}

func ContainsCriterion(column int, value string) Criterion {
	return Criterion{Column: column, Kind: Contains, Value: value}
}

func EqualsCriterion(column int, value string) Criterion {
	return Criterion{Column: column, Kind: Equals, Value: value}
}

func GreaterOrEqualCriterion(column int, value string) Criterion {
	return Criterion{Column: column, Kind: GreaterOrEqual, Value: value}
}

func HiddenValuesCriterion(column int, hidden []string) Criterion {
	return Criterion{Column: column, Kind: HiddenValues, Hidden: append([]string(nil), hidden...)}
}

func BlankCriterion(column int) Criterion {
	return Criterion{Column: column, Kind: Blank}
}

func (c Criterion) validate() error {
	if c.Column < 0 {
		return fmt.Errorf("criterion column %d is negative", c.Column)
	}
	switch c.Kind {
	case Contains, NotContains, Equals, GreaterOrEqual, Blank:
		return nil
	case HiddenValues:
		if len(c.Hidden) == 0 {
			return fmt.Errorf("hidden values criterion on column %d has no values", c.Column)
		}
		return nil
	default:
		return fmt.Errorf("criterion on column %d has unknown kind %d", c.Column, int(c.Kind))
	}
}

// ToSheets converts the criterion to the Sheets API shape.
func (c Criterion) ToSheets() sheets.FilterCriteria {
	if c.Kind == HiddenValues {
		return sheets.FilterCriteria{HiddenValues: append([]string(nil), c.Hidden...)}
	}
	cond := &sheets.BooleanCondition{Type: conditionTypes[c.Kind]}
	if c.Kind != Blank {
		cond.Values = []*sheets.ConditionValue{{UserEnteredValue: c.Value}}
	}
	return sheets.FilterCriteria{Condition: cond}
}

// Matches reports whether a cell would stay visible under the criterion.
func (c Criterion) Matches(cell string) bool {
	cell = strings.TrimSpace(cell)
	switch c.Kind {
	case Contains:
		return strings.Contains(cell, c.Value)
	case NotContains:
		return !strings.Contains(cell, c.Value)
	case Equals:
		return cell == strings.TrimSpace(c.Value)
	case GreaterOrEqual:
		got, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return false
		}
		want, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
		if err != nil {
			return false
		}
		return got >= want
	case HiddenValues:
		for _, h := range c.Hidden {
			if cell == h {
				return false
			}
		}
		return true
	case Blank:
		return cell == ""
	default:
		return false
	}
}

// CriteriaSet holds at most one criterion per column, in insertion order.
type CriteriaSet struct {
	order []int
	byCol map[int]Criterion
}

func NewCriteriaSet() *CriteriaSet {
	return &CriteriaSet{byCol: make(map[int]Criterion)}
}

// Add inserts a criterion. A second criterion for the same column, or a
// malformed one, is a programming error and panics.
func (s *CriteriaSet) Add(c Criterion) {
	if err := c.validate(); err != nil {
		panic(fmt.Sprintf("filters: malformed criterion: %v", err))
	}
	if _, ok := s.byCol[c.Column]; ok {
		panic(fmt.Sprintf("filters: column %d already has a criterion", c.Column))
	}
	s.order = append(s.order, c.Column)
	s.byCol[c.Column] = c
}

// Replace inserts a criterion, overwriting any existing one for its column.
func (s *CriteriaSet) Replace(c Criterion) {
	if err := c.validate(); err != nil {
		panic(fmt.Sprintf("filters: malformed criterion: %v", err))
	}
	if _, ok := s.byCol[c.Column]; !ok {
		s.order = append(s.order, c.Column)
	}
	s.byCol[c.Column] = c
}

func (s *CriteriaSet) Get(column int) (Criterion, bool) {
	c, ok := s.byCol[column]
	return c, ok
}

func (s *CriteriaSet) Len() int {
	return len(s.order)
}

// Criteria returns the criteria in insertion order.
func (s *CriteriaSet) Criteria() []Criterion {
	out := make([]Criterion, 0, len(s.order))
	for _, col := range s.order {
		out = append(out, s.byCol[col])
	}
	return out
}

func (s *CriteriaSet) Clone() *CriteriaSet {
	cp := NewCriteriaSet()
	for _, c := range s.Criteria() {
		cp.Add(c)
	}
	return cp
}

// Matches reports whether a row passes every criterion. Missing cells are
// treated as blank.
func (s *CriteriaSet) Matches(row []string) bool {
	for _, c := range s.Criteria() {
		cell := ""
		if c.Column < len(row) {
			cell = row[c.Column]
		}
		if !c.Matches(cell) {
			return false
		}
	}
	return true
}

// ToSheets returns the criteria keyed by column index, as the Sheets API
// expects them.
func (s *CriteriaSet) ToSheets() map[string]sheets.FilterCriteria {
	out := make(map[string]sheets.FilterCriteria, len(s.order))
	for _, c := range s.Criteria() {
		out[strconv.Itoa(c.Column)] = c.ToSheets()
	}
	return out
}
