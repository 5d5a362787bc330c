// Package export builds static per-request tables pairing a need row with
// the give rows its filter view would show.
package export

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"housing_filters/internal/config"
	"housing_filters/internal/filters"
	"housing_filters/internal/housing"
	"housing_filters/internal/normalize"

	"github.com/rs/zerolog/log"
	"github.com/zeebo/xxh3"
	"google.golang.org/api/sheets/v4"
)

// needSummaryFields are copied from the need row into the table header block.
var needSummaryFields = []string{
	normalize.FieldFullName,
	normalize.FieldPhone,
	normalize.FieldOriginCity,
	normalize.FieldGuests,
	normalize.FieldKosher,
	normalize.FieldPets,
	normalize.FieldMamad,
	normalize.FieldAccessible,
	normalize.FieldNotesRequests,
	normalize.FieldTreatment,
}

// Table is a new sheet holding one need row and its candidate give rows.
type Table struct {
	title      string
	sheetID    int64
	cells      [][]string
	candidates int
}

func (t Table) Title() string { return t.title }

func (t Table) SheetID() int64 { return t.sheetID }

func (t Table) Candidates() int { return t.candidates }

func (t Table) Cells() [][]string {
	out := make([][]string, len(t.cells))
	for i, row := range t.cells {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Requests adds the sheet and fills it in one batch, so a title collision
// leaves nothing behind.
func (t Table) Requests() []*sheets.Request {
	rows := make([]*sheets.RowData, 0, len(t.cells))
	for _, line := range t.cells {
		values := make([]*sheets.CellData, 0, len(line))
		for _, cell := range line {
			v := cell
			values = append(values, &sheets.CellData{
				UserEnteredValue: &sheets.ExtendedValue{StringValue: &v},
			})
		}
		rows = append(rows, &sheets.RowData{Values: values})
	}
	return []*sheets.Request{
		{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					SheetId: t.sheetID,
					Title:   t.title,
				},
			},
		},
		{
			AppendCells: &sheets.AppendCellsRequest{
				SheetId: t.sheetID,
				Rows:    rows,
				Fields:  "userEnteredValue",
			},
		},
	}
}

// SheetID derives a stable, positive sheet id from a title.
func SheetID(title string) int64 {
	id := int64(xxh3.HashString(title) & 0x7fffffff)
	if id == 0 {
		id = 1
	}
	return id
}

// BuildTables returns one table per need row, in row order. give is the raw
// give sheet; its header is the row at layout.GiveStartRow.
func BuildTables(rows []housing.NormalizedRow, give [][]interface{}, layout config.Layout) []Table {
	header, candidates := splitGive(give, int(layout.GiveStartRow))
	sortKeys := []filters.SortKey{{Column: layout.GiveGuests}, {Column: layout.GiveKosher}}

	tables := make([]Table, 0, len(rows))
	for _, row := range rows {
		preds := filters.BuildPredicates(row, layout)
		var matched [][]string
		for _, c := range candidates {
			if preds.Matches(c) {
				matched = append(matched, c)
			}
		}
		sortRows(matched, sortKeys)

		title := row.Title(layout.HeaderOffset)
		cells := needBlock(row)
		cells = append(cells, []string{})
		cells = append(cells, header)
		cells = append(cells, matched...)

		log.Debug().
			Str("title", title).
			Int("candidates", len(matched)).
			Msg("Built export table")
		tables = append(tables, Table{
			title:      title,
			sheetID:    SheetID(title),
			cells:      cells,
			candidates: len(matched),
		})
	}
	return tables
}

func splitGive(give [][]interface{}, headerRow int) ([]string, [][]string) {
	if headerRow < 0 || headerRow >= len(give) {
		return nil, nil
	}
	header := stringRow(give[headerRow])
	rows := make([][]string, 0, len(give)-headerRow-1)
	for _, raw := range give[headerRow+1:] {
		rows = append(rows, stringRow(raw))
	}
	return header, rows
}

func stringRow(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, cell := range raw {
		out[i] = normalize.CellString(cell)
	}
	return out
}

func needBlock(row housing.NormalizedRow) [][]string {
	block := make([][]string, 0, len(needSummaryFields))
	for _, field := range needSummaryFields {
		if v, ok := row.Fields[field]; ok {
			block = append(block, []string{field, v})
		}
	}
	if len(block) == 0 {
		block = append(block, []string{normalize.FieldFullName, row.FullName})
	}
	return block
}

// sortRows orders rows the way the filter view's sort spec would.
func sortRows(rows [][]string, keys []filters.SortKey) {
	slices.SortStableFunc(rows, func(a, b []string) int {
		for _, k := range keys {
			c := compareCells(cellAt(a, k.Column), cellAt(b, k.Column))
			if k.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// compareCells puts numbers before text and blanks last.
func compareCells(a, b string) int {
	if a == "" || b == "" {
		switch {
		case a == b:
			return 0
		case a == "":
			return 1
		default:
			return -1
		}
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(fa, fb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
