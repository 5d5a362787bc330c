package normalize

import (
	"errors"
	"testing"

	"housing_filters/internal/housing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptions = Options{HeaderRow: 1, HeaderOffset: 2, Headers: NeedHeaders()}

func header() []interface{} {
	return []interface{}{
		"חותמת זמן",
		`"שם מלא"`,
		"מה מספר אורחים שצריכים מקום? ",
		"האם שומרי כשרות?",
		"האם יש בעח שבאים איתכם ?",
		"האם יש בעח  שבאים איתכם ?",
		"מצב הבקשה",
		"בטיפול של מי?",
		"עמודה חדשה",
	}
}

func TestNormalizeBasicRow(t *testing.T) {
	values := [][]interface{}{
		{"banner"},
		header(),
		{"1/1/2024", "דוד לוי", 3.0, "כן", "לא", "כן", "", "רותי", "x"},
	}

	rows, err := Normalize(values, testOptions)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 1, row.RowIndex)
	assert.Equal(t, "3_דוד לוי", row.Title(2))
	assert.Equal(t, "3", row.NumberOfGuests)
	assert.Equal(t, housing.Affirmative, row.Kosher)
	assert.Equal(t, housing.Negative, row.Pets, "first pets column wins")
	assert.Equal(t, housing.Unspecified, row.MamadRequired)
	assert.Equal(t, "רותי", row.Treatment)
	assert.Equal(t, "x", row.Fields["עמודה חדשה"], "unmapped columns pass through")
}

func TestNormalizeReplacesCouple(t *testing.T) {
	values := [][]interface{}{
		{"banner"},
		header(),
		{"", "זוג צעיר", "זוג", "", "", "", "", "", ""},
	}

	rows, err := Normalize(values, testOptions)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].NumberOfGuests)
	assert.Equal(t, "זוג צעיר", rows[0].FullName, "only whole cells are replaced")
	assert.Equal(t, housing.Unspecified, rows[0].Kosher)
}

func TestNormalizeDropsMissingGuests(t *testing.T) {
	values := [][]interface{}{
		{"banner"},
		header(),
		{"", "אין אורחים", nil, "כן"},
		{"", "ריק", "", "כן"},
		{"", "קצר"},
		{"", "יש", "4"},
	}

	rows, err := Normalize(values, testOptions)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "יש", rows[0].FullName)
	assert.Equal(t, 4, rows[0].RowIndex, "row index keeps source position")
}

func TestNormalizeEmptySource(t *testing.T) {
	_, err := Normalize(nil, testOptions)
	assert.True(t, errors.Is(err, housing.ErrEmptySource))

	_, err = Normalize([][]interface{}{{"banner"}}, testOptions)
	assert.True(t, errors.Is(err, housing.ErrEmptySource))
}

func TestNormalizeIsDeterministic(t *testing.T) {
	values := [][]interface{}{
		{"banner"},
		header(),
		{"", "א", "1", "לא"},
		{"", "ב", "2", ""},
		{"", "ג", "3", "כן"},
	}
	first, err := Normalize(values, testOptions)
	require.NoError(t, err)
	second, err := Normalize(values, testOptions)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInScope(t *testing.T) {
	rows := []housing.NormalizedRow{
		{RowIndex: 1, FullName: "open", RequestStatus: ""},
		{RowIndex: 2, FullName: "treated", RequestStatus: housing.StatusInTreatment},
		{RowIndex: 3, FullName: "assigned", RequestStatus: housing.StatusAssigned},
		{RowIndex: 4, FullName: "treated-note", RequestStatus: "בטיפול - ממתין"},
	}

	got := InScope(rows, housing.OpenStatuses)
	names := make([]string, 0, len(got))
	for _, r := range got {
		names = append(names, r.FullName)
	}
	assert.Equal(t, []string{"open", "treated", "treated-note"}, names)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "2", CellString(2.0))
	assert.Equal(t, "2.5", CellString(2.5))
	assert.Equal(t, "7", CellString(7))
	assert.Equal(t, "true", CellString(true))
	assert.Equal(t, "abc", CellString("abc"))
}

func TestHeaderTableCanonical(t *testing.T) {
	table := NeedHeaders()
	assert.Equal(t, FieldGuests, table.Canonical("מה מספר אורחים שצריכים מקום?"))
	assert.Equal(t, FieldFullName, table.Canonical(`"שם מלא"`))
	assert.Equal(t, "something else", table.Canonical("something   else"))
}
