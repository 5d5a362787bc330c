package processing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"housing_filters/internal/config"
	"housing_filters/internal/filters"
	"housing_filters/internal/housing"
	"housing_filters/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

var layout = config.DefaultLayout

// fakeSheet records submitted requests. Titles are unique like real filter
// views: a second add with the same title is rejected.
type fakeSheet struct {
	submitted [][]*sheets.Request
	titles    map[string]bool
	failOn    map[string]error
}

func newFakeSheet() *fakeSheet {
	return &fakeSheet{titles: make(map[string]bool), failOn: make(map[string]error)}
}

func (f *fakeSheet) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	f.submitted = append(f.submitted, requests)
	title := requestTitle(requests)
	if err, ok := f.failOn[title]; ok {
		return err
	}
	if f.titles[title] {
		return collisionError(title)
	}
	f.titles[title] = true
	return nil
}

func requestTitle(requests []*sheets.Request) string {
	for _, r := range requests {
		if r.AddFilterView != nil {
			return r.AddFilterView.Filter.Title
		}
		if r.AddSheet != nil {
			return r.AddSheet.Properties.Title
		}
	}
	return ""
}

func collisionError(title string) error {
	return fmt.Errorf("failed to batch update: %w", &googleapi.Error{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("Invalid requests[0].addFilterView: תצוגת סינון בשם %q כבר קיימת. יש להזין שם אחר.", title),
	})
}

type countingLimiter struct{ waits int }

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.waits++
	return nil
}

func need(index int, name string, kosher housing.Flag) housing.NormalizedRow {
	return housing.NormalizedRow{RowIndex: index, FullName: name, NumberOfGuests: "2", Kosher: kosher}
}

func giveRange() filters.Range {
	return filters.Range{SheetID: layout.GiveSheetID, StartRowIndex: 1}
}

func TestApplyIsIdempotentAtReportLevel(t *testing.T) {
	sheet := newFakeSheet()
	a := NewApplier(sheet, "give", ratelimit.Unlimited())
	row := need(5, "דוד לוי", housing.Affirmative)
	req := filters.BuildRequest(giveRange(), row, filters.BuildPredicates(row, layout), layout)

	first := a.Apply(context.Background(), req)
	second := a.Apply(context.Background(), req)

	assert.Equal(t, Success, first.Status)
	assert.Equal(t, DuplicateTitle, second.Status)
	assert.Equal(t, "7_דוד לוי", second.Title)
}

func TestCreateFiltersAllSucceed(t *testing.T) {
	sheet := newFakeSheet()
	limiter := &countingLimiter{}
	a := NewApplier(sheet, "give", limiter)
	rows := []housing.NormalizedRow{
		need(1, "כשר", housing.Affirmative),
		need(2, "לא כשר", housing.Negative),
		need(3, "לא ידוע", housing.Unspecified),
	}

	result := CreateFilters(context.Background(), a, rows, giveRange(), layout)

	assert.Empty(t, result.Errors)
	assert.Empty(t, result.AlreadyFiltered)
	assert.Equal(t, 3, result.Applied)
	assert.Equal(t, 3, limiter.waits)
	require.Len(t, sheet.submitted, 3)

	kosherKey := fmt.Sprint(layout.GiveKosher)
	criteria := func(i int) map[string]sheets.FilterCriteria {
		return sheet.submitted[i][0].AddFilterView.Filter.Criteria
	}
	assert.Equal(t, "TEXT_NOT_CONTAINS", criteria(0)[kosherKey].Condition.Type)
	assert.Equal(t, "TEXT_EQ", criteria(1)[kosherKey].Condition.Type)
	assert.Equal(t, "לא", criteria(1)[kosherKey].Condition.Values[0].UserEnteredValue)
	_, ok := criteria(2)[kosherKey]
	assert.False(t, ok)

	assert.Equal(t, "3_כשר", requestTitle(sheet.submitted[0]))
	assert.Equal(t, "5_לא ידוע", requestTitle(sheet.submitted[2]), "rows are submitted in table order")
}

func TestCreateFiltersClassifiesFailures(t *testing.T) {
	sheet := newFakeSheet()
	rows := []housing.NormalizedRow{
		need(1, "ראשון", housing.Affirmative),
		need(2, "שני", housing.Affirmative),
		need(3, "שלישי", housing.Affirmative),
		need(4, "רביעי", housing.Affirmative),
	}
	sheet.failOn["4_שני"] = collisionError("4_שני")
	sheet.failOn["5_שלישי"] = &googleapi.Error{Code: http.StatusInternalServerError, Message: "internal error"}

	a := NewApplier(sheet, "give", ratelimit.Unlimited())
	result := CreateFilters(context.Background(), a, rows, giveRange(), layout)

	assert.Equal(t, []string{"4_שני"}, result.AlreadyFiltered)
	assert.Equal(t, []Failure{{FullName: "שלישי", RowNumber: 5}}, result.Errors)
	assert.Equal(t, 4, result.Submitted, "a failing row does not stop the run")
	assert.Equal(t, 2, result.Applied)
}

func TestRunStopsOnCancellation(t *testing.T) {
	sheet := newFakeSheet()
	a := NewApplier(sheet, "give", ratelimit.Unlimited())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := CreateFilters(ctx, a, []housing.NormalizedRow{need(1, "א", housing.Affirmative)}, giveRange(), layout)
	assert.Equal(t, 0, result.Submitted)
	assert.Empty(t, sheet.submitted)
}

func TestApplyLimiterError(t *testing.T) {
	a := NewApplier(newFakeSheet(), "give", ratelimit.NewFixedRate(1<<40))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Limiter.Wait(ctx))
	cancel()

	row := need(1, "א", housing.Affirmative)
	out := a.Apply(ctx, filters.BuildRequest(giveRange(), row, filters.BuildPredicates(row, layout), layout))
	assert.Equal(t, HardError, out.Status)
	assert.Error(t, out.Err)
}

func TestIsTitleCollision(t *testing.T) {
	assert.False(t, IsTitleCollision(nil, DefaultCollisionMarkers))
	assert.True(t, IsTitleCollision(collisionError("x"), DefaultCollisionMarkers))
	assert.True(t, IsTitleCollision(&googleapi.Error{Code: 400, Body: `{"error":{"message":"A sheet with the name \"x\" already exists."}}`}, DefaultCollisionMarkers))
	assert.False(t, IsTitleCollision(errors.New("quota exceeded"), DefaultCollisionMarkers))
	assert.False(t, IsTitleCollision(collisionError("x"), nil))
}

func TestCreateTreatmentFiltersDeduplicates(t *testing.T) {
	sheet := newFakeSheet()
	rows := []housing.NormalizedRow{
		{RowIndex: 1, FullName: "a", Treatment: "רותי"},
		{RowIndex: 2, FullName: "b", Treatment: ""},
		{RowIndex: 3, FullName: "c", Treatment: "משה"},
		{RowIndex: 4, FullName: "d", Treatment: "רותי"},
	}
	a := NewApplier(sheet, "need", ratelimit.Unlimited())
	result := CreateTreatmentFilters(context.Background(), a, rows, filters.Range{StartRowIndex: 1}, layout)

	assert.Equal(t, 2, result.Submitted)
	require.Len(t, sheet.submitted, 2)
	assert.Equal(t, "רותי", requestTitle(sheet.submitted[0]))
	assert.Equal(t, "משה", requestTitle(sheet.submitted[1]))
}

func TestCreateStatusFiltersIncludesEmptyStatus(t *testing.T) {
	sheet := newFakeSheet()
	rows := []housing.NormalizedRow{
		{RowIndex: 1, RequestStatus: ""},
		{RowIndex: 2, RequestStatus: housing.StatusAssigned},
		{RowIndex: 3, RequestStatus: " "},
		{RowIndex: 4, RequestStatus: housing.StatusAssigned},
	}
	a := NewApplier(sheet, "need", ratelimit.Unlimited())
	result := CreateStatusFilters(context.Background(), a, rows, filters.Range{StartRowIndex: 1}, layout)

	assert.Equal(t, 2, result.Submitted)
	assert.Equal(t, "-- ", requestTitle(sheet.submitted[0]))
	assert.Equal(t, "-- שובץ", requestTitle(sheet.submitted[1]))
}

func TestExportTablesUsesSameStateMachine(t *testing.T) {
	sheet := newFakeSheet()
	give := [][]interface{}{{"banner"}, {"שם"}, {"x"}}
	rows := []housing.NormalizedRow{need(1, "א", housing.Unspecified), need(2, "ב", housing.Unspecified)}
	sheet.titles["4_ב"] = true

	a := NewApplier(sheet, "export", ratelimit.Unlimited())
	result := ExportTables(context.Background(), a, rows, give, layout)

	assert.Equal(t, 2, result.Submitted)
	assert.Equal(t, []string{"4_ב"}, result.AlreadyFiltered)
	require.Len(t, sheet.submitted, 2)
	assert.NotNil(t, sheet.submitted[0][0].AddSheet)
}

func TestResultMerge(t *testing.T) {
	a := Result{Submitted: 1, Applied: 1}
	a.Merge(Result{Submitted: 2, AlreadyFiltered: []string{"t"}, Errors: []Failure{{"n", 3}}})
	assert.Equal(t, 3, a.Submitted)
	assert.Equal(t, []string{"t"}, a.AlreadyFiltered)
	assert.Equal(t, "n, 3", a.Errors[0].String())
}

func TestSummary(t *testing.T) {
	s := Summary("filters", Result{Submitted: 3, Applied: 1, AlreadyFiltered: []string{"a"}, Errors: []Failure{{FullName: "ב", RowNumber: 9}}})
	assert.Equal(t, "filters", s.Mode)
	assert.Equal(t, 1, s.AlreadyFiltered)
	assert.Equal(t, []string{"ב, 9"}, s.Errors)
}
