package filters

import (
	"strings"

	"housing_filters/internal/config"
	"housing_filters/internal/housing"

	"google.golang.org/api/sheets/v4"
)

// StatusTitlePrefix groups the per-status views together in the sheet's
// filter view menu.
const StatusTitlePrefix = "-- "

// Range is the grid a filter view applies to.
type Range struct {
	SheetID          int64
	StartRowIndex    int64
	StartColumnIndex int64
}

func (r Range) toSheets() *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          r.SheetID,
		StartRowIndex:    r.StartRowIndex,
		StartColumnIndex: r.StartColumnIndex,
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

// SortKey orders a filter view by one column.
type SortKey struct {
	Column     int
	Descending bool
}

func (k SortKey) order() string {
	if k.Descending {
		return "DESCENDING"
	}
	return "ASCENDING"
}

// FilterViewRequest is one "add filter view" change. It is not modified
// after construction.
type FilterViewRequest struct {
	title    string
	rng      Range
	sort     []SortKey
	criteria *CriteriaSet
}

func newFilterViewRequest(title string, rng Range, sort []SortKey, criteria *CriteriaSet) FilterViewRequest {
	return FilterViewRequest{
		title:    title,
		rng:      rng,
		sort:     append([]SortKey(nil), sort...),
		criteria: criteria.Clone(),
	}
}

func (r FilterViewRequest) Title() string { return r.title }

func (r FilterViewRequest) Range() Range { return r.rng }

func (r FilterViewRequest) Sort() []SortKey {
	return append([]SortKey(nil), r.sort...)
}

// Criteria returns a copy of the request's criteria.
func (r FilterViewRequest) Criteria() *CriteriaSet {
	return r.criteria.Clone()
}

// Requests renders the change as Sheets batch update requests.
func (r FilterViewRequest) Requests() []*sheets.Request {
	specs := make([]*sheets.SortSpec, 0, len(r.sort))
	for _, k := range r.sort {
		specs = append(specs, &sheets.SortSpec{
			DimensionIndex:  int64(k.Column),
			SortOrder:       k.order(),
			ForceSendFields: []string{"DimensionIndex"},
		})
	}
	return []*sheets.Request{{
		AddFilterView: &sheets.AddFilterViewRequest{
			Filter: &sheets.FilterView{
				Title:     r.title,
				Range:     r.rng.toSheets(),
				SortSpecs: specs,
				Criteria:  r.criteria.ToSheets(),
			},
		},
	}}
}

// BuildRequest composes the per-request filter view over the give sheet.
// Candidates are sorted by guest count, then by kosher answer.
func BuildRequest(rng Range, row housing.NormalizedRow, preds *CriteriaSet, layout config.Layout) FilterViewRequest {
	criteria := preds.Clone()
	if len(layout.ClosedStatuses) > 0 {
		criteria.Replace(HiddenValuesCriterion(layout.GiveStatus, layout.ClosedStatuses))
	}
	sort := []SortKey{{Column: layout.GiveGuests}, {Column: layout.GiveKosher}}
	return newFilterViewRequest(row.Title(layout.HeaderOffset), rng, sort, criteria)
}

// BuildTreatmentRequest composes a caseworker's view over the need sheet.
func BuildTreatmentRequest(rng Range, caseworker string, layout config.Layout) FilterViewRequest {
	criteria := NewCriteriaSet()
	criteria.Add(EqualsCriterion(layout.NeedTreatment, caseworker))
	return newFilterViewRequest(caseworker, rng, []SortKey{{Column: layout.NeedDate}}, criteria)
}

// BuildStatusRequest composes a view over the need sheet showing a single
// request status. An empty status selects rows with a blank status cell.
func BuildStatusRequest(rng Range, status string, layout config.Layout) FilterViewRequest {
	status = strings.TrimSpace(status)
	criteria := NewCriteriaSet()
	if status == "" {
		criteria.Add(BlankCriterion(layout.NeedStatus))
	} else {
		criteria.Add(EqualsCriterion(layout.NeedStatus, status))
	}
	return newFilterViewRequest(StatusTitlePrefix+status, rng, []SortKey{{Column: layout.NeedDate}}, criteria)
}
