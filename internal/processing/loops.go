package processing

import (
	"context"
	"fmt"
	"strings"

	"housing_filters/internal/config"
	"housing_filters/internal/export"
	"housing_filters/internal/filters"
	"housing_filters/internal/housing"

	"github.com/rs/zerolog/log"
)

// Job pairs a change with the row it is reported against on failure.
type Job struct {
	Change    Change
	FullName  string
	RowNumber int
}

// Run applies jobs strictly in order. A failing job is recorded and the run
// moves on; only cancellation of ctx stops it early.
func (a *Applier) Run(ctx context.Context, jobs []Job) Result {
	var result Result
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			log.Warn().
				Err(err).
				Int("remaining", len(jobs)-i).
				Msg("Run cancelled")
			break
		}

		outcome := a.Apply(ctx, job.Change)
		result.record(outcome, Failure{FullName: job.FullName, RowNumber: job.RowNumber})

		log.Info().
			Str("progress", fmt.Sprintf("%d/%d", i+1, len(jobs))).
			Int("row", job.RowNumber).
			Str("title", outcome.Title).
			Stringer("outcome", outcome.Status).
			Msg("Processed row")
	}

	log.Debug().
		Int("submitted", result.Submitted).
		Int("applied", result.Applied).
		Int("already_filtered", len(result.AlreadyFiltered)).
		Int("errors", len(result.Errors)).
		Msg("Finished run")
	return result
}

// CreateFilters creates one candidate-match filter view per need row.
func CreateFilters(ctx context.Context, a *Applier, rows []housing.NormalizedRow, rng filters.Range, layout config.Layout) Result {
	log.Info().Int("rows", len(rows)).Msg("Creating filter views")
	jobs := make([]Job, 0, len(rows))
	for _, row := range rows {
		preds := filters.BuildPredicates(row, layout)
		jobs = append(jobs, Job{
			Change:    filters.BuildRequest(rng, row, preds, layout),
			FullName:  row.FullName,
			RowNumber: row.RowNumber(layout.HeaderOffset),
		})
	}
	return a.Run(ctx, jobs)
}

// CreateTreatmentFilters creates one view per distinct caseworker.
func CreateTreatmentFilters(ctx context.Context, a *Applier, rows []housing.NormalizedRow, rng filters.Range, layout config.Layout) Result {
	var jobs []Job
	for _, row := range distinctBy(rows, func(r housing.NormalizedRow) string { return r.Treatment }, false) {
		jobs = append(jobs, Job{
			Change:    filters.BuildTreatmentRequest(rng, row.Treatment, layout),
			FullName:  row.Treatment,
			RowNumber: row.RowNumber(layout.HeaderOffset),
		})
	}
	log.Info().Int("caseworkers", len(jobs)).Msg("Creating caseworker filter views")
	return a.Run(ctx, jobs)
}

// CreateStatusFilters creates one view per distinct request status,
// including the empty status.
func CreateStatusFilters(ctx context.Context, a *Applier, rows []housing.NormalizedRow, rng filters.Range, layout config.Layout) Result {
	var jobs []Job
	for _, row := range distinctBy(rows, func(r housing.NormalizedRow) string { return r.RequestStatus }, true) {
		req := filters.BuildStatusRequest(rng, row.RequestStatus, layout)
		jobs = append(jobs, Job{
			Change:    req,
			FullName:  req.Title(),
			RowNumber: row.RowNumber(layout.HeaderOffset),
		})
	}
	log.Info().Int("statuses", len(jobs)).Msg("Creating status filter views")
	return a.Run(ctx, jobs)
}

// ExportTables writes one static table per need row listing the give rows
// its filter would show.
func ExportTables(ctx context.Context, a *Applier, rows []housing.NormalizedRow, give [][]interface{}, layout config.Layout) Result {
	tables := export.BuildTables(rows, give, layout)
	jobs := make([]Job, 0, len(tables))
	for i, table := range tables {
		jobs = append(jobs, Job{
			Change:    table,
			FullName:  rows[i].FullName,
			RowNumber: rows[i].RowNumber(layout.HeaderOffset),
		})
	}
	log.Info().Int("tables", len(jobs)).Msg("Exporting match tables")
	return a.Run(ctx, jobs)
}

// distinctBy keeps the first row for each key, in row order.
func distinctBy(rows []housing.NormalizedRow, key func(housing.NormalizedRow) string, keepEmpty bool) []housing.NormalizedRow {
	seen := make(map[string]bool)
	var out []housing.NormalizedRow
	for _, row := range rows {
		k := strings.TrimSpace(key(row))
		if (k == "" && !keepEmpty) || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, row)
	}
	return out
}
