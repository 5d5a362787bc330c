package main

import (
	"context"
	"flag"
	"os"

	"housing_filters/internal/app"
	"housing_filters/internal/config"
	"housing_filters/internal/filters"
	"housing_filters/internal/housing"
	"housing_filters/internal/normalize"
	"housing_filters/internal/processing"
	"housing_filters/internal/ratelimit"
	"housing_filters/internal/report"
	"housing_filters/internal/sheets"

	"github.com/rs/zerolog/log"
)

const (
	modeFilters   = "filters"
	modeTreatment = "treatment"
	modeStatus    = "status"
	modeExport    = "export"
)

func main() {
	mode := flag.String("mode", modeFilters, "what to create: filters, treatment, status or export")
	flag.Parse()

	app.SetupEnvironment()
	cfg := app.LoadConfig()

	ctx := context.Background()
	sheetsClient := app.InitializeSheetsClient(ctx, cfg)
	notificationClient := app.InitializeNotificationClient()
	limiter := ratelimit.NewFixedRate(cfg.Pause)

	log.Info().Str("mode", *mode).Msg("Starting housing filters run")

	rows := readNeedRows(ctx, sheetsClient, cfg)

	var result processing.Result
	switch *mode {
	case modeFilters:
		applier := processing.NewApplier(sheetsClient, cfg.GiveSpreadsheetID, limiter)
		result = processing.CreateFilters(ctx, applier, normalize.InScope(rows, cfg.Layout.OpenStatuses), giveRange(cfg.Layout), cfg.Layout)
	case modeTreatment:
		applier := processing.NewApplier(sheetsClient, cfg.NeedSpreadsheetID, limiter)
		result = processing.CreateTreatmentFilters(ctx, applier, rows, needRange(cfg.Layout), cfg.Layout)
	case modeStatus:
		applier := processing.NewApplier(sheetsClient, cfg.NeedSpreadsheetID, limiter)
		result = processing.CreateStatusFilters(ctx, applier, rows, needRange(cfg.Layout), cfg.Layout)
	case modeExport:
		give, err := sheets.FetchTable(ctx, sheetsClient, config.DefaultResilienceConfig.SheetRead, cfg.GiveSpreadsheetID, cfg.GiveRange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read give sheet")
		}
		applier := processing.NewApplier(sheetsClient, cfg.ExportSpreadsheetID, limiter)
		result = processing.ExportTables(ctx, applier, normalize.InScope(rows, cfg.Layout.OpenStatuses), give, cfg.Layout)
	default:
		log.Error().Str("mode", *mode).Msg("Unknown mode")
		flag.Usage()
		os.Exit(1)
	}

	if err := report.NewReporter(cfg.OutputDir).Report(result); err != nil {
		log.Error().Err(err).Msg("Failed to write report files")
	}

	summary := processing.Summary(*mode, result)
	if err := notificationClient.NotifyRunSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("Failed to send run summary notification")
	}

	log.Info().
		Int("submitted", result.Submitted).
		Int("applied", result.Applied).
		Int("already_filtered", len(result.AlreadyFiltered)).
		Int("errors", len(result.Errors)).
		Msg("Run complete")
}

func readNeedRows(ctx context.Context, sheetsClient *sheets.Client, cfg app.Config) []housing.NormalizedRow {
	values, err := sheets.FetchTable(ctx, sheetsClient, config.DefaultResilienceConfig.SheetRead, cfg.NeedSpreadsheetID, cfg.NeedRange)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read need sheet")
	}

	rows, err := normalize.Normalize(values, normalize.Options{
		HeaderRow:    cfg.HeaderRow,
		HeaderOffset: cfg.Layout.HeaderOffset,
		Headers:      normalize.NeedHeaders(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to normalize need sheet")
	}
	log.Info().Int("rows", len(rows)).Msg("Loaded need rows")
	return rows
}

func giveRange(layout config.Layout) filters.Range {
	return filters.Range{SheetID: layout.GiveSheetID, StartRowIndex: layout.GiveStartRow}
}

func needRange(layout config.Layout) filters.Range {
	return filters.Range{SheetID: layout.NeedSheetID, StartRowIndex: layout.NeedStartRow}
}
