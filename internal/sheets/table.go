package sheets

import (
	"context"
	"fmt"

	"housing_filters/internal/housing"
	"housing_filters/internal/retry"

	"github.com/rs/zerolog/log"
)

// TableReader reads a range of cell values.
type TableReader interface {
	ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error)
}

// FetchTable reads a whole table with retries. An empty result is reported
// as housing.ErrEmptySource and is not retried.
func FetchTable(ctx context.Context, reader TableReader, cfg retry.Config, spreadsheetID, range_ string) ([][]interface{}, error) {
	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("range", range_).
		Msg("Fetching table")

	values, err := retry.WithRetry(ctx, cfg, func(ctx context.Context) ([][]interface{}, error) {
		return reader.ReadSheet(ctx, spreadsheetID, range_)
	})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s!%s: %w", spreadsheetID, range_, housing.ErrEmptySource)
	}

	log.Debug().Int("rows", len(values)).Msg("Fetched table")
	return values, nil
}
