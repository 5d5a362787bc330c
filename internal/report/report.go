// Package report writes the end-of-run summary and follow-up lists.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"housing_filters/internal/processing"

	"github.com/rs/zerolog/log"
)

const (
	AlreadyFilteredFile = "people_that_have_filter.txt"
	ErrorsFile          = "people_that_have_errors.txt"
)

// Reporter persists the two outcome lists and prints the status line.
type Reporter struct {
	Dir string
	Out io.Writer
}

func NewReporter(dir string) *Reporter {
	return &Reporter{Dir: dir, Out: os.Stdout}
}

// Report writes both lists, one entry per line in accumulation order, and
// prints the final error count.
func (r *Reporter) Report(result processing.Result) error {
	if len(result.AlreadyFiltered) > 0 {
		log.Info().
			Int("count", len(result.AlreadyFiltered)).
			Strs("titles", result.AlreadyFiltered).
			Msg("Rows that already have a filter")
	}

	errorLines := make([]string, 0, len(result.Errors))
	for _, f := range result.Errors {
		errorLines = append(errorLines, f.String())
	}
	if len(errorLines) > 0 {
		log.Warn().
			Int("count", len(errorLines)).
			Strs("rows", errorLines).
			Msg("Rows that failed")
	}

	if err := writeLines(filepath.Join(r.Dir, AlreadyFilteredFile), result.AlreadyFiltered); err != nil {
		return err
	}
	if err := writeLines(filepath.Join(r.Dir, ErrorsFile), errorLines); err != nil {
		return err
	}

	_, err := fmt.Fprintf(r.Out, "Done! (with %d errors)\n", len(result.Errors))
	return err
}

func writeLines(path string, lines []string) (retErr error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("lines", len(lines)).Msg("Wrote report file")
	return nil
}
