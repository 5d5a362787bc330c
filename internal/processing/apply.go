package processing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"housing_filters/internal/ratelimit"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

// DefaultCollisionMarkers appear in the remote error when a filter view or
// sheet with the same name already exists.
var DefaultCollisionMarkers = []string{"שם אחר", "already exists"}

// Change is a single atomic spreadsheet change.
type Change interface {
	Title() string
	Requests() []*sheets.Request
}

// Submitter sends a batch of requests as one atomic spreadsheet update.
type Submitter interface {
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error
}

// Status is the classification of one submission.
type Status int

const (
	Success Status = iota
	DuplicateTitle
	HardError
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case DuplicateTitle:
		return "duplicate_title"
	case HardError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of applying one change.
type Outcome struct {
	Status Status
	Title  string
	Err    error
}

// Applier submits changes one at a time to a single spreadsheet.
type Applier struct {
	Submitter        Submitter
	SpreadsheetID    string
	Limiter          ratelimit.Limiter
	CollisionMarkers []string
}

// NewApplier returns an applier using the default collision markers.
func NewApplier(submitter Submitter, spreadsheetID string, limiter ratelimit.Limiter) *Applier {
	return &Applier{
		Submitter:        submitter,
		SpreadsheetID:    spreadsheetID,
		Limiter:          limiter,
		CollisionMarkers: DefaultCollisionMarkers,
	}
}

// Apply waits for the limiter, submits the change and classifies the
// response. The change is never retried.
func (a *Applier) Apply(ctx context.Context, change Change) Outcome {
	title := change.Title()
	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			return Outcome{Status: HardError, Title: title, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	err := a.Submitter.BatchUpdate(ctx, a.SpreadsheetID, change.Requests())
	switch {
	case err == nil:
		log.Debug().Str("title", title).Msg("Change applied")
		return Outcome{Status: Success, Title: title}
	case IsTitleCollision(err, a.CollisionMarkers):
		log.Debug().Err(err).Str("title", title).Msg("Title already exists")
		return Outcome{Status: DuplicateTitle, Title: title, Err: err}
	default:
		log.Error().Err(err).Str("title", title).Msg("Failed to apply change")
		return Outcome{Status: HardError, Title: title, Err: err}
	}
}

// IsTitleCollision reports whether err is the remote rejecting a change
// because its title is taken.
func IsTitleCollision(err error, markers []string) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		text += " " + gErr.Message + " " + gErr.Body
		for _, d := range gErr.Details {
			text += " " + fmt.Sprint(d)
		}
	}
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}
