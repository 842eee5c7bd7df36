package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/enmirex/cashoffer/internal/leads"
	"github.com/enmirex/cashoffer/pkg/logging"
)

// SinkName labels spreadsheet sync in logs and metrics.
const SinkName = "google_sheets"

// ErrNoAppender is returned when a spreadsheet is configured but no client
// could be built for it.
var ErrNoAppender = errors.New("sheets: no appender configured")

// Config selects the target spreadsheet.
type Config struct {
	SpreadsheetID string
	Range         string
}

// Syncer copies each lead into the configured spreadsheet. Without a
// spreadsheet id it does nothing.
type Syncer struct {
	appender Appender
	cfg      Config
	logger   *logging.Logger
}

// NewSyncer builds the spreadsheet sink. appender may be nil when the
// credentials are missing; Sync then reports ErrNoAppender.
func NewSyncer(appender Appender, cfg Config, logger *logging.Logger) *Syncer {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Range == "" {
		cfg.Range = DefaultRange
	}
	return &Syncer{appender: appender, cfg: cfg, logger: logger}
}

// Name implements leads.Sink.
func (s *Syncer) Name() string { return SinkName }

// Sync appends the lead's row. Errors are for the dispatcher to log.
func (s *Syncer) Sync(ctx context.Context, lead leads.Lead) error {
	if s.cfg.SpreadsheetID == "" {
		s.logger.Warn("spreadsheet id not configured, skipping sheet sync", "lead_id", lead.ID)
		return nil
	}
	if s.appender == nil {
		return ErrNoAppender
	}
	if err := s.appender.Append(ctx, s.cfg.SpreadsheetID, s.cfg.Range, Row(lead)); err != nil {
		return fmt.Errorf("sheets: lead %s: %w", lead.ID, err)
	}
	s.logger.Debug("lead appended to spreadsheet", "lead_id", lead.ID, "range", s.cfg.Range)
	return nil
}

var _ leads.Sink = (*Syncer)(nil)
