package bootstrap

import (
	"context"
	"fmt"

	"github.com/enmirex/cashoffer/cmd/mainconfig"
	appconfig "github.com/enmirex/cashoffer/internal/config"
	"github.com/enmirex/cashoffer/internal/leads"
	"github.com/enmirex/cashoffer/internal/notify"
	"github.com/enmirex/cashoffer/internal/sheets"
	"github.com/enmirex/cashoffer/pkg/logging"
)

// BuildSinks returns every downstream lead sink. The spreadsheet syncer is
// always present; it is a logged no-op when no sheet is configured.
func BuildSinks(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) ([]leads.Sink, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	sinks := []leads.Sink{BuildSheetsSyncer(ctx, cfg, logger)}
	if alert := BuildLeadAlert(ctx, cfg, logger); alert != nil {
		sinks = append(sinks, alert)
	}
	return sinks, nil
}

// BuildSheetsSyncer wires the Google Sheets appender. Missing credentials or
// a client error leave the syncer without an appender, so each sync fails
// and is logged by the dispatcher.
func BuildSheetsSyncer(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *sheets.Syncer {
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	syncCfg := sheets.Config{SpreadsheetID: cfg.GoogleSpreadsheetID, Range: cfg.GoogleSheetRange}
	if !cfg.SheetsEnabled() {
		return sheets.NewSyncer(nil, syncCfg, logger)
	}
	appender, err := sheets.NewGoogleAppender(ctx, sheets.Credentials{
		ClientEmail: cfg.GoogleClientEmail,
		PrivateKey:  cfg.GooglePrivateKey,
	})
	if err != nil {
		logger.Error("google sheets client unavailable", "error", err)
		return sheets.NewSyncer(nil, syncCfg, logger)
	}
	logger.Info("google sheets sync enabled", "range", syncCfg.Range)
	return sheets.NewSyncer(appender, syncCfg, logger)
}

// BuildLeadAlert returns the operator email sink or nil when alerts are not
// fully configured.
func BuildLeadAlert(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *notify.LeadAlert {
	if !cfg.AlertsEnabled() {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "stub":
		sender = notify.NewStubEmailSender(logger)
	case "ses":
		client, err := mainconfig.NewSESClient(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, lead alerts disabled", "error", err)
			return nil
		}
		sender = notify.NewSESSender(client, notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	default:
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	}
	logger.Info("lead alert email enabled", "provider", cfg.EmailProvider)
	return notify.NewLeadAlert(sender, cfg.LeadAlertEmail)
}
