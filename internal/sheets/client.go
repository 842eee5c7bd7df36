package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ErrMissingCredentials is returned when the service account is incomplete.
var ErrMissingCredentials = errors.New("sheets: service account email and private key required")

// Appender appends one row of cells to a range of a spreadsheet.
type Appender interface {
	Append(ctx context.Context, spreadsheetID, rng string, row []any) error
}

// Credentials identify the service account used for the append calls.
type Credentials struct {
	ClientEmail string
	PrivateKey  string
}

// GoogleAppender talks to the Sheets v4 API.
type GoogleAppender struct {
	svc *sheetsapi.Service
}

// NewGoogleAppender builds a Sheets client authenticated with a service-account
// JWT. Extra options are applied after the credentials, so tests can point the
// client at a fake endpoint.
func NewGoogleAppender(ctx context.Context, creds Credentials, opts ...option.ClientOption) (*GoogleAppender, error) {
	if strings.TrimSpace(creds.ClientEmail) == "" || strings.TrimSpace(creds.PrivateKey) == "" {
		return nil, ErrMissingCredentials
	}
	jwtCfg := &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	clientOpts := append([]option.ClientOption{option.WithTokenSource(jwtCfg.TokenSource(ctx))}, opts...)
	svc, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &GoogleAppender{svc: svc}, nil
}

// Append writes row after the last row of rng. Values are stored as typed,
// without spreadsheet parsing.
func (a *GoogleAppender) Append(ctx context.Context, spreadsheetID, rng string, row []any) error {
	body := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
	_, err := a.svc.Spreadsheets.Values.Append(spreadsheetID, rng, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append: %w", err)
	}
	return nil
}

var _ Appender = (*GoogleAppender)(nil)
