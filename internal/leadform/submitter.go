package leadform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/enmirex/cashoffer/internal/leads"
)

// SubmitError is a non-2xx intake response.
type SubmitError struct {
	Status  int
	Message string
	Fields  []leads.FieldError
}

func (e *SubmitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("leadform: intake returned status %d", e.Status)
	}
	return fmt.Sprintf("leadform: intake returned status %d: %s", e.Status, e.Message)
}

// Invalid reports a rejection of the input itself.
func (e *SubmitError) Invalid() bool {
	return e.Status == http.StatusBadRequest
}

// HTTPSubmitter posts submissions to <baseURL>/api/leads.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSubmitter uses a traced client when client is nil. That client sets
// no timeout; a stuck request keeps the form submitting until ctx is done.
func NewHTTPSubmitter(baseURL string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &HTTPSubmitter{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/leads",
		client:   client,
	}
}

// Submit treats any 2xx as success even when the body cannot be decoded; in
// that case the returned lead is nil.
func (s *HTTPSubmitter) Submit(ctx context.Context, req leads.CreateLeadRequest) (*leads.Lead, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("leadform: encode submission: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("leadform: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("leadform: post lead: %w", err)
	}
	defer resp.Body.Close()
	// A truncated body still leaves a usable status; decoding below fails
	// and the lead or message stays empty.
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var created leads.CreateLeadResponse
		if err := json.Unmarshal(raw, &created); err != nil {
			return nil, nil
		}
		return created.Lead, nil
	}

	se := &SubmitError{Status: resp.StatusCode}
	var payload leads.ErrorResponse
	if err := json.Unmarshal(raw, &payload); err == nil {
		se.Message = payload.Message
		se.Fields = payload.Errors
	}
	return nil, se
}

var _ Submitter = (*HTTPSubmitter)(nil)
