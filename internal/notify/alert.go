package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/enmirex/cashoffer/internal/leads"
)

// AlertSinkName labels new-lead emails in logs and metrics.
const AlertSinkName = "lead_alert_email"

// LeadAlert emails operators about every new lead.
type LeadAlert struct {
	sender     EmailSender
	recipients []string
}

// NewLeadAlert returns nil when there is no sender or no recipient, so the
// dispatcher skips it.
func NewLeadAlert(sender EmailSender, recipients ...string) *LeadAlert {
	var to []string
	for _, r := range recipients {
		for _, addr := range strings.Split(r, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				to = append(to, addr)
			}
		}
	}
	if sender == nil || len(to) == 0 {
		return nil
	}
	return &LeadAlert{sender: sender, recipients: to}
}

// Name implements leads.Sink.
func (a *LeadAlert) Name() string { return AlertSinkName }

// Sync sends one message per recipient and reports how many failed.
func (a *LeadAlert) Sync(ctx context.Context, lead leads.Lead) error {
	msg := AlertMessage(lead)
	var failed int
	var firstErr error
	for _, to := range a.recipients {
		msg.To = to
		if err := a.sender.Send(ctx, msg); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("notify: %d of %d lead alert(s) failed: %w", failed, len(a.recipients), firstErr)
	}
	return nil
}

// AlertMessage renders the operator email for a lead. To is left empty.
func AlertMessage(lead leads.Lead) EmailMessage {
	var b strings.Builder
	b.WriteString("A new cash offer request has come in.\n\n")
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Name", lead.FullName)
	line("Phone", lead.PhoneNumber)
	line("Email", lead.Email)
	line("Property", fmt.Sprintf("%s, %s, %s %s", lead.PropertyAddress, lead.City, lead.State, lead.ZipCode))
	line("Property type", leads.Value(lead.PropertyType))
	line("Bedrooms", leads.Value(lead.Bedrooms))
	line("Bathrooms", leads.Value(lead.Bathrooms))
	line("Square footage", leads.Value(lead.SquareFootage))
	line("Condition", leads.Value(lead.PropertyCondition))
	line("Reason for selling", leads.Value(lead.SellingReason))
	line("Other reason", leads.Value(lead.OtherReason))
	line("Details", leads.Value(lead.AdditionalDetails))
	fmt.Fprintf(&b, "\nLead ID: %s\nReceived: %s\n", lead.ID, lead.CreatedAt.UTC().Format("Jan 2, 2006 3:04 PM MST"))

	return EmailMessage{
		ReplyTo:     lead.Email,
		ReplyToName: lead.FullName,
		Subject:     fmt.Sprintf("New cash offer request - %s, %s", lead.PropertyAddress, lead.City),
		Body:        b.String(),
	}
}

var _ leads.Sink = (*LeadAlert)(nil)
