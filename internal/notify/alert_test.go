package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enmirex/cashoffer/internal/leads"
)

type recordingSender struct {
	sent   []EmailMessage
	failTo string
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	if msg.To == r.failTo {
		return errors.New("mailbox unavailable")
	}
	return nil
}

func alertLead() leads.Lead {
	cond := "fair"
	return leads.Lead{
		ID:                "lead-9",
		PropertyAddress:   "55 Oak Ave",
		City:              "Tampa",
		State:             "FL",
		ZipCode:           "33601",
		PropertyCondition: &cond,
		FullName:          "Sam Seller",
		PhoneNumber:       "5559876543",
		Email:             "sam@example.com",
		CreatedAt:         time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC),
	}
}

func TestNewLeadAlertNilWithoutRecipients(t *testing.T) {
	assert.Nil(t, NewLeadAlert(&recordingSender{}))
	assert.Nil(t, NewLeadAlert(&recordingSender{}, " , "))
	assert.Nil(t, NewLeadAlert(nil, "ops@example.com"))
}

func TestLeadAlertSendsToEveryRecipient(t *testing.T) {
	sender := &recordingSender{}
	alert := NewLeadAlert(sender, "ops@example.com, owner@example.com")
	require.NotNil(t, alert)
	assert.Equal(t, AlertSinkName, alert.Name())

	require.NoError(t, alert.Sync(context.Background(), alertLead()))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "ops@example.com", sender.sent[0].To)
	assert.Equal(t, "owner@example.com", sender.sent[1].To)
	assert.Equal(t, "sam@example.com", sender.sent[0].ReplyTo)
}

func TestLeadAlertReportsPartialFailure(t *testing.T) {
	sender := &recordingSender{failTo: "owner@example.com"}
	alert := NewLeadAlert(sender, "ops@example.com", "owner@example.com")

	err := alert.Sync(context.Background(), alertLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Len(t, sender.sent, 2)
}

func TestAlertMessageContent(t *testing.T) {
	msg := AlertMessage(alertLead())
	assert.Equal(t, "New cash offer request - 55 Oak Ave, Tampa", msg.Subject)
	assert.Contains(t, msg.Body, "Name: Sam Seller")
	assert.Contains(t, msg.Body, "Property: 55 Oak Ave, Tampa, FL 33601")
	assert.Contains(t, msg.Body, "Condition: fair")
	assert.Contains(t, msg.Body, "Lead ID: lead-9")
	assert.False(t, strings.Contains(msg.Body, "Bedrooms:"), "absent optionals are omitted")
}
