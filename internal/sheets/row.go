package sheets

import (
	"time"

	"github.com/enmirex/cashoffer/internal/leads"
)

// DefaultRange covers the 16 lead columns, A through P.
const DefaultRange = "Sheet1!A:P"

// timestampLayout matches the millisecond UTC format the sheet has always used.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Columns names the row layout, in order.
var Columns = []string{
	"Timestamp",
	"Full Name",
	"Email",
	"Phone",
	"Property Address",
	"City",
	"State",
	"ZIP",
	"Property Type",
	"Bedrooms",
	"Bathrooms",
	"Square Footage",
	"Condition",
	"Selling Reason",
	"Other Reason",
	"Additional Details",
}

// Row flattens a lead into sheet cells. Absent optional fields become "".
func Row(lead leads.Lead) []any {
	return []any{
		formatTimestamp(lead.CreatedAt),
		lead.FullName,
		lead.Email,
		lead.PhoneNumber,
		lead.PropertyAddress,
		lead.City,
		lead.State,
		lead.ZipCode,
		leads.Value(lead.PropertyType),
		leads.Value(lead.Bedrooms),
		leads.Value(lead.Bathrooms),
		leads.Value(lead.SquareFootage),
		leads.Value(lead.PropertyCondition),
		leads.Value(lead.SellingReason),
		leads.Value(lead.OtherReason),
		leads.Value(lead.AdditionalDetails),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
