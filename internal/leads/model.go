package leads

import "time"

// Lead is one prospective-seller submission. Optional fields are nil when the
// seller left them blank and encode as JSON null.
type Lead struct {
	ID                string    `json:"id"`
	PropertyAddress   string    `json:"propertyAddress"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	ZipCode           string    `json:"zipCode"`
	PropertyType      *string   `json:"propertyType"`
	Bedrooms          *string   `json:"bedrooms"`
	Bathrooms         *string   `json:"bathrooms"`
	SquareFootage     *string   `json:"squareFootage"`
	PropertyCondition *string   `json:"propertyCondition"`
	SellingReason     *string   `json:"sellingReason"`
	OtherReason       *string   `json:"otherReason"`
	FullName          string    `json:"fullName"`
	PhoneNumber       string    `json:"phoneNumber"`
	Email             string    `json:"email"`
	AdditionalDetails *string   `json:"additionalDetails"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Clone returns a deep copy so callers never share optional-field pointers
// with the store.
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	c := *l
	c.PropertyType = cloneString(l.PropertyType)
	c.Bedrooms = cloneString(l.Bedrooms)
	c.Bathrooms = cloneString(l.Bathrooms)
	c.SquareFootage = cloneString(l.SquareFootage)
	c.PropertyCondition = cloneString(l.PropertyCondition)
	c.SellingReason = cloneString(l.SellingReason)
	c.OtherReason = cloneString(l.OtherReason)
	c.AdditionalDetails = cloneString(l.AdditionalDetails)
	return &c
}

// CreateLeadRequest is the validated intake payload.
type CreateLeadRequest struct {
	PropertyAddress   string `json:"propertyAddress" validate:"notblank"`
	City              string `json:"city" validate:"notblank"`
	State             string `json:"state" validate:"notblank"`
	ZipCode           string `json:"zipCode" validate:"notblank"`
	PropertyType      string `json:"propertyType,omitempty"`
	Bedrooms          string `json:"bedrooms,omitempty"`
	Bathrooms         string `json:"bathrooms,omitempty"`
	SquareFootage     string `json:"squareFootage,omitempty"`
	PropertyCondition string `json:"propertyCondition,omitempty"`
	SellingReason     string `json:"sellingReason,omitempty"`
	OtherReason       string `json:"otherReason,omitempty"`
	FullName          string `json:"fullName" validate:"notblank"`
	PhoneNumber       string `json:"phoneNumber" validate:"notblank"`
	Email             string `json:"email" validate:"notblank,email"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`
}

// fieldOrder is the canonical schema order, used for error ordering and for
// looking up fields in a raw body.
var fieldOrder = []string{
	"propertyAddress",
	"city",
	"state",
	"zipCode",
	"propertyType",
	"bedrooms",
	"bathrooms",
	"squareFootage",
	"propertyCondition",
	"sellingReason",
	"otherReason",
	"fullName",
	"phoneNumber",
	"email",
	"additionalDetails",
}

// fieldPtr maps a JSON field name to its slot in the request.
func (r *CreateLeadRequest) fieldPtr(name string) *string {
	switch name {
	case "propertyAddress":
		return &r.PropertyAddress
	case "city":
		return &r.City
	case "state":
		return &r.State
	case "zipCode":
		return &r.ZipCode
	case "propertyType":
		return &r.PropertyType
	case "bedrooms":
		return &r.Bedrooms
	case "bathrooms":
		return &r.Bathrooms
	case "squareFootage":
		return &r.SquareFootage
	case "propertyCondition":
		return &r.PropertyCondition
	case "sellingReason":
		return &r.SellingReason
	case "otherReason":
		return &r.OtherReason
	case "fullName":
		return &r.FullName
	case "phoneNumber":
		return &r.PhoneNumber
	case "email":
		return &r.Email
	case "additionalDetails":
		return &r.AdditionalDetails
	}
	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

// Value returns the string behind an optional field, or "" when absent.
func Value(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
