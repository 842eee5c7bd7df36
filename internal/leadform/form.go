// Package leadform is the two-step cash-offer wizard: property and contact
// details first, then seller details and submission.
package leadform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/enmirex/cashoffer/internal/leads"
)

var (
	ErrNotOnDetailsStep = errors.New("leadform: submit is only available on the details step")
	ErrSubmitInFlight   = errors.New("leadform: a submission is already in flight")
	ErrUnknownField     = errors.New("leadform: unknown field")
)

// Step is the wizard position.
type Step int

const (
	StepProperty Step = iota + 1
	StepDetails
)

func (s Step) String() string {
	switch s {
	case StepProperty:
		return "property"
	case StepDetails:
		return "details"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Field names match the intake JSON keys.
type Field string

const (
	FieldPropertyAddress   Field = "propertyAddress"
	FieldCity              Field = "city"
	FieldState             Field = "state"
	FieldZipCode           Field = "zipCode"
	FieldPropertyType      Field = "propertyType"
	FieldBedrooms          Field = "bedrooms"
	FieldBathrooms         Field = "bathrooms"
	FieldSquareFootage     Field = "squareFootage"
	FieldPropertyCondition Field = "propertyCondition"
	FieldSellingReason     Field = "sellingReason"
	FieldOtherReason       Field = "otherReason"
	FieldFullName          Field = "fullName"
	FieldPhoneNumber       Field = "phoneNumber"
	FieldEmail             Field = "email"
	FieldAdditionalDetails Field = "additionalDetails"
)

// Fields lists every field in form order.
var Fields = []Field{
	FieldPropertyAddress, FieldCity, FieldState, FieldZipCode,
	FieldPropertyType, FieldBedrooms, FieldBathrooms, FieldSquareFootage,
	FieldPropertyCondition, FieldSellingReason, FieldOtherReason,
	FieldFullName, FieldPhoneNumber, FieldEmail, FieldAdditionalDetails,
}

var (
	propertyStepRequired = []Field{FieldPropertyAddress, FieldCity, FieldState, FieldZipCode, FieldPhoneNumber}
	detailsStepRequired  = []Field{FieldFullName, FieldEmail}
)

// SellingReasonOther unlocks the otherReason field.
const SellingReasonOther = "other"

const (
	MessageMissingFields = "Please fill in all required fields."
	MessageSubmitted     = "Thank you for your submission! We will contact you within 24 hours with your cash offer."
	MessageGeneric       = "Something went wrong. Please try again."
)

// NoticeKind separates "fix your input" from "try again".
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	// NoticeValidation is a local presence-check failure; nothing was sent.
	NoticeValidation
	NoticeSuccess
	// NoticeInvalid is a server-side rejection of the input.
	NoticeInvalid
	NoticeError
)

// Notice is the message surfaced after an action.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	// Missing lists locally missing fields for NoticeValidation.
	Missing []Field
	// Fields carries server field errors for NoticeInvalid.
	Fields []leads.FieldError
}

// ClientValidationError reports fields that failed the local presence check.
type ClientValidationError struct {
	Missing []Field
}

func (e *ClientValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "leadform: missing required fields: " + strings.Join(names, ", ")
}

// Submitter sends a completed form to the intake endpoint.
type Submitter interface {
	Submit(ctx context.Context, req leads.CreateLeadRequest) (*leads.Lead, error)
}

// Form holds one accumulated record across both steps. It is safe for
// concurrent use; Submit releases the lock while the submitter runs.
type Form struct {
	mu         sync.Mutex
	submitter  Submitter
	step       Step
	submitting bool
	values     map[Field]string
	notice     Notice
}

func New(submitter Submitter) *Form {
	if submitter == nil {
		panic("leadform: submitter required")
	}
	return &Form{
		submitter: submitter,
		step:      StepProperty,
		values:    make(map[Field]string, len(Fields)),
	}
}

// Set updates one field. Values are kept exactly as entered.
func (f *Form) Set(field Field, value string) error {
	if !knownField(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	return nil
}

func (f *Form) Value(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Values returns a copy of every non-empty field.
func (f *Form) Values() map[Field]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[Field]string, len(f.values))
	for k, v := range f.values {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func (f *Form) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Submitting reports whether a submission is in flight. The submit control
// is disabled while it is true.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *Form) Notice() Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// ShowsOtherReason reports whether the otherReason input is visible.
func (f *Form) ShowsOtherReason() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[FieldSellingReason] == SellingReasonOther
}

// Next advances from the property step after a presence check. It never
// contacts the server.
func (f *Form) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepProperty {
		return nil
	}
	if missing := f.missing(propertyStepRequired); len(missing) > 0 {
		f.notice = validationNotice(missing)
		return &ClientValidationError{Missing: missing}
	}
	f.step = StepDetails
	f.notice = Notice{}
	return nil
}

// Back returns to the property step keeping every value. It is refused
// while a submission is in flight.
func (f *Form) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return ErrSubmitInFlight
	}
	f.step = StepProperty
	return nil
}

// Submit sends the record. On success the form is cleared and reset to the
// property step; on failure every value is kept and the form stays on the
// details step.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepDetails {
		f.mu.Unlock()
		return ErrNotOnDetailsStep
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	if missing := f.missing(append(append([]Field{}, propertyStepRequired...), detailsStepRequired...)); len(missing) > 0 {
		f.notice = validationNotice(missing)
		f.mu.Unlock()
		return &ClientValidationError{Missing: missing}
	}
	req := f.request()
	f.submitting = true
	f.notice = Notice{}
	f.mu.Unlock()

	_, err := f.submitter.Submit(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.notice = failureNotice(err)
		return err
	}
	f.values = make(map[Field]string, len(Fields))
	f.step = StepProperty
	f.notice = Notice{Kind: NoticeSuccess, Title: "Success!", Message: MessageSubmitted}
	return nil
}

func (f *Form) missing(required []Field) []Field {
	var out []Field
	for _, field := range required {
		if strings.TrimSpace(f.values[field]) == "" {
			out = append(out, field)
		}
	}
	return out
}

func (f *Form) request() leads.CreateLeadRequest {
	v := f.values
	req := leads.CreateLeadRequest{
		PropertyAddress:   v[FieldPropertyAddress],
		City:              v[FieldCity],
		State:             v[FieldState],
		ZipCode:           v[FieldZipCode],
		PropertyType:      v[FieldPropertyType],
		Bedrooms:          v[FieldBedrooms],
		Bathrooms:         v[FieldBathrooms],
		SquareFootage:     v[FieldSquareFootage],
		PropertyCondition: v[FieldPropertyCondition],
		SellingReason:     v[FieldSellingReason],
		FullName:          v[FieldFullName],
		PhoneNumber:       v[FieldPhoneNumber],
		Email:             v[FieldEmail],
		AdditionalDetails: v[FieldAdditionalDetails],
	}
	if req.SellingReason == SellingReasonOther {
		req.OtherReason = v[FieldOtherReason]
	}
	return req
}

func validationNotice(missing []Field) Notice {
	return Notice{
		Kind:    NoticeValidation,
		Title:   "Validation Error",
		Message: MessageMissingFields,
		Missing: missing,
	}
}

func failureNotice(err error) Notice {
	n := Notice{Kind: NoticeError, Title: "Error", Message: MessageGeneric}
	var se *SubmitError
	if !errors.As(err, &se) {
		return n
	}
	if se.Message != "" {
		n.Message = se.Message
	}
	if se.Invalid() {
		n.Kind = NoticeInvalid
		n.Fields = se.Fields
	}
	return n
}

func knownField(field Field) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}
