package leads

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrMalformedBody is returned when the intake body is not valid JSON.
var ErrMalformedBody = errors.New("leads: malformed JSON body")

var schema = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic("leads: register notblank: " + err.Error())
	}
	return v
}

// ParseCreateRequest decodes and validates an intake body. Unknown fields are
// dropped; every failing known field is reported in a *ValidationError.
func ParseCreateRequest(body []byte) (*CreateLeadRequest, error) {
	if !json.Valid(body) {
		return nil, ErrMalformedBody
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "body",
			Code:    CodeInvalidBody,
			Message: "request body must be a JSON object",
		}}}
	}

	req := &CreateLeadRequest{}
	failed := make(map[string]FieldError)
	for _, name := range fieldOrder {
		value, ok := raw[name]
		if !ok || isJSONNull(value) {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			failed[name] = FieldError{Field: name, Code: CodeInvalidType, Message: name + " must be a string"}
			continue
		}
		*req.fieldPtr(name) = s
	}

	if err := schema.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			name := fe.Field()
			if _, seen := failed[name]; seen {
				continue
			}
			failed[name] = schemaFieldError(name, fe.Tag())
		}
	}

	if len(failed) > 0 {
		out := &ValidationError{Fields: make([]FieldError, 0, len(failed))}
		for _, name := range fieldOrder {
			if fe, ok := failed[name]; ok {
				out.Fields = append(out.Fields, fe)
			}
		}
		return nil, out
	}
	return req, nil
}

func schemaFieldError(name, tag string) FieldError {
	switch tag {
	case "email":
		return FieldError{Field: name, Code: CodeInvalidEmail, Message: name + " must be a valid email address"}
	default:
		return FieldError{Field: name, Code: CodeRequired, Message: name + " is required"}
	}
}

func isJSONNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}
