package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/core/common/validation"
)

const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldDate     = "date"
	FieldNumber   = "number"
	FieldEmail    = "email"
	FieldTel      = "tel"
)

var fieldTypes = []string{FieldText, FieldTextarea, FieldSelect, FieldDate, FieldNumber, FieldEmail, FieldTel}

// ValidateSchema rejects malformed form definitions. An empty type means text.
func ValidateSchema(fields []FormField) error {
	var errs []internal.ValidationError
	seen := make(map[string]bool, len(fields))

	for i, f := range fields {
		prefix := fmt.Sprintf("formSchema[%d]", i)
		// Names are stored trimmed, so duplicates are judged on the trimmed form.
		name := strings.TrimSpace(f.Name)
		if name == "" {
			errs = append(errs, internal.ValidationError{Field: prefix + ".name", Message: prefix + ".name is required", Code: string(internal.ErrCodeRequiredField)})
		} else if seen[name] {
			errs = append(errs, internal.ValidationError{Field: prefix + ".name", Message: fmt.Sprintf("duplicate form field %q", name), Code: string(internal.ErrCodeInvalidField)})
		}
		seen[name] = true

		if strings.TrimSpace(f.Label) == "" {
			errs = append(errs, internal.ValidationError{Field: prefix + ".label", Message: prefix + ".label is required", Code: string(internal.ErrCodeRequiredField)})
		}
		if !validFieldType(fieldType(f)) {
			errs = append(errs, internal.ValidationError{Field: prefix + ".type", Message: fmt.Sprintf("unsupported field type %q", f.Type), Code: string(internal.ErrCodeInvalidField)})
		}
		if fieldType(f) == FieldSelect && len(f.Options) == 0 {
			errs = append(errs, internal.ValidationError{Field: prefix + ".options", Message: fmt.Sprintf("select field %q needs options", f.Name), Code: string(internal.ErrCodeInvalidField)})
		}
	}

	if len(errs) > 0 {
		return internal.NewValidationErrors(errs)
	}
	return nil
}

// ValidatePayload checks submitted values against the schema. Keys that the
// schema does not mention are left alone.
func ValidatePayload(fields []FormField, payload map[string]interface{}) error {
	v := validation.NewValidator()

	for _, f := range fields {
		raw, present := payload[f.Name]
		value := stringValue(raw)
		fv := v.Field(f.Name, value)
		if f.Required {
			fv.Required()
		}
		if !present || value == "" {
			continue
		}

		switch fieldType(f) {
		case FieldSelect:
			fv.OneOf(f.Options...)
		case FieldDate:
			fv.Date()
		case FieldEmail:
			fv.Email()
		case FieldNumber:
			field := f.Name
			fv.Custom(func(interface{}) *internal.AppError {
				if _, err := strconv.ParseFloat(value, 64); err != nil {
					return internal.NewValidationFieldError(field, field+" must be a number", internal.ErrCodeInvalidField)
				}
				return nil
			})
		}
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func fieldType(f FormField) string {
	if f.Type == "" {
		return FieldText
	}
	return f.Type
}

func validFieldType(t string) bool {
	for _, ft := range fieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

func stringValue(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
