package model

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)

// ResponseError lists per-field validation failures keyed by field label.
type ResponseError struct {
	Fields map[string]string
}

func (e *ResponseError) Error() string {
	labels := make([]string, 0, len(e.Fields))
	for label := range e.Fields {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, label+": "+e.Fields[label])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidResponses, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrInvalidResponses) match.
func (e *ResponseError) Is(target error) bool {
	return target == ErrInvalidResponses
}

// ValidateResponses checks responses against the form's fields and returns the
// accepted answers keyed by field id. Answers for unknown fields are dropped.
func (f *Form) ValidateResponses(v *validator.Validate, responses map[string]any) (map[string]any, error) {
	clean := make(map[string]any, len(f.Fields))
	failures := make(map[string]string)

	for i := range f.Fields {
		field := &f.Fields[i]
		key := field.ID.String()
		value, present := responses[key]

		if !present || isEmpty(value) {
			if field.Required {
				failures[field.Label] = "is required"
			}
			continue
		}

		normalized, msg := validateValue(v, field, value)
		if msg != "" {
			failures[field.Label] = msg
			continue
		}
		clean[key] = normalized
	}

	if len(failures) > 0 {
		return nil, &ResponseError{Fields: failures}
	}
	return clean, nil
}

func validateValue(v *validator.Validate, field *FormField, value any) (any, string) {
	if field.FieldType == FieldCheckbox {
		return validateCheckbox(field, value)
	}

	s, ok := value.(string)
	if !ok {
		if field.FieldType == FieldNumber {
			if n, ok := value.(float64); ok {
				return finite(n)
			}
		}
		return nil, "must be a string"
	}
	s = strings.TrimSpace(s)

	switch field.FieldType {
	case FieldText, FieldTextarea:
		if len(s) > 5000 {
			return nil, "is too long"
		}
	case FieldEmail:
		if v.Var(s, "email") != nil {
			return nil, "must be a valid email"
		}
	case FieldURL:
		if v.Var(s, "http_url") != nil {
			return nil, "must be a valid http(s) url"
		}
	case FieldNumber:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, "must be a number"
		}
		return finite(n)
	case FieldDate:
		if _, err := time.Parse(dateLayout, s); err != nil {
			return nil, "must be a date (YYYY-MM-DD)"
		}
	case FieldPhone:
		if !phonePattern.MatchString(s) {
			return nil, "must be a valid phone number"
		}
	case FieldSelect, FieldRadio:
		if !containsOption(field.Options, s) {
			return nil, "must be one of the listed options"
		}
	}
	return s, ""
}

// finite rejects NaN and infinities, which cannot be stored as JSON.
func finite(n float64) (any, string) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, "must be a finite number"
	}
	return n, ""
}

func validateCheckbox(field *FormField, value any) (any, string) {
	if len(field.Options) == 0 {
		b, ok := value.(bool)
		if !ok {
			return nil, "must be true or false"
		}
		if field.Required && !b {
			return nil, "must be checked"
		}
		return b, ""
	}

	items, ok := value.([]any)
	if !ok {
		return nil, "must be a list of options"
	}
	selected := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || !containsOption(field.Options, s) {
			return nil, "must contain only listed options"
		}
		selected = append(selected, s)
	}
	return selected, ""
}

func containsOption(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	}
	return false
}

// FormatResponse renders a stored answer as a single export cell.
func FormatResponse(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, FormatResponse(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}
