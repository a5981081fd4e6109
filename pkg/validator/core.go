package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a single field failure with translation support.
type ValidationError struct {
	Field             string
	Rule              string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

// ValidationErrors represents a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	var parts []string
	for _, err := range ve {
		msg := err.Message
		if msg == "" {
			msg = err.Rule
		}
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidationFailed) match any ValidationErrors.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (ve ValidationErrors) GetErrors(field string) []ValidationError {
	var errs []ValidationError
	for _, err := range ve {
		if err.Field == field {
			errs = append(errs, err)
		}
	}
	return errs
}

func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// ByField groups messages per field, in the shape HTTP error details use.
func (ve ValidationErrors) ByField() map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, err := range ve {
		out[err.Field] = append(out[err.Field], err.Message)
	}
	return out
}

// Translate re-renders every message through fn, which receives the
// translation key and placeholder values. Empty results keep the original.
func (ve ValidationErrors) Translate(fn func(key string, values map[string]any) string) ValidationErrors {
	out := make(ValidationErrors, len(ve))
	for i, err := range ve {
		out[i] = err
		if msg := fn(err.TranslationKey, err.TranslationValues); msg != "" {
			out[i].Message = msg
		}
	}
	return out
}

// Rule represents a single validation rule bound to a field.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply executes multiple validation rules and returns any validation errors.
func Apply(rules ...Rule) error {
	var errs ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}

	if errs.IsEmpty() {
		return nil
	}

	return errs
}

// Bind turns a condition on a field value into a Rule for Apply.
func Bind(field string, value any, cond Condition) Rule {
	return Default.Bind(field, value, cond)
}

// Bind turns a condition on a field value into a Rule for Apply.
func (r *Registry) Bind(field string, value any, cond Condition) Rule {
	return Rule{
		Check: func() bool {
			return r.Run(value, cond.Rule, cond.Params)
		},
		Error: newValidationError(field, cond.Rule, cond.Params),
	}
}

func newValidationError(field, rule string, params any) ValidationError {
	key := rule
	if name, ok := Lookup(rule); ok {
		key = string(name)
	}
	values := map[string]any{"field": field}
	for k, v := range TemplateValues(rule, params) {
		values[k] = v
	}
	return ValidationError{
		Field:             field,
		Rule:              key,
		Message:           DefaultMessages.Render(rule, params),
		TranslationKey:    "validation." + key,
		TranslationValues: values,
	}
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
