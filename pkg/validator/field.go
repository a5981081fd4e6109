package validator

import "gopkg.in/yaml.v3"

// Field is one input of a form: its current value, the rules that apply to
// it and any nested fields (fieldsets, repeated groups).
type Field struct {
	Name     string  `json:"name" yaml:"name"`
	Value    any     `json:"value,omitempty" yaml:"value,omitempty"`
	Rules    RuleSet `json:"rules,omitempty" yaml:"rules,omitempty"`
	Children []Field `json:"children,omitempty" yaml:"children,omitempty"`
}

// UnmarshalYAML keeps unquoted dates in values as text.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	textTimestamps(node)
	type plain Field
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = Field(p)
	return nil
}

// ValidateFields validates a form with the default registry.
func ValidateFields(fields ...Field) error {
	return Default.ValidateFields(fields...)
}

// ValidateFields runs every field's rule set, keeping only the first failure
// per field, and descends into the children of valid fields. Child errors
// are reported under dotted names ("address.zip"). It returns
// ValidationErrors or nil.
func (r *Registry) ValidateFields(fields ...Field) error {
	var errs ValidationErrors
	r.collect(&errs, "", fields)
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func (r *Registry) collect(errs *ValidationErrors, prefix string, fields []Field) {
	for _, f := range fields {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}

		if res := r.ValidateValue(f.Value, f.Rules); !res.Valid {
			errs.Add(newValidationError(name, res.Rule, res.Params))
			// children of an invalid field are not checked
			continue
		}

		if len(f.Children) > 0 {
			r.collect(errs, name, f.Children)
		}
	}
}
