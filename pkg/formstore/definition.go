package formstore

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// Definition is a named form: the rule sets of its fields, without values.
type Definition struct {
	Name      string     `json:"name" yaml:"name"`
	Fields    []FieldDef `json:"fields" yaml:"fields"`
	UpdatedAt time.Time  `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// FieldDef describes one field of a stored form.
type FieldDef struct {
	Name     string            `json:"name" yaml:"name"`
	Rules    validator.RuleSet `json:"rules,omitempty" yaml:"rules,omitempty"`
	Children []FieldDef        `json:"children,omitempty" yaml:"children,omitempty"`
}

// ValidName reports whether name can be used as a form key.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// Validate checks the form name, that every field has a unique non-empty
// name among its siblings and that every rule name is known.
func (d Definition) Validate() error {
	if !ValidName(d.Name) {
		return errors.Join(ErrInvalidName, fmt.Errorf("%q", d.Name))
	}
	if err := validateFields("", d.Fields); err != nil {
		return errors.Join(ErrInvalidDefinition, err)
	}
	return nil
}

func validateFields(prefix string, fields []FieldDef) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		if f.Name == "" {
			return fmt.Errorf("field without name under %q", prefix)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate field %q", path)
		}
		seen[f.Name] = struct{}{}

		for _, c := range f.Rules {
			if _, ok := validator.Lookup(c.Rule); !ok {
				return fmt.Errorf("field %q: %w: %q", path, validator.ErrUnknownRule, c.Rule)
			}
		}
		if err := validateFields(path, f.Children); err != nil {
			return err
		}
	}
	return nil
}

// Bind pairs the stored rules with submitted values. A field's value is
// values[name]; the values of its children come from the nested object
// under the same key, when there is one.
func (d Definition) Bind(values map[string]any) []validator.Field {
	return bindFields(d.Fields, values)
}

func bindFields(defs []FieldDef, values map[string]any) []validator.Field {
	out := make([]validator.Field, 0, len(defs))
	for _, def := range defs {
		v := values[def.Name]
		f := validator.Field{Name: def.Name, Value: v, Rules: def.Rules}
		if len(def.Children) > 0 {
			nested, _ := v.(map[string]any)
			f.Children = bindFields(def.Children, nested)
		}
		out = append(out, f)
	}
	return out
}
