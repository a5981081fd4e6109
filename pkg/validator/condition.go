package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Condition describes one rule application as plain data: the rule name and
// the parameters handed to its predicate. Combinators take lists of
// conditions, so rule sets can be stored, diffed and decoded from files.
//
// Besides the struct form, decoding accepts the tuple form ["minLength", 3],
// the bare name "email" and the single-key mapping {"minLength": 3}.
type Condition struct {
	Rule   string `json:"rule" yaml:"rule"`
	Params any    `json:"params,omitempty" yaml:"params,omitempty"`
}

// NewCondition builds a condition for the named rule.
func NewCondition(rule Name, params any) Condition {
	return Condition{Rule: string(rule), Params: params}
}

// AllOf passes when every condition passes.
func AllOf(conds ...Condition) Condition {
	return Condition{Rule: string(And), Params: conds}
}

// AnyOf passes when at least one condition passes.
func AnyOf(conds ...Condition) Condition {
	return Condition{Rule: string(Or), Params: conds}
}

// NoneOf passes when no condition passes.
func NoneOf(conds ...Condition) Condition {
	return Condition{Rule: string(Not), Params: conds}
}

// Negate inverts a single condition.
func Negate(cond Condition) Condition {
	return Condition{Rule: string(Not), Params: cond}
}

// UnmarshalJSON accepts every wire form of a condition.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cond, err := toCondition(raw)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// UnmarshalYAML accepts every wire form of a condition.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	textTimestamps(node)
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	cond, err := toCondition(raw)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// textTimestamps retags plain date scalars as strings so they decode to
// their source text instead of time.Time.
func textTimestamps(node *yaml.Node) {
	if node == nil {
		return
	}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!timestamp" {
		node.Tag = "!!str"
	}
	for _, child := range node.Content {
		textTimestamps(child)
	}
}

// toCondition converts one decoded element into a condition.
func toCondition(v any) (Condition, error) {
	switch c := v.(type) {
	case Condition:
		return c, nil
	case *Condition:
		if c == nil {
			return Condition{}, fmt.Errorf("%w: nil condition", ErrInvalidParams)
		}
		return *c, nil
	case Name:
		return Condition{Rule: string(c)}, nil
	case string:
		if c == "" {
			return Condition{}, fmt.Errorf("%w: empty rule name", ErrInvalidParams)
		}
		return Condition{Rule: c}, nil
	case map[string]any:
		return conditionFromMap(c)
	}

	items, ok := asList(v)
	if !ok {
		return Condition{}, fmt.Errorf("%w: cannot use %T as a condition", ErrInvalidParams, v)
	}
	if len(items) == 0 {
		return Condition{}, fmt.Errorf("%w: empty condition tuple", ErrInvalidParams)
	}
	rule, ok := asString(items[0])
	if !ok || rule == "" {
		return Condition{}, fmt.Errorf("%w: condition tuple must start with a rule name", ErrInvalidParams)
	}
	switch len(items) {
	case 1:
		return Condition{Rule: rule}, nil
	case 2:
		return Condition{Rule: rule, Params: items[1]}, nil
	default:
		return Condition{}, fmt.Errorf("%w: rule %q takes a single parameter, got %d", ErrInvalidParams, rule, len(items)-1)
	}
}

func conditionFromMap(m map[string]any) (Condition, error) {
	if raw, ok := m["rule"]; ok {
		rule, ok := asString(raw)
		if !ok || rule == "" {
			return Condition{}, fmt.Errorf("%w: rule must be a non-empty string", ErrInvalidParams)
		}
		return Condition{Rule: rule, Params: m["params"]}, nil
	}
	if len(m) != 1 {
		return Condition{}, fmt.Errorf("%w: condition mapping must hold exactly one rule", ErrInvalidParams)
	}
	for rule, params := range m {
		return Condition{Rule: rule, Params: params}, nil
	}
	return Condition{}, ErrInvalidParams
}

// conditionList decodes combinator parameters. Anything that is not a list of
// well-formed conditions is rejected as a whole.
func conditionList(params any) ([]Condition, error) {
	if conds, ok := params.([]Condition); ok {
		return conds, nil
	}
	if rs, ok := params.(RuleSet); ok {
		return rs, nil
	}
	items, ok := asList(params)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of conditions, got %T", ErrInvalidParams, params)
	}
	out := make([]Condition, 0, len(items))
	for i, item := range items {
		cond, err := toCondition(item)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		out = append(out, cond)
	}
	return out, nil
}

// RuleSet is the ordered list of conditions attached to one field.
// Evaluation runs top to bottom and stops at the first failure.
type RuleSet []Condition

// Names lists the rules in evaluation order.
func (rs RuleSet) Names() []string {
	out := make([]string, len(rs))
	for i, c := range rs {
		out[i] = c.Rule
	}
	return out
}

// Validate evaluates the rule set with the default registry.
func (rs RuleSet) Validate(value any) Result {
	return Default.ValidateValue(value, rs)
}

// UnmarshalYAML accepts a sequence of conditions or a mapping of rule name to
// parameters. Mapping key order is kept as evaluation order.
func (rs *RuleSet) UnmarshalYAML(node *yaml.Node) error {
	textTimestamps(node)
	switch node.Kind {
	case yaml.MappingNode:
		out := make(RuleSet, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var rule string
			if err := node.Content[i].Decode(&rule); err != nil {
				return err
			}
			var params any
			if err := node.Content[i+1].Decode(&params); err != nil {
				return err
			}
			out = append(out, Condition{Rule: rule, Params: params})
		}
		*rs = out
		return nil
	case yaml.SequenceNode:
		out := make(RuleSet, 0, len(node.Content))
		for _, item := range node.Content {
			var c Condition
			if err := item.Decode(&c); err != nil {
				return err
			}
			out = append(out, c)
		}
		*rs = out
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*rs = nil
			return nil
		}
	}
	return fmt.Errorf("%w: rule set must be a mapping or a sequence", ErrInvalidParams)
}

// UnmarshalJSON accepts an array of conditions or an object of rule name to
// parameters. Object key order is kept as evaluation order.
func (rs *RuleSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*rs = nil
		return nil
	}

	switch data[0] {
	case '[':
		var items []Condition
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*rs = items
		return nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(data))
		if _, err := dec.Token(); err != nil {
			return err
		}
		var out RuleSet
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			rule, ok := tok.(string)
			if !ok {
				return errors.Join(ErrInvalidParams, fmt.Errorf("unexpected token %v", tok))
			}
			var params any
			if err := dec.Decode(&params); err != nil {
				return err
			}
			out = append(out, Condition{Rule: rule, Params: params})
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		*rs = out
		return nil
	}
	return fmt.Errorf("%w: rule set must be an object or an array", ErrInvalidParams)
}
