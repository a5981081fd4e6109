package validator

import "fmt"

// Combinator parameters are decoded in full before any sub-condition runs:
// a malformed element fails the whole combinator instead of being skipped.

func (r *Registry) and(value any, params any, depth int) (bool, error) {
	conds, err := r.children(params, depth)
	if err != nil {
		return false, err
	}
	for _, c := range conds {
		ok, err := r.eval(value, c.Rule, c.Params, depth+1)
		if !ok {
			return false, err
		}
	}
	return true, nil
}

func (r *Registry) or(value any, params any, depth int) (bool, error) {
	conds, err := r.children(params, depth)
	if err != nil {
		return false, err
	}
	var firstErr error
	for _, c := range conds {
		ok, err := r.eval(value, c.Rule, c.Params, depth+1)
		if ok {
			return true, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return false, firstErr
}

// not accepts either a list (passes when none of the conditions pass, so an
// empty list passes) or a single condition, which it inverts.
func (r *Registry) not(value any, params any, depth int) (bool, error) {
	if depth >= MaxDepth {
		return false, ErrNestingTooDeep
	}

	if single, ok := singleCondition(params); ok {
		passed, err := r.eval(value, single.Rule, single.Params, depth+1)
		if err != nil {
			return false, err
		}
		return !passed, nil
	}

	conds, err := conditionList(params)
	if err != nil {
		return false, err
	}
	for _, c := range conds {
		passed, err := r.eval(value, c.Rule, c.Params, depth+1)
		if err != nil {
			return false, err
		}
		if passed {
			return false, nil
		}
	}
	return true, nil
}

func (r *Registry) children(params any, depth int) ([]Condition, error) {
	if depth >= MaxDepth {
		return nil, ErrNestingTooDeep
	}
	conds, err := conditionList(params)
	if err != nil {
		return nil, fmt.Errorf("combinator: %w", err)
	}
	return conds, nil
}

// singleCondition recognises a lone condition passed to not, as opposed to a
// list of conditions. A list is read as a [rule, param] tuple only when it has
// one element, or two elements whose head is a rule that takes a parameter.
// Any other list, bare names included, is a list of conditions.
func singleCondition(params any) (Condition, bool) {
	switch c := params.(type) {
	case Condition:
		return c, true
	case *Condition:
		if c != nil {
			return *c, true
		}
		return Condition{}, false
	case string, Name:
		cond, err := toCondition(c)
		return cond, err == nil
	case map[string]any:
		cond, err := toCondition(c)
		return cond, err == nil
	}

	items, ok := asList(params)
	if !ok || len(items) == 0 || len(items) > 2 {
		return Condition{}, false
	}
	head, isName := asString(items[0])
	if !isName {
		return Condition{}, false
	}
	if len(items) == 2 {
		name, known := Lookup(head)
		if !known || !name.TakesParams() {
			return Condition{}, false
		}
	}
	cond, err := toCondition(items)
	return cond, err == nil
}
