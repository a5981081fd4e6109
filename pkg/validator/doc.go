// Package validator is a named-rule validation engine for form fields.
//
// A rule is identified by a case-insensitive name ("email", "minLength",
// "between", ...) and evaluated against a value and an optional parameter.
// The catalogue is closed: unknown names, malformed parameters and values of
// the wrong type all fail instead of raising an error, so a form is never
// accidentally accepted.
//
// # Dispatch
//
//	validator.Run("ab", "minLength", 3)          // false
//	validator.Run(5, "between", []any{1, 10})    // true
//	validator.Run("x", "noSuchRule", nil)        // false
//
// Evaluate returns the same decision plus a sentinel error (ErrUnknownRule,
// ErrNotImplemented, ErrInvalidParams, ErrNestingTooDeep) when the failure
// is not a plain rejection of the value.
//
// # Conditions and rule sets
//
// Combinators take data, not functions. A Condition is a rule name with its
// parameters; and, or and not receive lists of conditions and recurse
// through the same dispatcher:
//
//	cond := validator.AnyOf(
//	    validator.AllOf(
//	        validator.NewCondition(validator.MinLength, 11),
//	        validator.NewCondition(validator.CPF, nil),
//	    ),
//	    validator.NewCondition(validator.CNPJ, nil),
//	)
//	ok := validator.Run(doc, cond.Rule, cond.Params)
//
// A RuleSet is the ordered list of conditions of one field. It decodes from
// YAML or JSON either as a list or as a mapping whose key order is kept:
//
//	rules:
//	  required: true
//	  minLength: 3
//	  not: [[sameAs, admin]]
//
// # Messages
//
// DefaultMessages maps rule names to Portuguese templates with {{ name }}
// placeholders; TemplateValues derives the placeholder values from the
// rule's parameters. The Locales filesystem carries the same catalogue per
// language for use with package i18n.
//
// # Forms
//
// ValidateFields checks a tree of Field values, reports the first failing
// rule per field and returns ValidationErrors, which carry translation keys
// (validation.<rule>) and values for re-rendering in another language.
//
// The Registry holds no mutable rule state and is safe for concurrent use.
package validator
