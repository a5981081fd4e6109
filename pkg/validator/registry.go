package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrymomot/formrules/pkg/cache"
)

const (
	// MaxDepth bounds combinator nesting. Deeper conditions fail.
	MaxDepth = 32

	// DefaultPatternCacheSize is the number of compiled regex patterns kept.
	DefaultPatternCacheSize = 256
)

// Registry dispatches rule names to predicates. It carries no rule state:
// the catalogue is fixed and every predicate is a pure function of the value
// and its parameters. The clock only feeds the date window.
type Registry struct {
	now      func() time.Time
	patterns *cache.LRU[string, *regexp.Regexp]
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the time source used by the date rule.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithPatternCache sets how many compiled regex patterns are kept.
// A size of zero or less disables caching.
func WithPatternCache(size int) Option {
	return func(r *Registry) {
		if size <= 0 {
			r.patterns = nil
			return
		}
		r.patterns = cache.New[string, *regexp.Regexp](size)
	}
}

// New creates a Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		now:      time.Now,
		patterns: cache.New[string, *regexp.Regexp](DefaultPatternCacheSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default is the registry behind the package-level helpers.
var Default = New()

// Run reports whether value satisfies the named rule. Unknown names and
// malformed parameters yield false; Run never panics on input shape.
func Run(value any, rule string, params any) bool {
	return Default.Run(value, rule, params)
}

// Evaluate is Run plus the reason for failures that are not plain rejections.
func Evaluate(value any, rule string, params any) (bool, error) {
	return Default.Evaluate(value, rule, params)
}

// Run reports whether value satisfies the named rule.
func (r *Registry) Run(value any, rule string, params any) bool {
	ok, _ := r.Evaluate(value, rule, params)
	return ok
}

// Evaluate reports whether value satisfies the named rule. When the result is
// false the error is nil for a genuine rejection, or one of ErrUnknownRule,
// ErrNotImplemented, ErrInvalidParams, ErrNestingTooDeep.
func (r *Registry) Evaluate(value any, rule string, params any) (bool, error) {
	return r.eval(value, rule, params, 0)
}

func (r *Registry) eval(value any, rule string, params any, depth int) (bool, error) {
	name, ok := Lookup(rule)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRule, rule)
	}

	switch name {
	case Alpha:
		return isAlpha(value), nil
	case AlphaNum:
		return isAlphaNum(value), nil
	case Numeric:
		return isNumeric(value), nil
	case Integer:
		return isInteger(value), nil
	case Decimal:
		return isDecimal(value), nil
	case Required:
		return isPresent(value), nil

	case Email:
		return isEmail(value), nil
	case URL:
		return isURL(value), nil
	case UUID:
		return isUUID(value), nil
	case MAC:
		return isMAC(value), nil
	case CEP:
		return isCEP(value), nil
	case CPF:
		return isCPF(value), nil
	case CNPJ:
		return isCNPJ(value), nil
	case Phone:
		return isPhone(value), nil
	case Regex:
		return r.matchesSelf(value, params)

	case IPv4Private:
		return isIPv4Private(value), nil
	case IPv4Public:
		return isIPv4Public(value), nil
	case IPv4:
		return isIPv4(value), nil
	case IPv6:
		return isIPv6(value), nil
	case IP:
		return isIP(value), nil

	case Date:
		return isDateWithin(value, r.now()), nil
	case Time:
		return isTime12(value) || isTime24(value), nil
	case Time12:
		return isTime12(value), nil
	case Time24:
		return isTime24(value), nil

	case MinLength:
		return minLength(value, params)
	case MaxLength:
		return maxLength(value, params)
	case MinValue:
		return minValue(value, params)
	case MaxValue:
		return maxValue(value, params)
	case Between:
		return between(value, params)
	case SameAs:
		return sameAs(value, params), nil

	case And:
		return r.and(value, params, depth)
	case Or:
		return r.or(value, params, depth)
	case Not:
		return r.not(value, params, depth)

	case RequiredIf, RequiredUnless:
		return false, fmt.Errorf("%w: %s", ErrNotImplemented, name)
	}

	return false, fmt.Errorf("%w: %q", ErrUnknownRule, rule)
}

// ValidateValue evaluates rules in order and stops at the first failure.
func (r *Registry) ValidateValue(value any, rules RuleSet) Result {
	for _, c := range rules {
		ok, err := r.Evaluate(value, c.Rule, c.Params)
		if !ok {
			return Result{Rule: c.Rule, Params: c.Params, Err: err}
		}
	}
	return Result{Valid: true}
}

// Result is the outcome of evaluating a rule set against one value.
type Result struct {
	Valid  bool
	Rule   string
	Params any
	// Err is set when the failure is not a plain predicate rejection.
	Err error
}

// Message renders the default message for the failing rule.
// Valid results have no message.
func (res Result) Message() string {
	if res.Valid {
		return ""
	}
	return DefaultMessages.Render(res.Rule, res.Params)
}
