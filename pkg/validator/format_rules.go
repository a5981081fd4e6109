package validator

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// emailRegex is anchored at the start only: trailing text after a valid
	// domain is tolerated, matching the behaviour forms were built against.
	emailRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-.+]*[a-z0-9]@([a-z0-9][a-z0-9_\-+]*[a-z0-9])(\.[a-z0-9][a-z0-9_\-+]*[a-z0-9]){1,3}`)

	urlRegex = regexp.MustCompile(`^((?P<scheme>(https?|ftp|tel|mailto)):)?(//)?((?P<user>[a-z0-9_-]+):(?P<password>[^@\n]+)@)?(?P<host>(www\.)?[a-z][a-z0-9_-]+(\.[a-z][a-z0-9_-]+)+)(:(?P<port>[0-9]+))?(?P<path>(/[^/\n?#]*)*)(\?(?P<query>[^#\n]*))?(#(?P<fragment>.*))?$`)

	macRegex = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)

	cepRegex         = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	cpfMaskedRegex   = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	cpfDigitsRegex   = regexp.MustCompile(`^\d{11}$`)
	cnpjMaskedRegex  = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
	cnpjDigitsRegex  = regexp.MustCompile(`^\d{14}$`)
	phoneDigitsRegex = regexp.MustCompile(`^\d{10,11}$`)
	nonDigitRegex    = regexp.MustCompile(`\D`)
)

const (
	regexFlagsApplied = "ims"
	regexFlagsIgnored = "dguvy"
)

func matchText(re *regexp.Regexp, value any) bool {
	s, ok := asText(value)
	return ok && re.MatchString(s)
}

func isEmail(value any) bool { return matchText(emailRegex, value) }
func isURL(value any) bool   { return matchText(urlRegex, value) }
func isMAC(value any) bool   { return matchText(macRegex, value) }
func isCEP(value any) bool   { return matchText(cepRegex, value) }

// isUUID accepts the canonical lower-case 8-4-4-4-12 form only.
func isUUID(value any) bool {
	s, ok := asText(value)
	if !ok || len(s) != 36 || s != strings.ToLower(s) {
		return false
	}
	// uuid.Parse also accepts urn and braced forms; those are never 36 bytes
	_, err := uuid.Parse(s)
	return err == nil
}

// isCPF checks the shape of a CPF number. Check digits are not verified.
func isCPF(value any) bool {
	return matchText(cpfMaskedRegex, value) || matchText(cpfDigitsRegex, value)
}

// isCNPJ checks the shape of a CNPJ number. Check digits are not verified.
func isCNPJ(value any) bool {
	return matchText(cnpjMaskedRegex, value) || matchText(cnpjDigitsRegex, value)
}

// isPhone ignores punctuation and requires 10 or 11 digits (area code plus
// an 8 or 9 digit subscriber number).
func isPhone(value any) bool {
	s, ok := asString(value)
	if !ok {
		return false
	}
	return phoneDigitsRegex.MatchString(nonDigitRegex.ReplaceAllString(s, ""))
}

// matchesSelf compiles the value itself as a pattern, with optional flags
// from params, and tests the value against it. The pattern is not taken from
// params; rule files written for this rule depend on that.
func (r *Registry) matchesSelf(value any, params any) (bool, error) {
	s, ok := asText(value)
	if !ok {
		return false, nil
	}

	flags := ""
	if params != nil {
		f, ok := asString(params)
		if !ok {
			return false, ErrInvalidParams
		}
		for _, c := range f {
			switch {
			case strings.ContainsRune(regexFlagsApplied, c):
				if !strings.ContainsRune(flags, c) {
					flags += string(c)
				}
			case strings.ContainsRune(regexFlagsIgnored, c):
				// accepted but they do not change a single match
			default:
				return false, ErrInvalidParams
			}
		}
	}

	expr := s
	if flags != "" {
		expr = "(?" + flags + ")" + s
	}

	re, err := r.compile(expr)
	if err != nil {
		return false, nil
	}
	return re.MatchString(s), nil
}

func (r *Registry) compile(expr string) (*regexp.Regexp, error) {
	if r.patterns == nil {
		return regexp.Compile(expr)
	}
	return r.patterns.GetOrLoad(expr, regexp.Compile)
}
