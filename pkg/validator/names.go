package validator

import (
	"slices"
	"strings"
)

// Name identifies a built-in rule. The set is closed: anything that does not
// resolve through Lookup is an unknown rule and always fails.
type Name string

const (
	Alpha          Name = "alpha"
	AlphaNum       Name = "alphaNum"
	And            Name = "and"
	Between        Name = "between"
	CEP            Name = "cep"
	CNPJ           Name = "cnpj"
	CPF            Name = "cpf"
	Date           Name = "date"
	Decimal        Name = "decimal"
	Email          Name = "email"
	Integer        Name = "integer"
	IPv4Private    Name = "ipv4Private"
	IPv4Public     Name = "ipv4Public"
	IPv4           Name = "ipv4"
	IPv6           Name = "ipv6"
	IP             Name = "ip"
	MAC            Name = "mac"
	MaxLength      Name = "maxLength"
	MaxValue       Name = "maxValue"
	MinLength      Name = "minLength"
	MinValue       Name = "minValue"
	Not            Name = "not"
	Numeric        Name = "numeric"
	Or             Name = "or"
	Phone          Name = "phone"
	Regex          Name = "regex"
	Required       Name = "required"
	RequiredIf     Name = "requiredIf"
	RequiredUnless Name = "requiredUnless"
	SameAs         Name = "sameAs"
	Time           Name = "time"
	Time12         Name = "time12"
	Time24         Name = "time24"
	URL            Name = "url"
	UUID           Name = "uuid"
)

var allNames = []Name{
	Alpha, AlphaNum, And, Between, CEP, CNPJ, CPF, Date, Decimal, Email,
	Integer, IPv4Private, IPv4Public, IPv4, IPv6, IP, MAC, MaxLength, MaxValue,
	MinLength, MinValue, Not, Numeric, Or, Phone, Regex, Required, RequiredIf,
	RequiredUnless, SameAs, Time, Time12, Time24, URL, UUID,
}

// byLowerName is the case-insensitive index over allNames.
var byLowerName = func() map[string]Name {
	m := make(map[string]Name, len(allNames))
	for _, n := range allNames {
		key := strings.ToLower(string(n))
		if _, dup := m[key]; dup {
			panic("validator: duplicate rule name " + string(n))
		}
		m[key] = n
	}
	return m
}()

// Lookup resolves a rule name regardless of case.
func Lookup(name string) (Name, bool) {
	n, ok := byLowerName[strings.ToLower(name)]
	return n, ok
}

// Names returns every built-in rule name in alphabetical order.
func Names() []Name {
	out := slices.Clone(allNames)
	slices.Sort(out)
	return out
}

// IsCombinator reports whether the rule aggregates other conditions.
func (n Name) IsCombinator() bool {
	return n == And || n == Or || n == Not
}

// Implemented reports whether the rule has a predicate. Declared rules
// without one always fail with ErrNotImplemented.
func (n Name) Implemented() bool {
	return n != RequiredIf && n != RequiredUnless
}

// TakesParams reports whether the rule reads a parameter.
func (n Name) TakesParams() bool {
	switch n {
	case MinLength, MaxLength, MinValue, MaxValue, Between, SameAs, Regex,
		And, Or, Not, RequiredIf, RequiredUnless:
		return true
	}
	return false
}

func (n Name) String() string {
	return string(n)
}
