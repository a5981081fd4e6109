package validator

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMessageKey names the fallback entry of a MessageTable.
const DefaultMessageKey = "default"

// MessageTable maps rule names to message templates. Templates use
// {{ name }} placeholders filled from the rule's own parameters.
type MessageTable map[string]string

// DefaultMessages holds the source (Portuguese) templates. The empty
// required message is intentional: the form marks required fields itself.
var DefaultMessages = MessageTable{
	"alpha":          "O campo aceita apenas letras",
	"alphaNum":       "O campo aceita apenas letras e números",
	"and":            "Campo inválido",
	"between":        "O campo deve estar entre {{ min }} e {{ max }}",
	"cep":            "O campo aceita apenas CEP válidos",
	"cnpj":           "O campo aceita apenas CNPJ válidos",
	"cpf":            "O campo aceita apenas CPF válidos",
	"date":           "O campo aceita apenas datas válidas",
	"decimal":        "O campo aceita apenas números decimais",
	"email":          "O campo aceita apenas e-mails válidos",
	"integer":        "O campo aceita apenas números inteiros",
	"ipv4Private":    "O campo aceita apenas IPs privados válidos",
	"ipv4Public":     "O campo aceita apenas IPs públicos válidos",
	"ipv4":           "O campo aceita apenas IPs válidos",
	"ipv6":           "O campo aceita apenas IPs válidos",
	"ip":             "O campo aceita apenas IPs válidos",
	"mac":            "O campo aceita apenas MACs válidos",
	"maxLength":      "O campo deve ter no máximo {{ max }} caracteres",
	"maxValue":       "O campo deve ter no máximo {{ max }}",
	"minLength":      "O campo deve ter no mínimo {{ min }} caracteres",
	"minValue":       "O campo deve ter no mínimo {{ min }}",
	"not":            "O campo não deve ser igual a {{ value }}",
	"numeric":        "O campo aceita apenas números",
	"or":             "Campo inválido",
	"phone":          "O campo aceita apenas telefones válidos",
	"regex":          "O campo aceita apenas valores válidos",
	"required":       "",
	"requiredIf":     "O campo precisa ser preenchido",
	"requiredUnless": "O campo precisa ser preenchido",
	"sameAs":         "O campo deve ser igual a {{ value }}",
	"time":           "O campo aceita apenas horas válidas",
	"time12":         "O campo aceita apenas horas válidas",
	"time24":         "O campo aceita apenas horas válidas",
	"url":            "O campo aceita apenas URLs válidas",
	"uuid":           "O campo aceita apenas UUIDs válidos",
	"default":        "Campo inválido",
}

// MessageFor returns the default template for a rule.
func MessageFor(rule string) string {
	return DefaultMessages.For(rule)
}

// For returns the template for rule. Lookup ignores case; rules without an
// entry get the default template.
func (mt MessageTable) For(rule string) string {
	if tmpl, ok := mt[rule]; ok {
		return tmpl
	}
	if name, ok := Lookup(rule); ok {
		if tmpl, ok := mt[string(name)]; ok {
			return tmpl
		}
	}
	return mt[DefaultMessageKey]
}

// Render returns the template for rule with placeholders filled from params.
func (mt MessageTable) Render(rule string, params any) string {
	return FormatMessage(mt.For(rule), TemplateValues(rule, params))
}

// Merge returns a copy of mt with entries from other layered on top.
func (mt MessageTable) Merge(other MessageTable) MessageTable {
	out := maps.Clone(mt)
	if out == nil {
		out = make(MessageTable, len(other))
	}
	maps.Copy(out, other)
	return out
}

var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// FormatMessage substitutes {{ name }} placeholders. Unknown placeholders
// are left untouched.
func FormatMessage(tmpl string, values map[string]any) string {
	if len(values) == 0 || !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := placeholderRegex.FindStringSubmatch(match)[1]
		if v, ok := values[name]; ok {
			return FormatValue(v)
		}
		return match
	})
}

// TemplateValues derives placeholder values from the parameters a rule was
// evaluated with: min/max for bounds, value for comparisons.
func TemplateValues(rule string, params any) map[string]any {
	name, ok := Lookup(rule)
	if !ok || params == nil {
		return nil
	}

	switch name {
	case Between:
		items, ok := asList(params)
		if !ok || len(items) != 2 {
			return nil
		}
		return map[string]any{"min": items[0], "max": items[1]}
	case MinLength, MinValue:
		return map[string]any{"min": params}
	case MaxLength, MaxValue:
		return map[string]any{"max": params}
	case SameAs:
		return map[string]any{"value": params}
	case Not:
		return map[string]any{"value": negatedValue(params)}
	}
	return nil
}

// negatedValue is what a not condition refuses: the comparison parameters
// of its sub-conditions.
func negatedValue(params any) any {
	if c, ok := singleCondition(params); ok {
		if c.Params == nil {
			return c.Rule
		}
		return c.Params
	}
	conds, err := conditionList(params)
	if err != nil {
		return params
	}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if c.Params == nil {
			parts = append(parts, c.Rule)
			continue
		}
		parts = append(parts, FormatValue(c.Params))
	}
	return strings.Join(parts, ", ")
}

// FormatValue renders a parameter for display: whole floats lose their
// trailing ".0", lists are comma separated.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}
	if items, ok := asList(v); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
