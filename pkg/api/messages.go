package api

import (
	"context"
	"maps"

	"github.com/dmitrymomot/formrules/pkg/i18n"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

const messagePrefix = "validation"

// language resolves the request locale to a catalog language.
func (a *API) language(ctx context.Context) string {
	if a.translator == nil {
		return validator.SourceLanguage
	}
	return a.translator.Match(i18n.GetLocale(ctx))
}

// template returns the message template for rule in lang, falling back to
// the catalog default entry and then to validator.DefaultMessages.
func (a *API) template(lang, rule string) string {
	if a.translator != nil {
		key := rule
		if name, ok := validator.Lookup(rule); ok {
			key = string(name)
		}
		if tmpl, ok := a.translator.Lookup(lang, messagePrefix+"."+key); ok {
			return tmpl
		}
		if tmpl, ok := a.translator.Lookup(lang, messagePrefix+"."+validator.DefaultMessageKey); ok {
			return tmpl
		}
	}
	return validator.MessageFor(rule)
}

func (a *API) render(lang, tmpl string, values map[string]any) string {
	if a.translator != nil {
		return a.translator.Format(tmpl, values)
	}
	return validator.FormatMessage(tmpl, values)
}

// message renders the failure message of rule evaluated with params.
func (a *API) message(lang, rule string, params any) string {
	return a.render(lang, a.template(lang, rule), validator.TemplateValues(rule, params))
}

// translate re-renders validation errors in lang.
func (a *API) translate(lang string, errs validator.ValidationErrors) validator.ValidationErrors {
	if a.translator == nil {
		return errs
	}
	byKey := make(map[string]string, len(errs))
	for _, e := range errs {
		byKey[e.TranslationKey] = e.Rule
	}
	return errs.Translate(func(key string, values map[string]any) string {
		return a.render(lang, a.template(lang, byKey[key]), values)
	})
}

// messageTable returns every rule template for lang.
func (a *API) messageTable(lang string) validator.MessageTable {
	table := maps.Clone(validator.DefaultMessages)
	if a.translator == nil {
		return table
	}
	_, entries := a.translator.Catalog(lang, messagePrefix)
	for k, v := range entries {
		table[k] = v
	}
	return table
}
