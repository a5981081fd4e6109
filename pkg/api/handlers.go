package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formrules/pkg/formstore"
	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/metrics"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// RuleInfo describes one catalogue entry.
type RuleInfo struct {
	Name        string `json:"name"`
	Message     string `json:"message"`
	Combinator  bool   `json:"combinator,omitempty"`
	Implemented bool   `json:"implemented"`
}

// ValidateRequest evaluates a single rule.
type ValidateRequest struct {
	Value  any    `json:"value"`
	Rule   string `json:"rule"`
	Params any    `json:"params,omitempty"`
}

// ValidateRulesRequest evaluates an ordered rule set.
type ValidateRulesRequest struct {
	Value any               `json:"value"`
	Rules validator.RuleSet `json:"rules"`
}

// ValidateFieldsRequest validates a field tree.
type ValidateFieldsRequest struct {
	Fields []validator.Field `json:"fields"`
}

// ValidateFormRequest carries the values submitted for a stored form.
type ValidateFormRequest struct {
	Values map[string]any `json:"values"`
}

// ValidationResult is the outcome of a rule or rule set evaluation.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Lang    string `json:"lang"`
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if a.store != nil {
		if err := a.store.Ping(r.Context()); err != nil {
			a.fail(w, r, errors.Join(formstore.ErrStoreUnavailable, err))
			return
		}
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) listRules(w http.ResponseWriter, r *http.Request) {
	lang := a.language(r.Context())
	names := validator.Names()
	out := make([]RuleInfo, 0, len(names))
	for _, n := range names {
		out = append(out, RuleInfo{
			Name:        string(n),
			Message:     a.template(lang, string(n)),
			Combinator:  n.IsCombinator(),
			Implemented: n.Implemented(),
		})
	}
	writeData(w, http.StatusOK, map[string]any{"lang": lang, "rules": out})
}

func (a *API) listMessages(w http.ResponseWriter, r *http.Request) {
	lang := a.language(r.Context())
	writeData(w, http.StatusOK, map[string]any{"lang": lang, "messages": a.messageTable(lang)})
}

func (a *API) validateRule(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if req.Rule == "" {
		a.fail(w, r, badRequest("rule is required", nil))
		return
	}

	ok, err := a.registry.Evaluate(req.Value, req.Rule, req.Params)
	res := validator.Result{Valid: ok, Rule: req.Rule, Params: req.Params, Err: err}
	a.observe(metrics.KindRule, res)
	writeData(w, http.StatusOK, a.result(r, res))
}

func (a *API) validateRuleSet(w http.ResponseWriter, r *http.Request) {
	var req ValidateRulesRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	res := a.registry.ValidateValue(req.Value, req.Rules)
	a.observe(metrics.KindRules, res)
	writeData(w, http.StatusOK, a.result(r, res))
}

func (a *API) validateFields(w http.ResponseWriter, r *http.Request) {
	var req ValidateFieldsRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respondFields(w, r, "", req.Fields)
}

func (a *API) listForms(w http.ResponseWriter, r *http.Request) {
	names, err := a.store.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"forms": names})
}

func (a *API) getForm(w http.ResponseWriter, r *http.Request) {
	def, err := a.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, def)
}

func (a *API) saveForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var def formstore.Definition
	if err := a.decode(w, r, &def); err != nil {
		a.fail(w, r, err)
		return
	}
	if def.Name != "" && def.Name != name {
		a.fail(w, r, badRequest(fmt.Sprintf("body name %q does not match path name %q", def.Name, name), nil))
		return
	}
	def.Name = name

	if err := a.store.Save(r.Context(), def); err != nil {
		a.fail(w, r, err)
		return
	}
	saved, err := a.store.Get(r.Context(), name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.log.InfoContext(r.Context(), "form saved", logger.Form(name))
	writeData(w, http.StatusOK, saved)
}

func (a *API) deleteForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := a.store.Delete(r.Context(), name); err != nil {
		a.fail(w, r, err)
		return
	}
	a.log.InfoContext(r.Context(), "form deleted", logger.Form(name))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) validateForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, err := a.store.Get(r.Context(), name)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	var req ValidateFormRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respondFields(w, r, name, def.Bind(req.Values))
}

// respondFields validates fields and answers 200 or 422 with translated
// messages per field.
func (a *API) respondFields(w http.ResponseWriter, r *http.Request, form string, fields []validator.Field) {
	start := time.Now()
	lang := a.language(r.Context())
	err := a.registry.ValidateFields(fields...)
	errs := validator.ExtractValidationErrors(err)

	a.log.DebugContext(r.Context(), "fields validated",
		logger.Form(form),
		logger.Lang(lang),
		logger.FailedFields(len(errs)),
		logger.Duration(time.Since(start)),
	)

	kind := metrics.KindFields
	if form != "" {
		kind = metrics.KindForm
	}
	if errs == nil {
		a.metrics.ObserveValidation(kind, metrics.OutcomePass)
		writeData(w, http.StatusOK, map[string]any{"valid": true, "lang": lang})
		return
	}
	failed := make([]string, 0, len(errs))
	for _, e := range errs {
		failed = append(failed, e.Rule)
	}
	a.metrics.ObserveValidation(kind, metrics.OutcomeFail, failed...)
	a.fail(w, r, a.translate(lang, errs))
}

func (a *API) observe(kind string, res validator.Result) {
	switch {
	case res.Valid:
		a.metrics.ObserveValidation(kind, metrics.OutcomePass)
	case res.Err != nil:
		a.metrics.ObserveValidation(kind, metrics.OutcomeError, res.Rule)
	default:
		a.metrics.ObserveValidation(kind, metrics.OutcomeFail, res.Rule)
	}
}

func (a *API) result(r *http.Request, res validator.Result) ValidationResult {
	lang := a.language(r.Context())
	out := ValidationResult{Valid: res.Valid, Lang: lang}
	if res.Valid {
		return out
	}
	out.Rule = res.Rule
	out.Message = a.message(lang, res.Rule, res.Params)
	out.Reason = reason(res.Err)
	return out
}

// reason names why a rule failed when it was not a plain rejection.
func reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validator.ErrUnknownRule):
		return "unknown_rule"
	case errors.Is(err, validator.ErrNotImplemented):
		return "not_implemented"
	case errors.Is(err, validator.ErrNestingTooDeep):
		return "nesting_too_deep"
	case errors.Is(err, validator.ErrInvalidParams):
		return "invalid_params"
	}
	return "error"
}

// decode reads a JSON body of at most maxBodySize bytes into v.
func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, a.maxBodySize)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return HTTPError{Status: http.StatusRequestEntityTooLarge, Code: CodeBadRequest, Message: "request body too large"}
		case errors.Is(err, io.EOF):
			return badRequest("request body is empty", nil)
		}
		return badRequest("malformed request body", err)
	}
	if dec.More() {
		return badRequest("request body must hold a single JSON value", nil)
	}
	return nil
}
