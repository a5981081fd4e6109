package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/api"
	"github.com/dmitrymomot/formrules/pkg/formstore"
	"github.com/dmitrymomot/formrules/pkg/i18n"
	"github.com/dmitrymomot/formrules/pkg/metrics"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *api.ErrorDetail `json:"error"`
}

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(context.Background(),
		i18n.NewFSAdapter(i18n.NewYAMLParser(), validator.Locales, "locales"),
		i18n.WithDefaultLanguage(validator.SourceLanguage),
		i18n.WithFallbackToKey(false),
		i18n.WithValueFormatter(validator.FormatValue),
	)
	require.NoError(t, err)
	return tr
}

func newServer(t *testing.T, opts ...api.Option) http.Handler {
	t.Helper()
	clock := validator.WithClock(func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) })
	base := []api.Option{
		api.WithRegistry(validator.New(clock)),
		api.WithTranslator(newTranslator(t)),
		api.WithStore(formstore.NewMemoryStore()),
	}
	return api.New(append(base, opts...)...).Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, env := do(t, newServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeData[map[string]string](t, env))
	assert.NotEmpty(t, rec.Header().Get(api.RequestIDHeader))

	rec, env = do(t, newServer(t, api.WithStore(downStore{formstore.NewMemoryStore()})), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeUnavailable, env.Error.Code)
}

type downStore struct{ *formstore.MemoryStore }

func (downStore) Ping(context.Context) error { return errors.New("down") }

func TestRequestID(t *testing.T) {
	t.Parallel()

	h := newServer(t)
	rec, _ := do(t, h, http.MethodGet, "/healthz", "", api.RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(api.RequestIDHeader))

	rec, _ = do(t, h, http.MethodGet, "/healthz", "", api.RequestIDHeader, "bad id!")
	assert.NotEqual(t, "bad id!", rec.Header().Get(api.RequestIDHeader))
	assert.Len(t, rec.Header().Get(api.RequestIDHeader), 36)

	var seen string
	inner := api.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = api.RequestIDFromContext(r.Context())
		attr, ok := api.RequestIDExtractor(r.Context())
		assert.True(t, ok)
		assert.Equal(t, seen, attr.Value.String())
	}))
	inner.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)

	_, ok := api.RequestIDExtractor(context.Background())
	assert.False(t, ok)
}

func TestListRules(t *testing.T) {
	t.Parallel()

	type rulesData struct {
		Lang  string         `json:"lang"`
		Rules []api.RuleInfo `json:"rules"`
	}

	rec, env := do(t, newServer(t), http.MethodGet, "/v1/rules", "", "Accept-Language", "en-US,en;q=0.9")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData[rulesData](t, env)
	assert.Equal(t, "en", data.Lang)
	require.Len(t, data.Rules, len(validator.Names()))

	byName := map[string]api.RuleInfo{}
	for _, r := range data.Rules {
		byName[r.Name] = r
	}
	assert.Equal(t, "Must be a valid e-mail address", byName["email"].Message)
	assert.True(t, byName["and"].Combinator)
	assert.False(t, byName["requiredIf"].Implemented)
	assert.True(t, byName["cpf"].Implemented)
}

func TestListMessages(t *testing.T) {
	t.Parallel()

	type messagesData struct {
		Lang     string            `json:"lang"`
		Messages map[string]string `json:"messages"`
	}

	h := newServer(t)

	_, env := do(t, h, http.MethodGet, "/v1/messages?lang=en", "")
	data := decodeData[messagesData](t, env)
	assert.Equal(t, "en", data.Lang)
	assert.Equal(t, "Must be between {{ min }} and {{ max }}", data.Messages["between"])
	assert.Contains(t, data.Messages, "default")

	_, env = do(t, h, http.MethodGet, "/v1/messages", "")
	data = decodeData[messagesData](t, env)
	assert.Equal(t, "pt-BR", data.Lang)
	assert.Equal(t, validator.DefaultMessages["between"], data.Messages["between"])

	_, env = do(t, h, http.MethodGet, "/v1/messages?lang=ja", "")
	assert.Equal(t, "pt-BR", decodeData[messagesData](t, env).Lang)
}

func TestListMessages_LanguageParams(t *testing.T) {
	t.Parallel()

	type messagesData struct {
		Lang string `json:"lang"`
	}

	h := newServer(t, api.WithLanguageParams("locale", "ui_lang"))

	_, env := do(t, h, http.MethodGet, "/v1/messages?locale=en", "")
	assert.Equal(t, "en", decodeData[messagesData](t, env).Lang)

	_, env = do(t, h, http.MethodGet, "/v1/messages", "", "Cookie", "ui_lang=en")
	assert.Equal(t, "en", decodeData[messagesData](t, env).Lang)

	_, env = do(t, h, http.MethodGet, "/v1/messages?lang=en", "")
	assert.Equal(t, "pt-BR", decodeData[messagesData](t, env).Lang)
}

func TestValidateRule(t *testing.T) {
	t.Parallel()

	h := newServer(t)

	tests := []struct {
		name string
		body string
		lang string
		want api.ValidationResult
	}{
		{
			name: "passes",
			body: `{"value":"ana@example.com","rule":"email"}`,
			want: api.ValidationResult{Valid: true, Lang: "pt-BR"},
		},
		{
			name: "case insensitive name",
			body: `{"value":"12345678909","rule":"CPF"}`,
			want: api.ValidationResult{Valid: true, Lang: "pt-BR"},
		},
		{
			name: "fails with source message",
			body: `{"value":15,"rule":"between","params":[1,10]}`,
			want: api.ValidationResult{Rule: "between", Message: "O campo deve estar entre 1 e 10", Lang: "pt-BR"},
		},
		{
			name: "fails with translated message",
			body: `{"value":15,"rule":"between","params":[1,10]}`,
			lang: "en",
			want: api.ValidationResult{Rule: "between", Message: "Must be between 1 and 10", Lang: "en"},
		},
		{
			name: "unknown rule",
			body: `{"value":"x","rule":"isEmail"}`,
			lang: "en",
			want: api.ValidationResult{Rule: "isEmail", Message: "Invalid value", Reason: "unknown_rule", Lang: "en"},
		},
		{
			name: "placeholder rule",
			body: `{"value":"x","rule":"requiredIf","params":["other","yes"]}`,
			lang: "en",
			want: api.ValidationResult{Rule: "requiredIf", Message: "This field is required", Reason: "not_implemented", Lang: "en"},
		},
		{
			name: "malformed params",
			body: `{"value":"abc","rule":"minLength","params":"three"}`,
			want: api.ValidationResult{Rule: "minLength", Message: "O campo deve ter no mínimo three caracteres", Reason: "invalid_params", Lang: "pt-BR"},
		},
		{
			name: "combinator",
			body: `{"value":"a@b.co","rule":"or","params":[["cpf"],["email"]]}`,
			want: api.ValidationResult{Valid: true, Lang: "pt-BR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.lang != "" {
				headers = []string{"Accept-Language", tt.lang}
			}
			rec, env := do(t, h, http.MethodPost, "/v1/validate", tt.body, headers...)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decodeData[api.ValidationResult](t, env))
		})
	}
}

func TestValidateRule_BadRequests(t *testing.T) {
	t.Parallel()

	h := newServer(t, api.WithMaxBodySize(64))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "missing rule", body: `{"value":"x"}`, status: http.StatusBadRequest},
		{name: "malformed json", body: `{"value":`, status: http.StatusBadRequest},
		{name: "trailing value", body: `{"rule":"email"} {}`, status: http.StatusBadRequest},
		{name: "too large", body: `{"value":"` + strings.Repeat("a", 100) + `","rule":"alpha"}`, status: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, "/v1/validate", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, api.CodeBadRequest, env.Error.Code)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/validate", strings.NewReader(`{"rule":"email"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestValidateRuleSet(t *testing.T) {
	t.Parallel()

	h := newServer(t)

	_, env := do(t, h, http.MethodPost, "/v1/validate/rules", `{"value":"ab","rules":{"required":null,"minLength":3,"alpha":null}}`, "Accept-Language", "en")
	assert.Equal(t, api.ValidationResult{Rule: "minLength", Message: "Must be at least 3 characters long", Lang: "en"}, decodeData[api.ValidationResult](t, env))

	_, env = do(t, h, http.MethodPost, "/v1/validate/rules", `{"value":"abcd","rules":[["required"],["minLength",3],["alpha"]]}`)
	assert.True(t, decodeData[api.ValidationResult](t, env).Valid)

	rec, _ := do(t, h, http.MethodPost, "/v1/validate/rules", `{"value":"abcd","rules":"required"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateFields(t *testing.T) {
	t.Parallel()

	h := newServer(t)
	body := `{"fields":[
		{"name":"email","value":"nope","rules":{"required":null,"email":null}},
		{"name":"age","value":17,"rules":[["minValue",18]]},
		{"name":"address","value":{},"children":[
			{"name":"zip","value":"123","rules":[["cep"]]}
		]}
	]}`

	rec, env := do(t, h, http.MethodPost, "/v1/validate/fields", body, "Accept-Language", "en")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeValidationFailed, env.Error.Code)
	assert.Equal(t, map[string][]string{
		"email":       {"Must be a valid e-mail address"},
		"age":         {"Must be at least 18"},
		"address.zip": {"Must be a valid CEP"},
	}, env.Error.Details)

	rec, env = do(t, h, http.MethodPost, "/v1/validate/fields", `{"fields":[{"name":"email","value":"ana@example.com","rules":["email"]}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"valid": true, "lang": "pt-BR"}, decodeData[map[string]any](t, env))
}

func TestForms(t *testing.T) {
	t.Parallel()

	h := newServer(t)
	def := `{"fields":[
		{"name":"email","rules":{"required":null,"email":null}},
		{"name":"document","rules":[["or",[["cpf"],["cnpj"]]]]}
	]}`

	rec, env := do(t, h, http.MethodPut, "/v1/forms/signup", def)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decodeData[formstore.Definition](t, env)
	assert.Equal(t, "signup", saved.Name)
	assert.Equal(t, []string{"required", "email"}, saved.Fields[0].Rules.Names())

	rec, env = do(t, h, http.MethodGet, "/v1/forms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string][]string{"forms": {"signup"}}, decodeData[map[string][]string](t, env))

	rec, env = do(t, h, http.MethodPost, "/v1/forms/signup/validate", `{"values":{"email":"ana@example.com","document":"abc"}}`, "Accept-Language", "en")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string][]string{"document": {"Invalid value"}}, env.Error.Details)

	rec, _ = do(t, h, http.MethodPost, "/v1/forms/signup/validate", `{"values":{"email":"ana@example.com","document":"11.222.333/0001-81"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/v1/forms/signup", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/v1/forms/signup", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)

	rec, _ = do(t, h, http.MethodDelete, "/v1/forms/signup", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/v1/forms/signup/validate", `{"values":{}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForms_InvalidDefinitions(t *testing.T) {
	t.Parallel()

	h := newServer(t)

	tests := []struct {
		name   string
		target string
		body   string
	}{
		{name: "unknown rule", target: "/v1/forms/f", body: `{"fields":[{"name":"a","rules":["isEmail"]}]}`},
		{name: "name mismatch", target: "/v1/forms/f", body: `{"name":"g","fields":[]}`},
		{name: "invalid name", target: "/v1/forms/bad:name", body: `{"fields":[]}`},
		{name: "duplicate field", target: "/v1/forms/f", body: `{"fields":[{"name":"a"},{"name":"a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPut, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, api.CodeBadRequest, env.Error.Code)
		})
	}
}

func TestFormsRoutesNeedStore(t *testing.T) {
	t.Parallel()

	h := api.New().Routes()
	rec, env := do(t, h, http.MethodGet, "/v1/forms", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)
}

func TestWithoutTranslator(t *testing.T) {
	t.Parallel()

	h := api.New().Routes()
	_, env := do(t, h, http.MethodPost, "/v1/validate", `{"value":15,"rule":"between","params":[1,10]}`, "Accept-Language", "en")
	res := decodeData[api.ValidationResult](t, env)
	assert.Equal(t, "pt-BR", res.Lang)
	assert.Equal(t, "O campo deve estar entre 1 e 10", res.Message)
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := newServer(t, api.WithLogger(log))

	do(t, h, http.MethodGet, "/healthz", "", api.RequestIDHeader, "req-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "/healthz", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	rec, env := do(t, newServer(t), http.MethodDelete, "/v1/rules", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotNil(t, env.Error)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New("apitest")
	h := newServer(t, api.WithMetrics(m))

	do(t, h, http.MethodPost, "/v1/validate", `{"value":"abc","rule":"cpf"}`)
	do(t, h, http.MethodPost, "/v1/validate", `{"value":"123.456.789-09","rule":"cpf"}`)
	do(t, h, http.MethodPost, "/v1/validate", `{"value":"x","rule":"requiredIf"}`)
	do(t, h, http.MethodPost, "/v1/validate/fields", `{"fields":[{"name":"email","value":"nope","rules":[["email"]]}]}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `apitest_validations_total{kind="rule",outcome="pass"} 1`)
	assert.Contains(t, body, `apitest_validations_total{kind="rule",outcome="fail"} 1`)
	assert.Contains(t, body, `apitest_validations_total{kind="rule",outcome="error"} 1`)
	assert.Contains(t, body, `apitest_validations_total{kind="fields",outcome="fail"} 1`)
	assert.Contains(t, body, `apitest_rule_failures_total{rule="cpf"} 1`)
	assert.Contains(t, body, `apitest_rule_failures_total{rule="email"} 1`)
	assert.Contains(t, body, `apitest_http_requests_total{method="POST",route="/v1/validate",status="200"} 3`)
}

func TestMetricsRouteNeedsCollector(t *testing.T) {
	t.Parallel()

	rec, env := do(t, newServer(t), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
}
