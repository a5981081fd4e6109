package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/metrics"
)

func TestObserveValidation(t *testing.T) {
	t.Parallel()

	m := metrics.New("")
	m.ObserveValidation(metrics.KindRule, metrics.OutcomePass)
	m.ObserveValidation(metrics.KindRule, metrics.OutcomeFail, "CPF")
	m.ObserveValidation(metrics.KindRule, metrics.OutcomeFail, "cpf")
	m.ObserveValidation(metrics.KindRule, metrics.OutcomeError, "nope")
	m.ObserveValidation(metrics.KindFields, metrics.OutcomeFail, "", "email")

	count, err := testutil.GatherAndCount(m.Registry(), "formrules_validations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "one series per kind and outcome pair")

	count, err = testutil.GatherAndCount(m.Registry(), "formrules_rule_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "cpf, unknown and email")
}

func TestNilCollector(t *testing.T) {
	t.Parallel()

	var m *metrics.Collector
	assert.NotPanics(t, func() { m.ObserveValidation(metrics.KindRule, metrics.OutcomeFail, "cpf") })

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMiddlewareAndHandler(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/v1/forms/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", m.Handler())

	for _, name := range []string{"signup", "contact", "checkout"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forms/"+name, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	count, err := testutil.GatherAndCount(m.Registry(), "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "path parameters share one series")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",route="/v1/forms/{name}",status="204"} 3`)
	assert.Contains(t, string(body), "go_goroutines")
}
