package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formrules/pkg/formstore"
	"github.com/dmitrymomot/formrules/pkg/i18n"
	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/metrics"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// DefaultMaxBodySize limits request bodies.
const DefaultMaxBodySize = 1 << 20

// API serves the validation engine over HTTP.
type API struct {
	registry    *validator.Registry
	translator  *i18n.Translator
	store       formstore.Store
	metrics     *metrics.Collector
	log         *slog.Logger
	maxBodySize int64
	timeout     time.Duration
	langQuery   string
	langCookie  string
}

// Option configures an API.
type Option func(*API)

// WithRegistry replaces validator.Default.
func WithRegistry(r *validator.Registry) Option {
	return func(a *API) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithTranslator enables localized messages. Without one, messages come
// from validator.DefaultMessages.
func WithTranslator(t *i18n.Translator) Option {
	return func(a *API) { a.translator = t }
}

// WithStore enables the /v1/forms endpoints.
func WithStore(s formstore.Store) Option {
	return func(a *API) { a.store = s }
}

// WithMetrics records validation and HTTP metrics and serves them on /metrics.
func WithMetrics(m *metrics.Collector) Option {
	return func(a *API) { a.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

func WithMaxBodySize(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBodySize = n
		}
	}
}

// WithLanguageParams renames the query parameter and cookie that select the
// response language. Empty names keep the "lang" default.
func WithLanguageParams(query, cookie string) Option {
	return func(a *API) {
		a.langQuery = query
		a.langCookie = cookie
	}
}

// WithRequestTimeout bounds handler run time.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// New creates an API.
func New(opts ...Option) *API {
	a := &API{
		registry:    validator.Default,
		log:         slog.New(slog.DiscardHandler),
		maxBodySize: DefaultMaxBodySize,
		timeout:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("api"))
	return a
}

// Routes builds the router.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(a.metrics.Middleware)
	r.Use(RequestID)
	r.Use(accessLog(a.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.timeout))
	r.Use(i18n.Middleware(i18n.DefaultLangExtractor(a.extractorOptions()...)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.fail(w, r, HTTPError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		a.fail(w, r, HTTPError{Status: http.StatusMethodNotAllowed, Code: CodeBadRequest, Message: "method not allowed"})
	})

	r.Get("/healthz", a.health)
	if a.metrics != nil {
		r.Handle("/metrics", a.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rules", a.listRules)
		r.Get("/messages", a.listMessages)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/validate", a.validateRule)
			r.Post("/validate/rules", a.validateRuleSet)
			r.Post("/validate/fields", a.validateFields)
		})

		if a.store != nil {
			r.Route("/forms", func(r chi.Router) {
				r.Get("/", a.listForms)
				r.Get("/{name}", a.getForm)
				r.Delete("/{name}", a.deleteForm)
				r.With(middleware.AllowContentType("application/json")).Put("/{name}", a.saveForm)
				r.With(middleware.AllowContentType("application/json")).Post("/{name}/validate", a.validateForm)
			})
		}
	})
	return r
}

func (a *API) extractorOptions() []i18n.ExtractorOption {
	langs := []string{validator.SourceLanguage}
	if a.translator != nil {
		langs = a.translator.Languages()
	}
	return []i18n.ExtractorOption{
		i18n.WithSupportedLanguages(langs...),
		i18n.WithQueryParamName(a.langQuery),
		i18n.WithCookieName(a.langCookie),
	}
}

// fail writes err as an envelope error and logs server side failures.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := errorDetail(err)
	if status >= http.StatusInternalServerError {
		a.log.ErrorContext(r.Context(), "request failed", logger.Error(err))
	}
	writeJSON(w, status, JSONResponse{Error: detail})
}
