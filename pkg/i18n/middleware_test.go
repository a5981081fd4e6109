package i18n_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formrules/pkg/i18n"
)

func TestLocaleContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, i18n.DefaultLanguage, i18n.GetLocale(context.Background()))

	ctx := i18n.SetLocale(context.Background(), "en")
	assert.Equal(t, "en", i18n.GetLocale(ctx))

	ctx = i18n.SetLocale(ctx, "pt-BR")
	assert.Equal(t, "pt-BR", i18n.GetLocale(ctx))
}

func TestDefaultLangExtractor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []i18n.ExtractorOption
		prepare func(r *http.Request)
		target  string
		want    string
	}{
		{
			name:    "cookie wins",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "lang", Value: "en"}) },
			target:  "/?lang=pt-BR",
			want:    "en",
		},
		{
			name:   "query parameter",
			target: "/?lang=pt_br",
			want:   "pt-BR",
		},
		{
			name:    "language header",
			prepare: func(r *http.Request) { r.Header.Set("Language", "EN") },
			want:    "en",
		},
		{
			name:    "accept language without supported list",
			prepare: func(r *http.Request) { r.Header.Set("Accept-Language", "de;q=0.5, fr-CA") },
			want:    "fr-CA",
		},
		{
			name:    "accept language negotiated",
			opts:    []i18n.ExtractorOption{i18n.WithSupportedLanguages("pt-BR", "en")},
			prepare: func(r *http.Request) { r.Header.Set("Accept-Language", "en-GB,en;q=0.8") },
			want:    "en",
		},
		{
			name:   "unsupported query is skipped",
			opts:   []i18n.ExtractorOption{i18n.WithSupportedLanguages("pt-BR", "en")},
			target: "/?lang=fr",
			prepare: func(r *http.Request) {
				r.Header.Set("Accept-Language", "pt")
			},
			want: "pt-BR",
		},
		{
			name:    "custom names",
			opts:    []i18n.ExtractorOption{i18n.WithCookieName("locale"), i18n.WithQueryParamName("hl")},
			target:  "/?lang=pt-BR&hl=en",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "lang", Value: "pt-BR"}) },
			want:    "en",
		},
		{
			name:    "invalid values are ignored",
			target:  "/?lang=@@",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "lang", Value: "!!"}) },
			want:    "",
		},
		{
			name: "nothing",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			if target == "" {
				target = "/"
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.prepare != nil {
				tt.prepare(req)
			}
			assert.Equal(t, tt.want, i18n.DefaultLangExtractor(tt.opts...)(req))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = i18n.GetLocale(r.Context())
	})

	t.Run("default extractor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
		i18n.Middleware(nil)(handler).ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "en", got)
	})

	t.Run("falls back to default language", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		i18n.Middleware(func(*http.Request) string { return "" })(handler).ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, i18n.DefaultLanguage, got)
	})
}
