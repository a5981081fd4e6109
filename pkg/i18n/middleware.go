package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// SetLocale stores the language in ctx.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// GetLocale returns the language stored in ctx, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	locale, _ := ctx.Value(localeContextKey{}).(string)
	if locale == "" {
		return DefaultLanguage
	}
	return locale
}

// LangExtractor reads the preferred language from a request. An empty
// result means no preference was found.
type LangExtractor func(r *http.Request) string

// ExtractorConfig holds the sources DefaultLangExtractor inspects.
type ExtractorConfig struct {
	CookieName     string
	QueryParamName string
	SupportedLangs []string
}

// ExtractorOption configures DefaultLangExtractor.
type ExtractorOption func(*ExtractorConfig)

func WithCookieName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.CookieName = name
		}
	}
}

func WithQueryParamName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.QueryParamName = name
		}
	}
}

// WithSupportedLanguages restricts results to the given languages; other
// requests are matched to the closest one or ignored.
func WithSupportedLanguages(langs ...string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if len(langs) > 0 {
			c.SupportedLangs = langs
		}
	}
}

// DefaultLangExtractor checks, in order: the "lang" cookie, the "lang"
// query parameter, the Language header and Accept-Language. The first
// usable value wins.
func DefaultLangExtractor(opts ...ExtractorOption) LangExtractor {
	cfg := &ExtractorConfig{
		CookieName:     "lang",
		QueryParamName: "lang",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var m *matcher
	if len(cfg.SupportedLangs) > 0 {
		supported := make([]string, 0, len(cfg.SupportedLangs))
		for _, lang := range cfg.SupportedLangs {
			if norm, err := NormalizeTag(lang); err == nil {
				supported = append(supported, norm)
			}
		}
		m = newMatcher(supported, "")
	}

	resolve := func(lang string) string {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			return ""
		}
		if m != nil {
			return m.matchString(lang)
		}
		norm, err := NormalizeTag(lang)
		if err != nil {
			return ""
		}
		return norm
	}

	return func(r *http.Request) string {
		if cfg.CookieName != "" {
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				if lang := resolve(cookie.Value); lang != "" {
					return lang
				}
			}
		}

		if cfg.QueryParamName != "" {
			if lang := resolve(r.URL.Query().Get(cfg.QueryParamName)); lang != "" {
				return lang
			}
		}

		if lang := resolve(r.Header.Get("Language")); lang != "" {
			return lang
		}

		accept := r.Header.Get("Accept-Language")
		if accept == "" {
			return ""
		}
		if m != nil {
			return ParseAcceptLanguage(accept, m.supported, "")
		}
		return resolve(firstAcceptedLanguage(accept))
	}
}

// firstAcceptedLanguage returns the highest-priority entry of an
// Accept-Language header without negotiating.
func firstAcceptedLanguage(header string) string {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return ""
	}
	return prefs[0].String()
}

// Middleware stores the request language in the context. A nil extractor
// uses DefaultLangExtractor; requests without a preference get
// DefaultLanguage.
func Middleware(extr LangExtractor) func(http.Handler) http.Handler {
	if extr == nil {
		extr = DefaultLangExtractor()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := extr(r)
			if lang == "" {
				lang = DefaultLanguage
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
