package i18n

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Translator resolves message keys against per-language catalogs.
// It is safe for concurrent use; Reload swaps catalogs atomically.
type Translator struct {
	adapter        TranslationAdapter
	defaultLang    string
	fallbackToKey  bool
	missingLogMode bool
	logger         *slog.Logger
	formatValue    func(any) string

	mu       sync.RWMutex
	catalogs map[string]map[string]any
	matcher  *matcher
}

// NewTranslator loads catalogs through adapter.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, opts ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		adapter:       adapter,
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		formatValue:   formatValue,
	}
	for _, opt := range opts {
		opt(t)
	}

	if norm, err := NormalizeTag(t.defaultLang); err == nil {
		t.defaultLang = norm
	}

	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload fetches the catalogs again from the adapter.
func (t *Translator) Reload(ctx context.Context) error {
	catalogs, err := t.adapter.Load(ctx)
	if err != nil {
		return err
	}
	for lang, tree := range catalogs {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if tree == nil {
			return fmt.Errorf("%w: nil catalog for %s", ErrInvalidStructure, lang)
		}
	}
	if len(catalogs) == 0 {
		t.logger.WarnContext(ctx, "no translations loaded")
	}

	langs := sortedKeys(catalogs)

	t.mu.Lock()
	t.catalogs = catalogs
	t.matcher = newMatcher(langs, t.defaultLang)
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "translations loaded", slog.Any("languages", langs))
	return nil
}

// DefaultLanguage returns the fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Languages lists languages with a catalog, sorted.
func (t *Translator) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedKeys(t.catalogs)
}

// Match returns the catalog language closest to lang, falling back to the
// default language.
func (t *Translator) Match(lang string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.match(lang)
}

func (t *Translator) match(lang string) string {
	if lang != "" && t.matcher != nil {
		if m := t.matcher.matchString(lang); m != "" {
			return m
		}
	}
	return t.defaultLang
}

// Has reports whether lang's own catalog defines key, with no fallback.
func (t *Translator) Has(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	norm, err := NormalizeTag(lang)
	if err != nil {
		return false
	}
	_, ok := lookupString(t.catalogs[norm], key)
	return ok
}

// Lookup returns the raw template for key in the language matched from
// lang, then in the default language.
func (t *Translator) Lookup(lang, key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	resolved := t.match(lang)
	if tmpl, ok := lookupString(t.catalogs[resolved], key); ok {
		return tmpl, true
	}
	if resolved != t.defaultLang {
		if tmpl, ok := lookupString(t.catalogs[t.defaultLang], key); ok {
			return tmpl, true
		}
	}
	return "", false
}

// T translates key into lang, filling {{ name }} placeholders from values.
// Missing keys yield the key itself or "" when fallback to key is off.
func (t *Translator) T(lang, key string, values map[string]any) string {
	tmpl, ok := t.Lookup(lang, key)
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
		}
		if !t.fallbackToKey {
			return ""
		}
		tmpl = key
	}
	return t.Format(tmpl, values)
}

// Tc translates key into the language stored in ctx.
func (t *Translator) Tc(ctx context.Context, key string, values map[string]any) string {
	return t.T(GetLocale(ctx), key, values)
}

// Catalog flattens the entries under prefix for the language matched from
// lang, with gaps filled from the default language. Keys are returned
// without the prefix.
func (t *Translator) Catalog(lang, prefix string) (string, map[string]string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	resolved := t.match(lang)
	out := make(map[string]string)
	if resolved != t.defaultLang {
		flatten(out, subtree(t.catalogs[t.defaultLang], prefix), "")
	}
	flatten(out, subtree(t.catalogs[resolved], prefix), "")
	return resolved, out
}

var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Format substitutes {{ name }} placeholders. Unknown names are kept.
func (t *Translator) Format(tmpl string, values map[string]any) string {
	if len(values) == 0 || !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := placeholderRegex.FindStringSubmatch(match)[1]
		if v, ok := values[name]; ok {
			return t.formatValue(v)
		}
		return match
	})
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

// lookupString walks a dotted key through nested maps.
func lookupString(tree map[string]any, key string) (string, bool) {
	if tree == nil || key == "" {
		return "", false
	}
	parts := strings.Split(key, ".")
	current := tree
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			switch v := val.(type) {
			case string:
				return v, true
			case nil:
				return "", true
			case fmt.Stringer:
				return v.String(), true
			}
			return "", false
		}
		next, ok := val.(map[string]any)
		if !ok {
			return "", false
		}
		current = next
	}
	return "", false
}

func subtree(tree map[string]any, prefix string) map[string]any {
	if prefix == "" {
		return tree
	}
	current := tree
	for part := range strings.SplitSeq(prefix, ".") {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func flatten(out map[string]string, tree map[string]any, prefix string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch x := v.(type) {
		case map[string]any:
			flatten(out, x, key)
		case string:
			out[key] = x
		case nil:
			out[key] = ""
		}
	}
}

func sortedKeys(m map[string]map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
