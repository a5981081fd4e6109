package i18n

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the language used when nothing better is negotiated.
const DefaultLanguage = "pt-BR"

// maxAcceptLanguageLength bounds the Accept-Language header we parse.
const maxAcceptLanguageLength = 4096

// maxLangCodeLength follows the RFC 5646 recommendation.
const maxLangCodeLength = 35

// NormalizeTag returns the canonical BCP 47 form of a language code:
// "pt_br" and "PT-br" both become "pt-BR".
func NormalizeTag(lang string) (string, error) {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return "", ErrEmptyLanguage
	}
	if len(lang) > maxLangCodeLength {
		return "", ErrInvalidLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", errors.Join(ErrInvalidLanguage, err)
	}
	return tag.String(), nil
}

// matcher picks the closest supported language for a list of preferences.
type matcher struct {
	supported []string
	m         language.Matcher
}

// newMatcher builds a matcher over supported languages. The fallback
// language, when it is one of them, wins ties and unmatched requests.
func newMatcher(supported []string, fallback string) *matcher {
	if norm, err := NormalizeTag(fallback); err == nil {
		fallback = norm
	}
	ordered := make([]string, 0, len(supported))
	for _, lang := range supported {
		if lang == fallback {
			ordered = append([]string{lang}, ordered...)
			continue
		}
		ordered = append(ordered, lang)
	}

	tags := make([]language.Tag, len(ordered))
	for i, lang := range ordered {
		tags[i] = language.Make(lang)
	}
	return &matcher{supported: ordered, m: language.NewMatcher(tags)}
}

// match returns the supported language closest to the preferences, or ""
// when none is close enough.
func (m *matcher) match(prefs ...language.Tag) string {
	if len(m.supported) == 0 || len(prefs) == 0 {
		return ""
	}
	_, idx, conf := m.m.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(m.supported) {
		return ""
	}
	return m.supported[idx]
}

// matchString matches a single language code.
func (m *matcher) matchString(lang string) string {
	norm, err := NormalizeTag(lang)
	if err != nil {
		return ""
	}
	return m.match(language.Make(norm))
}

// ParseAcceptLanguage negotiates an Accept-Language header against the
// supported languages. It returns defaultLang when the header is empty,
// malformed, or matches none of them.
func ParseAcceptLanguage(header string, supportedLangs []string, defaultLang string) string {
	if header == "" || len(supportedLangs) == 0 {
		return defaultLang
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return defaultLang
	}

	supported := make([]string, 0, len(supportedLangs))
	for _, lang := range supportedLangs {
		if norm, err := NormalizeTag(lang); err == nil {
			supported = append(supported, norm)
		}
	}

	if lang := newMatcher(supported, defaultLang).match(prefs...); lang != "" {
		return lang
	}
	return defaultLang
}
