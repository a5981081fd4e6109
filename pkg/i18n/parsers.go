package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser decodes one catalog file into language -> key tree.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]map[string]any, error)

	// SupportsFileExtension accepts the extension with or without a dot.
	SupportsFileExtension(ext string) bool
}

// NewParserForFile returns a parser chosen by file extension, or nil.
func NewParserForFile(filename string) Parser {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "json":
		return NewJSONParser()
	case "yaml", "yml":
		return NewYAMLParser()
	default:
		return nil
	}
}

// JSONParser reads catalogs such as {"en": {"validation": {"email": "..."}}}.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Parse(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return normalizeCatalog(data)
}

func (p *JSONParser) SupportsFileExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "json")
}

// YAMLParser reads catalogs keyed by language at the top level.
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

func (p *YAMLParser) Parse(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return normalizeCatalog(data)
}

func (p *YAMLParser) SupportsFileExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	return strings.EqualFold(ext, "yaml") || strings.EqualFold(ext, "yml")
}

// normalizeCatalog canonicalises the language keys and rejects anything
// that is not a tree of keys under each language.
func normalizeCatalog(data map[string]any) (map[string]map[string]any, error) {
	if len(data) == 0 {
		return nil, ErrInvalidStructure
	}

	out := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		tree, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q holds %T", ErrInvalidStructure, lang, val)
		}
		norm, err := NormalizeTag(lang)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", lang, err)
		}
		if existing, dup := out[norm]; dup {
			mergeTree(existing, tree)
			continue
		}
		out[norm] = tree
	}
	return out, nil
}

// mergeTree copies src into dst, descending into nested maps.
func mergeTree(dst, src map[string]any) {
	for k, v := range src {
		sub, isMap := v.(map[string]any)
		existing, hasMap := dst[k].(map[string]any)
		if isMap && hasMap {
			mergeTree(existing, sub)
			continue
		}
		dst[k] = v
	}
}
