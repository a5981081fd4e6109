package i18n_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/i18n"
)

func TestMapAdapter(t *testing.T) {
	t.Parallel()

	t.Run("normalises and merges languages", func(t *testing.T) {
		adapter := &i18n.MapAdapter{Data: map[string]map[string]any{
			"pt_BR": {"a": "1"},
		}}
		got, err := adapter.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[string]map[string]any{"pt-BR": {"a": "1"}}, got)
	})

	t.Run("empty", func(t *testing.T) {
		got, err := (&i18n.MapAdapter{}).Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid language", func(t *testing.T) {
		_, err := (&i18n.MapAdapter{Data: map[string]map[string]any{"@@": {}}}).Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrInvalidLanguage)
	})
}

func TestFileAdapter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "en.yaml")
	require.NoError(t, os.WriteFile(path, []byte("en:\n  validation:\n    email: Invalid e-mail\n"), 0o600))

	t.Run("loads file", func(t *testing.T) {
		got, err := i18n.NewFileAdapter(i18n.NewYAMLParser(), path).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Invalid e-mail", got["en"]["validation"].(map[string]any)["email"])
	})

	t.Run("constructor validates input", func(t *testing.T) {
		assert.Nil(t, i18n.NewFileAdapter(nil, path))
		assert.Nil(t, i18n.NewFileAdapter(i18n.NewYAMLParser(), ""))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := i18n.NewFileAdapter(i18n.NewYAMLParser(), filepath.Join(dir, "nope.yaml")).Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrFailedToReadFile)
	})

	t.Run("empty file", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(empty, nil, 0o600))
		_, err := i18n.NewFileAdapter(i18n.NewYAMLParser(), empty).Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrFailedToReadFile)
	})

	t.Run("unparsable file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		_, err := i18n.NewFileAdapter(i18n.NewJSONParser(), bad).Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrFailedToParseFile)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := i18n.NewFileAdapter(i18n.NewYAMLParser(), path).Load(ctx)
		assert.ErrorIs(t, err, i18n.ErrLoadingCancelled)
	})

	t.Run("nil adapter", func(t *testing.T) {
		var a *i18n.FileAdapter
		_, err := a.Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrNilAdapter)
	})
}

func TestFSAdapter(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/a_en.yaml":   {Data: []byte("en:\n  validation:\n    email: Invalid e-mail\n")},
		"locales/b_en.yaml":   {Data: []byte("en:\n  validation:\n    cpf: Invalid CPF\n")},
		"locales/pt-BR.yml":   {Data: []byte("pt-BR:\n  validation:\n    email: E-mail inválido\n")},
		"locales/broken.yaml": {Data: []byte("en: [unterminated")},
		"locales/notes.txt":   {Data: []byte("ignored")},
		"locales/sub/x.yaml":  {Data: []byte("fr:\n  a: b\n")},
		"empty/readme.md":     {Data: []byte("nothing")},
	}

	t.Run("merges files and skips broken ones", func(t *testing.T) {
		got, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "locales").Load(context.Background())
		require.NoError(t, err)

		require.Contains(t, got, "en")
		require.Contains(t, got, "pt-BR")
		assert.NotContains(t, got, "fr", "subdirectories are not read")

		en := got["en"]["validation"].(map[string]any)
		assert.Equal(t, "Invalid e-mail", en["email"])
		assert.Equal(t, "Invalid CPF", en["cpf"])
	})

	t.Run("no usable files", func(t *testing.T) {
		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "empty").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrNoTranslations)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "nope").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrFailedToReadDir)
	})

	t.Run("constructor validates input", func(t *testing.T) {
		assert.Nil(t, i18n.NewFSAdapter(nil, fsys, "locales"))
		assert.Nil(t, i18n.NewFSAdapter(i18n.NewYAMLParser(), nil, "locales"))
	})
}

func TestDirectoryAdapter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"en":{"greeting":"Hello"}}`), 0o600))

	tr, err := i18n.NewTranslator(context.Background(),
		i18n.NewDirectoryAdapter(i18n.NewJSONParser(), dir),
		i18n.WithDefaultLanguage("en"),
	)
	require.NoError(t, err)
	assert.Equal(t, "Hello", tr.T("en", "greeting", nil))

	assert.Nil(t, i18n.NewDirectoryAdapter(i18n.NewJSONParser(), ""))
}

func TestChainAdapter(t *testing.T) {
	t.Parallel()

	chain := i18n.ChainAdapter{
		&i18n.MapAdapter{Data: map[string]map[string]any{
			"en": {"validation": map[string]any{"email": "Invalid e-mail", "cpf": "Invalid CPF"}},
		}},
		&i18n.MapAdapter{Data: map[string]map[string]any{
			"en":    {"validation": map[string]any{"email": "Bad e-mail"}},
			"pt-BR": {"validation": map[string]any{"email": "E-mail inválido"}},
		}},
	}

	got, err := chain.Load(context.Background())
	require.NoError(t, err)
	en := got["en"]["validation"].(map[string]any)
	assert.Equal(t, "Bad e-mail", en["email"])
	assert.Equal(t, "Invalid CPF", en["cpf"])
	assert.Contains(t, got, "pt-BR")

	_, err = i18n.ChainAdapter{chain, nil}.Load(context.Background())
	assert.ErrorIs(t, err, i18n.ErrNilAdapter)

	_, err = i18n.ChainAdapter{&i18n.MapAdapter{Data: map[string]map[string]any{"@@": {}}}}.Load(context.Background())
	assert.ErrorIs(t, err, i18n.ErrInvalidLanguage)
}
