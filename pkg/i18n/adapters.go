package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// TranslationAdapter loads catalogs: language -> key tree.
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapAdapter serves catalogs held in memory.
type MapAdapter struct {
	Data map[string]map[string]any
}

func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(a.Data))
	for lang, tree := range a.Data {
		norm, err := NormalizeTag(lang)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", lang, err)
		}
		if existing, ok := out[norm]; ok {
			mergeTree(existing, tree)
			continue
		}
		out[norm] = cloneTree(tree)
	}
	return out, nil
}

// FileAdapter loads a single catalog file.
type FileAdapter struct {
	parser Parser
	path   string
}

// NewFileAdapter returns nil if parser is nil or path is empty.
func NewFileAdapter(parser Parser, path string) *FileAdapter {
	if parser == nil || path == "" {
		return nil
	}
	return &FileAdapter{parser: parser, path: path}
}

func (a *FileAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	if a == nil {
		return nil, ErrNilAdapter
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	content, err := os.ReadFile(a.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrFailedToReadFile, a.path)
	}

	catalogs, err := a.parser.Parse(ctx, content)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseFile, err)
	}
	return catalogs, nil
}

// FSAdapter loads every file in one directory of a file system whose
// extension the parser supports. Catalogs for the same language found in
// several files are merged in file name order.
type FSAdapter struct {
	parser Parser
	fsys   fs.FS
	dir    string
}

// NewFSAdapter returns nil if parser or fsys is nil. An empty dir means
// the root of fsys.
func NewFSAdapter(parser Parser, fsys fs.FS, dir string) *FSAdapter {
	if parser == nil || fsys == nil {
		return nil
	}
	if dir == "" {
		dir = "."
	}
	return &FSAdapter{parser: parser, fsys: fsys, dir: dir}
}

// NewDirectoryAdapter loads catalogs from a directory on disk.
func NewDirectoryAdapter(parser Parser, dir string) *FSAdapter {
	if dir == "" {
		return nil
	}
	return NewFSAdapter(parser, os.DirFS(dir), ".")
}

// Load parses every supported file. Files that fail to parse are skipped;
// Load fails only when no file could be used, reporting every failure.
func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	if a == nil {
		return nil, ErrNilAdapter
	}
	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDir, err)
	}

	all := make(map[string]map[string]any)
	var failures []error
	loaded := 0

	for _, entry := range entries {
		if entry.IsDir() || !a.parser.SupportsFileExtension(path.Ext(entry.Name())) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingCancelled, err)
		}

		name := path.Join(a.dir, entry.Name())
		catalogs, err := a.loadFile(ctx, name)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", name, err))
			continue
		}
		for lang, tree := range catalogs {
			if all[lang] == nil {
				all[lang] = make(map[string]any)
			}
			mergeTree(all[lang], tree)
		}
		loaded++
	}

	if loaded == 0 {
		return nil, errors.Join(append([]error{fmt.Errorf("%w in %s", ErrNoTranslations, a.dir)}, failures...)...)
	}
	return all, nil
}

func (a *FSAdapter) loadFile(ctx context.Context, name string) (map[string]map[string]any, error) {
	content, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	catalogs, err := a.parser.Parse(ctx, content)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseFile, err)
	}
	return catalogs, nil
}

func cloneTree(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			out[k] = cloneTree(sub)
			continue
		}
		out[k] = v
	}
	return out
}

// ChainAdapter merges the catalogs of several adapters. Later adapters
// override keys of earlier ones; any failing adapter fails the load.
type ChainAdapter []TranslationAdapter

func (c ChainAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any)
	for _, a := range c {
		if a == nil {
			return nil, ErrNilAdapter
		}
		catalogs, err := a.Load(ctx)
		if err != nil {
			return nil, err
		}
		for lang, tree := range catalogs {
			if existing, ok := out[lang]; ok {
				mergeTree(existing, tree)
				continue
			}
			out[lang] = cloneTree(tree)
		}
	}
	return out, nil
}
