package i18n

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of file events into one reload.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a Translator when catalog files in a directory change.
type Watcher struct {
	tr       *Translator
	fsw      *fsnotify.Watcher
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	onReload func(error)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce replaces DefaultDebounce. Non-positive values are ignored.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadHook is called after every reload attempt with its result.
func WithReloadHook(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// NewWatcher starts watching dir. Events are only acted on once Run is called.
func NewWatcher(tr *Translator, dir string, opts ...WatcherOption) (*Watcher, error) {
	if tr == nil {
		return nil, ErrNilTranslator
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Join(ErrWatchFailed, err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, errors.Join(ErrWatchFailed, err)
	}

	w := &Watcher{
		tr:       tr,
		fsw:      fsw,
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   tr.logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes file events until ctx is done, then closes the watcher.
// A failed reload keeps the previous catalogs.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !catalogEvent(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			err := w.tr.Reload(ctx)
			if err != nil {
				w.logger.ErrorContext(ctx, "locale reload failed", slog.String("dir", w.dir), slog.Any("error", err))
			} else {
				w.logger.InfoContext(ctx, "locales reloaded", slog.String("dir", w.dir), slog.Any("languages", w.tr.Languages()))
			}
			if w.onReload != nil {
				w.onReload(err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "locale watcher error", slog.String("dir", w.dir), slog.Any("error", err))
		}
	}
}

func catalogEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
