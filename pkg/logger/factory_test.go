package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/logger"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestNew(t *testing.T) {
	type ctxKey string

	tests := []struct {
		name  string
		opts  []logger.Option
		ctx   context.Context
		check func(t *testing.T, buf *bytes.Buffer)
	}{
		{
			name: "json by default",
			check: func(t *testing.T, buf *bytes.Buffer) {
				entry := decodeEntry(t, buf)
				assert.Equal(t, "INFO", entry["level"])
				assert.Equal(t, "rule evaluated", entry["msg"])
			},
		},
		{
			name: "text formatter",
			opts: []logger.Option{logger.WithTextFormatter()},
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Contains(t, buf.String(), "level=INFO")
				assert.Contains(t, buf.String(), `msg="rule evaluated"`)
			},
		},
		{
			name: "last formatter wins",
			opts: []logger.Option{logger.WithTextFormatter(), logger.WithJSONFormatter()},
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Equal(t, "rule evaluated", decodeEntry(t, buf)["msg"])
			},
		},
		{
			name: "static attributes",
			opts: []logger.Option{logger.WithAttr(slog.String("svc", "formrules"), logger.Component("validator"))},
			check: func(t *testing.T, buf *bytes.Buffer) {
				entry := decodeEntry(t, buf)
				assert.Equal(t, "formrules", entry["svc"])
				assert.Equal(t, "validator", entry["component"])
			},
		},
		{
			name: "context extractor",
			opts: []logger.Option{logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				if v, ok := ctx.Value(ctxKey("form")).(string); ok {
					return logger.Form(v), true
				}
				return slog.Attr{}, false
			})},
			ctx: context.WithValue(context.Background(), ctxKey("form"), "signup"),
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Equal(t, "signup", decodeEntry(t, buf)["form"])
			},
		},
		{
			name: "level filters records",
			opts: []logger.Option{logger.WithLevel(slog.LevelWarn)},
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Zero(t, buf.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.New(append([]logger.Option{logger.WithOutput(buf)}, tt.opts...)...)
			require.NotNil(t, log)

			ctx := tt.ctx
			if ctx == nil {
				ctx = context.Background()
			}
			log.InfoContext(ctx, "rule evaluated")
			tt.check(t, buf)
		})
	}
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))
	logger.SetAsDefault(log)
	slog.Info("default")
	assert.Equal(t, "default", decodeEntry(t, buf)["msg"])
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestDecoratorKeepsExtractorsAcrossWith(t *testing.T) {
	buf := &bytes.Buffer{}
	type key string
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextValue("lang", key("lang")),
		logger.WithContextValue("", key("ignored")),
	)
	ctx := context.WithValue(context.Background(), key("lang"), "en")
	log.With(logger.Rule("email")).WithGroup("check").InfoContext(ctx, "evaluated", logger.Field("email"))

	entry := decodeEntry(t, buf)
	assert.Equal(t, "email", entry["rule"])
	group, ok := entry["check"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "email", group["field"])
	assert.Equal(t, "en", group["lang"])
}
