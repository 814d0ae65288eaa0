package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// newJSONHandler writes one object per record keyed ts/level/msg. Floats are
// rounded like the console output so job logs and the terminal agree on
// segment boundaries.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: jsonAttr,
	})
}

func jsonAttr(_ []string, attr slog.Attr) slog.Attr {
	v := attr.Value
	switch attr.Key {
	case slog.TimeKey:
		if v.Kind() == slog.KindTime {
			v = slog.StringValue(v.Time().UTC().Format(time.RFC3339Nano))
		}
		return slog.Attr{Key: "ts", Value: v}
	case slog.LevelKey:
		return slog.String("level", strings.ToLower(v.String()))
	case slog.MessageKey:
		return slog.Attr{Key: "msg", Value: v}
	case slog.SourceKey:
		if src, ok := v.Any().(*slog.Source); ok && src != nil {
			return slog.String(slog.SourceKey, filepath.Base(src.File)+":"+strconv.Itoa(src.Line))
		}
	}
	if v.Kind() == slog.KindFloat64 {
		attr.Value = slog.Float64Value(roundMicro(v.Float64()))
	}
	return attr
}
