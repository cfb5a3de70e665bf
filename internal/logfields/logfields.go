package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyCollection = "collection"
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyOutput     = "output"
	KeyError      = "error"
)

func Collection(c string) slog.Attr { return slog.String(KeyCollection, c) }
func Slug(s string) slog.Attr       { return slog.String(KeySlug, s) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Stage(name string) slog.Attr   { return slog.String(KeyStage, name) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func Output(p string) slog.Attr     { return slog.String(KeyOutput, p) }

// Duration reports d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
