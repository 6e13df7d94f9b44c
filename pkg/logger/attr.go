package logger

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/recordkit/pkg/validator"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under the key "error". A nil err yields an empty Attr,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups validation errors by index under the key "errors", each as
// "path: message". An empty list yields an empty Attr.
func Errors(errs validator.ValidationErrors) slog.Attr {
	if len(errs) == 0 {
		return slog.Attr{}
	}
	as := make([]slog.Attr, len(errs))
	for i, e := range errs {
		as[i] = slog.String(strconv.Itoa(i), e.Error())
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// ErrorCount records the number of validation errors under "error_count".
func ErrorCount(n int) slog.Attr {
	return slog.Int("error_count", n)
}

// Schema records a schema name under the key "schema".
func Schema(name string) slog.Attr {
	return slog.String("schema", name)
}

// Path records a field path under the key "path".
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// File records an input file under the key "file".
func File(path string) slog.Attr {
	return slog.String("file", path)
}

// Outcome records a validation outcome under the key "outcome".
func Outcome(ok bool) slog.Attr {
	if ok {
		return slog.String("outcome", "valid")
	}
	return slog.String("outcome", "invalid")
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
