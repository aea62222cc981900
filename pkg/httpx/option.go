package httpx

import "log/slog"

type Option func(*LoggingRoundTripper)

func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sensitiveDataMasker = sensitiveDataMasker
	}
}

// WithLevel sets the level of the request and response records. Dumps are
// skipped entirely when the logger has the level disabled.
func WithLevel(level slog.Level) Option {
	return func(rt *LoggingRoundTripper) {
		rt.level = level
	}
}
