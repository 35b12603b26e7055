package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envReader reads typed settings and collects every problem, so one failed
// boot reports all misconfigured keys at once.
type envReader struct {
	errs []error
}

func (r *envReader) fail(format string, args ...any) {
	r.errs = append(r.errs, fmt.Errorf(format, args...))
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}

// require records msg when ok is false.
func (r *envReader) require(ok bool, format string, args ...any) {
	if !ok {
		r.fail(format, args...)
	}
}

// str returns the trimmed value, or fallback when the key is unset or blank.
func (r *envReader) str(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func (r *envReader) flag(key string, fallback bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	out, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail("parse %s: %w", key, err)
		return fallback
	}
	return out
}

// integer parses key and enforces a lower bound.
func (r *envReader) integer(key string, fallback, atLeast int) int {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	out, err := strconv.Atoi(raw)
	if err != nil {
		r.fail("parse %s: %w", key, err)
		return fallback
	}
	if out < atLeast {
		r.fail("%s must be >= %d", key, atLeast)
	}
	return out
}

// duration parses key and checks lo <= d < hi. A zero hi leaves the top open.
func (r *envReader) duration(key string, fallback, lo, hi time.Duration) time.Duration {
	out := fallback
	if raw := r.str(key, ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			r.fail("parse %s: %w", key, err)
			return fallback
		}
		out = parsed
	}
	switch {
	case out < lo && lo == time.Nanosecond:
		r.fail("%s must be > 0", key)
	case out < lo:
		r.fail("%s must be >= %s", key, lo)
	case hi > 0 && out >= hi:
		r.fail("%s must be within [%s, %s)", key, lo, hi)
	}
	return out
}

func (r *envReader) list(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(r.str(key, fallback), ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// oneOf lowercases the value and rejects anything outside allowed.
func (r *envReader) oneOf(key, fallback string, allowed ...string) string {
	raw := r.str(key, fallback)
	value := strings.ToLower(raw)
	for _, candidate := range allowed {
		if value == candidate {
			return value
		}
	}
	r.fail("invalid %s %q: valid values are %s", key, raw, strings.Join(allowed, ", "))
	return fallback
}

// leagueIDs reads "league:id,league:id" pairs. League names may hold spaces.
func (r *envReader) leagueIDs(key string) map[string]int64 {
	out := make(map[string]int64)
	for _, item := range r.list(key, "") {
		name, rawID, ok := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			r.fail("parse %s: invalid item %q, expected league:number", key, item)
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil || id <= 0 {
			r.fail("parse %s: id in item %q must be a positive number", key, item)
			continue
		}
		out[name] = id
	}
	return out
}

// uptraceDSNFromOTLPHeaders pulls uptrace-dsn out of an OTEL_EXPORTER_OTLP_HEADERS value.
func uptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}
	return ""
}
