// Package config reads typed settings from environment variables.
// Malformed values never abort startup: they are logged and the default is used.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup returns parse(value) for a set, non-empty variable and def otherwise.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("invalid environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", def),
			slog.String("error", err.Error()))
		return def
	}
	return v
}

// GetEnvString returns the variable's value, or def when it is unset or empty.
func GetEnvString(key, def string) string {
	return lookup(key, def, func(s string) (string, error) { return s, nil })
}

// GetEnvInt parses a base-10 integer, e.g. MAX_WORDS_PER_CHUNK=400.
func GetEnvInt(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

func GetEnvInt64(key string, def int64) int64 {
	return lookup(key, def, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func GetEnvFloat(key string, def float64) float64 {
	return lookup(key, def, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool accepts the forms understood by strconv.ParseBool ("1", "true", "F", ...).
func GetEnvBool(key string, def bool) bool {
	return lookup(key, def, strconv.ParseBool)
}

// GetEnvDuration parses a Go duration such as "90s" or "1m30s".
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

// GetEnvStringList splits a comma-separated value and trims each element.
// A value with no non-blank elements yields def.
//
//	UPLOAD_ALLOWED_EXTENSIONS=".txt, .md" -> [".txt" ".md"]
func GetEnvStringList(key string, def []string) []string {
	list := lookup(key, []string(nil), func(s string) ([]string, error) {
		var out []string
		for part := range strings.SplitSeq(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	})
	if len(list) == 0 {
		return def
	}
	return list
}

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}
