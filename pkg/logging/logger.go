package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel selects the log level when no --log-level flag is given
	EnvLogLevel = "PPMSTEG_LOG_LEVEL"
	// EnvJSONLog switches to JSON output when set to 1
	EnvJSONLog = "PPMSTEG_JSON_LOG"

	DefaultLevel = "warn"
	Prefix       = "🖼️  "
)

// NewLogger creates a new hclog logger with standard settings.
// A level of the form "json:<level>" forces JSON output.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv(EnvJSONLog) == "1"
	if rest, ok := strings.CutPrefix(level, "json"); ok {
		jsonFormat = true
		level = strings.TrimPrefix(rest, ":")
		if level == "" {
			level = DefaultLevel
		}
	}

	if !jsonFormat {
		output = NewPrefixWriter(Prefix, output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// ResolveLevel picks the flag value, then the environment, then the default
func ResolveLevel(flagLevel string) (level string, source string) {
	if flagLevel != "" {
		return flagLevel, "flag"
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		return env, EnvLogLevel
	}
	return DefaultLevel, "default"
}
