package loader

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/cellgl/internal/config/layer"
)

// EnvPrefix marks environment variables read into configuration.
const EnvPrefix = "CELLGL_"

// EnvLoader reads prefixed environment variables. Mapped variables go to
// their configured path; any other CELLGL_SECTION_NAME_PARTS variable goes
// to section.nameParts.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	environ func() []string
}

func NewEnvLoader() *EnvLoader {
	return NewEnvLoaderWithEnviron(os.Environ)
}

// NewEnvLoaderWithEnviron reads variables from environ instead of the
// process environment.
func NewEnvLoaderWithEnviron(environ func() []string) *EnvLoader {
	return &EnvLoader{
		prefix:  EnvPrefix,
		mapping: DefaultEnvMapping(),
		environ: environ,
	}
}

// DefaultEnvMapping lists variables whose path the generic rule gets wrong.
func DefaultEnvMapping() map[string]string {
	return map[string]string{
		"CELLGL_LOG_LEVEL":          "logging.level",
		"CELLGL_LOG_FILE":           "logging.file",
		"CELLGL_FONT":               "font.path",
		"CELLGL_THEME_FG":           "theme.foreground",
		"CELLGL_THEME_BG":           "theme.background",
		"CELLGL_TIMEOUT_ERROR":      "notifications.timeouts.error",
		"CELLGL_TIMEOUT_WARNING":    "notifications.timeouts.warning",
		"CELLGL_TIMEOUT_INFO":       "notifications.timeouts.info",
		"CELLGL_TIMEOUT_SUCCESS":    "notifications.timeouts.success",
		"CELLGL_GPU_BACKGROUNDS":    "gpu.backgrounds",
		"CELLGL_NOTIFICATION_WIDTH": "notifications.width",
	}
}

// AddMapping routes env to a config path.
func (l *EnvLoader) AddMapping(env, path string) {
	l.mapping[env] = path
}

// Load never fails; an empty map means no variables were set. Empty values
// are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	cfg := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		layer.SetByPath(cfg, path, ParseValue(value))
	}
	return cfg, nil
}

// envToPath converts CELLGL_GRID_ROWS to grid.rows and
// CELLGL_FONT_LINE_HEIGHT to font.lineHeight.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	name := strings.ToLower(parts[1])
	for _, p := range parts[2:] {
		if p != "" {
			name += strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		}
	}
	return strings.ToLower(parts[0]) + "." + name
}

// ParseValue guesses the type of an environment value: bool, integer,
// float, duration, then string.
func ParseValue(s string) any {
	switch strings.ToLower(s) {
	case "":
		return s
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return s
}
