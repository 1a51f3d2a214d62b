package config

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/renderer/core"
)

// Section accessors return snapshots. A bad value is recorded in
// ConfigErrors and replaced by the built-in default.

// FontConfig selects and sizes the GPU font.
type FontConfig struct {
	// Size in logical pixels.
	Size float64

	// Path to a TTF/OTF file; empty selects the built-in monospace font.
	Path string

	// Scale overrides the monitor content scale when positive.
	Scale float64
}

// GridConfig is the initial window size in cells.
type GridConfig struct {
	Rows int
	Cols int
}

// GPUConfig tunes the glyph renderer.
type GPUConfig struct {
	// Backgrounds enables the per-cell background pass.
	Backgrounds bool
}

// ThemeConfig holds resolved colors.
type ThemeConfig struct {
	Foreground core.Color
	Background core.Color

	// Highlights are named styles, e.g. "gutter".
	Highlights map[string]core.Style

	// NotificationText is drawn on every notification accent.
	NotificationText core.Color

	// Notifications is the accent color per kind.
	Notifications map[notification.Kind]core.Color
}

// Highlight returns the named style, or the default style.
func (t ThemeConfig) Highlight(name string) core.Style {
	if s, ok := t.Highlights[name]; ok {
		return s
	}
	return core.DefaultStyle()
}

// NotificationsConfig sizes the overlay and sets auto-dismiss timeouts.
// A zero timeout keeps notifications of that kind until dismissed.
type NotificationsConfig struct {
	Width    int
	Margin   int
	Timeouts map[notification.Kind]time.Duration
}

type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string

	// File is appended to; empty logs to stderr.
	File string
}

// ScriptsConfig lists Lua scripts run at startup.
type ScriptsConfig struct {
	Enabled bool
	Paths   []string
}

func (c *Config) Font() FontConfig {
	return FontConfig{
		Size:  c.getFloatOr("font.size", 14),
		Path:  c.getStringOr("font.path", ""),
		Scale: c.getFloatOr("font.scale", 0),
	}
}

func (c *Config) Grid() GridConfig {
	return GridConfig{
		Rows: c.getIntOr("grid.rows", 30),
		Cols: c.getIntOr("grid.cols", 100),
	}
}

func (c *Config) GPU() GPUConfig {
	return GPUConfig{
		Backgrounds: c.getBoolOr("gpu.backgrounds", true),
	}
}

func (c *Config) Theme() ThemeConfig {
	t := ThemeConfig{
		Foreground:       c.getColorOr("theme.foreground", core.MustParseColor("#d4d4d4")),
		Background:       c.getColorOr("theme.background", core.MustParseColor("#1e1e1e")),
		Highlights:       make(map[string]core.Style),
		NotificationText: c.getColorOr("theme.notifications.text", core.ColorWhite),
		Notifications:    make(map[notification.Kind]core.Color),
	}

	if v, ok := c.Get("theme.highlights"); ok {
		table, _ := v.(map[string]any)
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			path := "theme.highlights." + name
			style, err := parseStyle(path, table[name])
			if err != nil {
				c.recordConfigError(path, err)
				continue
			}
			t.Highlights[name] = style
		}
	}

	defaults := defaultConfig()["theme"].(map[string]any)["notifications"].(map[string]any)
	for _, k := range notification.Kinds() {
		fallback := core.MustParseColor(defaults[k.String()].(string))
		t.Notifications[k] = c.getColorOr("theme.notifications."+k.String(), fallback)
	}
	return t
}

func (c *Config) Notifications() NotificationsConfig {
	n := NotificationsConfig{
		Width:    c.getIntOr("notifications.width", 40),
		Margin:   c.getIntOr("notifications.margin", 1),
		Timeouts: make(map[notification.Kind]time.Duration),
	}
	for _, k := range notification.Kinds() {
		d := c.getDurationOr("notifications.timeouts."+k.String(), 0)
		if d > 0 {
			n.Timeouts[k] = d
		}
	}
	return n
}

func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

func (c *Config) Scripts() ScriptsConfig {
	return ScriptsConfig{
		Enabled: c.getBoolOr("scripts.enabled", true),
		Paths:   c.getStringSliceOr("scripts.paths", nil),
	}
}

// parseStyle reads "#rrggbb" as a foreground color, or a table with fg, bg,
// bold, dim, italic, underline and reverse keys.
func parseStyle(path string, v any) (core.Style, error) {
	style := core.DefaultStyle()
	switch val := v.(type) {
	case string:
		fg, err := core.ParseColor(val)
		if err != nil {
			return style, &TypeError{Path: path, Expected: "color", Actual: val}
		}
		return style.WithForeground(fg), nil
	case map[string]any:
		for key, raw := range val {
			switch key {
			case "fg", "bg":
				s, ok := raw.(string)
				if !ok {
					return style, &TypeError{Path: path + "." + key, Expected: "color", Actual: typeName(raw)}
				}
				col, err := core.ParseColor(s)
				if err != nil {
					return style, &TypeError{Path: path + "." + key, Expected: "color", Actual: s}
				}
				if key == "fg" {
					style.Foreground = col
				} else {
					style.Background = col
				}
			default:
				attr, known := styleAttrs[key]
				on, isBool := raw.(bool)
				if !known || !isBool {
					return style, &TypeError{Path: path + "." + key, Expected: "fg, bg or an attribute flag", Actual: typeName(raw)}
				}
				if on {
					style.Attributes |= attr
				}
			}
		}
		return style, nil
	default:
		return style, &TypeError{Path: path, Expected: "color or table", Actual: typeName(v)}
	}
}

var styleAttrs = map[string]core.Attribute{
	"bold":          core.AttrBold,
	"dim":           core.AttrDim,
	"italic":        core.AttrItalic,
	"underline":     core.AttrUnderline,
	"reverse":       core.AttrReverse,
	"strikethrough": core.AttrStrikethrough,
}

func (c *Config) getStringOr(path, def string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordConfigError(path, err)
		return def
	}
	return v
}

func (c *Config) getIntOr(path string, def int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.recordConfigError(path, err)
		return def
	}
	return v
}

func (c *Config) getBoolOr(path string, def bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordConfigError(path, err)
		return def
	}
	return v
}

func (c *Config) getFloatOr(path string, def float64) float64 {
	v, err := c.GetFloat(path)
	if err != nil {
		c.recordConfigError(path, err)
		return def
	}
	return v
}

func (c *Config) getDurationOr(path string, def time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		c.recordConfigError(path, err)
		return def
	}
	return v
}

func (c *Config) getStringSliceOr(path string, def []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		c.recordConfigError(path, err)
		v = def
	}
	return append([]string(nil), v...)
}

func (c *Config) getColorOr(path string, def core.Color) core.Color {
	s, err := c.GetString(path)
	if err != nil {
		c.recordConfigError(path, err)
		return def
	}
	col, err := core.ParseColor(s)
	if err != nil || col.IsDefault() {
		c.recordConfigError(path, &TypeError{Path: path, Expected: "color", Actual: strings.TrimSpace(s)})
		return def
	}
	return col
}

// recordConfigError keeps the first type error per path. Missing settings
// are not errors.
func (c *Config) recordConfigError(path string, err error) {
	if errors.Is(err, ErrSettingNotFound) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, ok := c.configErrors[path]; !ok {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns bad values found by section accessors since the
// last load.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.configErrors) == 0 {
		return nil
	}
	out := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		out[k] = v
	}
	return out
}
