// Package config loads cellgl settings from layered sources and keeps them
// current while the program runs.
//
// Layers, lowest priority first:
//
//	builtin defaults
//	user file      ~/.config/cellgl/config.toml, or -config
//	environment    CELLGL_* variables
//	arguments      command-line overrides
//
// The user file is TOML and may pull in other files with a top-level
// "@include" key. When watching is enabled, edits to the user file or any
// file it includes reload the user layer and notify observers. A reload
// that fails to parse keeps the previous configuration and reports the
// error through the same observers.
//
// Values are read through typed section accessors:
//
//	font := cfg.Font()
//	theme := cfg.Theme()
//
// or by dotted path:
//
//	rows, err := cfg.GetInt("grid.rows")
package config
