// Package lua runs scripts in a sandboxed gopher-lua state. Only the base,
// table, string and math libraries are available; functions that load code
// from disk or strings are removed.
package lua
