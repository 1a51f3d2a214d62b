// Package topic provides event topic names and wildcard pattern matching for
// the event bus.
//
// # Topic Format
//
// Topics are colon-separated segments:
//
//	notification:error
//	notification:info
//	renderer:atlas:font
//	config:reloaded
//
// # Wildcards
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	notification:*     matches notification:error, notification:success
//	renderer:**        matches renderer:resized, renderer:atlas:font
//	**                 matches everything
//
// # Usage
//
//	t := topic.NewTrie()
//	t.Insert("notification:*")
//	t.Insert("notification:error")
//
//	matches := t.Match("notification:error")
//	// matches contains both patterns
package topic
