package events

import "github.com/dshills/cellgl/internal/event/topic"

const (
	TopicPluginScriptLoaded topic.Topic = "plugin:script:loaded"
	TopicPluginScriptFailed topic.Topic = "plugin:script:failed"
)

// ScriptLoaded reports a Lua script that ran to completion.
type ScriptLoaded struct {
	Path string
}

// ScriptFailed reports a Lua script that raised an error.
type ScriptFailed struct {
	Path string
	Err  error
}
