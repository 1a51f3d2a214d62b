package events

import "github.com/dshills/cellgl/internal/event/topic"

const (
	// TopicConfigReloaded is published after the config file was re-read and applied.
	TopicConfigReloaded topic.Topic = "config:reloaded"

	// TopicConfigReloadFailed is published when re-reading the config file failed.
	// The previous configuration stays in effect.
	TopicConfigReloadFailed topic.Topic = "config:reload:failed"
)

// ConfigReloaded is the payload of TopicConfigReloaded.
type ConfigReloaded struct {
	Path string
}

// ConfigReloadFailed is the payload of TopicConfigReloadFailed.
type ConfigReloadFailed struct {
	Path string
	Err  error
}
