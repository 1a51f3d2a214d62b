package events

import "github.com/dshills/cellgl/internal/event/topic"

// Notification topics. Each carries a NotificationPayload; the kind is
// implied by the topic.
const (
	TopicNotificationError   topic.Topic = "notification:error"
	TopicNotificationWarning topic.Topic = "notification:warning"
	TopicNotificationInfo    topic.Topic = "notification:info"
	TopicNotificationSuccess topic.Topic = "notification:success"

	// TopicNotificationAll matches every notification kind.
	TopicNotificationAll topic.Topic = "notification:*"
)

// NotificationPayload is the body of a notification event.
//
// A message is either a single string or a list of lines. When Lines is
// non-nil it wins and Message is ignored.
type NotificationPayload struct {
	Title   string
	Message string
	Lines   []string
}
