package notification

import (
	"fmt"
	"strings"

	"github.com/dshills/cellgl/internal/event/events"
	"github.com/dshills/cellgl/internal/event/topic"
)

// Kind is the severity of a notification.
type Kind int

const (
	KindError Kind = iota
	KindWarning
	KindInfo
	KindSuccess
)

// Kinds lists every kind in display-priority order.
func Kinds() []Kind {
	return []Kind{KindError, KindWarning, KindInfo, KindSuccess}
}

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindInfo:
		return "info"
	case KindSuccess:
		return "success"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Topic returns the bus topic notifications of this kind are published on.
func (k Kind) Topic() topic.Topic {
	switch k {
	case KindError:
		return events.TopicNotificationError
	case KindWarning:
		return events.TopicNotificationWarning
	case KindInfo:
		return events.TopicNotificationInfo
	case KindSuccess:
		return events.TopicNotificationSuccess
	default:
		return ""
	}
}

// ParseKind parses a kind name, ignoring case. "warn" is accepted for
// warning.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return KindError, nil
	case "warning", "warn":
		return KindWarning, nil
	case "info":
		return KindInfo, nil
	case "success":
		return KindSuccess, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// KindFromTopic returns the kind a notification topic implies.
func KindFromTopic(t topic.Topic) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Topic() == t {
			return k, true
		}
	}
	return 0, false
}
