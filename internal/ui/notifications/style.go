package notifications

import (
	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/renderer/core"
)

// KindStyle is how one notification kind is drawn.
type KindStyle struct {
	Header core.Style
	Body   core.Style
}

// StyleFor derives header and body styles from a kind's accent color. The
// header is drawn on the accent, the body on a darker shade of it.
func StyleFor(accent, text core.Color) KindStyle {
	return KindStyle{
		Header: core.Style{Foreground: text, Background: accent}.Bold(),
		Body:   core.Style{Foreground: text, Background: accent.Darken(0.6)},
	}
}

// DefaultStyles returns a style for every kind.
func DefaultStyles() map[notification.Kind]KindStyle {
	return map[notification.Kind]KindStyle{
		notification.KindError:   StyleFor(core.MustParseColor("#c4423f"), core.ColorWhite),
		notification.KindWarning: StyleFor(core.MustParseColor("#d19a2e"), core.ColorWhite),
		notification.KindInfo:    StyleFor(core.MustParseColor("#3f78c4"), core.ColorWhite),
		notification.KindSuccess: StyleFor(core.MustParseColor("#4a9c5b"), core.ColorWhite),
	}
}
