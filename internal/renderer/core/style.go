package core

// Attribute is a set of text attribute flags.
type Attribute uint16

const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrStrikethrough
)

func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style is the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle uses the backend's default colors and no attributes.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{
		Foreground: fg,
		Background: ColorDefault,
	}
}

func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Merge overlays other on s. Non-default colors of other win; attributes
// are OR'd together.
func (s Style) Merge(other Style) Style {
	if !other.Foreground.IsDefault() {
		s.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		s.Background = other.Background
	}
	s.Attributes |= other.Attributes
	return s
}

func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

func (s Style) IsDefault() bool {
	return s.Equals(DefaultStyle())
}

// Resolve replaces default colors with the given theme colors and applies
// AttrReverse by swapping them. The result has no default colors.
func (s Style) Resolve(fg, bg Color) (Color, Color) {
	f := s.Foreground.Resolve(fg)
	b := s.Background.Resolve(bg)
	if s.Attributes.Has(AttrReverse) {
		f, b = b, f
	}
	if s.Attributes.Has(AttrDim) {
		f = f.Blend(b, 0.4)
	}
	return f, b
}
