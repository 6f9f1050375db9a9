package editor

// Text overlay window defaults around the playhead.
const (
	TextLeadIn  = 0.5
	TextLeadOut = 2.5
)

type TextStyle struct {
	FontFamily      string  `json:"font_family"`
	FontSize        float64 `json:"font_size"`
	Color           string  `json:"color"`
	BackgroundColor string  `json:"background_color"`
	Opacity         float64 `json:"opacity"`
	IsBold          bool    `json:"is_bold"`
	IsItalic        bool    `json:"is_italic"`
}

// TextStyleChanges lists the updatable style fields; nil fields are left as
// they are.
type TextStyleChanges struct {
	FontFamily      *string  `json:"font_family,omitempty"`
	FontSize        *float64 `json:"font_size,omitempty"`
	Color           *string  `json:"color,omitempty"`
	BackgroundColor *string  `json:"background_color,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
	IsBold          *bool    `json:"is_bold,omitempty"`
	IsItalic        *bool    `json:"is_italic,omitempty"`
}

func (s *TextStyle) Apply(c TextStyleChanges) {
	if c.FontFamily != nil {
		s.FontFamily = *c.FontFamily
	}
	if c.FontSize != nil && *c.FontSize > 0 {
		s.FontSize = *c.FontSize
	}
	if c.Color != nil {
		s.Color = *c.Color
	}
	if c.BackgroundColor != nil {
		s.BackgroundColor = *c.BackgroundColor
	}
	if c.Opacity != nil {
		s.Opacity = clamp(*c.Opacity, 0, 1)
	}
	if c.IsBold != nil {
		s.IsBold = *c.IsBold
	}
	if c.IsItalic != nil {
		s.IsItalic = *c.IsItalic
	}
}

type TextPayload struct {
	Content    string    `json:"content"`
	IsSubtitle bool      `json:"is_subtitle"`
	Style      TextStyle `json:"style"`
}

type TextItem = Item[TextPayload]

// TextPreset is the starting content, placement and style of a new text item.
type TextPreset struct {
	Payload  TextPayload
	Position Position
}

var (
	SubtitlePreset = TextPreset{
		Payload: TextPayload{
			Content:    "New subtitle",
			IsSubtitle: true,
			Style: TextStyle{
				FontFamily:      "Arial",
				FontSize:        24,
				Color:           "#FFFFFF",
				BackgroundColor: "#00000080",
				Opacity:         1,
			},
		},
		Position: Position{X: 0.5, Y: 0.9},
	}

	TextOverlayPreset = TextPreset{
		Payload: TextPayload{
			Content: "Text overlay",
			Style: TextStyle{
				FontFamily:      "Arial",
				FontSize:        32,
				Color:           "#FFFFFF",
				BackgroundColor: "transparent",
				Opacity:         1,
				IsBold:          true,
			},
		},
		Position: Position{X: 0.5, Y: 0.5},
	}
)
