package editor

// Image overlays start at the playhead and run for ImageDefaultLength.
const ImageDefaultLength = 5.0

type ImageStyle struct {
	Opacity      float64 `json:"opacity"`
	BorderRadius float64 `json:"border_radius"`
	BorderWidth  float64 `json:"border_width"`
	BorderColor  string  `json:"border_color"`
	Rotation     float64 `json:"rotation"`
}

var DefaultImageStyle = ImageStyle{
	Opacity:     1,
	BorderColor: "#ffffff",
}

type ImageStyleChanges struct {
	Opacity      *float64 `json:"opacity,omitempty"`
	BorderRadius *float64 `json:"border_radius,omitempty"`
	BorderWidth  *float64 `json:"border_width,omitempty"`
	BorderColor  *string  `json:"border_color,omitempty"`
	Rotation     *float64 `json:"rotation,omitempty"`
}

func (s *ImageStyle) Apply(c ImageStyleChanges) {
	if c.Opacity != nil {
		s.Opacity = clamp(*c.Opacity, 0, 1)
	}
	if c.BorderRadius != nil && *c.BorderRadius >= 0 {
		s.BorderRadius = *c.BorderRadius
	}
	if c.BorderWidth != nil && *c.BorderWidth >= 0 {
		s.BorderWidth = *c.BorderWidth
	}
	if c.BorderColor != nil {
		s.BorderColor = *c.BorderColor
	}
	if c.Rotation != nil {
		s.Rotation = *c.Rotation
	}
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ImagePayload describes an image overlay. URL is the owned resource handle
// backing the image and mirrors the item's Handle.
type ImagePayload struct {
	URL      string     `json:"url"`
	Filename string     `json:"filename,omitempty"`
	Size     Size       `json:"size"`
	Style    ImageStyle `json:"style"`
}

type ImageItem = Item[ImagePayload]

// FitImageSize scales natural image dimensions down to at most maxWidth wide,
// keeping the aspect ratio.
func FitImageSize(naturalWidth, naturalHeight, maxWidth float64) Size {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return Size{Width: maxWidth, Height: maxWidth}
	}
	w := naturalWidth
	if w > maxWidth {
		w = maxWidth
	}
	return Size{Width: w, Height: w * naturalHeight / naturalWidth}
}
