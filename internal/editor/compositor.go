package editor

import "slices"

// Frame is what should be drawn over the base media at Time.
type Frame struct {
	Time  float64     `json:"time"`
	Text  []TextItem  `json:"text"`
	Image []ImageItem `json:"image"`
}

// Compose lists the overlay items visible at t, per track, in insertion
// order. It never fails and never mutates the tracks.
func Compose(text *Track[TextPayload], image *Track[ImagePayload], t float64) Frame {
	f := Frame{Time: t, Text: []TextItem{}, Image: []ImageItem{}}
	if text != nil {
		f.Text = append(f.Text, slices.Collect(text.VisibleAt(t))...)
	}
	if image != nil {
		f.Image = append(f.Image, slices.Collect(image.VisibleAt(t))...)
	}
	return f
}
