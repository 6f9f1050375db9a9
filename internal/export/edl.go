package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/heimdex/heimdex-editor/internal/editor"
)

const defaultFPS = 30

// GenerateEDL writes a CMX3600 cut list with one event per segment in
// presentation order. Record times accumulate so the events butt together.
func GenerateEDL(segments []editor.Segment, title, source string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = defaultFPS
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	if isDropFrame(frameRate) {
		b.WriteString("FCM: DROP FRAME\n")
	} else {
		b.WriteString("FCM: NON-DROP FRAME\n")
	}
	b.WriteString("\n")

	record := 0.0
	for i, seg := range segments {
		length := seg.EndTime - seg.StartTime
		fmt.Fprintf(&b, "%03d  %-8s %-5s C        %s %s %s %s\n",
			i+1, "AX", "V",
			timecode(seg.StartTime, fps), timecode(seg.EndTime, fps),
			timecode(record, fps), timecode(record+length, fps),
		)
		fmt.Fprintf(&b, "* FROM CLIP NAME:  %s\n", seg.ID)
		if source != "" {
			fmt.Fprintf(&b, "* SOURCE FILE:  %s\n", source)
		}
		record += length
	}
	return b.String()
}

func isDropFrame(rate float64) bool {
	return math.Abs(rate-29.97) < 0.01 || math.Abs(rate-59.94) < 0.01
}

// timecode renders seconds as HH:MM:SS:FF at fps.
func timecode(seconds float64, fps int) string {
	frames := int(math.Round(math.Max(seconds, 0) * float64(fps)))
	secs := frames / fps
	return fmt.Sprintf("%02d:%02d:%02d:%02d", secs/3600, secs/60%60, secs%60, frames%fps)
}
