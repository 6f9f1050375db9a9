package export

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/heimdex/heimdex-editor/internal/editor"
)

// GenerateSRT emits one cue per subtitle text item ordered by start time.
// Plain text overlays are burned in, not subtitled, so they are skipped.
func GenerateSRT(items []editor.TextItem) (string, int) {
	subs := make([]editor.TextItem, 0, len(items))
	for _, it := range items {
		if it.Payload.IsSubtitle && strings.TrimSpace(it.Payload.Content) != "" {
			subs = append(subs, it)
		}
	}
	slices.SortStableFunc(subs, func(a, b editor.TextItem) int {
		return cmp.Compare(a.Window.StartTime, b.Window.StartTime)
	})

	var b strings.Builder
	for i, it := range subs {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTime(it.Window.StartTime), srtTime(it.Window.EndTime), it.Payload.Content)
	}
	return b.String(), len(subs)
}

func srtTime(seconds float64) string {
	ms := int64(math.Round(math.Max(seconds, 0) * 1000))
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}
