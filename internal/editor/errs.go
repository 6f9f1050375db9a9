package editor

import "errors"

// Edit errors are local and recoverable. An operation that returns one of
// these leaves the session exactly as it was before the call.
var (
	ErrInvalidSplitPoint    = errors.New("split point must fall strictly inside the segment")
	ErrLastSegmentProtected = errors.New("cannot remove the only segment")
	ErrInvalidTimeRange     = errors.New("start time must be before end time")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrNotFound             = errors.New("not found")
	ErrMainTrackProtected   = errors.New("main audio track cannot be removed or replaced")
	ErrInvalidAudioType     = errors.New("invalid audio track type")
	ErrSessionNotFound      = errors.New("session not found")
)
