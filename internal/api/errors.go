package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heimdex/heimdex-editor/internal/catalog"
	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/export"
)

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{editor.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
	{editor.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{editor.ErrInvalidSplitPoint, http.StatusUnprocessableEntity, "INVALID_SPLIT_POINT"},
	{editor.ErrLastSegmentProtected, http.StatusConflict, "LAST_SEGMENT_PROTECTED"},
	{editor.ErrInvalidTimeRange, http.StatusUnprocessableEntity, "INVALID_TIME_RANGE"},
	{editor.ErrIndexOutOfRange, http.StatusUnprocessableEntity, "INDEX_OUT_OF_RANGE"},
	{editor.ErrMainTrackProtected, http.StatusConflict, "MAIN_TRACK_PROTECTED"},
	{editor.ErrInvalidAudioType, http.StatusUnprocessableEntity, "INVALID_AUDIO_TYPE"},
	{catalog.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA"},
	{catalog.ErrTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
	{export.ErrUnsupportedFormat, http.StatusBadRequest, "BAD_REQUEST"},
	{export.ErrInvalidOutputDir, http.StatusBadRequest, "BAD_REQUEST"},
	{export.ErrNothingToExport, http.StatusUnprocessableEntity, "NOTHING_TO_EXPORT"},
}

// writeDomainError maps a sentinel error to its HTTP status and code.
// Unknown errors become a 500 without leaking the message.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			WriteError(w, e.status, err.Error(), e.code)
			return
		}
	}
	logger.Error("request failed", "error", err)
	WriteError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
}

// decodeJSON reads a JSON body into v, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return false
	}
	return true
}

func missingField(w http.ResponseWriter, name string) {
	WriteError(w, http.StatusBadRequest, name+" is required", "BAD_REQUEST")
}
