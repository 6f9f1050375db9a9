package playback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/heimdex/heimdex-editor/internal/catalog"
)

// AssetSource resolves stored media by asset id.
type AssetSource interface {
	Get(ctx context.Context, id string) (*catalog.Asset, error)
}

// MediaServer streams stored uploads back to the preview player with
// byte-range support so scrubbing does not re-download the file.
type MediaServer struct {
	assets AssetSource
	logger *slog.Logger
}

func NewMediaServer(assets AssetSource, logger *slog.Logger) *MediaServer {
	return &MediaServer{assets: assets, logger: logger}
}

func (s *MediaServer) ServeAsset(w http.ResponseWriter, r *http.Request, id string) error {
	asset, err := s.assets.Get(r.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to look up asset: %w", err)
	}
	if asset == nil {
		http.Error(w, "media not found", http.StatusNotFound)
		return nil
	}

	file, err := os.Open(asset.Path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "media not found", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("failed to open media: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat media: %w", err)
	}
	size := stat.Size()

	h := w.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Type", contentTypeOf(asset))
	h.Set("ETag", strconv.Quote(asset.ID))

	span, err := ParseRange(r.Header.Get("Range"), size)
	switch err {
	case nil:
	case ErrUnsatisfiable:
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	case ErrInvalidRange:
		// Malformed ranges fall back to the full body.
		span = nil
	default:
		return err
	}

	if span == nil {
		h.Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			io.Copy(w, file)
		}
		return nil
	}

	h.Set("Content-Length", strconv.FormatInt(span.Length(), 10))
	h.Set("Content-Range", span.Header(size))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodHead {
		return nil
	}

	if _, err := file.Seek(span.Start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	if _, err := io.CopyN(w, file, span.Length()); err != nil && s.logger != nil {
		s.logger.Debug("media stream interrupted", "asset_id", asset.ID, "error", err)
	}
	return nil
}

func contentTypeOf(asset *catalog.Asset) string {
	if asset.ContentType != "" {
		return asset.ContentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(asset.Path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
