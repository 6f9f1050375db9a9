package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrTooLarge         = errors.New("upload exceeds size limit")
	ErrAlreadyReleased  = errors.New("media handle already released")
	ErrInvalidHandle    = errors.New("invalid media handle")
)

type UploadInfo struct {
	Filename    string
	ContentType string
	SessionID   string
}

// Store keeps uploaded media on disk and tracks it in the assets table.
// Release makes it usable as an editor.Releaser.
type Store struct {
	repo     Repository
	dir      string
	maxBytes int64
	logger   *slog.Logger

	mu sync.Mutex
}

func NewStore(repo Repository, dir string, maxBytes int64, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Store{repo: repo, dir: dir, maxBytes: maxBytes, logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Put copies r into the media directory and records the asset.
func (s *Store) Put(ctx context.Context, r io.Reader, info UploadInfo) (*Asset, error) {
	kind := KindOf(info.Filename, info.ContentType)
	if kind == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, info.Filename)
	}

	id := NewID()
	path := filepath.Join(s.dir, id+strings.ToLower(filepath.Ext(info.Filename)))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(path)
		return nil, fmt.Errorf("%w of %s", ErrTooLarge, humanize.Bytes(uint64(s.maxBytes)))
	}

	asset := &Asset{
		ID:          id,
		Kind:        kind,
		Filename:    filepath.Base(info.Filename),
		ContentType: info.ContentType,
		Size:        n,
		Path:        path,
		SessionID:   info.SessionID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		os.Remove(path)
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("media stored",
			"asset_id", id,
			"kind", kind,
			"filename", asset.Filename,
			"size", humanize.Bytes(uint64(n)),
		)
	}
	return asset, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

// Resolve looks up the asset behind a media handle.
func (s *Store) Resolve(ctx context.Context, handle string) (*Asset, error) {
	id, ok := ParseHandle(handle)
	if !ok {
		return nil, ErrInvalidHandle
	}
	return s.repo.GetAsset(ctx, id)
}

// Release deletes the asset behind handle. A handle can be released once;
// later calls return ErrAlreadyReleased.
func (s *Store) Release(handle string) error {
	id, ok := ParseHandle(handle)
	if !ok {
		return ErrInvalidHandle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	asset, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		return err
	}
	if asset == nil {
		return ErrAlreadyReleased
	}

	if err := os.Remove(asset.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	if _, err := s.repo.DeleteAsset(ctx, id); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Debug("media released", "asset_id", id, "size", humanize.Bytes(uint64(asset.Size)))
	}
	return nil
}

// RemoveFiles deletes leftover files for assets purged at startup.
func (s *Store) RemoveFiles(paths []string) int {
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err == nil {
			removed++
		} else if !os.IsNotExist(err) && s.logger != nil {
			s.logger.Warn("failed to remove orphan media", "path", p, "error", err)
		}
	}
	return removed
}
