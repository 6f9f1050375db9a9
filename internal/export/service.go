package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/heimdex/heimdex-editor/internal/catalog"
)

const maxNameLen = 100

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNothingToExport   = errors.New("nothing to export")
)

// MediaResolver maps a session's video handle to the stored asset.
type MediaResolver interface {
	Resolve(ctx context.Context, handle string) (*catalog.Asset, error)
}

type Service struct {
	repo      catalog.Repository
	media     MediaResolver
	renderer  Renderer
	exportDir string
	logger    *slog.Logger
}

func NewService(repo catalog.Repository, media MediaResolver, renderer Renderer, exportDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:      repo,
		media:     media,
		renderer:  renderer,
		exportDir: exportDir,
		logger:    logger,
	}
}

// Export writes snap in the requested format and records the attempt in
// the exports table. Failures after the row exists are recorded as failed.
func (s *Service) Export(ctx context.Context, snap Snapshot, req Request) (*Result, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	switch format {
	case FormatEDL, FormatSRT, FormatRender:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	if len(snap.Segments) == 0 {
		return nil, fmt.Errorf("%w: no media loaded", ErrNothingToExport)
	}

	dir, err := s.outputDir(req.OutputDir)
	if err != nil {
		return nil, err
	}

	name := SanitizeName(req.Name, maxNameLen)
	if name == "" {
		name = "untitled"
	}

	now := time.Now()
	exp := &catalog.Export{
		ID:           catalog.NewID(),
		SessionID:    snap.SessionID,
		Format:       format,
		Status:       catalog.ExportStatusRunning,
		SegmentCount: len(snap.Segments),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateExport(ctx, exp); err != nil {
		return nil, fmt.Errorf("failed to record export: %w", err)
	}

	outPath := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", name, exp.ID[:8], format))
	result := &Result{
		ExportID:     exp.ID,
		Format:       format,
		OutputPath:   outPath,
		SegmentCount: len(snap.Segments),
	}

	if err := s.write(ctx, snap, req, format, name, outPath, result); err != nil {
		s.repo.UpdateExportStatus(ctx, exp.ID, catalog.ExportStatusFailed, "", err.Error())
		s.logger.Error("export failed", "export_id", exp.ID, "session_id", snap.SessionID, "format", format, "error", err)
		return nil, err
	}

	if err := s.repo.UpdateExportStatus(ctx, exp.ID, catalog.ExportStatusCompleted, outPath, ""); err != nil {
		return nil, fmt.Errorf("failed to record export: %w", err)
	}
	result.Status = catalog.ExportStatusCompleted

	s.logger.Info("export completed",
		"export_id", exp.ID,
		"session_id", snap.SessionID,
		"format", format,
		"segments", result.SegmentCount,
		"output", outPath,
	)
	return result, nil
}

func (s *Service) write(ctx context.Context, snap Snapshot, req Request, format, name, outPath string, result *Result) error {
	switch format {
	case FormatEDL:
		edl := GenerateEDL(snap.Segments, name, snap.Video.Name, req.FrameRate)
		return os.WriteFile(outPath, []byte(edl), 0644)

	case FormatSRT:
		srt, n := GenerateSRT(snap.Text)
		if n == 0 {
			return fmt.Errorf("%w: no subtitles", ErrNothingToExport)
		}
		result.CueCount = n
		return os.WriteFile(outPath, []byte(srt), 0644)

	default:
		if s.renderer == nil || s.media == nil {
			return fmt.Errorf("%w: rendering not configured", ErrUnsupportedFormat)
		}
		asset, err := s.media.Resolve(ctx, snap.Video.Handle)
		if err != nil {
			return fmt.Errorf("failed to resolve source media: %w", err)
		}
		if asset == nil {
			return fmt.Errorf("%w: source media missing", ErrNothingToExport)
		}
		return s.renderer.Render(ctx, RenderJob{
			SourcePath: asset.Path,
			OutputPath: outPath,
			Segments:   snap.Segments,
			Text:       snap.Text,
		})
	}
}

// outputDir validates a caller-supplied directory, or creates the default.
func (s *Service) outputDir(requested string) (string, error) {
	if requested != "" {
		if err := ValidateOutputDir(requested); err != nil {
			return "", err
		}
		return requested, nil
	}
	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	return s.exportDir, nil
}

func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]*catalog.Export, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListExports(ctx, sessionID, limit)
}
