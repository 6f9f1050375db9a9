package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/heimdex/heimdex-editor/internal/editor"
)

// RenderJob is everything a renderer needs to produce a finished video.
type RenderJob struct {
	SourcePath string
	OutputPath string
	Segments   []editor.Segment
	Text       []editor.TextItem
}

type Renderer interface {
	Render(ctx context.Context, job RenderJob) error
}

// StubRenderer stands in for a real encoder. It logs the cut list and
// copies the source media to the output path unchanged.
type StubRenderer struct {
	logger *slog.Logger
}

func NewStubRenderer(logger *slog.Logger) *StubRenderer {
	return &StubRenderer{logger: logger}
}

func (r *StubRenderer) Render(ctx context.Context, job RenderJob) error {
	r.logger.Info("renderer stub: render requested (segments are not cut)",
		"source", job.SourcePath,
		"output", job.OutputPath,
		"segments", len(job.Segments),
		"text_items", len(job.Text),
	)

	src, err := os.Open(job.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(job.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	if _, err := io.Copy(dst, &ctxReader{ctx: ctx, r: src}); err != nil {
		dst.Close()
		os.Remove(job.OutputPath)
		return fmt.Errorf("failed to write output: %w", err)
	}
	return dst.Close()
}

// ctxReader stops a long copy once ctx is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
