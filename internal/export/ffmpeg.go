package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const maxStderrBytes = 8 * 1024

// FFmpegRenderer cuts the source into the timeline's segments, in
// presentation order, and concatenates them into one file. Overlays are not
// burned in.
type FFmpegRenderer struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewFFmpegRenderer resolves the ffmpeg binary. An empty preferred path
// searches PATH.
func NewFFmpegRenderer(preferred string, timeout time.Duration, logger *slog.Logger) (*FFmpegRenderer, error) {
	binary, err := resolveFFmpeg(preferred)
	if err != nil {
		return nil, err
	}
	logger.Info("ffmpeg renderer initialised", "ffmpeg", binary, "timeout", timeout)
	return &FFmpegRenderer{binary: binary, timeout: timeout, logger: logger}, nil
}

func (r *FFmpegRenderer) Render(ctx context.Context, job RenderJob) error {
	if len(job.Segments) == 0 {
		return ErrNothingToExport
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := concatArgs(job)
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderrBuf, limit: maxStderrBytes}
	cmd.Stdout = io.Discard

	start := time.Now()
	r.logger.Info("executing ffmpeg", "segments", len(job.Segments), "output", job.OutputPath)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		tail := truncate(stderrBuf.String(), 512)
		r.logger.Warn("ffmpeg failed",
			"exit_code", exitCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"stderr_tail", tail,
		)
		os.Remove(job.OutputPath)
		return fmt.Errorf("ffmpeg exited %d: %s", exitCode, tail)
	}

	r.logger.Info("ffmpeg succeeded", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// concatArgs builds one filter graph that trims every segment out of the
// single input and concatenates the pieces.
func concatArgs(job RenderJob) []string {
	var graph strings.Builder
	var pads strings.Builder
	for i, seg := range job.Segments {
		start := formatSeconds(seg.StartTime)
		end := formatSeconds(seg.EndTime)
		fmt.Fprintf(&graph, "[0:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS[v%d];", start, end, i)
		fmt.Fprintf(&graph, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[a%d];", start, end, i)
		fmt.Fprintf(&pads, "[v%d][a%d]", i, i)
	}
	fmt.Fprintf(&graph, "%sconcat=n=%d:v=1:a=1[outv][outa]", pads.String(), len(job.Segments))

	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", job.SourcePath,
		"-filter_complex", graph.String(),
		"-map", "[outv]", "-map", "[outa]",
		"-movflags", "+faststart",
		job.OutputPath,
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

func resolveFFmpeg(preferred string) (string, error) {
	if preferred != "" {
		if p, err := exec.LookPath(preferred); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("configured ffmpeg %q not found", preferred)
	}
	p, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("no ffmpeg binary found on PATH")
	}
	return p, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen:]
}

// limitedWriter keeps only the last limit bytes written to it.
type limitedWriter struct {
	w     *bytes.Buffer
	limit int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	lw.w.Write(p)
	if lw.w.Len() > lw.limit {
		b := lw.w.Bytes()
		tail := make([]byte, lw.limit)
		copy(tail, b[len(b)-lw.limit:])
		lw.w.Reset()
		lw.w.Write(tail)
	}
	return n, nil
}
