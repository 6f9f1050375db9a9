package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heimdex/heimdex-editor/internal/catalog"
	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/export"
	"github.com/heimdex/heimdex-editor/internal/playback"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// MediaStore keeps uploads and hands out releasable handles.
type MediaStore interface {
	Put(ctx context.Context, r io.Reader, info catalog.UploadInfo) (*catalog.Asset, error)
	Release(handle string) error
}

type MediaServer interface {
	ServeAsset(w http.ResponseWriter, r *http.Request, id string) error
}

type Exporter interface {
	Export(ctx context.Context, snap export.Snapshot, req export.Request) (*export.Result, error)
	History(ctx context.Context, sessionID string, limit int) ([]*catalog.Export, error)
}

type ServerConfig struct {
	Port           int
	Manager        *editor.Manager
	Store          MediaStore
	Media          MediaServer
	Exports        Exporter
	Repository     catalog.Repository
	Driver         *playback.Driver
	MaxUploadBytes int64
	Logger         *slog.Logger
	StartTime      time.Time
	Version        string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
