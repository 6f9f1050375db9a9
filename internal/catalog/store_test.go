package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heimdex/heimdex-editor/internal/db"
)

func setupTestDB(t *testing.T) (*db.DB, Repository) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	repo := NewRepository(database.Conn())
	return database, repo
}

func setupTestStore(t *testing.T, maxBytes int64) (*Store, Repository) {
	t.Helper()
	database, repo := setupTestDB(t)
	t.Cleanup(func() { database.Close() })

	store, err := NewStore(repo, filepath.Join(t.TempDir(), "media"), maxBytes, nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store, repo
}

func TestStore_Put(t *testing.T) {
	store, repo := setupTestStore(t, 1024)
	ctx := context.Background()

	asset, err := store.Put(ctx, strings.NewReader("fake video bytes"), UploadInfo{
		Filename:    "clip.MP4",
		ContentType: "video/mp4",
		SessionID:   "session-1",
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if asset.Kind != AssetKindVideo {
		t.Errorf("Kind = %s, want video", asset.Kind)
	}
	if asset.Size != int64(len("fake video bytes")) {
		t.Errorf("Size = %d", asset.Size)
	}
	if filepath.Ext(asset.Path) != ".mp4" {
		t.Errorf("Path = %s, want lowercase .mp4 extension", asset.Path)
	}
	if _, err := os.Stat(asset.Path); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	got, err := repo.GetAsset(ctx, asset.ID)
	if err != nil || got == nil {
		t.Fatalf("GetAsset() = %v, %v", got, err)
	}
	if got.Filename != "clip.MP4" || got.SessionID != "session-1" {
		t.Errorf("stored asset = %+v", got)
	}

	list, err := repo.ListAssets(ctx, "session-1")
	if err != nil {
		t.Fatalf("ListAssets() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListAssets() len = %d, want 1", len(list))
	}
}

func TestStore_PutRejects(t *testing.T) {
	tests := []struct {
		name    string
		info    UploadInfo
		body    string
		wantErr error
	}{
		{
			name:    "unknown type",
			info:    UploadInfo{Filename: "notes.txt", ContentType: "text/plain"},
			body:    "hello",
			wantErr: ErrUnsupportedMedia,
		},
		{
			name:    "too large",
			info:    UploadInfo{Filename: "big.png", ContentType: "image/png"},
			body:    strings.Repeat("x", 17),
			wantErr: ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := setupTestStore(t, 16)

			_, err := store.Put(context.Background(), strings.NewReader(tt.body), tt.info)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Put() error = %v, want %v", err, tt.wantErr)
			}

			entries, _ := os.ReadDir(store.Dir())
			if len(entries) != 0 {
				t.Errorf("media dir has %d files after rejected upload", len(entries))
			}
		})
	}
}

func TestStore_ReleaseOnce(t *testing.T) {
	store, repo := setupTestStore(t, 1024)
	ctx := context.Background()

	asset, err := store.Put(ctx, strings.NewReader("png"), UploadInfo{Filename: "logo.png", ContentType: "image/png"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	handle := asset.Handle()
	if err := store.Release(handle); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(asset.Path); !os.IsNotExist(err) {
		t.Errorf("file still present after release: %v", err)
	}
	if got, _ := repo.GetAsset(ctx, asset.ID); got != nil {
		t.Error("asset row still present after release")
	}

	if err := store.Release(handle); !errors.Is(err, ErrAlreadyReleased) {
		t.Errorf("second Release() error = %v, want ErrAlreadyReleased", err)
	}
}

func TestStore_ResolveAndInvalidHandle(t *testing.T) {
	store, _ := setupTestStore(t, 1024)
	ctx := context.Background()

	asset, err := store.Put(ctx, strings.NewReader("mp3"), UploadInfo{Filename: "vo.mp3"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if asset.Kind != AssetKindAudio {
		t.Errorf("Kind = %s, want audio from extension", asset.Kind)
	}

	got, err := store.Resolve(ctx, asset.Handle())
	if err != nil || got == nil || got.ID != asset.ID {
		t.Errorf("Resolve() = %v, %v", got, err)
	}

	for _, h := range []string{"", "blob:abc", "media://not-a-uuid"} {
		if err := store.Release(h); !errors.Is(err, ErrInvalidHandle) {
			t.Errorf("Release(%q) error = %v, want ErrInvalidHandle", h, err)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		filename, contentType, want string
	}{
		{"a.bin", "video/webm", AssetKindVideo},
		{"a.bin", "IMAGE/PNG", AssetKindImage},
		{"a.wav", "", AssetKindAudio},
		{"a.jpeg", "application/octet-stream", AssetKindImage},
		{"a.txt", "text/plain", ""},
	}
	for _, tt := range tests {
		if got := KindOf(tt.filename, tt.contentType); got != tt.want {
			t.Errorf("KindOf(%q, %q) = %q, want %q", tt.filename, tt.contentType, got, tt.want)
		}
	}
}

func TestRepository_Exports(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	exp := &Export{ID: NewID(), SessionID: "s1", Format: "edl", Status: ExportStatusPending, SegmentCount: 3}
	if err := repo.CreateExport(ctx, exp); err != nil {
		t.Fatalf("CreateExport() error = %v", err)
	}
	if err := repo.UpdateExportStatus(ctx, exp.ID, ExportStatusCompleted, "/out/cut.edl", ""); err != nil {
		t.Fatalf("UpdateExportStatus() error = %v", err)
	}

	got, err := repo.GetExport(ctx, exp.ID)
	if err != nil || got == nil {
		t.Fatalf("GetExport() = %v, %v", got, err)
	}
	if got.Status != ExportStatusCompleted || got.OutputPath != "/out/cut.edl" || got.SegmentCount != 3 {
		t.Errorf("export = %+v", got)
	}

	list, err := repo.ListExports(ctx, "s1", 10)
	if err != nil || len(list) != 1 {
		t.Errorf("ListExports() = %d, %v", len(list), err)
	}
}

func TestRepository_Config(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	if v, err := repo.GetConfig(ctx, "auth_token"); err != nil || v != "" {
		t.Errorf("GetConfig(missing) = %q, %v", v, err)
	}
	repo.SetConfig(ctx, "auth_token", "a")
	repo.SetConfig(ctx, "auth_token", "b")
	if v, _ := repo.GetConfig(ctx, "auth_token"); v != "b" {
		t.Errorf("GetConfig() = %q, want b", v)
	}
}
