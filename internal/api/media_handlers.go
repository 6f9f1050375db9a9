package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/heimdex/heimdex-editor/internal/catalog"
	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/logging"
)

const multipartMemory = 32 << 20

// storeUpload saves the multipart "file" field and checks its kind. On
// failure it has already answered the request.
func storeUpload(cfg ServerConfig, w http.ResponseWriter, r *http.Request, kind string) (*catalog.Asset, bool) {
	if cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart upload", "BAD_REQUEST")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		missingField(w, "file")
		return nil, false
	}
	defer file.Close()

	asset, err := cfg.Store.Put(r.Context(), file, catalog.UploadInfo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SessionID:   chi.URLParam(r, "sessionID"),
	})
	if err != nil {
		writeDomainError(w, cfg.Logger, err)
		return nil, false
	}

	if asset.Kind != kind {
		releaseUpload(cfg, asset)
		WriteError(w, http.StatusUnsupportedMediaType, "expected "+kind+" media, got "+asset.Kind, "UNSUPPORTED_MEDIA")
		return nil, false
	}
	return asset, true
}

func releaseUpload(cfg ServerConfig, asset *catalog.Asset) {
	if err := cfg.Store.Release(asset.Handle()); err != nil {
		logging.WithAssetID(cfg.Logger, asset.ID).Warn("failed to release rejected upload", "error", err)
	}
}

// attachUpload hands asset to the session through fn. The session owns the
// handle only if fn succeeds; otherwise the upload is released here.
func attachUpload(cfg ServerConfig, w http.ResponseWriter, r *http.Request, asset *catalog.Asset, fn func(*editor.Session, *MediaResponse) error) {
	resp := AssetToResponse(asset)
	err := cfg.Manager.Do(chi.URLParam(r, "sessionID"), func(s *editor.Session) error {
		return fn(s, &resp)
	})
	if err != nil {
		releaseUpload(cfg, asset)
		writeDomainError(w, cfg.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, resp)
}

func formFloat(r *http.Request, name string) (float64, bool) {
	v := r.FormValue(name)
	if v == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

func uploadVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, ok := storeUpload(cfg, w, r, catalog.AssetKindVideo)
		if !ok {
			return
		}
		duration, ok := formFloat(r, "duration")
		if !ok {
			releaseUpload(cfg, asset)
			WriteError(w, http.StatusBadRequest, "duration must be a number of seconds", "BAD_REQUEST")
			return
		}
		attachUpload(cfg, w, r, asset, func(s *editor.Session, resp *MediaResponse) error {
			if err := s.LoadMedia(asset.Filename, asset.Handle(), duration); err != nil {
				return err
			}
			resp.Duration = s.Clock().Duration()
			return nil
		})
	}
}

func uploadImageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, ok := storeUpload(cfg, w, r, catalog.AssetKindImage)
		if !ok {
			return
		}
		width, okW := formFloat(r, "natural_width")
		height, okH := formFloat(r, "natural_height")
		if !okW || !okH {
			releaseUpload(cfg, asset)
			WriteError(w, http.StatusBadRequest, "natural_width and natural_height must be numbers", "BAD_REQUEST")
			return
		}
		attachUpload(cfg, w, r, asset, func(s *editor.Session, resp *MediaResponse) error {
			id, err := s.AddImage(editor.ImageUpload{
				Filename:      asset.Filename,
				Handle:        asset.Handle(),
				NaturalWidth:  width,
				NaturalHeight: height,
			})
			resp.ItemID = id
			return err
		})
	}
}

func uploadAudioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, ok := storeUpload(cfg, w, r, catalog.AssetKindAudio)
		if !ok {
			return
		}
		trackID := chi.URLParam(r, "trackID")
		attachUpload(cfg, w, r, asset, func(s *editor.Session, resp *MediaResponse) error {
			resp.ItemID = trackID
			return s.Audio().SetFile(trackID, asset.Filename, asset.Handle())
		})
	}
}

func serveMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID := chi.URLParam(r, "assetID")
		if err := cfg.Media.ServeAsset(w, r, assetID); err != nil {
			logging.WithAssetID(cfg.Logger, assetID).Error("media serve error", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to serve media", "INTERNAL_ERROR")
		}
	}
}
