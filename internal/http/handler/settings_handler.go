package handler

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/config"
	"github.com/iti-tech/taskboard-api/internal/storage"
	"go.uber.org/zap"
)

var allowedAssetExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".svg": true, ".ico": true, ".webp": true,
}

// SettingsHandler handles system settings and branding asset uploads
type SettingsHandler struct {
	cache   *cache.Service
	storage storage.Storage
	cfg     *config.StorageConfig
	logger  *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(c *cache.Service, st storage.Storage, cfg *config.StorageConfig, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{cache: c, storage: st, cfg: cfg, logger: logger}
}

// GetSettings godoc
// @Summary System settings
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.SystemSettings
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot().Settings)
}

// UploadLogo godoc
// @Summary Upload logo
// @Tags Settings
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} domain.SystemSettings
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /settings/logo [post]
func (h *SettingsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	h.uploadAsset(w, r, "logo")
}

// UploadFavicon godoc
// @Summary Upload favicon
// @Tags Settings
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} domain.SystemSettings
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /settings/favicon [post]
func (h *SettingsHandler) UploadFavicon(w http.ResponseWriter, r *http.Request) {
	h.uploadAsset(w, r, "favicon")
}

func (h *SettingsHandler) uploadAsset(w http.ResponseWriter, r *http.Request, kind string) {
	maxBytes := h.cfg.MaxUploadSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAssetExtensions[ext] {
		respondWithError(w, http.StatusBadRequest, "Unsupported image type")
		return
	}

	contentType := header.Header.Get("Content-Type")
	storagePath, size, err := h.storage.Upload(r.Context(), kind+ext, contentType, file)
	if err != nil {
		h.logger.Error("asset upload failed", zap.String("kind", kind), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Erro ao enviar arquivo")
		return
	}

	settings := h.cache.Snapshot().Settings
	url := h.publicURL(storagePath)
	switch kind {
	case "logo":
		settings.LogoURL = url
	case "favicon":
		settings.FaviconURL = url
	}

	updated, err := h.cache.UpdateSettings(r.Context(), actorFromRequest(r), settings)
	if err != nil {
		respondActionError(w, err)
		return
	}

	h.logger.Info("branding asset updated",
		zap.String("kind", kind),
		zap.String("path", storagePath),
		zap.Int64("size", size))
	respondJSON(w, http.StatusOK, updated)
}

// ServeAsset streams a stored branding asset. Used in local storage mode;
// cloud mode serves assets straight from the blob endpoint.
func (h *SettingsHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	reader, err := h.storage.Download(r.Context(), name)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Asset not found")
		return
	}
	defer reader.Close()

	if contentType := assetContentType(name); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = io.Copy(w, reader)
}

func (h *SettingsHandler) publicURL(storagePath string) string {
	if h.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(h.cfg.PublicBaseURL, "/"), storagePath)
	}
	return path.Join("/api/v1/assets", storagePath)
}

func assetContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}
