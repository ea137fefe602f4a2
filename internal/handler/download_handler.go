package handler

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"secure-file-share/internal/model"
	"secure-file-share/internal/service"
)

// DownloadHandler serves the anonymous secure-download endpoint. The
// token in the URL is the only credential; no session is consulted.
type DownloadHandler struct {
	downloads *service.DownloadTokenService
	files     *service.FileService
}

func NewDownloadHandler(downloads *service.DownloadTokenService, files *service.FileService) *DownloadHandler {
	return &DownloadHandler{downloads: downloads, files: files}
}

func (h *DownloadHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))
	if token == "" {
		writeDownloadDenied(w, "empty token")
		return
	}

	file, err := h.downloads.Exchange(r.Context(), token)
	if err != nil {
		// The concrete reason (invalid vs expired vs already used)
		// stays in the logs; the response body is uniform.
		writeDownloadDenied(w, err.Error())
		return
	}

	blob, info, err := h.files.OpenBlob(file)
	if err != nil {
		slog.Error("stored blob missing for consumed token", "file_id", file.ID, "error", err)
		writeDownloadDenied(w, "blob missing")
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	http.ServeContent(w, r, file.Name, info.ModTime(), blob)
}

func writeDownloadDenied(w http.ResponseWriter, reason string) {
	slog.Warn("secure download rejected", "reason", reason)
	writeJSON(w, http.StatusForbidden, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "FORBIDDEN",
			Message: "Download link is invalid or has expired",
		},
	})
}
