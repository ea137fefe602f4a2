package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"secure-file-share/internal/middleware"
	"secure-file-share/internal/model"
	"secure-file-share/internal/service"
	"secure-file-share/pkg/apierror"
)

type FileHandler struct {
	files         *service.FileService
	downloads     *service.DownloadTokenService
	maxUploadSize int64
	publicBaseURL string
}

func NewFileHandler(files *service.FileService, downloads *service.DownloadTokenService, maxUploadSize int64, publicBaseURL string) *FileHandler {
	return &FileHandler{
		files:         files,
		downloads:     downloads,
		maxUploadSize: maxUploadSize,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, apierror.BadRequest("invalid multipart body", ""))
		return
	}

	for {
		part, nextErr := reader.NextPart()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			if isPayloadTooLarge(nextErr) {
				writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "", http.StatusRequestEntityTooLarge))
				return
			}
			writeError(w, apierror.BadRequest("invalid multipart stream", nextErr.Error()))
			return
		}

		if part.FormName() != "file" || strings.TrimSpace(part.FileName()) == "" {
			_ = part.Close()
			continue
		}

		file, uploadErr := h.files.Upload(r.Context(), *claims, part.FileName(), part.Header.Get("Content-Type"), part)
		_ = part.Close()
		if uploadErr != nil {
			if isPayloadTooLarge(uploadErr) {
				writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "", http.StatusRequestEntityTooLarge))
				return
			}
			writeError(w, uploadErr)
			return
		}

		writeJSON(w, http.StatusOK, model.UploadResponse{
			Success: true,
			FileID:  file.ID,
			Message: "File uploaded successfully",
		})
		return
	}

	writeError(w, apierror.BadRequest("multipart body has no file part", "file"))
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	files, err := h.files.List(r.Context(), *claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.FileListData{Files: files})
}

// DownloadLink mints a single-use download token for a file and
// returns it embedded in a secure-download URL.
func (h *FileHandler) DownloadLink(w http.ResponseWriter, r *http.Request) {
	fileID := strings.TrimSpace(chi.URLParam(r, "file_id"))
	if fileID == "" {
		writeError(w, apierror.BadRequest("file_id is required", "file_id"))
		return
	}

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	token, err := h.downloads.Generate(r.Context(), fileID, *claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.DownloadLinkData{
		DownloadLink: h.publicBaseURL + "/api/secure-download/" + token,
		ExpiresIn:    int64(h.downloads.TTL().Seconds()),
	})
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
