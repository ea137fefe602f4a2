package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"secure-file-share/internal/access"
	"secure-file-share/internal/event"
	"secure-file-share/internal/model"
	"secure-file-share/internal/util"
	"secure-file-share/pkg/apierror"
)

// Office document types accepted for upload, keyed by extension.
var allowedUploadTypes = map[string]string{
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type FileService struct {
	files FileStore
	blobs BlobStore
	bus   event.Bus
}

func NewFileService(files FileStore, blobs BlobStore, bus event.Bus) *FileService {
	return &FileService{files: files, blobs: blobs, bus: bus}
}

// Upload stores the blob and its metadata row. Only ops identities
// pass the gate; only office document types are accepted.
func (s *FileService) Upload(ctx context.Context, owner model.SessionClaims, filename string, declaredType string, reader io.Reader) (model.File, error) {
	if err := access.Authorize(owner.Role, access.OpUpload); err != nil {
		return model.File{}, err
	}

	name, err := util.SanitizeFilename(filename)
	if err != nil {
		return model.File{}, err
	}

	ext := strings.ToLower(filepath.Ext(name))
	expectedType, allowed := allowedUploadTypes[ext]
	if !allowed {
		return model.File{}, apierror.BadRequest("only pptx, docx and xlsx files can be uploaded", name)
	}

	contentType := strings.TrimSpace(declaredType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = expectedType
	}

	id := ulid.Make().String()
	ref, size, err := s.blobs.Save(id, reader)
	if err != nil {
		return model.File{}, err
	}

	file := model.File{
		ID:          id,
		OwnerID:     owner.UserID,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		StorageRef:  ref,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.files.Create(ctx, file); err != nil {
		return model.File{}, err
	}

	s.bus.Publish(event.New(event.TypeFileUploaded, owner.UserID, map[string]string{
		"file_id": file.ID,
		"name":    file.Name,
	}))

	return file, nil
}

func (s *FileService) List(ctx context.Context, requester model.SessionClaims) ([]model.FileInfo, error) {
	if err := access.Authorize(requester.Role, access.OpListFiles); err != nil {
		return nil, err
	}

	files, err := s.files.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]model.FileInfo, 0, len(files))
	for _, f := range files {
		infos = append(infos, f.Info())
	}
	return infos, nil
}

// OpenBlob opens the stored bytes for a file record.
func (s *FileService) OpenBlob(file model.File) (*os.File, os.FileInfo, error) {
	return s.blobs.Open(file.StorageRef)
}
