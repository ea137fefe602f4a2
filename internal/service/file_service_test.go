package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secure-file-share/internal/event"
	"secure-file-share/internal/model"
	"secure-file-share/internal/repository"
	"secure-file-share/internal/storage"
	"secure-file-share/pkg/apierror"
)

func newFileService(t *testing.T) (*FileService, *repository.MemoryFileRepository) {
	t.Helper()

	blobs, err := storage.New(t.TempDir())
	require.NoError(t, err)

	files := repository.NewMemoryFileRepository()
	return NewFileService(files, blobs, event.NewBus()), files
}

func opsClaims() model.SessionClaims {
	return model.SessionClaims{UserID: "ops-user", Role: model.RoleOps}
}

func TestUploadStoresBlobAndMetadata(t *testing.T) {
	svc, files := newFileService(t)
	ctx := context.Background()

	file, err := svc.Upload(ctx, opsClaims(), "q3 deck.pptx", "", strings.NewReader("deck bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, file.ID)
	assert.Equal(t, "ops-user", file.OwnerID)
	assert.Equal(t, int64(len("deck bytes")), file.Size)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", file.ContentType)

	stored, err := files.FindByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.StorageRef, stored.StorageRef)

	blob, info, err := svc.OpenBlob(stored)
	require.NoError(t, err)
	t.Cleanup(func() { _ = blob.Close() })
	assert.Equal(t, file.Size, info.Size())

	content, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "deck bytes", string(content))
}

func TestUploadDeniedForClientRole(t *testing.T) {
	svc, _ := newFileService(t)

	_, err := svc.Upload(context.Background(), clientClaims(), "deck.pptx", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestUploadRejectsNonOfficeTypes(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()

	for _, name := range []string{"malware.exe", "notes.txt", "archive.zip", "deck"} {
		_, err := svc.Upload(ctx, opsClaims(), name, "", strings.NewReader("x"))
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr), "name %q", name)
		assert.Equal(t, "BAD_REQUEST", apiErr.Code, "name %q", name)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, opsClaims(), "first.docx", "", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := svc.Upload(ctx, opsClaims(), "second.xlsx", "", strings.NewReader("b"))
	require.NoError(t, err)

	infos, err := svc.List(ctx, clientClaims())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, second.ID, infos[0].ID)
	assert.Equal(t, first.ID, infos[1].ID)
}

func TestListDeniedForUnknownRole(t *testing.T) {
	svc, _ := newFileService(t)

	_, err := svc.List(context.Background(), model.SessionClaims{UserID: "x", Role: model.Role("admin")})
	assert.ErrorIs(t, err, model.ErrForbidden)
}
