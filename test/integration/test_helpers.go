//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"secure-file-share/internal/config"
	"secure-file-share/internal/event"
	"secure-file-share/internal/handler"
	"secure-file-share/internal/middleware"
	"secure-file-share/internal/repository"
	"secure-file-share/internal/router"
	"secure-file-share/internal/service"
	"secure-file-share/internal/stats"
	"secure-file-share/internal/storage"
)

const testSecret = "integration-test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		StorageRoot:      t.TempDir(),
		MaxUploadSize:    10 * 1024 * 1024,
		AuthTokenSecret:  testSecret,
		SessionTokenTTL:  15 * time.Minute,
		DownloadTokenTTL: 5 * time.Minute,
		ActiveUserWindow: 15 * time.Minute,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	blobs, err := storage.New(cfg.StorageRoot)
	require.NoError(t, err)

	userRepo := repository.NewMemoryUserRepository()
	fileRepo := repository.NewMemoryFileRepository()
	grantRepo := repository.NewMemoryDownloadTokenRepository()

	bus := event.NewBus()
	activity := stats.NewActivityTracker(cfg.ActiveUserWindow)

	authService, err := service.NewAuthService(userRepo, cfg.AuthTokenSecret, cfg.SessionTokenTTL, bus)
	require.NoError(t, err)
	downloadService, err := service.NewDownloadTokenService(fileRepo, grantRepo, cfg.AuthTokenSecret, cfg.DownloadTokenTTL, bus)
	require.NoError(t, err)
	fileService := service.NewFileService(fileRepo, blobs, bus)
	statsService := service.NewStatsService(fileRepo, activity)

	authMiddleware := middleware.NewAuthMiddleware(authService, activity)

	server := httptest.NewServer(router.New(cfg, authMiddleware, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		File:     handler.NewFileHandler(fileService, downloadService, cfg.MaxUploadSize, cfg.PublicBaseURL),
		Download: handler.NewDownloadHandler(downloadService, fileService),
		Stats:    handler.NewStatsHandler(statsService),
	}))
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func signup(t *testing.T, server *httptest.Server, email string, userType string) {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/auth/signup", map[string]string{
		"email":     email,
		"password":  "testpass123",
		"user_type": userType,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func login(t *testing.T, server *httptest.Server, email string, userType string) string {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/auth/login", map[string]string{
		"email":     email,
		"password":  "testpass123",
		"user_type": userType,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Equal(t, "bearer", parsed.TokenType)
	require.NotEmpty(t, parsed.AccessToken)
	return parsed.AccessToken
}

func doAuthRequest(t *testing.T, method string, url string, body *bytes.Buffer, contentType string, accessToken string) *http.Response {
	t.Helper()

	var reader *bytes.Buffer
	if body == nil {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = body
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func uploadFile(t *testing.T, server *httptest.Server, accessToken string, filename string, content []byte) *http.Response {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return doAuthRequest(t, http.MethodPost, server.URL+"/api/files/upload", body, writer.FormDataContentType(), accessToken)
}
