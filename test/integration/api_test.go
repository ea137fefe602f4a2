//go:build integration

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal valid-enough payload for office uploads; content bytes are
// opaque to the server, only the extension is checked.
var deckContent = []byte("PK\x03\x04 presentation bytes")

func TestFullDownloadFlow(t *testing.T) {
	server := newTestServer(t)

	signup(t, server, "ops@example.com", "ops")
	opsToken := login(t, server, "ops@example.com", "ops")

	signup(t, server, "client@example.com", "client")
	clientToken := login(t, server, "client@example.com", "client")

	// Ops uploads a deck.
	resp := uploadFile(t, server, opsToken, "q3-review.pptx", deckContent)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var uploaded struct {
		Success bool   `json:"success"`
		FileID  string `json:"file_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	assert.True(t, uploaded.Success)
	require.NotEmpty(t, uploaded.FileID)

	// Ops may not request download links.
	resp = doAuthRequest(t, http.MethodGet, server.URL+"/api/files/download/"+uploaded.FileID, nil, "", opsToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Client requests a link and gets a secure-download URL back.
	resp = doAuthRequest(t, http.MethodGet, server.URL+"/api/files/download/"+uploaded.FileID, nil, "", clientToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var linkBody struct {
		Success bool `json:"success"`
		Data    struct {
			DownloadLink string `json:"download_link"`
			ExpiresIn    int64  `json:"expires_in"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&linkBody))
	assert.True(t, linkBody.Success)
	require.Contains(t, linkBody.Data.DownloadLink, "/api/secure-download/")
	assert.Greater(t, linkBody.Data.ExpiresIn, int64(0))

	downloadURL := server.URL + linkBody.Data.DownloadLink

	// First exchange returns the file bytes, no session required.
	resp, err := http.Get(downloadURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "q3-review.pptx")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, deckContent, body)

	// Second exchange of the same token is refused.
	resp, err = http.Get(downloadURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSecureDownloadRejectsUnknownToken(t *testing.T) {
	server := newTestServer(t)

	for _, token := range []string{"invalid-token", "a.b.c"} {
		resp, err := http.Get(server.URL + "/api/secure-download/" + token)
		require.NoError(t, err)

		var parsed struct {
			Success bool `json:"success"`
			Error   struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		_ = resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "token %q", token)
		assert.False(t, parsed.Success)
		assert.Equal(t, "Download link is invalid or has expired", parsed.Error.Message)
	}
}

func TestUploadForbiddenForClient(t *testing.T) {
	server := newTestServer(t)

	signup(t, server, "client@example.com", "client")
	clientToken := login(t, server, "client@example.com", "client")

	resp := uploadFile(t, server, clientToken, "q3-review.pptx", deckContent)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUploadRejectsNonOfficeExtension(t *testing.T) {
	server := newTestServer(t)

	signup(t, server, "ops@example.com", "ops")
	opsToken := login(t, server, "ops@example.com", "ops")

	resp := uploadFile(t, server, opsToken, "notes.txt", []byte("plain text"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Contains(t, parsed.Error.Message, "pptx")
}

func TestListRequiresSession(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/files/list")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/files/list", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListVisibleToBothRoles(t *testing.T) {
	server := newTestServer(t)

	signup(t, server, "ops@example.com", "ops")
	opsToken := login(t, server, "ops@example.com", "ops")
	signup(t, server, "client@example.com", "client")
	clientToken := login(t, server, "client@example.com", "client")

	resp := uploadFile(t, server, opsToken, "report.docx", []byte("doc bytes"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for name, token := range map[string]string{"ops": opsToken, "client": clientToken} {
		resp := doAuthRequest(t, http.MethodGet, server.URL+"/api/files/list", nil, "", token)
		require.Equal(t, http.StatusOK, resp.StatusCode, "role %s", name)

		var parsed struct {
			Success bool `json:"success"`
			Data    struct {
				Files []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"files"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed), "role %s", name)
		assert.True(t, parsed.Success)
		require.Len(t, parsed.Data.Files, 1, "role %s", name)
		assert.Equal(t, "report.docx", parsed.Data.Files[0].Name)
	}
}

func TestSignupRejectsDuplicateAndBadInput(t *testing.T) {
	server := newTestServer(t)

	signup(t, server, "ops@example.com", "ops")

	resp := postJSON(t, server.URL+"/api/auth/signup", map[string]string{
		"email":     "ops@example.com",
		"password":  "testpass123",
		"user_type": "client",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/auth/signup", map[string]string{
		"email":     "not-an-email",
		"password":  "testpass123",
		"user_type": "ops",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/auth/signup", map[string]string{
		"email":     "short@example.com",
		"password":  "short",
		"user_type": "ops",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/auth/signup", map[string]string{
		"email":     "admin@example.com",
		"password":  "testpass123",
		"user_type": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server := newTestServer(t)

	signup(t, server, "ops@example.com", "ops")

	resp := postJSON(t, server.URL+"/api/auth/login", map[string]string{
		"email":    "ops@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Declared type mismatch looks identical to a wrong password.
	resp = postJSON(t, server.URL+"/api/auth/login", map[string]string{
		"email":     "ops@example.com",
		"password":  "testpass123",
		"user_type": "client",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLiveStatsReflectsActivity(t *testing.T) {
	server := newTestServer(t)

	signup(t, server, "ops@example.com", "ops")
	opsToken := login(t, server, "ops@example.com", "ops")
	signup(t, server, "client@example.com", "client")
	clientToken := login(t, server, "client@example.com", "client")

	resp := uploadFile(t, server, opsToken, "sheet.xlsx", []byte("cells"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doAuthRequest(t, http.MethodGet, server.URL+"/api/files/list", nil, "", clientToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := http.Get(server.URL + "/api/stats/live")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			TotalFiles  int `json:"total_files"`
			ActiveUsers int `json:"active_users"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.True(t, parsed.Success)
	assert.Equal(t, 1, parsed.Data.TotalFiles)
	assert.Equal(t, 2, parsed.Data.ActiveUsers)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(string(body)))
}
