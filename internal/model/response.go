package model

type APIResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// LoginResponse is deliberately flat (not wrapped in APIResponse):
// clients read access_token and token_type from the top level.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	FileID  string `json:"file_id"`
	Message string `json:"message"`
}

type FileListData struct {
	Files []FileInfo `json:"files"`
}

type DownloadLinkData struct {
	DownloadLink string `json:"download_link"`
	ExpiresIn    int64  `json:"expires_in"`
}

type StatsData struct {
	TotalFiles  int `json:"total_files"`
	ActiveUsers int `json:"active_users"`
}
