package rpc

// Request and response bodies. Field names follow the JSON shapes clients see;
// []byte fields travel as base64 strings.

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	APIKey      string `json:"apiKey"`
	ExpiresInMs int64  `json:"expiresInMs"`
	User        User   `json:"user"`
}

type RefreshKeyResponse struct {
	APIKey      string `json:"apiKey"`
	ExpiresInMs int64  `json:"expiresInMs"`
}

type UploadFileRequest struct {
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Content      []byte `json:"content"`
}

type UploadFileResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}

type DownloadFileRequest struct {
	ID string `json:"id"`
}

type DownloadFileResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Content      []byte `json:"content"`
}

type FileInfo struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
}

type ListFilesResponse struct {
	Files []FileInfo `json:"files"`
}
