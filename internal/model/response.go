package model

import "time"

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// AccessDeniedBody is the fixed error shape returned when a path falls
// outside the allowed roots. The allow-list is included deliberately so the
// operator can self-correct; the disclosure trade-off is accepted.
type AccessDeniedBody struct {
	Error              string   `json:"error"`
	RequestedPath      string   `json:"requested_path"`
	Message            string   `json:"message"`
	AllowedDirectories []string `json:"allowed_directories"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ReadFileResponse struct {
	Content string `json:"content"`
}

type DiffResponse struct {
	Diff string `json:"diff"`
}

type ConfirmationRequiredResponse struct {
	Message           string    `json:"message"`
	ConfirmationToken string    `json:"confirmation_token"`
	ExpiresAt         time.Time `json:"expires_at"`
}

type DirEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type TreeNode struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Children []*TreeNode `json:"children,omitempty"`
}

type ContentMatch struct {
	FilePath    string `json:"file_path"`
	LineNumber  int    `json:"line_number"`
	LineContent string `json:"line_content"`
}

// NoMatchesPlaceholder is returned instead of an empty match list so clients
// always receive at least one element.
const NoMatchesPlaceholder = "No matches found"

type Metadata struct {
	Path                      string    `json:"path"`
	Type                      string    `json:"type"`
	SizeBytes                 int64     `json:"size_bytes"`
	ModificationTimeUTC       time.Time `json:"modification_time_utc"`
	CreationTimeUTC           time.Time `json:"creation_time_utc"`
	LastMetadataChangeTimeUTC time.Time `json:"last_metadata_change_time_utc"`
}

type AllowedDirectoriesResponse struct {
	AllowedDirectories []string `json:"allowed_directories"`
}

type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Path       string    `json:"path"`
	Detail     string    `json:"detail,omitempty"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
