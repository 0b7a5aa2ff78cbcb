package model

type ReadFileRequest struct {
	Path string `json:"path"`
}

type WriteFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type EditOperation struct {
	OldText string `json:"oldText"`
	NewText string `json:"newText"`
}

type EditFileRequest struct {
	Path   string          `json:"path"`
	Edits  []EditOperation `json:"edits"`
	DryRun bool            `json:"dryRun"`
}

type CreateDirectoryRequest struct {
	Path string `json:"path"`
}

type ListDirectoryRequest struct {
	Path string `json:"path"`
}

type DirectoryTreeRequest struct {
	Path string `json:"path"`
}

type SearchFilesRequest struct {
	Path            string   `json:"path"`
	Pattern         string   `json:"pattern"`
	ExcludePatterns []string `json:"excludePatterns"`
}

type SearchContentRequest struct {
	Path        string `json:"path"`
	SearchQuery string `json:"search_query"`
	// Recursive defaults to true when the field is absent.
	Recursive   *bool  `json:"recursive"`
	FilePattern string `json:"file_pattern"`
}

type DeletePathRequest struct {
	Path              string `json:"path"`
	Recursive         bool   `json:"recursive"`
	ConfirmationToken string `json:"confirmation_token"`
}

type MovePathRequest struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
}

type GetMetadataRequest struct {
	Path string `json:"path"`
}
