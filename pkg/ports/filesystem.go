package ports

// FileSystem abstracts file system operations.
type FileSystem interface {
	// WriteFile writes data to a file, creating or truncating it.
	// The parent directory must already exist.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error
}
