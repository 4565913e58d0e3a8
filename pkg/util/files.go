package util

import (
	"os"
	"path/filepath"
	"strings"
)

// videoExtensions are the container formats the tool will process.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".m4v":  true,
	".ts":   true,
}

// IsVideoFile reports whether the path has a recognized video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// GetExtension returns the file extension including the dot, or ".mp4"
// when the path has none.
func GetExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ".mp4"
	}
	return ext
}

// OutputPath derives the default output path by inserting suffix before
// the input's extension.
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + suffix + ext
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// TempFile creates a temporary file in dir with the given prefix and
// extension.
func TempFile(dir, prefix, ext string) (*os.File, error) {
	return os.CreateTemp(dir, prefix+"*"+ext)
}

// CleanupFiles removes the given files, ignoring errors for files that
// are already gone.
func CleanupFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		os.Remove(p)
	}
}
