package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// Local-disk object storage for catalog images. Object keys are paths
// relative to the upload dir; public URLs are served from /uploads.

func UploadDir() string {
	dir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

// EnsureUploadDir creates the directory for the given object key.
func EnsureUploadDir(objectKey string) (string, error) {
	full := filepath.Join(UploadDir(), filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	return full, nil
}

// PublicURL resolves an object key to the URL clients fetch it from.
func PublicURL(objectKey string) string {
	base := strings.TrimRight(os.Getenv("BASE_URL"), "/")
	return base + "/uploads/" + objectKey
}
