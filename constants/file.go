package constants

import (
	"path/filepath"
	"strings"
)

// AllowedExtensions holds the file extensions accepted for résumé ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedFile reports whether path has an accepted extension.
func IsAllowedFile(path string) bool {
	_, ok := AllowedExtensions[NormalizeExt(filepath.Ext(path))]
	return ok
}
