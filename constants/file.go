package constants

import "strings"

// FileTypes holds the allowed file types for the format field in MatchRun documents.
var FileTypes = []string{"PDF", "TXT"}

// AllowedExtensions holds the allowed upload extensions for document pairs.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
