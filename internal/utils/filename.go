package utils

import (
	"path/filepath"
	"strings"
)

// TitleFromName strips the final extension from a file name:
// "Untitled.ipynb" becomes "Untitled", "archive.tar.gz" becomes "archive.tar".
// A name without an extension is returned unchanged.
func TitleFromName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
