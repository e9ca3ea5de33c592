package taildown

import (
	"path/filepath"
	"strings"
)

// ResolveOutputPath determines the compiled HTML path from the input taildown
// source path
func ResolveOutputPath(tdPath string) string {
	return strings.TrimSuffix(tdPath, filepath.Ext(tdPath)) + ".html"
}

func MustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
