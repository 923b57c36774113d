package helpers

import (
	"path/filepath"
	"regexp"
	"strings"

	"layered/internal/shared/util"
)

func ResolveOutputPath(path, root string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

var labelUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// ArtifactPath derives one artifact file per layered namespace when more
// than one is present: graph.dot becomes graph.src_lib.src.dot.
func ArtifactPath(base string, total int, relFile, namespace string) string {
	if total <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	relFile = strings.TrimSuffix(filepath.ToSlash(relFile), ".rs")
	label := strings.Trim(labelUnsafe.ReplaceAllString(relFile, "_"), "_")
	return stem + "." + label + "." + namespace + ext
}

func WriteArtifact(path, content string) error {
	return util.WriteFileWithDirs(path, []byte(content), 0o644)
}
