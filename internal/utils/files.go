package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ManifestExtensions are the file extensions treated as descriptor manifests.
var ManifestExtensions = []string{".yaml", ".yml"}

// FindFiles recursively finds the files under dir whose extension is one of
// exts, compared case-insensitively. Results are in lexical order.
func FindFiles(dir string, exts ...string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ExpandManifests replaces every directory in paths with the manifest files
// beneath it. Plain files are kept as given.
func ExpandManifests(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		found, err := FindFiles(p, ManifestExtensions...)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}
