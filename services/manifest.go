package services

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DirectoryManifest lists what an upload has to recreate remotely. Paths are
// relative to the walked root and keep the "./" prefix, e.g. "./a/b.txt".
type DirectoryManifest struct {
	Directories []string
	Files       []string
}

// BuildManifest walks root depth-first in lexical order. Parents are therefore
// always recorded before their children.
func BuildManifest(root string) (*DirectoryManifest, error) {
	m := &DirectoryManifest{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = manifestPath(rel)

		if d.Type()&fs.ModeSymlink != 0 {
			target, statErr := os.Stat(path)
			if statErr != nil || target.IsDir() {
				slog.Debug("Symlink wird übersprungen", "pfad", rel)
				return nil
			}
		}

		if d.IsDir() {
			if isRealDir(rel) {
				m.Directories = append(m.Directories, rel)
			} else {
				slog.Debug("Verzeichnis wird nicht angelegt", "verzeichnis", rel)
			}
			return nil
		}

		m.Files = append(m.Files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fehler beim Durchsuchen von %s: %w", root, err)
	}

	return m, nil
}

// manifestPath turns a filepath.Rel result into the "./"-prefixed slash form.
func manifestPath(rel string) string {
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "."
	}
	return "./" + rel
}

// isRealDir reports whether dir should be created remotely: not the root, and
// the top-level component starts with a word character. Top-level
// dot-directories and everything below them are excluded; nested ones such as
// "./public/.well-known" are created.
func isRealDir(dir string) bool {
	if dir == "." {
		return false
	}
	top, _, _ := strings.Cut(strings.TrimPrefix(dir, "./"), "/")
	return top != "" && isWordChar(top[0])
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// normalizeRemotePath konvertiert Windows-Pfade zu Unix-Style für Remote-Übertragung
func normalizeRemotePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// manifestParent returns the remote directory of a manifest file, "." for files
// at the root.
func manifestParent(file string) string {
	idx := strings.LastIndex(file, "/")
	if idx <= 0 {
		return "."
	}
	return file[:idx]
}

// manifestBase returns the file name of a manifest entry.
func manifestBase(file string) string {
	return file[strings.LastIndex(file, "/")+1:]
}
