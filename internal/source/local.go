package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pdferrors "github.com/a3tai/aditamento-extractor/internal/pdf/errors"
)

// FileInfo describes a PDF found under the configured directory
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// LocalReader reads PDFs that live under one configured directory
type LocalReader struct {
	directory   string
	maxFileSize int64
}

// NewLocalReader creates a reader confined to directory
func NewLocalReader(directory string, maxFileSize int64) (*LocalReader, error) {
	if directory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	abs, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	return &LocalReader{directory: abs, maxFileSize: maxFileSize}, nil
}

// Directory returns the configured directory
func (l *LocalReader) Directory() string {
	return l.directory
}

// Read loads a PDF. Relative paths are resolved against the configured
// directory; the result must stay inside it.
func (l *LocalReader) Read(path string) (Document, error) {
	name := filepath.Base(path)
	doc := Document{Name: name}

	abs, err := l.NormalizePath(path)
	if err != nil {
		return doc, pdferrors.NewValidationError(name, err.Error())
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return doc, pdferrors.NewValidationError(name, fmt.Sprintf("file does not exist: %s", path))
	}
	if err != nil {
		return doc, pdferrors.NewValidationError(name, fmt.Sprintf("cannot access file: %v", err))
	}
	if info.IsDir() {
		return doc, pdferrors.NewValidationError(name, fmt.Sprintf("path is a directory, not a file: %s", path))
	}
	if !strings.HasSuffix(strings.ToLower(abs), ".pdf") {
		return doc, pdferrors.NewValidationError(name, fmt.Sprintf("file is not a PDF: %s", path))
	}
	if info.Size() > l.maxFileSize {
		return doc, pdferrors.NewValidationError(name,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", info.Size(), l.maxFileSize))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return doc, pdferrors.NewValidationError(name, fmt.Sprintf("cannot read file: %v", err))
	}

	doc.Data = data
	return doc, nil
}

// NormalizePath returns the absolute form of path, rejecting anything that
// resolves outside the configured directory (symlinks included)
func (l *LocalReader) NormalizePath(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(l.directory, path)
	}
	abs := filepath.Clean(path)

	within, err := l.isWithinDirectory(abs)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}

	return abs, nil
}

func (l *LocalReader) isWithinDirectory(abs string) (bool, error) {
	realDir := l.directory
	if resolved, err := filepath.EvalSymlinks(l.directory); err == nil {
		realDir = resolved
	}

	realPath := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		realPath = resolved
	} else if !os.IsNotExist(err) {
		return false, err
	}

	inside := func(p, dir string) bool {
		rel, err := filepath.Rel(dir, p)
		return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}

	return (inside(abs, l.directory) || inside(abs, realDir)) &&
		(inside(realPath, l.directory) || inside(realPath, realDir)), nil
}

// Search lists PDFs under the configured directory whose name contains
// query (case-insensitive). An empty query lists every PDF.
func (l *LocalReader) Search(query string) ([]FileInfo, error) {
	if _, err := os.Stat(l.directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", l.directory)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var files []FileInfo

	err := filepath.Walk(l.directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Continue despite errors
		}
		if info.IsDir() || !strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(info.Name()), query) {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
