// Package filemgr provides local filesystem conveniences for web
// applications: validated uploads, copy/move/rename/delete, download
// streaming, and archive packing/unpacking (zip, tar.gz, gzip).
package filemgr

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultMaxFileSize caps uploads at 32 MiB unless overridden.
const DefaultMaxFileSize = 32 << 20

// streamChunkSize is the buffer size used when streaming files to HTTP
// responses.
const streamChunkSize = 64 << 10

// defaultAllowedTypes is the MIME allow-list gating uploads and rendering.
// Override per-manager with SetAllowedTypes.
var defaultAllowedTypes = []string{
	"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml",
	"application/pdf", "text/plain", "text/csv", "text/html",
	"application/json", "application/zip", "application/gzip",
	"application/x-tar", "application/octet-stream",
}

// Manager performs file operations under a base directory. Each method is
// independent; the manager carries only configuration.
type Manager struct {
	basePath     string
	maxFileSize  int64
	allowedTypes map[string]bool
}

// NewManager creates a manager rooted at basePath, creating the directory
// when missing.
func NewManager(basePath string) (*Manager, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path is empty")
	}
	// Relative or dotted bases would defeat the traversal prefix check in
	// resolve, so the stored base is always absolute and clean.
	basePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory: %w", err)
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating base directory: %w", err)
	}

	allowed := make(map[string]bool, len(defaultAllowedTypes))
	for _, t := range defaultAllowedTypes {
		allowed[t] = true
	}
	return &Manager{
		basePath:     basePath,
		maxFileSize:  DefaultMaxFileSize,
		allowedTypes: allowed,
	}, nil
}

// SetMaxFileSize overrides the upload size limit in bytes.
func (m *Manager) SetMaxFileSize(n int64) { m.maxFileSize = n }

// SetAllowedTypes replaces the MIME allow-list.
func (m *Manager) SetAllowedTypes(types []string) {
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[strings.ToLower(t)] = true
	}
	m.allowedTypes = allowed
}

// BasePath returns the manager's root directory.
func (m *Manager) BasePath() string { return m.basePath }

// resolve joins name onto the base path and rejects traversal outside it.
func (m *Manager) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name is empty")
	}
	full := filepath.Join(m.basePath, name)
	base := m.basePath // absolute and clean since construction
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the base directory", name)
	}
	return full, nil
}

// Upload stores a multipart file part under destName, enforcing the size
// limit and MIME allow-list. The content type is sniffed from the first
// bytes, not trusted from the request. Returns the stored path.
func (m *Manager) Upload(file multipart.File, header *multipart.FileHeader, destName string) (string, error) {
	if header.Size > m.maxFileSize {
		return "", fmt.Errorf("file %q is %d bytes, over the %d byte limit", header.Filename, header.Size, m.maxFileSize)
	}

	if destName == "" {
		destName = filepath.Base(header.Filename)
	}
	dest, err := m.resolve(destName)
	if err != nil {
		return "", err
	}

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	contentType := http.DetectContentType(sniff[:n])
	if err := m.checkContentType(contentType); err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding upload: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating destination file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(file, m.maxFileSize+1))
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if written > m.maxFileSize {
		os.Remove(dest)
		return "", fmt.Errorf("file %q exceeds the %d byte limit", header.Filename, m.maxFileSize)
	}
	return dest, nil
}

func (m *Manager) checkContentType(contentType string) error {
	// DetectContentType may append a charset parameter.
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !m.allowedTypes[mediaType] {
		return fmt.Errorf("content type %q is not allowed", mediaType)
	}
	return nil
}

// Copy duplicates a file within the base directory.
func (m *Manager) Copy(src, dst string) error {
	srcPath, err := m.resolve(src)
	if err != nil {
		return err
	}
	dstPath, err := m.resolve(dst)
	if err != nil {
		return err
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dstPath)
		return fmt.Errorf("copying file: %w", err)
	}
	return out.Close()
}

// Move relocates a file within the base directory.
func (m *Manager) Move(src, dst string) error {
	srcPath, err := m.resolve(src)
	if err != nil {
		return err
	}
	dstPath, err := m.resolve(dst)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	if err := os.Rename(srcPath, dstPath); err != nil {
		return fmt.Errorf("moving file: %w", err)
	}
	return nil
}

// Rename changes a file's name in place, keeping its directory.
func (m *Manager) Rename(name, newName string) error {
	if strings.ContainsRune(newName, filepath.Separator) {
		return fmt.Errorf("new name %q must not contain path separators", newName)
	}
	src, err := m.resolve(name)
	if err != nil {
		return err
	}
	dst := filepath.Join(filepath.Dir(src), newName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("renaming file: %w", err)
	}
	return nil
}

// Delete removes a file.
func (m *Manager) Delete(name string) error {
	path, err := m.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// Fetch reads a whole file into memory.
func (m *Manager) Fetch(name string) ([]byte, error) {
	path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Exists reports whether a file exists under the base directory.
func (m *Manager) Exists(name string) bool {
	path, err := m.resolve(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Render streams a file to the response with the given content type, which
// must pass the allow-list. Content is written in fixed-size chunks.
func (m *Manager) Render(w http.ResponseWriter, name, contentType string) error {
	if err := m.checkContentType(contentType); err != nil {
		return err
	}
	return m.stream(w, name, contentType, "")
}

// Download streams a file as an attachment under downloadName.
func (m *Manager) Download(w http.ResponseWriter, name, downloadName string) error {
	if downloadName == "" {
		downloadName = filepath.Base(name)
	}
	return m.stream(w, name, "application/octet-stream", downloadName)
}

func (m *Manager) stream(w http.ResponseWriter, name, contentType, attachmentName string) error {
	path, err := m.resolve(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if attachmentName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachmentName))
	}

	buf := make([]byte, streamChunkSize)
	if _, err := io.CopyBuffer(w, f, buf); err != nil {
		return fmt.Errorf("streaming file: %w", err)
	}
	return nil
}
