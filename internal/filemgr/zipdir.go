package filemgr

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ZipDir packs a directory tree (relative to the base directory) into a ZIP
// archive at destName, preserving paths relative to srcDir. Entries matching
// one of the exclusion patterns are skipped; see ExcludeMatcher for the
// pattern rules. Only regular files are archived.
func (m *Manager) ZipDir(srcDir, destName string, excludePatterns []string) error {
	srcPath, err := m.resolve(srcDir)
	if err != nil {
		return err
	}
	info, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", srcDir)
	}
	destPath, err := m.resolve(destName)
	if err != nil {
		return err
	}

	matcher := NewExcludeMatcher(excludePatterns)

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(srcPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == destPath {
			return nil // never pack the archive into itself
		}
		rel, err := filepath.Rel(srcPath, p)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", p, err)
		}
		if rel == "." {
			return nil
		}
		if matcher.Match(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		return addZipFileAs(zw, p, filepath.ToSlash(rel))
	})
	if err != nil {
		zw.Close()
		os.Remove(destPath)
		return err
	}
	if err := zw.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return out.Close()
}

// addZipFileAs writes the file at path into the archive under entryName.
func addZipFileAs(zw *zip.Writer, path, entryName string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", entryName, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", entryName, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", entryName, err)
	}
	header.Name = entryName
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", entryName, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("compressing %s: %w", entryName, err)
	}
	return nil
}
