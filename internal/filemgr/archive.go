package filemgr

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ZipData packs the named files (paths relative to the base directory)
// into a ZIP archive at destName, each stored at the archive root. When
// returnBytes is true the archive is built in a temporary file, its bytes
// are returned, and the temporary file is removed; destName is then only
// used for its name inside error messages and may be empty.
func (m *Manager) ZipData(names []string, destName string, returnBytes bool) ([]byte, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no files to zip")
	}

	var destPath string
	var err error
	if returnBytes {
		tmp, tmpErr := os.CreateTemp("", "zipdata-*.zip")
		if tmpErr != nil {
			return nil, fmt.Errorf("creating temporary archive: %w", tmpErr)
		}
		destPath = tmp.Name()
		tmp.Close()
		defer os.Remove(destPath)
	} else {
		destPath, err = m.resolve(destName)
		if err != nil {
			return nil, err
		}
	}

	if err := m.writeZip(destPath, names); err != nil {
		if !returnBytes {
			os.Remove(destPath)
		}
		return nil, err
	}

	if !returnBytes {
		return nil, nil
	}
	data, err := os.ReadFile(destPath)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return data, nil
}

func (m *Manager) writeZip(destPath string, names []string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range names {
		if err := m.addZipEntry(zw, name); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return out.Close()
}

func (m *Manager) addZipEntry(zw *zip.Writer, name string) error {
	path, err := m.resolve(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", name, err)
	}
	header.Name = filepath.Base(name) // entries land at the archive root
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("compressing %s: %w", name, err)
	}
	return nil
}

// UnzipData extracts a ZIP archive into destDir (relative to the base
// directory). Entry paths are validated against traversal.
func (m *Manager) UnzipData(archiveName, destDir string) error {
	archivePath, err := m.resolve(archiveName)
	if err != nil {
		return err
	}
	destPath, err := m.resolve(destDir)
	if err != nil {
		return err
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		target, err := safeJoin(destPath, entry.Name)
		if err != nil {
			return err
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", entry.Name, err)
			}
			continue
		}
		if err := extractZipFile(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", entry.Name, err)
	}
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", entry.Name, err)
	}
	return out.Close()
}

// Compress gzips a file in place, producing name + ".gz". Returns the
// compressed file's path.
func (m *Manager) Compress(name string) (string, error) {
	path, err := m.resolve(name)
	if err != nil {
		return "", err
	}
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer in.Close()

	outPath := path + ".gz"
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating compressed file: %w", err)
	}

	gz := gzip.NewWriter(out)
	gz.Name = filepath.Base(path)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("compressing: %w", err)
	}
	if err := gz.Close(); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("finalizing compression: %w", err)
	}
	return outPath, out.Close()
}

// Decompress gunzips name (which must end in .gz) next to itself and
// returns the decompressed file's path.
func (m *Manager) Decompress(name string) (string, error) {
	if !strings.HasSuffix(name, ".gz") {
		return "", fmt.Errorf("file %q is not gzip-compressed (.gz)", name)
	}
	path, err := m.resolve(name)
	if err != nil {
		return "", err
	}
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return "", fmt.Errorf("reading gzip header: %w", err)
	}
	defer gz.Close()

	outPath := strings.TrimSuffix(path, ".gz")
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	if _, err := io.Copy(out, gz); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("decompressing: %w", err)
	}
	return outPath, out.Close()
}

// TarGz packs the named files into a gzip-compressed tar archive at
// destName, each stored at the archive root.
func (m *Manager) TarGz(names []string, destName string) error {
	if len(names) == 0 {
		return fmt.Errorf("no files to archive")
	}
	destPath, err := m.resolve(destName)
	if err != nil {
		return err
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, name := range names {
		if err := m.addTarEntry(tw, name); err != nil {
			tw.Close()
			gz.Close()
			os.Remove(destPath)
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finalizing gzip: %w", err)
	}
	return out.Close()
}

func (m *Manager) addTarEntry(tw *tar.Writer, name string) error {
	path, err := m.resolve(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("building header for %s: %w", name, err)
	}
	header.Name = filepath.Base(name)

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing header for %s: %w", name, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	return nil
}

// UntarGz extracts a gzip-compressed tar archive into destDir.
func (m *Manager) UntarGz(archiveName, destDir string) error {
	archivePath, err := m.resolve(archiveName)
	if err != nil {
		return err
	}
	destPath, err := m.resolve(destDir)
	if err != nil {
		return err
	}

	in, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("reading gzip header: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		target, err := safeJoin(destPath, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", header.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", header.Name, err)
			}
			out, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("extracting %s: %w", header.Name, err)
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

// safeJoin joins an archive entry name onto dest, rejecting entries that
// would escape it.
func safeJoin(dest, entryName string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(entryName))
	if target != dest && !strings.HasPrefix(target, filepath.Clean(dest)+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes the destination directory", entryName)
	}
	return target, nil
}
