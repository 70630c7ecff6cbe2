package filemgr

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

// ArchiveInfo is the uniform result of reading a ZIP or tar.gz archive:
// every file and directory name, the root-level ("child") subsets, counts,
// and the contents of any requested members.
type ArchiveInfo struct {
	FileNames      []string
	DirNames       []string
	ChildFileNames []string
	ChildDirNames  []string
	ContainsFile   bool
	ContainsDir    bool
	FileCount      int
	DirCount       int
	ChildFileCount int
	ChildDirCount  int
	FileContents   map[string][]byte
}

// ReadArchive inspects an archive without extracting it. The format is
// chosen by file extension: .zip reads as ZIP, .tar.gz/.tgz as
// gzip-compressed tar. wantContents names members whose bytes should be
// loaded into FileContents.
func (m *Manager) ReadArchive(name string, wantContents ...string) (*ArchiveInfo, error) {
	path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(name, ".zip"):
		return readZipArchive(path, wantContents)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return readTarGzArchive(path, wantContents)
	default:
		return nil, fmt.Errorf("unsupported archive format %q (want .zip, .tar.gz, or .tgz)", name)
	}
}

func readZipArchive(archivePath string, wantContents []string) (*ArchiveInfo, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	wanted := wantSet(wantContents)
	acc := newArchiveAccumulator()

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			acc.addDir(entry.Name)
			continue
		}
		acc.addFile(entry.Name)
		if wanted[normalizeEntryName(entry.Name)] {
			rc, err := entry.Open()
			if err != nil {
				return nil, fmt.Errorf("opening entry %s: %w", entry.Name, err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("reading entry %s: %w", entry.Name, err)
			}
			acc.contents[normalizeEntryName(entry.Name)] = data
		}
	}
	return acc.result(), nil
}

func readTarGzArchive(archivePath string, wantContents []string) (*ArchiveInfo, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading gzip header: %w", err)
	}
	defer gz.Close()

	wanted := wantSet(wantContents)
	acc := newArchiveAccumulator()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		switch header.Typeflag {
		case tar.TypeDir:
			acc.addDir(header.Name)
		case tar.TypeReg:
			acc.addFile(header.Name)
			if wanted[normalizeEntryName(header.Name)] {
				data, err := io.ReadAll(tr)
				if err != nil {
					return nil, fmt.Errorf("reading entry %s: %w", header.Name, err)
				}
				acc.contents[normalizeEntryName(header.Name)] = data
			}
		}
	}
	return acc.result(), nil
}

// archiveAccumulator collects entries and derives parent directories that
// archives often omit as explicit entries.
type archiveAccumulator struct {
	files    map[string]bool
	dirs     map[string]bool
	contents map[string][]byte
}

func newArchiveAccumulator() *archiveAccumulator {
	return &archiveAccumulator{
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		contents: make(map[string][]byte),
	}
}

func (a *archiveAccumulator) addFile(name string) {
	clean := normalizeEntryName(name)
	if clean == "" {
		return
	}
	a.files[clean] = true
	a.addParents(clean)
}

func (a *archiveAccumulator) addDir(name string) {
	clean := normalizeEntryName(name)
	if clean == "" {
		return
	}
	a.dirs[clean] = true
	a.addParents(clean)
}

func (a *archiveAccumulator) addParents(clean string) {
	for dir := path.Dir(clean); dir != "." && dir != "/"; dir = path.Dir(dir) {
		a.dirs[dir] = true
	}
}

func (a *archiveAccumulator) result() *ArchiveInfo {
	info := &ArchiveInfo{
		FileNames:    sortedKeys(a.files),
		DirNames:     sortedKeys(a.dirs),
		FileContents: a.contents,
	}
	for _, f := range info.FileNames {
		if !strings.Contains(f, "/") {
			info.ChildFileNames = append(info.ChildFileNames, f)
		}
	}
	for _, d := range info.DirNames {
		if !strings.Contains(d, "/") {
			info.ChildDirNames = append(info.ChildDirNames, d)
		}
	}
	info.FileCount = len(info.FileNames)
	info.DirCount = len(info.DirNames)
	info.ChildFileCount = len(info.ChildFileNames)
	info.ChildDirCount = len(info.ChildDirNames)
	info.ContainsFile = info.FileCount > 0
	info.ContainsDir = info.DirCount > 0
	return info
}

func normalizeEntryName(name string) string {
	return strings.Trim(path.Clean(strings.ReplaceAll(name, "\\", "/")), "/")
}

func wantSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[normalizeEntryName(n)] = true
	}
	return set
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
