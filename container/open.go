package container

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nlepage/go-tarfs"
)

var archiveSuffixes = []string{".tar", ".tar.gz", ".tgz"}

// ErrUnsupportedRoot is returned by Open for roots that are neither a
// directory nor a tar archive.
var ErrUnsupportedRoot = errors.New("container: root is neither a directory nor a tar archive")

// IsArchiveName reports whether path carries a tar archive suffix.
func IsArchiveName(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Open opens root as a container of the given kind and rank. Directories are
// served through os.DirFS. Tar archives (optionally gzip compressed) are read
// into memory, so the archive file is not held open afterwards.
func Open(kind Kind, root string, rank int) (*Container, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, fmt.Errorf("container: %s: root is empty", kind)
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("container: resolve %s: %w", trimmed, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("container: stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return &Container{kind: kind, root: abs, rank: rank, fsys: os.DirFS(abs)}, nil
	}
	if !IsArchiveName(abs) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRoot, abs)
	}
	fsys, err := openArchive(abs)
	if err != nil {
		return nil, err
	}
	return &Container{kind: kind, root: abs, rank: rank, archive: true, fsys: fsys}, nil
}

func openArchive(path string) (fs.FS, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("container: open archive %s: %w", path, err)
	}
	defer f.Close()

	// bufio.Reader is not an io.ReaderAt, which makes tarfs buffer the
	// whole archive instead of reading lazily from the closed file.
	buffered := bufio.NewReader(f)
	var reader io.Reader = buffered
	// gzip magic number 0x1F 0x8B
	if magic, err := buffered.Peek(2); err == nil && magic[0] == 0x1F && magic[1] == 0x8B {
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, fmt.Errorf("container: gzip %s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	fsys, err := tarfs.New(reader)
	if err != nil {
		return nil, fmt.Errorf("container: read archive %s: %w", path, err)
	}
	return fsys, nil
}
