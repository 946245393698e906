package container

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Install copies the packaged container directory src into destDir, keeping
// its base name. Nothing is copied when destDir already holds an entry of
// that name. It reports whether a copy happened.
//
// The copy is staged next to the destination and renamed into place, so a
// failed install never leaves a partial container behind.
func Install(src, destDir string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("container: install source %s: %w", src, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("container: install source %s is not a directory", src)
	}
	dest := filepath.Join(destDir, filepath.Base(src))
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("container: stat %s: %w", dest, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return false, fmt.Errorf("container: ensure %s: %w", destDir, err)
	}
	staging, err := os.MkdirTemp(destDir, "."+filepath.Base(src)+"-")
	if err != nil {
		return false, fmt.Errorf("container: stage install: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := copyTree(src, staging); err != nil {
		return false, err
	}
	if err := os.Chmod(staging, 0o755); err != nil {
		return false, fmt.Errorf("container: chmod %s: %w", staging, err)
	}
	if err := os.Rename(staging, dest); err != nil {
		return false, fmt.Errorf("container: move %s into place: %w", dest, err)
	}
	return true, nil
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("container: walk %s: %w", path, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("container: open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("container: create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("container: copy %s: %w", src, err)
	}
	return out.Close()
}
