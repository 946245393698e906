// Package container locates and opens the read-only roots ("bundles") that
// resources are resolved against. A container is either a directory or a tar
// archive; both are exposed through the same fs.FS view.
package container

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Kind names a strategy for locating a container root.
type Kind string

const (
	// KindPackaged is <application>/<name>.bundle.
	KindPackaged Kind = "packaged"
	// KindModulePackaged is <module>/<name>.bundle.
	KindModulePackaged Kind = "module-packaged"
	// KindDiscovered scans the configured search roots for <name>.bundle.
	KindDiscovered Kind = "discovered"
	// KindApplication is the application directory itself.
	KindApplication Kind = "application"
	// KindModule is the module directory itself, the default fallback.
	KindModule Kind = "module"
)

// BundleExt is the suffix of a packaged container directory.
const BundleExt = ".bundle"

// BuiltinKinds returns the kinds registered by RegisterBuiltins, in their
// conventional priority order.
func BuiltinKinds() []Kind {
	return []Kind{KindPackaged, KindModulePackaged, KindDiscovered, KindApplication, KindModule}
}

// IsBuiltin reports whether kind is one of BuiltinKinds.
func IsBuiltin(kind Kind) bool {
	for _, k := range BuiltinKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Container is an opened resource root. It is immutable once returned by
// Open and safe for concurrent use.
type Container struct {
	kind    Kind
	root    string
	rank    int
	archive bool
	fsys    fs.FS
}

// Kind reports how the container was located.
func (c *Container) Kind() Kind { return c.kind }

// Root is the absolute path of the directory or archive backing the container.
func (c *Container) Root() string { return c.root }

// Rank is the container's position in the search order. The default
// container ranks after every configured kind.
func (c *Container) Rank() int { return c.rank }

// IsArchive reports whether the container is backed by a tar archive.
func (c *Container) IsArchive() bool { return c.archive }

// FS returns the read-only view of the container contents.
func (c *Container) FS() fs.FS { return c.fsys }

// Exists reports whether the slash-separated entry is present. Any stat
// failure counts as absent.
func (c *Container) Exists(entry string) bool {
	if c == nil || c.fsys == nil || !fs.ValidPath(entry) {
		return false
	}
	_, err := fs.Stat(c.fsys, entry)
	return err == nil
}

// Path joins an entry onto the container root. For archives the result is a
// virtual path below the archive file; read it through Open.
func (c *Container) Path(entry string) string {
	if entry == "." || entry == "" {
		return c.root
	}
	return filepath.Join(c.root, filepath.FromSlash(entry))
}

// Open opens an entry for reading.
func (c *Container) Open(entry string) (fs.File, error) {
	if c == nil || c.fsys == nil {
		return nil, fmt.Errorf("container: nil container")
	}
	return c.fsys.Open(entry)
}

// ReadDir lists a directory entry.
func (c *Container) ReadDir(entry string) ([]fs.DirEntry, error) {
	if c == nil || c.fsys == nil {
		return nil, fmt.Errorf("container: nil container")
	}
	return fs.ReadDir(c.fsys, entry)
}

// Same reports whether both containers are backed by the same root.
func (c *Container) Same(other *Container) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.root == other.root
}

func (c *Container) String() string {
	if c == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s(%s)", c.kind, c.root)
}

// BundleName returns "<name>.bundle", tolerating a name that already carries
// the suffix.
func BundleName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasSuffix(name, BundleExt) {
		return name
	}
	return name + BundleExt
}
