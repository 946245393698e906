package resolver

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/kingrea/bundlepath/container"
)

// Request names a plain resource: <subdirectory>/<name>.<type>. Type and
// Subdirectory are optional.
type Request struct {
	Name         string
	Type         string
	Subdirectory string
}

// Entry returns the slash-separated container entry the request points at.
// It reports false for an empty name or an entry that would escape the
// container root.
func (req Request) Entry() (string, bool) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", false
	}
	file := name
	if ext := strings.TrimPrefix(strings.TrimSpace(req.Type), "."); ext != "" {
		file = name + "." + ext
	}
	sub := strings.Trim(filepath.ToSlash(strings.TrimSpace(req.Subdirectory)), "/")
	entry := path.Clean(path.Join(sub, filepath.ToSlash(file)))
	if entry == "." || !fs.ValidPath(entry) {
		return "", false
	}
	return entry, true
}

// Result is the outcome of a resolution. The zero value is NotFound.
type Result struct {
	// Path is the absolute path of the resource.
	Path string
	// Entry is the resource's slash-separated path inside Container.
	Entry string
	// Container is the container that satisfied the request.
	Container *container.Container
}

// NotFound is the result of a request no container satisfies.
var NotFound = Result{}

// Found reports whether the result names a resource.
func (r Result) Found() bool {
	return r.Path != ""
}

func splitExt(file string) (name, typ string) {
	ext := path.Ext(file)
	if ext == "" || ext == file {
		return file, ""
	}
	return strings.TrimSuffix(file, ext), ext[1:]
}
