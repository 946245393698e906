package container

import (
	"os"
	"path/filepath"
	"strings"
)

// RegisterBuiltins installs the locators for BuiltinKinds.
func RegisterBuiltins(reg *Registry) {
	reg.MustRegister(KindPackaged, func(env Environment) []string {
		return PackagedCandidates(env.ApplicationDir, env.PackagedName)
	})
	reg.MustRegister(KindModulePackaged, func(env Environment) []string {
		return PackagedCandidates(env.ModuleDir, env.PackagedName)
	})
	reg.MustRegister(KindDiscovered, func(env Environment) []string {
		return DiscoverPackaged(env.SearchRoots, env.PackagedName)
	})
	reg.MustRegister(KindApplication, func(env Environment) []string {
		return nonEmpty(env.ApplicationDir)
	})
	reg.MustRegister(KindModule, func(env Environment) []string {
		return nonEmpty(env.ModuleDir)
	})
}

// PackagedCandidates lists where a packaged container named name may live
// inside dir: the .bundle directory first, then its archive forms.
func PackagedCandidates(dir, name string) []string {
	dir = strings.TrimSpace(dir)
	bundle := BundleName(name)
	if dir == "" || bundle == "" {
		return nil
	}
	base := filepath.Join(dir, bundle)
	out := []string{base}
	for _, suffix := range archiveSuffixes {
		out = append(out, base+suffix)
	}
	return out
}

// DiscoverPackaged scans each search root for a packaged container. A root
// is checked itself first, then every direct child directory in name order.
// Missing or unreadable roots are skipped.
func DiscoverPackaged(roots []string, name string) []string {
	bundle := BundleName(name)
	if bundle == "" {
		return nil
	}
	var candidates []string
	for _, root := range roots {
		trimmed := strings.TrimSpace(root)
		if trimmed == "" {
			continue
		}
		candidates = append(candidates, PackagedCandidates(trimmed, name)...)
		entries, err := os.ReadDir(trimmed)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || entry.Name() == bundle {
				continue
			}
			candidates = append(candidates, PackagedCandidates(filepath.Join(trimmed, entry.Name()), name)...)
		}
	}
	return candidates
}

func nonEmpty(dir string) []string {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	return []string{dir}
}
