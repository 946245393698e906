package diagnostics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kingrea/bundlepath/container"
	"github.com/kingrea/bundlepath/resolver"
)

func touch(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func newResolver(t *testing.T, app, module string) *resolver.Resolver {
	t.Helper()
	r, err := resolver.New(resolver.Settings{
		Environment: container.Environment{PackagedName: "ZUSDK", ApplicationDir: app, ModuleDir: module},
	})
	require.NoError(t, err)
	return r
}

func stepByName(t *testing.T, rep Report, name string) Step {
	t.Helper()
	for _, step := range rep.Steps {
		if step.Name == name {
			return step
		}
	}
	t.Fatalf("step %q not in report", name)
	return Step{}
}

func TestRunHealthyContainer(t *testing.T) {
	app := t.TempDir()
	module := t.TempDir()
	bundle := filepath.Join(app, "ZUSDK.bundle")
	touch(t, bundle, "Localizable", "en.lproj", "Localizable.strings")
	touch(t, bundle, "Images", "pb_apple@2x.png")

	rep := Run(newResolver(t, app, module), DefaultProbes())
	require.True(t, rep.Passed())
	require.Equal(t, StatusOK, stepByName(t, rep, "container").Status)
	require.Equal(t, StatusOK, stepByName(t, rep, "image variant").Status)
	require.Contains(t, stepByName(t, rep, "image variant").Detail, "@2x")
	require.Equal(t, StatusInfo, stepByName(t, rep, "kind discovered").Status)
	require.Contains(t, stepByName(t, rep, "kind packaged").Detail, bundle)

	var out bytes.Buffer
	rep.Render(&out)
	require.Contains(t, out.String(), "localization file")
	require.Contains(t, out.String(), "pb_apple@2x.png")
}

func TestRunReportsMissingResources(t *testing.T) {
	module := t.TempDir()
	rep := Run(newResolver(t, t.TempDir(), module), DefaultProbes())

	require.False(t, rep.Passed())
	require.Equal(t, StatusInfo, stepByName(t, rep, "container").Status)
	require.Equal(t, StatusMissing, stepByName(t, rep, "localization directory").Status)
	require.Equal(t, StatusMissing, stepByName(t, rep, "localization file").Status)
	require.Equal(t, StatusMissing, stepByName(t, rep, "image file").Status)
	require.Equal(t, StatusMissing, stepByName(t, rep, "image variant").Status)
}

func TestRunNotesPackagedBundleInModule(t *testing.T) {
	app := t.TempDir()
	module := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(module, "ZUSDK.bundle"), 0o755))

	r, err := resolver.New(resolver.Settings{
		Environment: container.Environment{PackagedName: "ZUSDK", ApplicationDir: app, ModuleDir: module},
		SearchOrder: []container.Kind{container.KindApplication, container.KindModule},
	})
	require.NoError(t, err)

	rep := Run(r, DefaultProbes())
	require.Contains(t, stepByName(t, rep, "kind module").Detail, "holds ZUSDK.bundle")
	require.NotContains(t, stepByName(t, rep, "kind application").Detail, "holds")
}
