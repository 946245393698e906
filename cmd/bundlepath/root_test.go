package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// run executes the CLI against app and module dirs with no config file in
// reach.
func run(t *testing.T, app, module string, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("BUNDLEPATH_CONFIG", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--app-dir", app, "--module-dir", module, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPathCommand(t *testing.T) {
	app, module := t.TempDir(), t.TempDir()
	want := writeFile(t, filepath.Join(module, "Images", "logo.png"), nil)

	out, err := run(t, app, module, "path", "logo", "--type", "png", "--dir", "Images")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if strings.TrimSpace(out) != want {
		t.Fatalf("expected %s, got %q", want, out)
	}

	_, err = run(t, app, module, "path", "missing", "--type", "txt")
	if !errors.Is(err, errNotFound) {
		t.Fatalf("expected errNotFound, got %v", err)
	}
}

func TestContainerCommandPrefersPackaged(t *testing.T) {
	app, module := t.TempDir(), t.TempDir()
	bundle := filepath.Join(app, "ZUSDK.bundle")
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, app, module, "container")
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	if !strings.Contains(out, "packaged") || !strings.Contains(out, bundle) {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = run(t, app, module, "container", "--all")
	if err != nil {
		t.Fatalf("container --all: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[1], module) {
		t.Fatalf("expected packaged then module, got %q", out)
	}
}

func TestLocalizationCommand(t *testing.T) {
	app, module := t.TempDir(), t.TempDir()
	en := writeFile(t, filepath.Join(module, "Localizable", "en.lproj", "Localizable.strings"), nil)
	fr := writeFile(t, filepath.Join(module, "Localizable", "fr.lproj", "Localizable.strings"), nil)

	out, err := run(t, app, module, "localization", "en.lproj/Localizable.strings")
	if err != nil || strings.TrimSpace(out) != en {
		t.Fatalf("expected %s, got %q (%v)", en, out, err)
	}
	out, err = run(t, app, module, "l10n", "--prefer", "fr-CA,en", "Localizable.strings")
	if err != nil || strings.TrimSpace(out) != fr {
		t.Fatalf("expected %s, got %q (%v)", fr, out, err)
	}
}

func TestImageCommandPicksHighestDensity(t *testing.T) {
	app, module := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(module, "Images", "icon.png"), pngBytes(t, 10, 10))
	want := writeFile(t, filepath.Join(module, "Images", "icon@2x.png"), pngBytes(t, 20, 20))

	out, err := run(t, app, module, "image", "icon")
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	if !strings.HasPrefix(out, want+"\t@2x") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSelfCheckReportsMissingProbes(t *testing.T) {
	app, module := t.TempDir(), t.TempDir()
	out, err := run(t, app, module, "selfcheck")
	if !errors.Is(err, errNotFound) {
		t.Fatalf("expected failing self-check, got %v", err)
	}
	if !strings.Contains(out, "localization file") {
		t.Fatalf("report missing steps:\n%s", out)
	}
}

func TestInstallCopiesOnce(t *testing.T) {
	app, module := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(module, "ZUSDK.bundle", "Images", "pb_apple@2x.png"), nil)

	out, err := run(t, app, module, "install")
	if err != nil || !strings.HasPrefix(out, "installed") {
		t.Fatalf("install: %q (%v)", out, err)
	}
	if _, err := os.Stat(filepath.Join(app, "ZUSDK.bundle", "Images", "pb_apple@2x.png")); err != nil {
		t.Fatalf("expected copied file: %v", err)
	}
	out, err = run(t, app, module, "install")
	if err != nil || !strings.HasPrefix(out, "already present") {
		t.Fatalf("second install: %q (%v)", out, err)
	}
}

func TestInitWritesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	out, err := run(t, t.TempDir(), t.TempDir(), "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(strings.TrimSpace(out)); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
}
