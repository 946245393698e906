package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/bundlepath/container"
	"github.com/kingrea/bundlepath/resolver"
)

func touch(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(t *testing.T, setup func(app, module string)) (*App, string, string) {
	t.Helper()
	app := t.TempDir()
	module := t.TempDir()
	if setup != nil {
		setup(app, module)
	}
	r, err := resolver.New(resolver.Settings{
		Environment: container.Environment{PackagedName: "ZUSDK", ApplicationDir: app, ModuleDir: module},
	})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	a := NewApp(r)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(*App), app, module
}

func submit(t *testing.T, a *App, query string) *App {
	t.Helper()
	a.input.SetValue(query)
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(*App)
}

func TestQueryResolvesPlainResource(t *testing.T) {
	a, _, module := newTestApp(t, nil)
	want := touch(t, module, "Images", "logo.png")

	a = submit(t, a, "Images/logo.png")
	if len(a.history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(a.history))
	}
	entry := a.history[0]
	if !entry.found || !strings.Contains(entry.answer, want) {
		t.Fatalf("unexpected answer %+v", entry)
	}
	if a.input.Value() != "" {
		t.Fatalf("input should reset after submit")
	}
	if !strings.Contains(a.View(), "Images/logo.png") {
		t.Fatalf("view should list the query")
	}
}

func TestQueryPrefixes(t *testing.T) {
	var l10n string
	a, app, module := newTestApp(t, func(app, module string) {
		l10n = touch(t, app, "ZUSDK.bundle", "Localizable", "en.lproj", "Localizable.strings")
	})
	icon := touch(t, module, "Images", "icon@2x.png")
	art := touch(t, module, "Art", "badge.png")

	if ans, found := a.Query("l10n:en.lproj/Localizable.strings"); !found || !strings.Contains(ans, l10n) || !strings.Contains(ans, "[packaged]") {
		t.Fatalf("unexpected localization answer %q", ans)
	}
	if ans, found := a.Query("prefer:fr,en Localizable.strings"); !found || !strings.Contains(ans, l10n) {
		t.Fatalf("unexpected preferred answer %q", ans)
	}
	if got := a.resolver.ResolveContainer().Root(); got != filepath.Join(app, "ZUSDK.bundle") {
		t.Fatalf("expected packaged primary, got %s", got)
	}

	if ans, found := a.Query("image:icon"); !found || !strings.Contains(ans, icon) || !strings.Contains(ans, "@2x") {
		t.Fatalf("unexpected image answer %q", ans)
	}
	if ans, found := a.Query("image:Art/badge"); !found || !strings.Contains(ans, art) {
		t.Fatalf("unexpected image answer %q", ans)
	}
	if ans, found := a.Query("prefer:en"); found || !strings.Contains(ans, "usage") {
		t.Fatalf("expected usage hint, got %q", ans)
	}
	if ans, found := a.Query("missing.txt"); found || ans != "not found" {
		t.Fatalf("expected not found, got %q", ans)
	}
}

func TestSelfCheckToggle(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	a = model.(*App)
	if a.state != stateReport {
		t.Fatalf("expected report state")
	}
	view := a.View()
	if !strings.Contains(view, "Self-check") || !strings.Contains(view, "some probes missing") {
		t.Fatalf("unexpected report view:\n%s", view)
	}
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(*App)
	if a.state != stateQuery {
		t.Fatalf("esc should return to queries")
	}
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc from query state should quit")
	}
}

func TestContainerListMarksPrimary(t *testing.T) {
	a, _, module := newTestApp(t, nil)
	items := a.containers.Items()
	last := items[len(items)-1].(containerItem)
	if !last.primary || last.Description() != module {
		t.Fatalf("expected default container marked primary, got %+v", last)
	}
	first := items[0].(containerItem)
	if first.primary || first.Description() != "not located" {
		t.Fatalf("unexpected first item %+v", first)
	}
}
