// internal/tui/app.go
//
// Interactive inspector for a resolver. The left pane lists the configured
// container kinds in search order; the right pane takes queries and shows
// where they resolve. It uses bubbletea, so state changes only in Update and
// View renders it.
//
// Query syntax:
//
//	Images/logo.png                      plain resource (dir/name.type)
//	image:icon  or  image:Art/icon       density-variant image
//	l10n:en.lproj/Localizable.strings    localization file
//	prefer:fr,en Localizable.strings     best localization for languages

package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/bundlepath/internal/diagnostics"
	"github.com/kingrea/bundlepath/resolver"
)

const historySize = 8

type appState int

const (
	stateQuery  appState = iota // typing queries
	stateReport                 // viewing the self-check report
)

// containerItem implements list.Item for one configured kind.
type containerItem struct {
	loc     resolver.Located
	primary bool
}

func (i containerItem) Title() string {
	title := string(i.loc.Kind)
	if i.primary {
		title += " ★"
	}
	return title
}

func (i containerItem) Description() string {
	if i.loc.Container == nil {
		return "not located"
	}
	return i.loc.Container.Root()
}

func (i containerItem) FilterValue() string { return string(i.loc.Kind) }

type historyEntry struct {
	query  string
	answer string
	found  bool
}

// App is the inspector model.
type App struct {
	state    appState
	resolver *resolver.Resolver

	containers list.Model
	input      textinput.Model
	history    []historyEntry
	report     diagnostics.Report
	probes     diagnostics.Probes

	width  int
	height int
}

// AppOption customizes App construction.
type AppOption func(*App)

// WithProbes overrides the self-check inputs.
func WithProbes(p diagnostics.Probes) AppOption {
	return func(a *App) {
		a.probes = p
	}
}

// NewApp creates an inspector over r.
func NewApp(r *resolver.Resolver, opts ...AppOption) *App {
	primary := r.ResolveContainer()
	var items []list.Item
	for _, loc := range r.Located() {
		items = append(items, containerItem{loc: loc, primary: loc.Container != nil && loc.Container.Same(primary)})
	}
	items = append(items, containerItem{
		loc:     resolver.Located{Kind: r.Default().Kind(), Container: r.Default()},
		primary: r.Default().Same(primary),
	})

	containers := list.New(items, list.NewDefaultDelegate(), 0, 0)
	containers.Title = "Containers"
	containers.SetShowStatusBar(false)
	containers.SetFilteringEnabled(false)
	containers.SetShowHelp(false)

	input := textinput.New()
	input.Placeholder = "Images/logo.png · image:icon · l10n:en.lproj/Localizable.strings"
	input.Prompt = "› "
	input.Focus()

	app := &App{
		state:      stateQuery,
		resolver:   r,
		containers: containers,
		input:      input,
		probes:     diagnostics.DefaultProbes(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app
}

// Init starts the cursor blinking.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and window resizes.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.containers.SetSize(max(20, msg.Width/3), max(5, msg.Height-6))
		a.input.Width = max(20, msg.Width-msg.Width/3-8)
		return a, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if a.state == stateReport && msg.String() == "esc" {
				a.state = stateQuery
				return a, nil
			}
			return a, tea.Quit
		case "ctrl+d":
			if a.state == stateReport {
				a.state = stateQuery
				return a, nil
			}
			a.report = diagnostics.Run(a.resolver, a.probes)
			a.state = stateReport
			return a, nil
		case "up", "down":
			var cmd tea.Cmd
			a.containers, cmd = a.containers.Update(msg)
			return a, cmd
		case "enter":
			if a.state != stateQuery {
				return a, nil
			}
			query := strings.TrimSpace(a.input.Value())
			if query == "" {
				return a, nil
			}
			answer, found := a.Query(query)
			a.history = append(a.history, historyEntry{query: query, answer: answer, found: found})
			if len(a.history) > historySize {
				a.history = a.history[len(a.history)-historySize:]
			}
			a.input.SetValue("")
			return a, nil
		}
	}
	if a.state != stateQuery {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// Query resolves one query line and returns a human-readable answer.
func (a *App) Query(query string) (string, bool) {
	r := a.resolver
	switch {
	case strings.HasPrefix(query, "image:"):
		target := strings.Trim(strings.TrimSpace(strings.TrimPrefix(query, "image:")), "/")
		dir, name := path.Split(target)
		img, ok := r.ResolveImage(name, strings.TrimSuffix(dir, "/"))
		if !ok {
			return "not found", false
		}
		if img.Asset != nil {
			return fmt.Sprintf("%s (@%dx, %v)", img.Path, img.Scale, img.Asset), true
		}
		return fmt.Sprintf("%s (@%dx)", img.Path, img.Scale), true
	case strings.HasPrefix(query, "l10n:"):
		return answer(r.ResolveLocalizationPath(strings.TrimPrefix(query, "l10n:")))
	case strings.HasPrefix(query, "prefer:"):
		fields := strings.Fields(strings.TrimPrefix(query, "prefer:"))
		if len(fields) != 2 {
			return "usage: prefer:<lang,lang> <basename>", false
		}
		return answer(r.ResolvePreferredLocalization(strings.Split(fields[0], ","), fields[1]))
	default:
		dir, file := path.Split(strings.Trim(query, "/"))
		name, typ := file, ""
		if ext := path.Ext(file); ext != "" && ext != file {
			name, typ = strings.TrimSuffix(file, ext), ext[1:]
		}
		return answer(r.ResolvePath(resolver.Request{Name: name, Type: typ, Subdirectory: dir}))
	}
}

func answer(res resolver.Result) (string, bool) {
	if !res.Found() {
		return "not found", false
	}
	return fmt.Sprintf("%s [%s]", res.Path, res.Container.Kind()), true
}

// View renders the inspector.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ BUNDLEPATH")

	leftWidth := max(20, a.width/3)
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(leftWidth).
		Render(a.containers.View())

	var right string
	if a.state == stateReport {
		right = a.renderReport()
	} else {
		right = a.renderQueryPanel()
	}
	rightBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(30, a.width-leftWidth-6)).
		Render(right)

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render("Enter → resolve    Ctrl+D → self-check    ↑/↓ → containers    Esc → quit")

	body := lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (a *App) renderQueryPanel() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("Resolve")
	found := lipgloss.NewStyle().Foreground(lipgloss.Color("#7BD88F"))
	missing := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	query := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	lines := []string{title, a.input.View(), ""}
	if len(a.history) == 0 {
		lines = append(lines, query.Render("No queries yet."))
	}
	for i := len(a.history) - 1; i >= 0; i-- {
		entry := a.history[i]
		style := missing
		if entry.found {
			style = found
		}
		lines = append(lines, query.Render(entry.query), "  "+style.Render(entry.answer))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderReport() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("Self-check")
	var b strings.Builder
	a.report.Render(&b)
	verdict := lipgloss.NewStyle().Foreground(lipgloss.Color("#7BD88F")).Render("all probes resolved")
	if !a.report.Passed() {
		verdict = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("some probes missing")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, b.String(), verdict)
}
