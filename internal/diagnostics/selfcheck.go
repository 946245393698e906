// Package diagnostics implements the resolver self-check: it exercises each
// resolution operation against known inputs and reports per-step outcomes for
// an operator. It never changes resolution behavior.
package diagnostics

import (
	"fmt"
	"io"
	"path"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/kingrea/bundlepath/container"
	"github.com/kingrea/bundlepath/resolver"
)

// Status is the outcome of a single step.
type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusInfo    Status = "info"
)

// Step is one line of the report.
type Step struct {
	Name   string
	Status Status
	Detail string
}

// Report is the ordered outcome of a self-check.
type Report struct {
	Steps []Step
}

// Passed reports whether no step came back missing.
func (r Report) Passed() bool {
	for _, step := range r.Steps {
		if step.Status == StatusMissing {
			return false
		}
	}
	return true
}

// Probes are the known-good inputs the self-check resolves.
type Probes struct {
	LocalizationFile string
	ImageName        string
	ImageDirectory   string
	// ImageScale is the explicit variant probed through ResolvePath.
	ImageScale int
}

// DefaultProbes mirrors the resources every packaged container ships with.
func DefaultProbes() Probes {
	return Probes{
		LocalizationFile: "en.lproj/Localizable.strings",
		ImageName:        "pb_apple",
		ImageDirectory:   resolver.DefaultImageDirectory,
		ImageScale:       2,
	}
}

// Run executes the self-check against r.
func Run(r *resolver.Resolver, probes Probes) Report {
	var rep Report
	add := func(name string, status Status, format string, args ...any) {
		rep.Steps = append(rep.Steps, Step{Name: name, Status: status, Detail: fmt.Sprintf(format, args...)})
	}
	settings := r.Settings()

	primary := r.ResolveContainer()
	if primary.Same(r.Default()) {
		add("container", StatusInfo, "no configured container located, using default %s", primary.Root())
	} else {
		add("container", StatusOK, "%s %s", primary.Kind(), primary.Root())
	}

	if res := r.ResolvePath(resolver.Request{Name: settings.LocalizationDirectory}); res.Found() {
		add("localization directory", StatusOK, "%s", res.Path)
	} else {
		add("localization directory", StatusMissing, "%s not found", settings.LocalizationDirectory)
	}

	if res := r.ResolveLocalizationPath(probes.LocalizationFile); res.Found() {
		add("localization file", StatusOK, "%s", res.Path)
	} else {
		add("localization file", StatusMissing, "%s not found", path.Join(settings.LocalizationDirectory, probes.LocalizationFile))
	}

	variant := probes.ImageName + resolver.DensitySuffix(probes.ImageScale)
	if res := r.ResolvePath(resolver.Request{Name: variant, Type: settings.ImageExtension, Subdirectory: probes.ImageDirectory}); res.Found() {
		add("image file", StatusOK, "%s", res.Path)
	} else {
		add("image file", StatusMissing, "%s.%s not found", path.Join(probes.ImageDirectory, variant), settings.ImageExtension)
	}

	if img, ok := r.ResolveImage(probes.ImageName, probes.ImageDirectory); ok {
		detail := fmt.Sprintf("@%dx %s", img.Scale, img.Path)
		if img.Asset != nil {
			detail = fmt.Sprintf("%s (%v)", detail, img.Asset)
		}
		add("image variant", StatusOK, "%s", detail)
	} else {
		add("image variant", StatusMissing, "no density variant of %s", probes.ImageName)
	}

	bundle := container.BundleName(settings.Environment.PackagedName)
	for _, loc := range r.Located() {
		name := "kind " + string(loc.Kind)
		if loc.Container == nil {
			add(name, StatusInfo, "not located")
			continue
		}
		detail := loc.Container.Root()
		if bundle != "" && loc.Container.Exists(bundle) {
			detail += " (holds " + bundle + ")"
		}
		add(name, StatusOK, "%s", detail)
	}
	return rep
}

// Render writes the report as a table.
func (r Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Step", "Status", "Detail"})
	for _, step := range r.Steps {
		t.AppendRow(table.Row{step.Name, statusText(step.Status), step.Detail})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func statusText(s Status) string {
	switch s {
	case StatusOK:
		return text.FgGreen.Sprint(string(s))
	case StatusMissing:
		return text.FgRed.Sprint(string(s))
	default:
		return string(s)
	}
}
