package resolver

import (
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	lprojExt  = ".lproj"
	baseLproj = "Base"
)

// ResolveLocalizationPath resolves a language file such as
// "en.lproj/Localizable.strings" below the localization directory. The
// trailing component supplies the name and type; the rest becomes part of
// the subdirectory. Fallback and NotFound behave as in ResolvePath.
func (r *Resolver) ResolveLocalizationPath(languageFile string) Result {
	cleaned := strings.Trim(filepath.ToSlash(strings.TrimSpace(languageFile)), "/")
	dir, file := path.Split(cleaned)
	name, typ := splitExt(file)
	return r.ResolvePath(Request{
		Name:         name,
		Type:         typ,
		Subdirectory: path.Join(r.settings.LocalizationDirectory, dir),
	})
}

// Localizations lists the .lproj directory names (without suffix) present
// in the containers ResolvePath consults, in first-seen order.
func (r *Resolver) Localizations() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range r.sequence {
		entries, err := c.ReadDir(r.settings.LocalizationDirectory)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || !strings.HasSuffix(entry.Name(), lprojExt) {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), lprojExt)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// ResolvePreferredLocalization picks the localization that best matches the
// caller's preferred languages (BCP 47, "_" accepted as separator) and
// resolves basename inside it. When no language matches, or the matched
// localization lacks the file, Base.lproj and then the development language
// are tried.
func (r *Resolver) ResolvePreferredLocalization(preferred []string, basename string) Result {
	basename = strings.Trim(filepath.ToSlash(strings.TrimSpace(basename)), "/")
	if basename == "" {
		return NotFound
	}
	available := r.Localizations()
	if len(available) == 0 {
		return NotFound
	}

	var (
		names []string
		tags  []language.Tag
	)
	dev := r.settings.DevelopmentLanguage
	// the development language goes first so it is the matcher's default
	ordered := make([]string, 0, len(available))
	for _, name := range available {
		if name == dev {
			ordered = append([]string{name}, ordered...)
		} else {
			ordered = append(ordered, name)
		}
	}
	for _, name := range ordered {
		if name == baseLproj {
			continue
		}
		tag, err := parseTag(name)
		if err != nil {
			r.logger.Debug("skipping localization", zap.String("lproj", name), zap.Error(err))
			continue
		}
		names = append(names, name)
		tags = append(tags, tag)
	}

	var want []language.Tag
	for _, p := range preferred {
		tag, err := parseTag(p)
		if err != nil {
			continue
		}
		want = append(want, tag)
	}

	var tried []string
	try := func(name string) Result {
		for _, t := range tried {
			if t == name {
				return NotFound
			}
		}
		tried = append(tried, name)
		return r.ResolveLocalizationPath(name + lprojExt + "/" + basename)
	}

	if len(tags) > 0 && len(want) > 0 {
		_, index, confidence := language.NewMatcher(tags).Match(want...)
		if confidence != language.No && index < len(names) {
			if res := try(names[index]); res.Found() {
				return res
			}
		}
	}
	for _, name := range []string{baseLproj, dev} {
		if !contains(available, name) {
			continue
		}
		if res := try(name); res.Found() {
			return res
		}
	}
	return NotFound
}

func parseTag(value string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(strings.TrimSpace(value), "_", "-"))
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
