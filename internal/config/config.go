// internal/config/config.go
//
// This package loads bundlepath.yaml, the file that tells the resolver where
// the application and module live and in which order containers are probed.
// Environment variables override the file; flags override both (see cmd).

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/bundlepath/container"
	"github.com/kingrea/bundlepath/resolver"
)

const (
	// FileName is the default config file name looked up in the working directory.
	FileName = "bundlepath.yaml"

	// EnvConfigPath names the variable holding an explicit config file path.
	EnvConfigPath = "BUNDLEPATH_CONFIG"

	defaultPackagedName = "ZUSDK"
	defaultModuleDir    = "module"
	defaultLogLevel     = "info"
)

const defaultConfigYAML = `# bundlepath configuration
version: 1

# Base name of the packaged container (<name>.bundle or <name>.bundle.tar[.gz]).
packaged_name: ZUSDK

# Relative paths are resolved against this file's directory.
application_dir: .
module_dir: ./module

# Probed in order; the module directory is always the final fallback.
# Kinds: packaged, module-packaged, discovered, application, module
search_order:
  - packaged
  - module-packaged
  - discovered

# Directories scanned by the "discovered" kind.
search_roots: []

# default: primary container then module. cascade: every located container, then module.
fallback: default

images:
  directory: Images
  extension: png
  densities: [3, 2, 1]

localization:
  directory: Localizable
  development_language: en

log:
  level: info
  file: ""
`

// ImagesConfig controls density-variant image lookup.
type ImagesConfig struct {
	Directory string `yaml:"directory"`
	Extension string `yaml:"extension"`
	Densities []int  `yaml:"densities,flow"`
}

// LocalizationConfig controls localization file lookup.
type LocalizationConfig struct {
	Directory           string `yaml:"directory"`
	DevelopmentLanguage string `yaml:"development_language"`
}

// LogConfig controls the logger built by internal/logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Config models bundlepath.yaml.
type Config struct {
	Version        int                `yaml:"version"`
	PackagedName   string             `yaml:"packaged_name"`
	ApplicationDir string             `yaml:"application_dir"`
	ModuleDir      string             `yaml:"module_dir"`
	SearchOrder    []string           `yaml:"search_order"`
	SearchRoots    []string           `yaml:"search_roots,omitempty"`
	Fallback       string             `yaml:"fallback"`
	Images         ImagesConfig       `yaml:"images"`
	Localization   LocalizationConfig `yaml:"localization"`
	Log            LogConfig          `yaml:"log"`

	// Path is the file the config was read from; empty when only defaults
	// and the environment were used.
	Path string `yaml:"-"`
}

// envOverrides lists the variables that override file values. Unset
// variables leave the file value untouched.
type envOverrides struct {
	PackagedName   string   `env:"BUNDLEPATH_PACKAGED_NAME"`
	ApplicationDir string   `env:"BUNDLEPATH_APPLICATION_DIR"`
	ModuleDir      string   `env:"BUNDLEPATH_MODULE_DIR"`
	SearchOrder    []string `env:"BUNDLEPATH_SEARCH_ORDER" envSeparator:","`
	SearchRoots    []string `env:"BUNDLEPATH_SEARCH_ROOTS" envSeparator:","`
	Fallback       string   `env:"BUNDLEPATH_FALLBACK"`
	LogLevel       string   `env:"BUNDLEPATH_LOG_LEVEL"`
	LogFile        string   `env:"BUNDLEPATH_LOG_FILE"`
}

// Default returns the built-in configuration with paths relative to base.
func Default(base string) *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.normalize(base)
	return cfg
}

// Load reads the config file at path. An empty path falls back to
// $BUNDLEPATH_CONFIG and then to ./bundlepath.yaml; when neither exists the
// defaults are used. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: working directory: %w", err)
	}
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
		explicit = path != ""
	}
	if !explicit {
		path = filepath.Join(cwd, FileName)
	}

	cfg, err := loadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg = &Config{}
		cfg.applyDefaults()
		cfg.normalize(cwd)
	case err != nil:
		return nil, err
	}

	if err := cfg.applyEnv(cwd); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", abs, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	parsed.applyDefaults()
	parsed.normalize(filepath.Dir(abs))
	parsed.Path = abs
	return &parsed, nil
}

// WriteDefault writes a commented default config into dir unless one
// already exists. It returns the file path.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

// Settings converts the config into resolver settings.
func (c *Config) Settings() resolver.Settings {
	order := make([]container.Kind, 0, len(c.SearchOrder))
	for _, kind := range c.SearchOrder {
		order = append(order, container.Kind(kind))
	}
	return resolver.Settings{
		Environment: container.Environment{
			PackagedName:   c.PackagedName,
			ApplicationDir: c.ApplicationDir,
			ModuleDir:      c.ModuleDir,
			SearchRoots:    append([]string(nil), c.SearchRoots...),
		},
		SearchOrder:           order,
		Fallback:              resolver.FallbackPolicy(c.Fallback),
		ImageDirectory:        c.Images.Directory,
		ImageExtension:        c.Images.Extension,
		Densities:             append([]int(nil), c.Images.Densities...),
		LocalizationDirectory: c.Localization.Directory,
		DevelopmentLanguage:   c.Localization.DevelopmentLanguage,
	}
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if strings.TrimSpace(c.PackagedName) == "" {
		c.PackagedName = defaultPackagedName
	}
	if strings.TrimSpace(c.ApplicationDir) == "" {
		c.ApplicationDir = "."
	}
	if strings.TrimSpace(c.ModuleDir) == "" {
		c.ModuleDir = defaultModuleDir
	}
	if c.SearchOrder == nil {
		for _, kind := range resolver.DefaultSearchOrder {
			c.SearchOrder = append(c.SearchOrder, string(kind))
		}
	}
	if c.Fallback == "" {
		c.Fallback = string(resolver.FallbackDefault)
	}
	if c.Images.Directory == "" {
		c.Images.Directory = resolver.DefaultImageDirectory
	}
	if c.Images.Extension == "" {
		c.Images.Extension = resolver.DefaultImageExtension
	}
	if len(c.Images.Densities) == 0 {
		c.Images.Densities = append([]int(nil), resolver.DefaultDensities...)
	}
	if c.Localization.Directory == "" {
		c.Localization.Directory = resolver.DefaultLocalizationDirectory
	}
	if c.Localization.DevelopmentLanguage == "" {
		c.Localization.DevelopmentLanguage = resolver.DefaultDevelopmentLanguage
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

func (c *Config) normalize(base string) {
	c.PackagedName = strings.TrimSuffix(strings.TrimSpace(c.PackagedName), container.BundleExt)
	c.ApplicationDir = resolvePath(base, c.ApplicationDir)
	c.ModuleDir = resolvePath(base, c.ModuleDir)
	for i, kind := range c.SearchOrder {
		c.SearchOrder[i] = normalizeKind(kind)
	}
	roots := c.SearchRoots[:0]
	for _, root := range c.SearchRoots {
		if resolved := resolvePath(base, root); resolved != "" {
			roots = append(roots, resolved)
		}
	}
	c.SearchRoots = roots
	c.Fallback = normalizeKind(c.Fallback)
	c.Images.Directory = strings.Trim(strings.TrimSpace(c.Images.Directory), "/")
	c.Images.Extension = strings.TrimPrefix(strings.TrimSpace(c.Images.Extension), ".")
	c.Localization.Directory = strings.Trim(strings.TrimSpace(c.Localization.Directory), "/")
	c.Localization.DevelopmentLanguage = strings.TrimSpace(c.Localization.DevelopmentLanguage)
	c.Log.Level = normalizeKind(c.Log.Level)
	c.Log.File = resolvePath(base, c.Log.File)
}

func (c *Config) applyEnv(cwd string) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	if v := strings.TrimSpace(overrides.PackagedName); v != "" {
		c.PackagedName = strings.TrimSuffix(v, container.BundleExt)
	}
	if v := resolvePath(cwd, overrides.ApplicationDir); v != "" {
		c.ApplicationDir = v
	}
	if v := resolvePath(cwd, overrides.ModuleDir); v != "" {
		c.ModuleDir = v
	}
	if len(overrides.SearchOrder) > 0 {
		c.SearchOrder = c.SearchOrder[:0]
		for _, kind := range overrides.SearchOrder {
			if k := normalizeKind(kind); k != "" {
				c.SearchOrder = append(c.SearchOrder, k)
			}
		}
	}
	if len(overrides.SearchRoots) > 0 {
		c.SearchRoots = nil
		for _, root := range overrides.SearchRoots {
			if resolved := resolvePath(cwd, root); resolved != "" {
				c.SearchRoots = append(c.SearchRoots, resolved)
			}
		}
	}
	if v := normalizeKind(overrides.Fallback); v != "" {
		c.Fallback = v
	}
	if v := normalizeKind(overrides.LogLevel); v != "" {
		c.Log.Level = v
	}
	if v := resolvePath(cwd, overrides.LogFile); v != "" {
		c.Log.File = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if c.ModuleDir == "" {
		return fmt.Errorf("module_dir is required")
	}
	seen := map[string]bool{}
	for i, kind := range c.SearchOrder {
		if !container.IsBuiltin(container.Kind(kind)) {
			return fmt.Errorf("search_order[%d]: unknown kind %q", i, kind)
		}
		if seen[kind] {
			return fmt.Errorf("search_order[%d]: duplicate kind %q", i, kind)
		}
		seen[kind] = true
	}
	switch resolver.FallbackPolicy(c.Fallback) {
	case resolver.FallbackDefault, resolver.FallbackCascade:
	default:
		return fmt.Errorf("fallback must be 'default' or 'cascade'")
	}
	if c.Images.Extension == "" {
		return fmt.Errorf("images.extension is required")
	}
	for i, scale := range c.Images.Densities {
		if scale < 1 {
			return fmt.Errorf("images.densities[%d]: scale must be >= 1", i)
		}
		if i > 0 && scale >= c.Images.Densities[i-1] {
			return fmt.Errorf("images.densities must be strictly descending")
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

func normalizeKind(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
