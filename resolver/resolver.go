package resolver

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/bundlepath/container"
)

// FallbackPolicy decides which containers ResolvePath consults after the
// primary container misses.
type FallbackPolicy string

const (
	// FallbackDefault tries the primary container, then the default one.
	FallbackDefault FallbackPolicy = "default"
	// FallbackCascade tries every located container in search order, then
	// the default one.
	FallbackCascade FallbackPolicy = "cascade"
)

const (
	DefaultImageDirectory        = "Images"
	DefaultImageExtension        = "png"
	DefaultLocalizationDirectory = "Localizable"
	DefaultDevelopmentLanguage   = "en"
)

// DefaultDensities is the preferred scale order, highest density first.
var DefaultDensities = []int{3, 2, 1}

// DefaultSearchOrder probes the packaged container next to the application,
// then the one shipped inside the module, then the search roots.
var DefaultSearchOrder = []container.Kind{
	container.KindPackaged,
	container.KindModulePackaged,
	container.KindDiscovered,
}

// Settings is the resolver's immutable configuration.
type Settings struct {
	Environment container.Environment
	// SearchOrder lists container kinds by priority. The module container
	// is always appended as the default fallback.
	SearchOrder []container.Kind
	Fallback    FallbackPolicy

	ImageDirectory string
	ImageExtension string
	// Densities are image scales, highest preference first. Scale 1 has no
	// file suffix; any other scale n uses "@<n>x".
	Densities []int

	LocalizationDirectory string
	DevelopmentLanguage   string
}

func (s Settings) withDefaults() Settings {
	if s.SearchOrder == nil {
		s.SearchOrder = append([]container.Kind(nil), DefaultSearchOrder...)
	}
	if s.Fallback == "" {
		s.Fallback = FallbackDefault
	}
	if strings.TrimSpace(s.ImageDirectory) == "" {
		s.ImageDirectory = DefaultImageDirectory
	}
	s.ImageExtension = strings.TrimPrefix(strings.TrimSpace(s.ImageExtension), ".")
	if s.ImageExtension == "" {
		s.ImageExtension = DefaultImageExtension
	}
	if len(s.Densities) == 0 {
		s.Densities = append([]int(nil), DefaultDensities...)
	}
	if strings.TrimSpace(s.LocalizationDirectory) == "" {
		s.LocalizationDirectory = DefaultLocalizationDirectory
	}
	if strings.TrimSpace(s.DevelopmentLanguage) == "" {
		s.DevelopmentLanguage = DefaultDevelopmentLanguage
	}
	return s
}

func (s Settings) validate() error {
	if strings.TrimSpace(s.Environment.ModuleDir) == "" {
		return fmt.Errorf("module directory is required")
	}
	switch s.Fallback {
	case FallbackDefault, FallbackCascade:
	default:
		return fmt.Errorf("unknown fallback policy %q", s.Fallback)
	}
	for i, scale := range s.Densities {
		if scale < 1 {
			return fmt.Errorf("densities[%d]: scale must be >= 1", i)
		}
		if i > 0 && scale >= s.Densities[i-1] {
			return fmt.Errorf("densities must be strictly descending")
		}
	}
	return nil
}

// Option customizes Resolver construction.
type Option func(*Resolver)

// WithRegistry overrides the container registry, e.g. to add custom kinds.
func WithRegistry(reg *container.Registry) Option {
	return func(r *Resolver) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithDecoder installs the image decoding capability used by ResolveImage.
func WithDecoder(decoder ImageDecoder) Option {
	return func(r *Resolver) {
		r.decoder = decoder
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Located pairs a configured kind with the container found for it, if any.
type Located struct {
	Kind      container.Kind
	Container *container.Container
}

// Resolver maps resource requests to paths. It is immutable after New and
// safe for concurrent use.
type Resolver struct {
	settings Settings
	registry *container.Registry
	decoder  ImageDecoder
	logger   *zap.Logger

	located  []Located
	fallback *container.Container
	primary  *container.Container
	sequence []*container.Container
}

// New probes every kind in the search order once and fixes the container
// list for the resolver's lifetime. It fails only on misconfiguration: an
// unknown kind, invalid settings, or an unreachable module container.
func New(settings Settings, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		registry: container.DefaultRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	settings = settings.withDefaults()
	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	r.settings = settings

	fallback, err := container.Open(container.KindModule, settings.Environment.ModuleDir, len(settings.SearchOrder))
	if err != nil {
		return nil, fmt.Errorf("resolver: default container unreachable: %w", err)
	}
	r.fallback = fallback

	var available []*container.Container
	for rank, kind := range settings.SearchOrder {
		c, err := r.registry.Locate(kind, settings.Environment, rank)
		switch {
		case errors.Is(err, container.ErrNotLocated):
			r.logger.Debug("container not located", zap.String("kind", string(kind)))
			r.located = append(r.located, Located{Kind: kind})
			continue
		case err != nil:
			return nil, fmt.Errorf("resolver: search order[%d]: %w", rank, err)
		}
		if c.Same(fallback) {
			c = fallback
		}
		r.logger.Debug("container located",
			zap.String("kind", string(kind)),
			zap.String("root", c.Root()),
			zap.Bool("archive", c.IsArchive()),
		)
		r.located = append(r.located, Located{Kind: kind, Container: c})
		available = append(available, c)
	}

	r.primary = fallback
	if len(available) > 0 {
		r.primary = available[0]
	}
	switch settings.Fallback {
	case FallbackCascade:
		r.sequence = appendUnique(nil, available...)
	default:
		r.sequence = []*container.Container{r.primary}
	}
	r.sequence = appendUnique(r.sequence, fallback)
	return r, nil
}

func appendUnique(list []*container.Container, items ...*container.Container) []*container.Container {
	for _, item := range items {
		dup := false
		for _, existing := range list {
			if existing.Same(item) {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, item)
		}
	}
	return list
}

// Settings returns the resolver's configuration with defaults applied.
func (r *Resolver) Settings() Settings {
	s := r.settings
	s.SearchOrder = append([]container.Kind(nil), s.SearchOrder...)
	s.Densities = append([]int(nil), s.Densities...)
	s.Environment.SearchRoots = append([]string(nil), s.Environment.SearchRoots...)
	return s
}

// Located reports the outcome of probing each configured kind, in search order.
func (r *Resolver) Located() []Located {
	return append([]Located(nil), r.located...)
}

// Default returns the module container, the guaranteed fallback.
func (r *Resolver) Default() *container.Container {
	return r.fallback
}

// Sequence returns the containers ResolvePath consults, in order.
func (r *Resolver) Sequence() []*container.Container {
	return append([]*container.Container(nil), r.sequence...)
}

// ResolveContainer returns the first configured container that exists and is
// loadable, or the default container when none does. It never fails and
// returns the identical handle on every call.
func (r *Resolver) ResolveContainer() *container.Container {
	return r.primary
}

// ResolvePath looks the request up in the primary container and then, per
// the fallback policy, in the remaining containers ending with the default
// one. The first hit wins. Absence is reported as NotFound, never an error.
func (r *Resolver) ResolvePath(req Request) Result {
	entry, ok := req.Entry()
	if !ok {
		r.logger.Debug("rejected request", zap.String("name", req.Name), zap.String("subdirectory", req.Subdirectory))
		return NotFound
	}
	return r.lookup(entry)
}

// Path is ResolvePath in the (path, ok) form.
func (r *Resolver) Path(name, typ, subdirectory string) (string, bool) {
	res := r.ResolvePath(Request{Name: name, Type: typ, Subdirectory: subdirectory})
	return res.Path, res.Found()
}

func (r *Resolver) lookup(entry string) Result {
	for _, c := range r.sequence {
		if c.Exists(entry) {
			path := c.Path(entry)
			r.logger.Debug("resolved", zap.String("entry", entry), zap.String("path", path), zap.String("kind", string(c.Kind())))
			return Result{Path: path, Entry: entry, Container: c}
		}
	}
	r.logger.Debug("not found", zap.String("entry", entry))
	return NotFound
}
