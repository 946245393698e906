package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/bundlepath/container"
	"github.com/kingrea/bundlepath/internal/config"
	"github.com/kingrea/bundlepath/internal/imaging"
	"github.com/kingrea/bundlepath/internal/logging"
	"github.com/kingrea/bundlepath/resolver"
)

var errNotFound = errors.New("not found")

// session holds what subcommands share: flags, then the lazily built config,
// logger and resolver.
type session struct {
	configPath string
	appDir     string
	moduleDir  string
	name       string
	logLevel   string
	fallback   string

	cfg      *config.Config
	logger   *logging.Logger
	resolver *resolver.Resolver
}

func newRootCmd() *cobra.Command {
	s := &session{}
	cmd := &cobra.Command{
		Use:           "bundlepath",
		Short:         "Resolve resources across ordered bundle containers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cobra.OnFinalize(func() { _ = s.close() })
	flags := cmd.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "path to bundlepath.yaml (default $BUNDLEPATH_CONFIG or ./bundlepath.yaml)")
	flags.StringVar(&s.appDir, "app-dir", "", "application directory override")
	flags.StringVar(&s.moduleDir, "module-dir", "", "module directory override")
	flags.StringVar(&s.name, "name", "", "packaged container name override")
	flags.StringVar(&s.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&s.fallback, "fallback", "", "fallback policy override (default, cascade)")

	cmd.AddCommand(
		newContainerCmd(s),
		newPathCmd(s),
		newLocalizationCmd(s),
		newImageCmd(s),
		newSelfCheckCmd(s),
		newInspectCmd(s),
		newInstallCmd(s),
		newInitCmd(),
	)
	return cmd
}

func (s *session) config() (*config.Config, error) {
	if s.cfg != nil {
		return s.cfg, nil
	}
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(s.appDir); v != "" {
		cfg.ApplicationDir = absPath(v)
	}
	if v := strings.TrimSpace(s.moduleDir); v != "" {
		cfg.ModuleDir = absPath(v)
	}
	if v := strings.TrimSpace(s.name); v != "" {
		cfg.PackagedName = strings.TrimSuffix(v, container.BundleExt)
	}
	if v := strings.TrimSpace(s.logLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(s.fallback); v != "" {
		cfg.Fallback = strings.ToLower(v)
	}
	s.cfg = cfg
	return cfg, nil
}

func (s *session) build() (*resolver.Resolver, error) {
	if s.resolver != nil {
		return s.resolver, nil
	}
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}
	s.logger = logger
	r, err := resolver.New(cfg.Settings(),
		resolver.WithLogger(logger.Logger),
		resolver.WithDecoder(imaging.Decoder{}),
	)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		logger.Debug("config loaded", zap.String("path", cfg.Path))
	}
	s.resolver = r
	return r, nil
}

func (s *session) close() error {
	return s.logger.Close()
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
