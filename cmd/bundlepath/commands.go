package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/bundlepath/container"
	"github.com/kingrea/bundlepath/internal/config"
	"github.com/kingrea/bundlepath/internal/diagnostics"
	"github.com/kingrea/bundlepath/internal/tui"
	"github.com/kingrea/bundlepath/resolver"
)

func printResult(cmd *cobra.Command, res resolver.Result) error {
	if !res.Found() {
		return errNotFound
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	return nil
}

func newContainerCmd(s *session) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Print the primary container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.build()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !all {
				c := r.ResolveContainer()
				fmt.Fprintf(out, "%s\t%s\n", c.Kind(), c.Root())
				return nil
			}
			for _, c := range r.Sequence() {
				fmt.Fprintf(out, "%d\t%s\t%s\n", c.Rank(), c.Kind(), c.Root())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print every container consulted, in order")
	return cmd
}

func newPathCmd(s *session) *cobra.Command {
	var typ, dir string
	cmd := &cobra.Command{
		Use:   "path NAME",
		Short: "Resolve a plain resource",
		Example: strings.TrimSpace(`
bundlepath path logo --type png --dir Images
bundlepath path Localizable`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.build()
			if err != nil {
				return err
			}
			return printResult(cmd, r.ResolvePath(resolver.Request{Name: args[0], Type: typ, Subdirectory: dir}))
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "resource type (file extension)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "subdirectory inside the container")
	return cmd
}

func newLocalizationCmd(s *session) *cobra.Command {
	var prefer []string
	cmd := &cobra.Command{
		Use:     "localization FILE",
		Aliases: []string{"l10n"},
		Short:   "Resolve a localization file",
		Example: strings.TrimSpace(`
bundlepath localization en.lproj/Localizable.strings
bundlepath localization --prefer fr-CA,en Localizable.strings`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.build()
			if err != nil {
				return err
			}
			if len(prefer) > 0 {
				return printResult(cmd, r.ResolvePreferredLocalization(prefer, args[0]))
			}
			return printResult(cmd, r.ResolveLocalizationPath(args[0]))
		},
	}
	cmd.Flags().StringSliceVar(&prefer, "prefer", nil, "preferred languages; FILE is then a basename matched across .lproj directories")
	return cmd
}

func newImageCmd(s *session) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "image NAME",
		Short: "Resolve the best density variant of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.build()
			if err != nil {
				return err
			}
			img, ok := r.ResolveImage(args[0], dir)
			if !ok {
				return errNotFound
			}
			out := cmd.OutOrStdout()
			if img.Asset != nil {
				fmt.Fprintf(out, "%s\t@%dx\t%v\n", img.Path, img.Scale, img.Asset)
				return nil
			}
			fmt.Fprintf(out, "%s\t@%dx\n", img.Path, img.Scale)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "image subdirectory (default from config)")
	return cmd
}

func newSelfCheckCmd(s *session) *cobra.Command {
	probes := diagnostics.DefaultProbes()
	cmd := &cobra.Command{
		Use:   "selfcheck",
		Short: "Exercise every resolution operation and report the outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.build()
			if err != nil {
				return err
			}
			rep := diagnostics.Run(r, probes)
			rep.Render(cmd.OutOrStdout())
			if !rep.Passed() {
				return fmt.Errorf("self-check: %w", errNotFound)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&probes.LocalizationFile, "localization-file", probes.LocalizationFile, "localization file to probe")
	cmd.Flags().StringVar(&probes.ImageName, "image", probes.ImageName, "image base name to probe")
	cmd.Flags().StringVar(&probes.ImageDirectory, "image-dir", probes.ImageDirectory, "image subdirectory to probe")
	cmd.Flags().IntVar(&probes.ImageScale, "image-scale", probes.ImageScale, "explicit density probed by path")
	return cmd
}

func newInspectCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Browse containers and resolve queries interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.build()
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.NewApp(r), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run inspector: %w", err)
			}
			return nil
		},
	}
}

func newInstallCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Copy the module's packaged container into the application directory",
		Long: strings.TrimSpace(`
Copies <module>/<name>.bundle into the application directory so that the
"packaged" kind locates it. An existing copy is left untouched.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.config()
			if err != nil {
				return err
			}
			src := filepath.Join(cfg.ModuleDir, container.BundleName(cfg.PackagedName))
			copied, err := container.Install(src, cfg.ApplicationDir)
			if err != nil {
				return err
			}
			dest := filepath.Join(cfg.ApplicationDir, filepath.Base(src))
			if copied {
				fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", dest)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "already present: %s\n", dest)
			}
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write a default bundlepath.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			path, err := config.WriteDefault(dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
