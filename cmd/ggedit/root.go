package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggedit"
)

// newRootCmd builds the command tree. Config is loaded once in
// PersistentPreRunE and handed to subcommands through the context.
func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "ggedit",
		Short:        "Replay layered image editing projects",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			level := cfg.level()
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			installLogger(logger)

			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $"+envConfigPath+")")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newSVGCmd())
	root.AddCommand(newRasterizersCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		output     string
		svgOutput  string
		rasterizer string
	)
	cmd := &cobra.Command{
		Use:   "render PROJECT",
		Short: "Flatten a project into a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)
			if rasterizer != "" {
				cfg.Rasterizer = rasterizer
			}

			s, err := buildSession(cmd, cfg, args[0])
			if err != nil {
				return err
			}

			if svgOutput != "" {
				scene, err := s.Scene()
				if err != nil {
					return err
				}
				if err := os.WriteFile(svgOutput, scene.SVG(), 0o644); err != nil {
					return err
				}
			}

			prog := newProgress(logger)
			data, err := s.Export(ctx, ggedit.WithRasterizer(cfg.Rasterizer))
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Exported %s", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", ggedit.ExportFilename, "PNG output file (- for stdout)")
	cmd.Flags().StringVar(&svgOutput, "svg", "", "also write the SVG document to this file")
	cmd.Flags().StringVar(&rasterizer, "rasterizer", "", "rasterizer name (overrides config)")
	return cmd
}

func newSVGCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "svg PROJECT",
		Short: "Write the SVG document of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			s, err := buildSession(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			scene, err := s.Scene()
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := scene.WriteSVG(&buf); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "SVG output file (- for stdout)")
	return cmd
}

func newRasterizersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rasterizers",
		Short: "List the registered rasterizers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range ggedit.Rasterizers() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func buildSession(cmd *cobra.Command, cfg Config, path string) (*ggedit.Session, error) {
	logger := loggerFromContext(cmd.Context())
	p, err := loadProject(path)
	if err != nil {
		return nil, err
	}
	prog := newProgress(logger)
	s, err := p.Build(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d layers", s.Len()))
	return s, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
