package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-lite/engine"
	"github.com/Carmen-Shannon/oxy-lite/engine/config"
	"github.com/Carmen-Shannon/oxy-lite/engine/loader"
	"github.com/Carmen-Shannon/oxy-lite/engine/logging"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/spf13/cobra"
)

// options holds the command line flags shared by every command.
type options struct {
	configPath string
	geometry   string
	shader     string
	logLevel   string
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "oxy-lite",
		Short:         "Render a rotating mesh with WebGPU",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	flags.StringVar(&opts.geometry, "geometry", "", "geometry text file (overrides assets.geometry)")
	flags.StringVar(&opts.shader, "shader", "", "WGSL shader file (overrides assets.shader)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")

	cmd.AddCommand(newValidateCommand(opts))
	return cmd
}

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and check the configured assets without opening a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return validate(cmd, opts)
		},
	}
}

// resolveConfig loads the configuration file, if any, and applies the flags that were set.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("geometry") {
		cfg.Assets.Geometry = opts.geometry
	}
	if flags.Changed("shader") {
		cfg.Assets.Shader = opts.shader
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	e := engine.NewEngine(cfg, engine.WithLogger(logger))
	if err := e.Initialize(); err != nil {
		logger.Error("initialization failed", "err", err)
		return err
	}
	defer e.Terminate()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := e.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("render loop failed", "err", err)
		return err
	}
	return nil
}

func validate(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	l := loader.NewLoader(
		loader.WithLogger(logger),
		loader.WithShaderOptions(
			shader.WithVertexEntryPoint(cfg.Shader.VertexEntry),
			shader.WithFragmentEntryPoint(cfg.Shader.FragmentEntry),
		),
	)
	assets, err := l.LoadAssets(cfg.Assets.Geometry, cfg.Assets.Shader)
	if err != nil {
		logger.Error("failed to load assets", "err", err)
		return err
	}
	if err := assets.Mesh.Validate(cfg.Geometry.ValidateIndices); err != nil {
		logger.Error("invalid geometry", "path", cfg.Assets.Geometry, "err", err)
		return err
	}
	if cfg.Shader.Validate {
		if err := shader.Validate(assets.Shader); err != nil {
			logger.Error("invalid shader", "key", assets.Shader.Key, "err", err)
			return err
		}
		if err := shader.CheckInterface(assets.Shader, uniform.Size); err != nil {
			logger.Error("shader does not fit the pipeline", "key", assets.Shader.Key, "err", err)
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d vertices, %d indices\n%s: ok\n",
		cfg.Assets.Geometry, assets.Mesh.VertexCount(), assets.Mesh.IndexCount(), assets.Shader.Key)
	return nil
}
