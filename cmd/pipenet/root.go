package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-pipenet/pkg/config"
	"github.com/dd0wney/cluso-pipenet/pkg/logging"
	"github.com/dd0wney/cluso-pipenet/pkg/validation"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pipenet",
		Short: "Hydraulic solver for pipeline gathering networks",
		Long: "pipenet splits a pipeline network into independent subnets and propagates\n" +
			"well line pressures and rates through each of them in parallel.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(newSolveCmd(opts))
	cmd.AddCommand(newSubnetsCmd(opts))
	cmd.AddCommand(newExportTGFCmd(opts))
	return cmd
}

// loadConfig applies file, environment and flag settings in that order
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Logging.Level = strings.ToLower(validation.DefaultOr(o.logLevel, cfg.Logging.Level))
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) logging.Logger {
	return logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.LogLevel())
}
