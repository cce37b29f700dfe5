package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/meshlens/pkg/advisor"
	"github.com/chazu/meshlens/pkg/analysis"
	"github.com/chazu/meshlens/pkg/config"
	"github.com/chazu/meshlens/pkg/logging"
)

// cli carries state shared by every subcommand once the root pre-run has
// loaded the configuration.
type cli struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *log.Logger

	// backend replaces the configured model endpoint in tests.
	backend advisor.Backend
}

func newRootCmd() *cobra.Command {
	return (&cli{}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	c.cfg = config.Default()
	root := &cobra.Command{
		Use:           "meshlens",
		Short:         "Inspect STL and OBJ meshes",
		Long:          "meshlens decodes STL and OBJ files, reports statistics and watertightness, and asks a language model for manufacturing guidance.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or "+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newInspectCmd(c),
		newAdviseCmd(c),
		newSampleCmd(c),
		newWatchCmd(c),
		newConfigCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Resolve(c.configPath))
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	c.cfg = cfg
	c.logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	logging.SetDefault(c.logger)
	return nil
}

func (c *cli) analyzer() *analysis.Analyzer {
	return &analysis.Analyzer{
		MaxFileBytes: c.cfg.Analysis.MaxFileBytes,
		Logger:       c.logger,
	}
}
