// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/internal/config"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/report"
)

var (
	// Log is the shared logger instance for commands
	Log = logging.NewDiscardLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "spendtag",
		Short: "Enrich bank transactions with tags, splits and spending analytics.",
		Long: `spendtag enriches imported bank transactions: it normalizes merchant names,
suggests tags from rules and history, flags duplicates and recurring payments,
splits shared expenses and summarizes spending per category.`,
		SilenceUsage:      true,
		PersistentPreRunE: persistentPreRun,
		PersistentPostRun: persistentPostRun,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	// ConfigFile overrides the config file search path
	ConfigFile string
	// Format selects the output format of every command
	Format string
	// LogLevel overrides log.level from the configuration
	LogLevel string

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "Config file (default $HOME/.spendtag/config.yaml)")
	Cmd.PersistentFlags().StringVarP(&Format, "format", "f", report.FormatText, "Output format: text, json or yaml")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	if err := report.ValidateFormat(Format); err != nil {
		return err
	}

	config.LoadEnv(nil)
	cfg, err := config.InitializeConfig(ConfigFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}
	SetContainer(c)
	return nil
}

func persistentPostRun(cmd *cobra.Command, args []string) {
	if appContainer == nil {
		return
	}
	if err := appContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close resources")
	}
	appContainer = nil
}

// SetContainer installs c as the container every command uses.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if appContainer == nil {
		return nil, fmt.Errorf("application container is not initialized")
	}
	return appContainer, nil
}

// Render writes v to the command's output in the selected format.
func Render(cmd *cobra.Command, v interface{}) error {
	return report.NewGenerator(Log).Write(cmd.OutOrStdout(), v, Format)
}
