// File: cmd/root.go
// Description: Root command wiring. Configuration merges, in increasing
// precedence: built-in defaults, the optional config file, VISITQA_*
// environment variables, CLI flags.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/infodatanodes/visit-processor-testing/internal/config"
	"github.com/infodatanodes/visit-processor-testing/internal/observability"
)

var (
	cfgFile string
	appCfg  *config.Config
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "visitqa",
	Short: "Automated UI testing for the field visit workbook",
	Long: `visitqa drives the probation field visit workbook end to end: it loads an
itinerary, documents visits with generated content at a human-visible pace,
and validates the workbook's metrics dashboard against an independent
recomputation. Each run produces an HTML report and screenshot evidence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}
		observability.InitializeLogger(appCfg.Logger)
		return nil
	},
}

// Execute runs the CLI with the given base context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ./visitqa.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
}

func initConfig(cmd *cobra.Command) error {
	v = viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("visitqa")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/visitqa")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("VISITQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		v.Set("logger.level", f.Value.String())
	}
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		v.Set("logger.format", f.Value.String())
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	appCfg = cfg
	return nil
}
