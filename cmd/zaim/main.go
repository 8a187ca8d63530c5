package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/gozaim/pkg/auth"
	"github.com/yurifrl/gozaim/pkg/config"
)

var (
	cfgFile string
	envFile string
	debug   bool

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "zaim",
	Short:         "Read and write Zaim ledger entries",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "zaim",
		})
		if debug {
			logger.SetLevel(log.DebugLevel)
		}

		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		c, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		logger.Debug("configuration loaded", "credentials", cfg.CredentialsPath(), "base_url", cfg.API.BaseURL)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// credentialStore is the YAML file when one is configured and the process
// environment otherwise.
func credentialStore() auth.Store {
	if p := cfg.CredentialsPath(); p != "" {
		return auth.FileStore{Path: p}
	}
	return auth.EnvStore{}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is ./config.yaml or ~/.config/gozaim/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before configuration")
	rootCmd.PersistentFlags().String("credentials", "", "YAML credential file (default is the process environment)")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
