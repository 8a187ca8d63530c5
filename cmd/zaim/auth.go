package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yurifrl/gozaim/pkg/auth"
	"github.com/yurifrl/gozaim/pkg/config"
)

var authSave bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Run the OAuth handshake and store the access token",
	Long: `Prompts for the consumer key and secret unless they are already stored,
prints the authorization URL and exchanges the verifier shown after
authorizing for an access token.

Without a credential file the values are printed as shell exports.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store := credentialStore()
		if _, ok := store.(auth.EnvStore); ok && authSave {
			store = auth.FileStore{Path: config.DefaultCredentialsPath()}
		}

		prompter := auth.NewTerminalPrompter(os.Stdin, os.Stderr)
		creds, err := auth.NewAcquirer(store, prompter, logger).Acquire()
		if err != nil {
			return err
		}

		switch s := store.(type) {
		case auth.FileStore:
			logger.Info("credentials saved", "file", s.Path)
		case auth.EnvStore:
			fmt.Fprint(cmd.OutOrStdout(), auth.Exports(creds))
		}
		return nil
	},
}

func init() {
	authCmd.Flags().BoolVar(&authSave, "save", false, "Write to the default credential file when none is configured")
	rootCmd.AddCommand(authCmd)
}
