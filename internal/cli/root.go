// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RichWolff/joplin-sync/internal/config"
	"github.com/RichWolff/joplin-sync/internal/ui"
)

var (
	// Global connection flags
	baseURLFlag  string
	emailFlag    string
	passwordFlag string
	caCertFlag   string
	configFlag   string
	envFileFlag  string

	// cfg is the resolved configuration, available to every verb after
	// PersistentPreRunE.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jsync",
	Short: "Sync notes between a note server and local markdown files",
	Long: `jsync moves note content between a remote note server and local
markdown files.

Pull a note into a file, edit it with whatever you like, and push it
back. Each file carries a small metadata header (note_id, parent_id,
title) so the file itself knows where it belongs.

Credentials come from flags, JOPLIN_* environment variables, a .env
file, or ~/.config/jsync/config.toml, in that order.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never talk to the server skip resolution, so
		// version and config work on a machine with no credentials.
		switch cmd.Name() {
		case "version", "config", "completion", "help":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "config" || cmd.Parent().Name() == "completion") {
			return nil
		}

		resolved, err := config.Resolve(config.Options{
			BaseURL:    baseURLFlag,
			Email:      emailFlag,
			Password:   passwordFlag,
			CACert:     caCertFlag,
			ConfigPath: configFlag,
			EnvFile:    envFileFlag,
		})
		if err != nil {
			var missing *config.MissingError
			if errors.As(err, &missing) {
				return &commandError{
					code:       ErrConfigMissing,
					message:    err.Error(),
					suggestion: fmt.Sprintf("Set %s or run 'jsync config init'", missing.EnvVar),
				}
			}
			return &commandError{code: ErrConfigInvalid, message: err.Error()}
		}

		cfg = resolved
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
}

// Execute runs the CLI. Any failure has already been reported to the
// user (text or JSON envelope) by the time this returns non-nil.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	report(err)
	return err
}

// report prints a failure once, in the active output mode.
func report(err error) {
	var ce *commandError
	if !errors.As(err, &ce) {
		// Errors cobra produces itself, e.g. unknown flags.
		ce = &commandError{code: ErrInvalidInput, message: err.Error()}
	}

	if jsonOutput {
		outputError(ce.code, ce.message, ce.details, ce.suggestion)
		return
	}

	fmt.Fprintln(os.Stderr, ui.Error(ce.message))
	if ce.suggestion != "" {
		fmt.Fprintln(os.Stderr, ui.Hint(ce.suggestion))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Note server base URL (default "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&emailFlag, "email", "", "Account email")
	rootCmd.PersistentFlags().StringVar(&passwordFlag, "password", "", "Account password")
	rootCmd.PersistentFlags().StringVar(&caCertFlag, "ca-cert", "", "Path to a PEM trust root for the server's TLS certificate")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Path to a .env file (default ./.env when present)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}
