package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RichWolff/joplin-sync/internal/config"
	"github.com/RichWolff/joplin-sync/internal/ui"
)

func resolvedConfigPath() string {
	if strings.TrimSpace(configFlag) != "" {
		return configFlag
	}
	return config.DefaultPath()
}

// loadConfigAllowMissing reads the config file if it exists. A missing
// file is fine here; these commands exist to inspect and bootstrap it.
func loadConfigAllowMissing(path string) (*config.FileConfig, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &config.FileConfig{}, false, nil
	}
	fileCfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, true, err
	}
	return fileCfg, true, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path := resolvedConfigPath()
	fileCfg, exists, err := loadConfigAllowMissing(path)
	if err != nil {
		return failErr(ErrConfigInvalid, err)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path": path,
			"exists":      exists,
			"base_url":    fileCfg.BaseURL,
			"email":       fileCfg.Email,
			"ca_cert":     fileCfg.CACert,
			"ui": map[string]interface{}{
				"accent": fileCfg.UI.Accent,
			},
		})
		return nil
	}

	if !exists {
		fmt.Printf("Config file does not exist: %s\n", path)
		fmt.Println("Run 'jsync config init' to create it.")
		return nil
	}

	fmt.Println(ui.Field("config", path))
	if v := strings.TrimSpace(fileCfg.BaseURL); v != "" {
		fmt.Println(ui.Field("base_url", v))
	}
	if v := strings.TrimSpace(fileCfg.Email); v != "" {
		fmt.Println(ui.Field("email", v))
	}
	if strings.TrimSpace(fileCfg.Password) != "" {
		fmt.Println(ui.Field("password", "(set)"))
	}
	if v := strings.TrimSpace(fileCfg.CACert); v != "" {
		fmt.Println(ui.Field("ca_cert", v))
	}
	if v := strings.TrimSpace(fileCfg.UI.Accent); v != "" {
		fmt.Println(ui.Field("ui.accent", v))
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global jsync config.toml settings",
	Long: `Inspect and bootstrap the global config file.

The config file holds connection defaults (base_url, email, password,
ca_cert) and UI preferences, so everyday pulls and pushes need no flags
or environment variables. Passwords in environment variables or a .env
file override the config file.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()
		_, statErr := os.Stat(path)
		existed := statErr == nil
		if statErr != nil && !os.IsNotExist(statErr) {
			return failErr(ErrFileReadError, statErr)
		}

		createdPath, err := config.CreateDefaultAt(path)
		if err != nil {
			return failErr(ErrFileWriteError, err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": createdPath,
				"created":     !existed,
			})
			return nil
		}

		if existed {
			fmt.Println(ui.Infof("config already exists: %s", ui.FilePath(createdPath)))
		} else {
			fmt.Println(ui.Successf("created config: %s", ui.FilePath(createdPath)))
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"config_path": path})
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current config.toml values",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	rootCmd.AddCommand(configCmd)
}
