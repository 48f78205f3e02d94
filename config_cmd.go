package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# engine: commandBridge or nativePlatform (empty = pick per platform)
engine: ""
# fall back to another engine when the preferred one is unavailable
auto_fallback: true

# synthesis defaults
speech_rate: 1.0
pitch: 1.0
volume: 1.0
language_code: "en-US"
audio_format: "mp3"
use_markup: false

# command bridge (edge-tts) settings
bridge:
  executable: "edge-tts"
  probe_timeout: "12s"
  synthesis_timeout: "30s"
  requests_per_minute: 60

# voice discovery
# voice_list_url: ""
discovery_timeout: "10s"
voice_cache_ttl: "24h"

# recovery
retry_attempts: 3
retry_base_delay: "500ms"
retry_max_delay: "10s"
breaker_threshold: 3
breaker_reset: "30s"
operation_timeout: "15s"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the alouette config file",
	Long:    "\nEdit the alouette config file. We'll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.",
	Example: "alouette config\nalouette config --config path/to/config.yml",
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Alouette", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
