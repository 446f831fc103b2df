package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Theme:      "catppuccin-mocha",
			Mouse:      true,
			DateFormat: "relative",
			ShowTime:   true,
		},
		Layout: LayoutConfig{
			MinWidth: 80,
		},
		Graph: GraphConfig{
			Charset:                 "unicode",
			LaneColors:              8,
			LaneWidthCells:          2,
			PrivilegedBranches:      []string{"main", "master", "trunk"},
			CheckpointInterval:      128,
			TruncateMessageCJKAware: true,
		},
		Keybindings: KeybindingsConfig{
			Quit:         []string{"q", "ctrl+c"},
			Help:         []string{"?"},
			Jump:         []string{":"},
			Up:           []string{"k", "up"},
			Down:         []string{"j", "down"},
			Top:          []string{"g", "home"},
			Bottom:       []string{"G", "end"},
			PageUp:       []string{"pgup"},
			PageDown:     []string{"pgdown"},
			HalfPageUp:   []string{"ctrl+u"},
			HalfPageDown: []string{"ctrl+d"},
			Recenter:     []string{"z"},
		},
		Performance: PerformanceConfig{
			IngestLimit: 5000,
		},
	}
}

func Load() (*Config, error) {
	config := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return config, nil
	}

	configPath := filepath.Join(home, ".config", "gitup")
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return config, nil
		}
		return nil, err
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	return config, nil
}
