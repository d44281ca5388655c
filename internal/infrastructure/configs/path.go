package configs

import (
	"flag"
	"os"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file from the --config flag, the
// BUZZER_CONFIG env var or well-known locations. An empty result means run on
// defaults and env overrides alone.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("BUZZER_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/buzzer/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
