package bootstrap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/Masterminds/semver/v3"
)

const logPrefix = "bootstrap:loader"

// versionConstraint is the definitions format this build understands.
const versionConstraint = "^1"

// LoadChannelsConfig loads the channel definitions from file paths or
// environment. It tries paths in order: first any paths passed in, then
// TRACELIGHT_CHANNELS_FILE, then defaults. No file anywhere is not an error;
// it yields an empty config.
func LoadChannelsConfig(paths ...string) (*ChannelsConfig, error) {
	all := make([]string, 0, len(paths)+3)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("TRACELIGHT_CHANNELS_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/channels.json", "channels.json")

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		var cfg ChannelsConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%s - parse %s: %w", logPrefix, p, err)
		}
		if err := validate(&cfg); err != nil {
			return nil, fmt.Errorf("%s - validate %s: %w", logPrefix, p, err)
		}

		slog.Info(fmt.Sprintf("%s - Loaded %d channel definitions from %s (version %s)", logPrefix, len(cfg.Channels), p, cfg.Version))
		return &cfg, nil
	}

	slog.Info(fmt.Sprintf("%s - No channel definitions file found, starting with no channels", logPrefix))
	return &ChannelsConfig{}, nil
}

func validate(cfg *ChannelsConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("version is required")
	}
	v, err := semver.NewVersion(cfg.Version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", cfg.Version, err)
	}
	constraint, err := semver.NewConstraint(versionConstraint)
	if err != nil {
		return fmt.Errorf("parse constraint %q: %w", versionConstraint, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("version %s does not satisfy %s", cfg.Version, versionConstraint)
	}

	seen := make(map[string]bool, len(cfg.Channels))
	for _, def := range cfg.Channels {
		if def.Name == "" {
			return fmt.Errorf("channel definition without a name")
		}
		if seen[def.Name] {
			return fmt.Errorf("duplicate channel definition: %s", def.Name)
		}
		seen[def.Name] = true
	}
	return nil
}
