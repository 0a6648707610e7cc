// Package config loads the ship's configuration snapshot.
// Loading mechanics (file formats, CLI flags, env overrides) are kept
// intentionally thin; what matters here is the shape of the snapshot the
// Ship holds for its lifetime (see internal/ship).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Ship is the configuration snapshot consumed by internal/ship.
type Ship struct {
	Name string `yaml:"name"`

	// Blocks is the number of independent blocks this ship runs.
	Blocks int `yaml:"blocks"`

	// Listen holds one entry per supported client version; each version gets
	// its own TCP listener per block.
	Listen []Listener `yaml:"listen"`

	Shipgate Shipgate `yaml:"shipgate"`
	Data     Data     `yaml:"data"`

	LogLevel string `yaml:"log_level"`

	// ShutdownNotice is how long clients are warned before a scheduled
	// shutdown/restart disconnects them.
	ShutdownNotice time.Duration `yaml:"shutdown_notice"`
}

// Listener is one version-specific TCP listen address.
type Listener struct {
	Version     string `yaml:"version"` // "dcnte","dcv1","dcv2","pcnte","pcv2","gc","gcep3","xbox","bb"
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
	BindAddressV6 string `yaml:"bind_address_v6"`
}

// Shipgate holds the outbound link configuration (internal/shipgate).
type Shipgate struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	CertFile       string `yaml:"cert_file"`
	KeyFile        string `yaml:"key_file"`
	CAFile         string `yaml:"ca_file"`
	ShipName       string `yaml:"ship_name"`
	MenuCode       string `yaml:"menu_code"`
	ReconnectFloor time.Duration `yaml:"reconnect_floor"` // minimum back-off, ~10s
}

// Data holds the boot-time data file directories (internal/item, internal/mapmodel).
type Data struct {
	MapDir   string `yaml:"map_dir"`
	ItemDir  string `yaml:"item_dir"`
	QuestDir string `yaml:"quest_dir"`
}

// Load reads and parses a YAML ship configuration file, applying defaults.
func Load(path string) (*Ship, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg Ship
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Ship) {
	if cfg.Blocks <= 0 {
		cfg.Blocks = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ShutdownNotice <= 0 {
		cfg.ShutdownNotice = 5 * time.Minute
	}
	if cfg.Shipgate.ReconnectFloor <= 0 {
		cfg.Shipgate.ReconnectFloor = 10 * time.Second
	}
}

// Validate rejects configuration snapshots that the ship cannot boot with.
func (s *Ship) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("ship name is required")
	}
	if s.Blocks <= 0 {
		return fmt.Errorf("blocks must be positive")
	}
	if len(s.Listen) == 0 {
		return fmt.Errorf("at least one listener is required")
	}
	if s.Shipgate.Host == "" {
		return fmt.Errorf("shipgate.host is required")
	}
	return nil
}
