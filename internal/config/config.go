package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvPath overrides the config file location.
const EnvPath = "DPSCALC_CONFIG"

// DefaultPath is read when EnvPath is unset.
const DefaultPath = "config/dpscalc.yaml"

// Calculator holds all configuration for the dpscalc binary.
type Calculator struct {
	Data       DataConfig       `yaml:"data"`
	Simulation SimulationConfig `yaml:"simulation"`
	Upgrades   UpgradeConfig    `yaml:"upgrades"`
	Database   DatabaseConfig   `yaml:"database"`
	WikiSync   WikiSyncConfig   `yaml:"wikisync"`
	Hiscores   HiscoresConfig   `yaml:"hiscores"`
	Log        LogConfig        `yaml:"log"`
}

// DataConfig locates the catalog files.
type DataConfig struct {
	Items     string `yaml:"items"`
	Monsters  string `yaml:"monsters"`
	Prices    string `yaml:"prices"`
	Overrides string `yaml:"overrides"`
}

// SimulationConfig tunes the time-to-kill simulator.
type SimulationConfig struct {
	Trials        int    `yaml:"trials"`
	Workers       int    `yaml:"workers"` // 0 = GOMAXPROCS
	MaxTrialTicks int    `yaml:"max_trial_ticks"`
	Seed          uint64 `yaml:"seed"` // 0 = random
}

// UpgradeConfig holds upgrade search defaults. CLI flags override them.
type UpgradeConfig struct {
	Epsilon           float64 `yaml:"epsilon"`
	Workers           int     `yaml:"workers"` // 0 = GOMAXPROCS
	ExcludeThrowables bool    `yaml:"exclude_throwables"`
	ExcludeAmmo       bool    `yaml:"exclude_ammo"`
	MaxPrice          int     `yaml:"max_price"` // 0 = no cap
	SortBy            string  `yaml:"sort_by"`   // efficiency | gain
	Limit             int     `yaml:"limit"`     // rows printed
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	Dialect string `yaml:"dialect"` // sqlite | postgres

	// SQLite
	Path string `yaml:"path"`

	// PostgreSQL. URL, when set, wins over the separate fields.
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the connection string for the configured dialect.
func (d DatabaseConfig) DSN() string {
	if d.Dialect == "postgres" {
		if d.URL != "" {
			return d.URL
		}
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
		)
	}
	return d.Path
}

// WikiSyncConfig locates the RuneLite WikiSync websocket.
type WikiSyncConfig struct {
	Host      string `yaml:"host"`
	FirstPort int    `yaml:"first_port"`
	LastPort  int    `yaml:"last_port"`
	Origin    string `yaml:"origin"`
	TimeoutMS int    `yaml:"timeout_ms"` // per port
}

// HiscoresConfig locates the hiscores CSV endpoint.
type HiscoresConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// LogConfig configures console and rotating file output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json

	File       string `yaml:"file"` // empty = console only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultCalculator returns Calculator config with sensible defaults.
func DefaultCalculator() Calculator {
	return Calculator{
		Data: DataConfig{
			Items:     "data/items-complete.json",
			Monsters:  "data/monsters-complete.json",
			Prices:    "data/latest_prices.json",
			Overrides: "config/price_overrides.yaml",
		},
		Simulation: SimulationConfig{
			Trials:        10000,
			MaxTrialTicks: 1_000_000,
		},
		Upgrades: UpgradeConfig{
			Epsilon: 1e-3,
			SortBy:  "efficiency",
			Limit:   25,
		},
		Database: DatabaseConfig{
			Dialect: "sqlite",
			Path:    "data/dpscalc.db",
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "dpscalc",
			DBName:  "dpscalc",
			SSLMode: "disable",
		},
		WikiSync: WikiSyncConfig{
			Host:      "localhost",
			FirstPort: 37767,
			LastPort:  37776,
			Origin:    "https://tools.runescape.wiki",
			TimeoutMS: 2000,
		},
		Hiscores: HiscoresConfig{
			BaseURL:   "https://secure.runescape.com/m=hiscore_oldschool",
			TimeoutMS: 10000,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Path returns the config path from the environment or the default.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadCalculator loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadCalculator(path string) (Calculator, error) {
	cfg := DefaultCalculator()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the calculator cannot run with.
func (c Calculator) Validate() error {
	if c.Simulation.Trials <= 0 {
		return fmt.Errorf("simulation.trials must be positive, got %d", c.Simulation.Trials)
	}
	if c.Simulation.MaxTrialTicks <= 0 {
		return fmt.Errorf("simulation.max_trial_ticks must be positive, got %d", c.Simulation.MaxTrialTicks)
	}
	if c.Upgrades.SortBy != "efficiency" && c.Upgrades.SortBy != "gain" {
		return fmt.Errorf("upgrades.sort_by must be efficiency or gain, got %q", c.Upgrades.SortBy)
	}
	if c.Database.Dialect != "sqlite" && c.Database.Dialect != "postgres" {
		return fmt.Errorf("database.dialect must be sqlite or postgres, got %q", c.Database.Dialect)
	}
	if c.WikiSync.FirstPort > c.WikiSync.LastPort {
		return fmt.Errorf("wikisync port range %d..%d is empty", c.WikiSync.FirstPort, c.WikiSync.LastPort)
	}
	return nil
}
