// Package config loads the tracker configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// StorageBackendWAL stores history in a local write-ahead log.
	StorageBackendWAL = "wal"
	// StorageBackendPostgres stores history in Postgres.
	StorageBackendPostgres = "postgres"
)

// StorageConfig selects and configures the snapshot history backend.
type StorageConfig struct {
	Backend     string
	WALDir      string
	PostgresDSN string
}

// Config is the resolved tracker configuration.
type Config struct {
	Session         string
	QuoteCurrency   string
	PollInterval    time.Duration
	RequestTimeout  time.Duration
	ListenAddr      string
	CredentialsFile string
	Storage         StorageConfig
}

type storageTmp struct {
	Backend     string `yaml:"backend,omitempty"`
	WALDir      string `yaml:"wal_dir,omitempty"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
}

type configTmp struct {
	Session         string     `yaml:"session"`
	QuoteCurrency   string     `yaml:"quote_currency,omitempty"`
	PollInterval    string     `yaml:"poll_interval,omitempty"`
	RequestTimeout  string     `yaml:"request_timeout,omitempty"`
	ListenAddr      string     `yaml:"listen_addr,omitempty"`
	CredentialsFile string     `yaml:"credentials_file,omitempty"`
	Storage         storageTmp `yaml:"storage,omitempty"`
}

// Load reads and validates the config at path, applying defaults for
// everything optional. Only the session id is required.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg := Config{
		Session:         tmp.Session,
		QuoteCurrency:   tmp.QuoteCurrency,
		ListenAddr:      tmp.ListenAddr,
		CredentialsFile: tmp.CredentialsFile,
		PollInterval:    15 * time.Minute,
		RequestTimeout:  30 * time.Second,
		Storage: StorageConfig{
			Backend:     tmp.Storage.Backend,
			WALDir:      tmp.Storage.WALDir,
			PostgresDSN: tmp.Storage.PostgresDSN,
		},
	}

	if cfg.Session == "" {
		return Config{}, fmt.Errorf("config %s: 'session' is required, run setup first", path)
	}
	if cfg.QuoteCurrency == "" {
		cfg.QuoteCurrency = "USDT"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = "credentials.yaml"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageBackendWAL
	}

	if tmp.PollInterval != "" {
		d, err := time.ParseDuration(tmp.PollInterval)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'poll_interval' param in yaml config: %w", err)
		}
		cfg.PollInterval = d
	}
	if tmp.RequestTimeout != "" {
		d, err := time.ParseDuration(tmp.RequestTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'request_timeout' param in yaml config: %w", err)
		}
		cfg.RequestTimeout = d
	}

	switch cfg.Storage.Backend {
	case StorageBackendWAL:
	case StorageBackendPostgres:
		if cfg.Storage.PostgresDSN == "" {
			return Config{}, fmt.Errorf("storage backend %q requires 'postgres_dsn'", cfg.Storage.Backend)
		}
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

// Save writes cfg back to path. The setup wizard uses it to persist a freshly
// generated session.
func Save(path string, cfg Config) error {
	tmp := configTmp{
		Session:         cfg.Session,
		QuoteCurrency:   cfg.QuoteCurrency,
		PollInterval:    cfg.PollInterval.String(),
		RequestTimeout:  cfg.RequestTimeout.String(),
		ListenAddr:      cfg.ListenAddr,
		CredentialsFile: cfg.CredentialsFile,
		Storage: storageTmp{
			Backend:     cfg.Storage.Backend,
			WALDir:      cfg.Storage.WALDir,
			PostgresDSN: cfg.Storage.PostgresDSN,
		},
	}
	raw, err := yaml.Marshal(tmp)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, raw, 0o600)
}
