// Package config loads arq settings from files, dotenv files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/activerecord/internal/adapters/database"
	"github.com/satishbabariya/activerecord/internal/adapters/telemetry"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/logger"
)

// AppFs is the filesystem configuration is read from.
var AppFs = afero.NewOsFs()

const (
	configName = ".arq"
	envPrefix  = "ARQ"
)

// Config holds the application configuration
type Config struct {
	Database  database.Config
	Engine    EngineConfig
	Log       logger.Config
	Telemetry telemetry.Config
}

// EngineConfig tunes query execution.
type EngineConfig struct {
	Workers            int
	PersistConcurrency int
	DefaultPageSize    int
}

// Loader reads configuration. The zero value reads from AppFs and the
// user's home directory.
type Loader struct {
	Fs         afero.Fs
	ConfigFile string
	Home       string
}

// LoadConfig loads configuration with the default Loader.
func LoadConfig(configFile string) (*Config, error) {
	return (&Loader{ConfigFile: configFile}).Load()
}

// Load reads .env files, the config file and ARQ_* variables, in that order
// of increasing priority.
func (l *Loader) Load() (*Config, error) {
	fs := l.Fs
	if fs == nil {
		fs = AppFs
	}

	if err := loadDotenv(fs, ".env", false); err != nil {
		return nil, err
	}
	// .env.local wins over .env
	if err := loadDotenv(fs, ".env.local", true); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.ConfigFile != "" {
		v.SetConfigFile(l.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", l.ConfigFile, err)
		}
	} else {
		home := l.Home
		if home == "" {
			dir, err := homedir.Dir()
			if err != nil {
				return nil, fmt.Errorf("failed to find home directory: %w", err)
			}
			home = dir
		}
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "arq"))

		// A missing config file is fine.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := decode(v)
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.Workers < 0 {
		errs = append(errs, fmt.Errorf("engine.workers must not be negative, got %d", c.Engine.Workers))
	}
	if c.Engine.PersistConcurrency < 1 {
		errs = append(errs, fmt.Errorf("engine.persist_concurrency must be at least 1, got %d", c.Engine.PersistConcurrency))
	}
	if c.Engine.DefaultPageSize < 1 {
		errs = append(errs, fmt.Errorf("engine.default_page_size must be at least 1, got %d", c.Engine.DefaultPageSize))
	}
	if c.Database.MaxConnections < 1 {
		errs = append(errs, fmt.Errorf("database.max_connections must be at least 1, got %d", c.Database.MaxConnections))
	}
	return errors.Join(errs...)
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(fs afero.Fs, path string, cfg *Config) error {
	if fs == nil {
		fs = AppFs
	}
	v := viper.New()
	v.SetFs(fs)
	v.Set("database.provider", cfg.Database.Provider)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("database.url", cfg.Database.URL)
	v.Set("database.max_connections", cfg.Database.MaxConnections)
	v.Set("engine.workers", cfg.Engine.Workers)
	v.Set("engine.persist_concurrency", cfg.Engine.PersistConcurrency)
	v.Set("engine.default_page_size", cfg.Engine.DefaultPageSize)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("telemetry.type", cfg.Telemetry.Type)
	v.Set("telemetry.namespace", cfg.Telemetry.Namespace)

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return v.WriteConfigAs(path)
}

func setDefaults(v *viper.Viper) {
	db := database.DefaultConfig()
	v.SetDefault("database.provider", "")
	v.SetDefault("database.driver", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", db.MaxConnections)
	v.SetDefault("database.max_idle_connections", db.MaxIdleConnections)
	v.SetDefault("database.conn_max_lifetime", db.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", db.MaxIdleTime)
	v.SetDefault("database.connect_timeout", db.ConnectTimeout)
	v.SetDefault("database.health_check", db.HealthCheck)

	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.persist_concurrency", 1)
	v.SetDefault("engine.default_page_size", domain.DefaultPageSize)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("telemetry.type", "noop")
	v.SetDefault("telemetry.namespace", "activerecord")
}

func decode(v *viper.Viper) *Config {
	return &Config{
		Database: database.Config{
			Provider:           v.GetString("database.provider"),
			Driver:             v.GetString("database.driver"),
			URL:                v.GetString("database.url"),
			MaxConnections:     v.GetInt("database.max_connections"),
			MaxIdleConnections: v.GetInt("database.max_idle_connections"),
			ConnMaxLifetime:    v.GetDuration("database.conn_max_lifetime"),
			MaxIdleTime:        v.GetDuration("database.conn_max_idle_time"),
			ConnectTimeout:     v.GetDuration("database.connect_timeout"),
			HealthCheck:        v.GetDuration("database.health_check"),
		},
		Engine: EngineConfig{
			Workers:            v.GetInt("engine.workers"),
			PersistConcurrency: v.GetInt("engine.persist_concurrency"),
			DefaultPageSize:    v.GetInt("engine.default_page_size"),
		},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Telemetry: telemetry.Config{
			Type:      v.GetString("telemetry.type"),
			Namespace: v.GetString("telemetry.namespace"),
		},
	}
}

// loadDotenv applies a dotenv file from fs. Unless override is set, variables
// already present in the environment are kept.
func loadDotenv(fs afero.Fs, name string, override bool) error {
	f, err := fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for k, val := range vars {
		if _, exists := os.LookupEnv(k); exists && !override {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}
