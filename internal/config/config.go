// Package config loads sqlshape settings from a config file, the environment
// and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tordrt/sqlshape/internal/extract"
)

// EnvPrefix is prepended to every environment variable, e.g. SQLSHAPE_SCHEMA_PATH
const EnvPrefix = "SQLSHAPE"

// Keys
const (
	KeySchemaPath    = "schema_path"
	KeyDesignPath    = "design_path"
	KeyTypesPath     = "types_path"
	KeyReloadSchema  = "reload_schema"
	KeyUnknownAsText = "unknown_as_text"
	KeyExtractMode   = "extract_mode"
	KeyDatabaseURL   = "database_url"
	KeyTables        = "tables"
	KeyExcludeTables = "exclude_tables"
)

// Config holds the application configuration
type Config struct {
	SchemaPath    string   `mapstructure:"schema_path"`
	DesignPath    string   `mapstructure:"design_path"`
	TypesPath     string   `mapstructure:"types_path"`
	ReloadSchema  bool     `mapstructure:"reload_schema"`
	UnknownAsText bool     `mapstructure:"unknown_as_text"`
	ExtractMode   string   `mapstructure:"extract_mode"`
	DatabaseURL   string   `mapstructure:"database_url"`
	Tables        []string `mapstructure:"tables"`
	ExcludeTables []string `mapstructure:"exclude_tables"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		SchemaPath:  "./schema.sql",
		DesignPath:  "./design.json",
		TypesPath:   "./types/",
		ExtractMode: "fail-fast",
	}
}

// Loader reads configuration. The zero value is not usable; call NewLoader.
type Loader struct {
	v       *viper.Viper
	envFile string
}

// NewLoader creates a loader with defaults and environment binding set up.
// envFile is the dotenv file read before the environment; empty means ".env".
func NewLoader(envFile string) *Loader {
	v := viper.New()

	def := Default()
	v.SetDefault(KeySchemaPath, def.SchemaPath)
	v.SetDefault(KeyDesignPath, def.DesignPath)
	v.SetDefault(KeyTypesPath, def.TypesPath)
	v.SetDefault(KeyReloadSchema, def.ReloadSchema)
	v.SetDefault(KeyUnknownAsText, def.UnknownAsText)
	v.SetDefault(KeyExtractMode, def.ExtractMode)
	v.SetDefault(KeyDatabaseURL, "")
	v.SetDefault(KeyTables, []string{})
	v.SetDefault(KeyExcludeTables, []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if envFile == "" {
		envFile = ".env"
	}
	return &Loader{v: v, envFile: envFile}
}

// BindFlag binds a command-line flag to a key; a set flag overrides the
// config file and the environment
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind to %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the dotenv file (when present), then the optional config file,
// and returns the validated configuration
func (l *Loader) Load(configFile string) (*Config, error) {
	// Load .env file if it exists (silently ignore if missing)
	if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", l.envFile, err)
	}

	if configFile != "" {
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Tables = splitList(cfg.Tables)
	cfg.ExcludeTables = splitList(cfg.ExcludeTables)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from .env, the environment and configFile
func Load(configFile string) (*Config, error) {
	return NewLoader("").Load(configFile)
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if _, err := extract.ParseMode(c.ExtractMode); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyExtractMode, err)
	}
	if strings.TrimSpace(c.SchemaPath) == "" {
		return fmt.Errorf("%s must not be empty", KeySchemaPath)
	}
	if strings.TrimSpace(c.DesignPath) == "" {
		return fmt.Errorf("%s must not be empty", KeyDesignPath)
	}
	if strings.TrimSpace(c.TypesPath) == "" {
		return fmt.Errorf("%s must not be empty", KeyTypesPath)
	}
	return nil
}

// Mode returns the parsed extraction mode
func (c *Config) Mode() extract.Mode {
	m, _ := extract.ParseMode(c.ExtractMode)
	return m
}

// splitList accepts both lists and a single comma-separated string, which is
// how list values arrive from the environment
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

