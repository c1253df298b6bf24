package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.json"

// Environment variables that override the config file.
const (
	EnvDataPath = "PRODUKTBERATER_DATA_PATH"
	EnvImageDir = "PRODUKTBERATER_IMAGE_DIR"
	EnvEncoding = "PRODUKTBERATER_ENCODING"
	EnvLogLevel = "PRODUKTBERATER_LOG_LEVEL"
)

// Config aggregates runtime settings persisted to config.json (or config.yaml).
type Config struct {
	DataPath       string     `json:"dataPath" yaml:"dataPath"`
	Encoding       string     `json:"encoding" yaml:"encoding"`
	Delimiter      string     `json:"delimiter" yaml:"delimiter"`
	ImageDir       string     `json:"imageDir" yaml:"imageDir"`
	CarryMainLabel bool       `json:"carryMainLabel" yaml:"carryMainLabel"`
	Watch          bool       `json:"watch" yaml:"watch"`
	LogLevel       string     `json:"logLevel" yaml:"logLevel"`
	Fields         FieldNames `json:"fields" yaml:"fields"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	cfg := Config{Watch: true}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.DataPath) == "" {
		c.DataPath = "E-B.csv"
	}
	if strings.TrimSpace(c.Encoding) == "" {
		c.Encoding = defaultEncoding
	}
	if c.Delimiter == "" {
		c.Delimiter = string(defaultDelimiter)
	}
	if strings.TrimSpace(c.ImageDir) == "" {
		c.ImageDir = "img"
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	c.Fields = c.Fields.withDefaults()
}

// LoadOptions converts the config into loader options.
func (c Config) LoadOptions() LoadOptions {
	opts := LoadOptions{
		Encoding:       c.Encoding,
		CarryMainLabel: c.CarryMainLabel,
		Fields:         c.Fields,
	}
	if r := []rune(c.Delimiter); len(r) > 0 {
		opts.Delimiter = r[0]
	}
	return opts.withDefaults()
}

// LoadConfig loads configuration from the given path or the default config.json.
// A missing file yields the defaults. Environment variables, optionally
// provided through a .env file next to the config, take precedence.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg.Watch = true
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		hasWatch, err := decodeConfig(path, data, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("decode config: %w", err)
		}
		if !hasWatch {
			cfg.Watch = true
		}
	}
	env, err := readEnvFile(filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return cfg, fmt.Errorf("read .env: %w", err)
	}
	applyEnv(&cfg, env)
	cfg.ApplyDefaults()
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decodeConfig(path string, data []byte, cfg *Config) (bool, error) {
	keys := map[string]any{}
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return false, err
		}
		_ = yaml.Unmarshal(data, &keys)
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return false, err
		}
		_ = json.Unmarshal(data, &keys)
	}
	_, ok := keys["watch"]
	return ok, nil
}

func readEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	return env, err
}

func applyEnv(cfg *Config, file map[string]string) {
	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(file[key])
	}
	if v := lookup(EnvDataPath); v != "" {
		cfg.DataPath = v
	}
	if v := lookup(EnvImageDir); v != "" {
		cfg.ImageDir = v
	}
	if v := lookup(EnvEncoding); v != "" {
		cfg.Encoding = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
