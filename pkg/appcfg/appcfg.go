package appcfg

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Language             string `yaml:"language" envconfig:"LANGUAGE"`                 // "ru" | "en"
	LogLevel             string `yaml:"log_level" envconfig:"LOG_LEVEL"`               // "debug"|"info"|"warn"|"error"
	HideSecretsInConsole bool   `yaml:"hide_secrets_in_console" envconfig:"HIDE_SECRETS"`

	Executable string `yaml:"executable" envconfig:"EXECUTABLE"` // vanitygen binary name or path
	WorkDir    string `yaml:"work_dir" envconfig:"WORK_DIR"`     // tool cwd and temp files; "" = current dir
	Network    string `yaml:"network" envconfig:"NETWORK"`       // bitcoin|testnet3|namecoin|litecoin

	LogsBase     string `yaml:"logs_base" envconfig:"LOGS_BASE"`
	PatternsPath string `yaml:"patterns_path" envconfig:"PATTERNS_PATH"`
	StorePath    string `yaml:"store_path" envconfig:"STORE_PATH"` // leveldb with every address found so far
}

// EnvPrefix is prepended to every envconfig key, e.g. VANITYGEN_NETWORK.
const EnvPrefix = "VANITYGEN"

func Default() *Config {
	return &Config{
		Language:     "en",
		LogLevel:     "info",
		Executable:   "vanitygen",
		Network:      "bitcoin",
		LogsBase:     "logs",
		PatternsPath: "configs/patterns.yaml",
		StorePath:    "data/found.db",
	}
}

// Load reads path over the defaults and then applies VANITYGEN_* environment
// variables. A missing file is not an error: defaults plus environment are used.
func Load(path string) (*Config, error) {
	c := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(c); err != nil {
			return nil, fmt.Errorf("decode app yaml %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open app config %q: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("app config env: %w", err)
	}

	// yaml may blank a value out explicitly
	d := Default()
	if c.Language == "" {
		c.Language = d.Language
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Executable == "" {
		c.Executable = d.Executable
	}
	if c.Network == "" {
		c.Network = d.Network
	}
	if c.LogsBase == "" {
		c.LogsBase = d.LogsBase
	}
	if c.PatternsPath == "" {
		c.PatternsPath = d.PatternsPath
	}
	return c, nil
}
