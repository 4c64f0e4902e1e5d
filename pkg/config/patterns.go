package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"VanityTools/pkg/vanitygen"
)

// PatternsConfig describes one continuous search.
type PatternsConfig struct {
	Network         string   `yaml:"network"` // optional, overrides app.yaml for this search
	CaseInsensitive bool     `yaml:"case_insensitive"`
	Literal         []string `yaml:"literal"`
	Regexp          []string `yaml:"regexp"`
	MaxResults      int      `yaml:"max_results"` // 0 = until interrupted
}

func Load(path string) (*PatternsConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var cfg PatternsConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml %q: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation %q: %w", path, err)
	}

	return &cfg, nil
}

func validate(c *PatternsConfig) error {
	if c == nil {
		return errors.New("nil config")
	}
	if c.MaxResults < 0 {
		return errors.New("max_results must be >= 0")
	}
	if c.Network != "" {
		if _, err := vanitygen.ParseNetwork(c.Network); err != nil {
			return err
		}
	}
	if len(c.Literal) == 0 && len(c.Regexp) == 0 {
		return errors.New("no patterns defined: literal and regexp are both empty")
	}
	if len(c.Literal) > 0 && len(c.Regexp) > 0 {
		return errors.New("literal and regexp patterns cannot be searched together")
	}
	for i, p := range c.Literal {
		if strings.TrimSpace(p) == "" || strings.ContainsAny(p, " \t\n") {
			return fmt.Errorf("literal[%d]: must be a non-empty prefix without whitespace", i)
		}
	}
	for i, p := range c.Regexp {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("regexp[%d]: %w", i, err)
		}
	}
	return nil
}

// Patterns returns the search set in the form the tool client expects.
func (c *PatternsConfig) Patterns() []vanitygen.Pattern {
	if len(c.Regexp) > 0 {
		out := make([]vanitygen.Pattern, len(c.Regexp))
		for i, p := range c.Regexp {
			out[i] = vanitygen.Regexp(regexp.MustCompile(p))
		}
		return out
	}
	return vanitygen.Literals(c.Literal...)
}
