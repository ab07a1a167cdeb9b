// Package config loads the YAML fixture format the CLI reads at startup:
// a fact store's triples and namespaces, a rule program, and logging
// options. The Load/Default split — a missing file silently falling back
// to a safe empty configuration rather than erroring — follows the same
// pattern the rest of the retrieval pack's YAML-driven tools use.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk fixture shape.
type Config struct {
	Logging    LoggingConfig   `yaml:"logging"`
	Namespaces []NamespaceSpec `yaml:"namespaces"`
	Facts      []FactSpec      `yaml:"facts"`
	Rules      []RuleSpec      `yaml:"rules"`
}

// LoggingConfig holds the fixture's logging options, in the shape of
// internal/logx.Options' Level and JSON fields. The sipquery CLI builds its
// logger from its --verbose and --json-logs flags and does not read it.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// NamespaceSpec is one prefix/IRI binding.
type NamespaceSpec struct {
	Prefix string `yaml:"prefix"`
	IRI    string `yaml:"iri"`
}

// FactSpec is one ground (subject, predicate, object) triple.
type FactSpec struct {
	Subject   string `yaml:"subject"`
	Predicate string `yaml:"predicate"`
	Object    string `yaml:"object"`
}

// LiteralSpec is the YAML shape of one rule-head or rule-body literal.
// Set BuiltinURI to describe a Builtin literal instead of a triple.
type LiteralSpec struct {
	Subject    string `yaml:"subject"`
	Predicate  string `yaml:"predicate"`
	Object     string `yaml:"object"`
	Negated    bool   `yaml:"negated"`
	BuiltinURI string `yaml:"builtin"`
	Argument   string `yaml:"argument"`
	Result     string `yaml:"result"`
}

// RuleSpec is one Horn clause: a head literal and a conjunctive body.
type RuleSpec struct {
	Head LiteralSpec   `yaml:"head"`
	Body []LiteralSpec `yaml:"body"`
}

// Default returns an empty configuration: no facts, no rules, info-level
// logging — the safe value Load falls back to when the file doesn't exist.
func Default() *Config {
	return &Config{Logging: LoggingConfig{Level: "info"}}
}

// Load reads path as YAML. A missing file is not an error: Load returns
// Default() instead.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
