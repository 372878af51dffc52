// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SladkyCitron/slogcolor"
	"github.com/choria-io/fisk"
	"github.com/goccy/go-yaml"

	iu "github.com/ninegate/ninegate/internal/util"
	"github.com/ninegate/ninegate/model"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8080
)

// DefaultAllowedPaths covers the three hosted API endpoints the proxy serves
var DefaultAllowedPaths = []string{
	`^/v1/messages$`,
	`^/v1/chat/completions$`,
	`^/v1(beta)?/models/[^/]+:generateContent$`,
}

// DefaultUpstreams are the hosted API bases used for forwarded requests
var DefaultUpstreams = map[string]string{
	model.AnthropicVendor: "https://api.anthropic.com",
	model.OpenAIVendor:    "https://api.openai.com",
	model.GeminiVendor:    "https://generativelanguage.googleapis.com",
}

// Config holds the proxy configuration
type Config struct {
	// Host is the address the proxy listens on, defaults to loopback
	Host string `yaml:"host"`

	// Port is the proxy listen port
	Port int `yaml:"port"`

	// MonitorPort is the port to listen on for accessing Prometheus stats
	MonitorPort int `yaml:"monitor_port"`

	// LogLevel is the log level to use
	// Valid values: debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// AllowedPaths are regex patterns requests must match, replacing the defaults
	AllowedPaths []string `yaml:"allowed_paths"`

	// Vendors configures the local CLI and upstream per vendor
	Vendors map[string]model.VendorConfig `yaml:"vendors"`

	// Rules are expr predicates that can force local or forwarded routing
	Rules []RuleConfig `yaml:"rules"`

	// Audit configures the optional NATS audit publisher
	Audit AuditConfig `yaml:"audit"`

	// OutputLimit caps captured CLI output per stream in bytes
	OutputLimit int `yaml:"output_limit"`

	// GraceWindow is how long a process group gets to exit after SIGTERM
	GraceWindow string `yaml:"grace_window"`

	// EscalationCeiling bounds the whole termination sequence
	EscalationCeiling string `yaml:"escalation_ceiling"`

	graceDuration   time.Duration
	ceilingDuration time.Duration
}

// RuleConfig is one routing rule, the first matching rule wins
type RuleConfig struct {
	// Match is an expr predicate over vendor, model, path and sentinel
	Match string `yaml:"match"`

	// Mode forces routing, valid values: local, forward
	Mode string `yaml:"mode"`
}

// AuditConfig configures the audit trail
type AuditConfig struct {
	// NatsContext is the NATS context used to publish audit events, empty disables publishing
	NatsContext string `yaml:"nats_context"`

	// Subject is the subject prefix events are published to
	Subject string `yaml:"subject"`
}

func ParseConfig(c []byte) (*Config, error) {
	cfg := &Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		LogLevel: "info",
		Vendors:  map[string]model.VendorConfig{},
	}

	// goccy zeroes pre-seeded fields on empty input, leave the defaults alone
	if len(c) > 0 {
		err := yaml.Unmarshal(c, cfg)
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfig reads and parses a configuration file, a missing path yields
// the default configuration
func LoadConfig(path string) (*Config, error) {
	if path == "" || !iu.FileExists(path) {
		return ParseConfig(nil)
	}

	c, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseConfig(c)
}

func (c *Config) Validate() error {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if len(c.AllowedPaths) == 0 {
		c.AllowedPaths = append([]string{}, DefaultAllowedPaths...)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}

	var err error

	c.graceDuration = 0
	if c.GraceWindow != "" {
		c.graceDuration, err = fisk.ParseDuration(c.GraceWindow)
		if err != nil {
			return fmt.Errorf("invalid grace_window: %w", err)
		}
	}

	c.ceilingDuration = 0
	if c.EscalationCeiling != "" {
		c.ceilingDuration, err = fisk.ParseDuration(c.EscalationCeiling)
		if err != nil {
			return fmt.Errorf("invalid escalation_ceiling: %w", err)
		}
	}

	if c.graceDuration > 0 && c.ceilingDuration > 0 && c.ceilingDuration <= c.graceDuration {
		return fmt.Errorf("escalation_ceiling must exceed grace_window")
	}

	for _, rule := range c.Rules {
		if rule.Match == "" {
			return fmt.Errorf("rules require a match expression")
		}
		switch rule.Mode {
		case model.ModeLocal, model.ModeForward:
		default:
			return fmt.Errorf("rule mode must be one of: local, forward")
		}
	}

	for vendor, vcfg := range c.Vendors {
		if _, ok := DefaultUpstreams[vendor]; !ok {
			return fmt.Errorf("%w: %s", model.ErrVendorUnknown, vendor)
		}

		err = vcfg.Validate()
		if err != nil {
			return fmt.Errorf("vendor %s: %w", vendor, err)
		}
		c.Vendors[vendor] = vcfg
	}

	return nil
}

// VendorConfig returns the configuration for a vendor with defaults applied
func (c *Config) VendorConfig(vendor string) (model.VendorConfig, error) {
	vcfg := c.Vendors[vendor]

	if vcfg.Upstream == "" {
		vcfg.Upstream = DefaultUpstreams[vendor]
	}
	if vcfg.OutputLimit == 0 {
		vcfg.OutputLimit = c.OutputLimit
	}

	err := vcfg.Validate()
	if err != nil {
		return vcfg, err
	}

	return vcfg, nil
}

func (c *Config) NewLogger() (model.Logger, error) {
	var level slog.Level

	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	if iu.IsTerminal() {
		return NewSlogLogger(
			slog.New(
				slogcolor.NewHandler(os.Stdout, &slogcolor.Options{
					Level: level,
				}))), nil
	} else {
		return NewSlogLogger(
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))), nil
	}
}
