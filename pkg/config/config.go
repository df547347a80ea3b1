package config

import (
	"errors"
	"fmt"
	"time"

	semver "github.com/Masterminds/semver/v3"
	"github.com/rancher/kubewarden-ui-sub002/pkg/airgap"
	"github.com/rancher/kubewarden-ui-sub002/pkg/compat"
	"github.com/rancher/kubewarden-ui-sub002/pkg/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const DefaultNamespace = "cattle-kubewarden-system"

// Config represents the configuration for kubewarden-insights
type Config struct {
	// Airgap probe
	WhitelistDomains string        `mapstructure:"whitelistDomains"`
	ProbeTimeout     time.Duration `mapstructure:"probeTimeout"`
	StateTTL         time.Duration `mapstructure:"stateTTL"`

	// Version gate
	Gate compat.Gate `mapstructure:",squash"`

	// Cluster lookups
	Namespace    string `mapstructure:"namespace"`
	PolicyServer string `mapstructure:"policyServer"`

	LogLevel     string `mapstructure:"logLevel"`
	OutputFormat string `mapstructure:"outputFormat"`
}

// AirgapSettings returns the settings the airgap probe reads.
func (c Config) AirgapSettings() airgap.Settings {
	return airgap.Settings{WhitelistDomains: c.WhitelistDomains}
}

// LoadConfig loads configuration from environment variables and config files.
// When path is empty config.yaml is looked up in the working directory and
// in /etc/kubewarden-insights.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/kubewarden-insights")
	}

	v.SetDefault("whitelistDomains", "")
	v.SetDefault("probeTimeout", airgap.DefaultTimeout)
	v.SetDefault("stateTTL", 5*time.Minute)
	v.SetDefault("gateThreshold", compat.DefaultGateThreshold)
	v.SetDefault("componentThreshold", compat.DefaultComponentThreshold)
	v.SetDefault("namespace", DefaultNamespace)
	v.SetDefault("policyServer", "default")
	v.SetDefault("logLevel", "info")
	v.SetDefault("outputFormat", string(output.FormatJSON))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		logrus.Debugf("using config file %s", v.ConfigFileUsed())
	}

	_ = v.BindEnv("whitelistDomains", "WHITELIST_DOMAINS")
	_ = v.BindEnv("probeTimeout", "PROBE_TIMEOUT")
	_ = v.BindEnv("stateTTL", "STATE_TTL")
	_ = v.BindEnv("gateThreshold", "GATE_THRESHOLD")
	_ = v.BindEnv("componentThreshold", "COMPONENT_THRESHOLD")
	_ = v.BindEnv("namespace", "NAMESPACE")
	_ = v.BindEnv("policyServer", "POLICY_SERVER")
	_ = v.BindEnv("logLevel", "LOG_LEVEL")
	_ = v.BindEnv("outputFormat", "OUTPUT_FORMAT")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func validateConfig(config *Config) error {
	if config.ProbeTimeout <= 0 {
		return fmt.Errorf("probeTimeout must be positive, got %s", config.ProbeTimeout)
	}
	if config.StateTTL <= 0 {
		return fmt.Errorf("stateTTL must be positive, got %s", config.StateTTL)
	}
	if _, err := semver.NewVersion(config.Gate.GateThreshold); err != nil {
		return fmt.Errorf("gateThreshold %q: %w", config.Gate.GateThreshold, err)
	}
	if _, err := semver.NewVersion(config.Gate.ComponentThreshold); err != nil {
		return fmt.Errorf("componentThreshold %q: %w", config.Gate.ComponentThreshold, err)
	}
	if config.Namespace == "" {
		return errors.New("namespace is required")
	}
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return err
	}
	if _, err := output.ParseFormat(config.OutputFormat); err != nil {
		return err
	}
	return nil
}
