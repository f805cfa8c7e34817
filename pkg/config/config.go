package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/certmint/config"
	ConfigFileName    = "certmint.yml"
)

// CertmintConfig holds all CertMint configuration settings
type CertmintConfig struct {
	// AccessTokenTTL is the TTL for access tokens in seconds
	AccessTokenTTL int `yaml:"access_token_ttl" json:"access_token_ttl"`

	// BatchIssueLimitMax is the maximum number of certificates in one batch
	BatchIssueLimitMax int `yaml:"batch_issue_limit_max" json:"batch_issue_limit_max"`

	// APIEventListLimitMax is the maximum number of results for event listing requests
	APIEventListLimitMax int `yaml:"api_event_list_limit_max" json:"api_event_list_limit_max"`

	// RelayEnabled enables the Kafka event relay
	RelayEnabled bool `yaml:"relay_enabled" json:"relay_enabled"`

	// KafkaBrokers is the list of Kafka seed brokers for the event relay
	KafkaBrokers []string `yaml:"kafka_brokers" json:"kafka_brokers"`

	// KafkaTopic is the topic the event relay publishes to
	KafkaTopic string `yaml:"kafka_topic" json:"kafka_topic"`

	// MetricsEnabled enables the Prometheus /metrics endpoint
	MetricsEnabled bool `yaml:"metrics_enabled" json:"metrics_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *CertmintConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *CertmintConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	// Load config
	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *CertmintConfig {
	return &CertmintConfig{
		AccessTokenTTL:       480,
		BatchIssueLimitMax:   100,
		APIEventListLimitMax: 1000,
		RelayEnabled:         false,
		KafkaBrokers:         []string{},
		KafkaTopic:           "certmint.events",
		MetricsEnabled:       true,
		sources:              make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*CertmintConfig, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("CERTMINT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig CertmintConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"access_token_ttl", "batch_issue_limit_max",
		"api_event_list_limit_max", "relay_enabled",
		"kafka_brokers", "kafka_topic", "metrics_enabled",
	}
}

func (c *CertmintConfig) applyFileConfig(file *CertmintConfig) {
	if file.AccessTokenTTL != 0 {
		c.AccessTokenTTL = file.AccessTokenTTL
		c.sources["access_token_ttl"] = "file"
	}
	if file.BatchIssueLimitMax != 0 {
		c.BatchIssueLimitMax = file.BatchIssueLimitMax
		c.sources["batch_issue_limit_max"] = "file"
	}
	if file.APIEventListLimitMax != 0 {
		c.APIEventListLimitMax = file.APIEventListLimitMax
		c.sources["api_event_list_limit_max"] = "file"
	}
	if file.RelayEnabled {
		c.RelayEnabled = true
		c.sources["relay_enabled"] = "file"
	}
	if len(file.KafkaBrokers) > 0 {
		c.KafkaBrokers = file.KafkaBrokers
		c.sources["kafka_brokers"] = "file"
	}
	if file.KafkaTopic != "" {
		c.KafkaTopic = file.KafkaTopic
		c.sources["kafka_topic"] = "file"
	}
}

func (c *CertmintConfig) applyEnvConfig() {
	if val := os.Getenv("CERTMINT_ACCESS_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AccessTokenTTL = i
			c.sources["access_token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("CERTMINT_BATCH_ISSUE_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.BatchIssueLimitMax = i
			c.sources["batch_issue_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("CERTMINT_API_EVENT_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIEventListLimitMax = i
			c.sources["api_event_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("CERTMINT_RELAY_ENABLED"); val != "" {
		c.RelayEnabled = val == "true" || val == "1"
		c.sources["relay_enabled"] = "environment"
	}
	if val := os.Getenv("CERTMINT_KAFKA_BROKERS"); val != "" {
		c.KafkaBrokers = splitAndTrim(val)
		c.sources["kafka_brokers"] = "environment"
	}
	if val := os.Getenv("CERTMINT_KAFKA_TOPIC"); val != "" {
		c.KafkaTopic = val
		c.sources["kafka_topic"] = "environment"
	}
	if val := os.Getenv("CERTMINT_METRICS_ENABLED"); val != "" {
		c.MetricsEnabled = val == "true" || val == "1"
		c.sources["metrics_enabled"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *CertmintConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *CertmintConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenTTL returns the access token TTL as a duration
func (c *CertmintConfig) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTL) * time.Second
}

// Validate validates the configuration
func (c *CertmintConfig) Validate() error {
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be positive, got %d", c.AccessTokenTTL)
	}
	if c.BatchIssueLimitMax <= 0 {
		return fmt.Errorf("batch_issue_limit_max must be positive, got %d", c.BatchIssueLimitMax)
	}
	if c.APIEventListLimitMax <= 0 {
		return fmt.Errorf("api_event_list_limit_max must be positive, got %d", c.APIEventListLimitMax)
	}

	// Validate broker addresses are host:port pairs
	for _, broker := range c.KafkaBrokers {
		if _, _, err := net.SplitHostPort(broker); err != nil {
			return fmt.Errorf("invalid kafka_brokers value: %s", broker)
		}
	}

	if c.RelayEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("relay_enabled requires at least one kafka_brokers entry")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *CertmintConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "access_token_ttl", Value: strconv.Itoa(c.AccessTokenTTL), Source: c.Source("access_token_ttl")},
		{Name: "batch_issue_limit_max", Value: strconv.Itoa(c.BatchIssueLimitMax), Source: c.Source("batch_issue_limit_max")},
		{Name: "api_event_list_limit_max", Value: strconv.Itoa(c.APIEventListLimitMax), Source: c.Source("api_event_list_limit_max")},
		{Name: "relay_enabled", Value: strconv.FormatBool(c.RelayEnabled), Source: c.Source("relay_enabled")},
		{Name: "kafka_brokers", Value: strings.Join(c.KafkaBrokers, ","), Source: c.Source("kafka_brokers")},
		{Name: "kafka_topic", Value: c.KafkaTopic, Source: c.Source("kafka_topic")},
		{Name: "metrics_enabled", Value: strconv.FormatBool(c.MetricsEnabled), Source: c.Source("metrics_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *CertmintConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *CertmintConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
