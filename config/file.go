package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/epark/newsharvest/article"
)

// ObjectStorageConfig holds the S3-compatible endpoint settings used by the
// object-storage sink.
type ObjectStorageConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Bucket     string `yaml:"bucket"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	UseSSL     bool   `yaml:"use_ssl"`
	PrefixRoot string `yaml:"prefix_root"`
}

// FileConfig represents the structure of ~/.newsharvest/config.yaml. Every
// section is optional; zero values mean "use the built-in default".
type FileConfig struct {
	SitemapURL    string              `yaml:"sitemap_url"`
	FeedURL       string              `yaml:"feed_url"`
	Selectors     *article.Selectors  `yaml:"selectors"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
}

// LoadConfigFile loads configuration from ~/.newsharvest/config.yaml.
// Returns nil if the file doesn't exist (not an error). Returns error if
// the file exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return LoadConfigFileFrom(filepath.Join(homeDir, ".newsharvest", "config.yaml"))
}

// LoadConfigFileFrom loads configuration from an explicit path, with the
// same missing-file semantics as LoadConfigFile.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
