package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// SinkConfig holds the connection settings for the export sinks: the
// flat Opt table has no good shape for DSNs and tokens, so these are
// kept in a separate YAML document instead.
type SinkConfig struct {
	ClickHouse struct {
		DSN   string `yaml:"dsn"`
		Table string `yaml:"table"`
	} `yaml:"clickhouse"`

	Influx struct {
		URL    string `yaml:"url"`
		Org    string `yaml:"org"`
		Bucket string `yaml:"bucket"`
		Token  string `yaml:"token"`
	} `yaml:"influx"`

	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
}

// LoadSinkConfig reads and parses a YAML sink-configuration file.
func LoadSinkConfig(path string) (*SinkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sink config %q", path)
	}

	var cfg SinkConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing sink config %q", path)
	}
	return &cfg, nil
}
