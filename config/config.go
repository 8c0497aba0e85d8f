package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/splitsync/splitwise-app-sheets/expenses"
)

const (
	DefaultGroupID = "29489850"
	DefaultLimit   = 100000
)

type Config struct {
	Google    Google    `yaml:"GoogleDrive_config"`
	Splitwise Splitwise `yaml:"API_keys"`
}

type Google struct {
	Folder          string `yaml:"drive_folder"`
	SpreadsheetName string `yaml:"spreadsheet_name"`
	Credentials     string `yaml:"credentials"`
}

type Splitwise struct {
	ConsumerKey     string `yaml:"consumer_key"`
	ConsumerSecret  string `yaml:"consumer_secret"`
	APIKey          string `yaml:"api_key"`
	GroupID         string `yaml:"group_id"`
	Limit           int    `yaml:"limit"`
	MissingCategory string `yaml:"missing_category"`
}

// Load reads and validates a YAML configuration file. Any error is reported as an
// ErrConfig so that a sync never runs with a partial configuration.
func Load(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file %v (%v) (%w)", file, err, expenses.ErrConfig)
	}

	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	conf := Config{}

	decoder := yaml.NewDecoder(bytes.NewReader(b))
	if err := decoder.Decode(&conf); err != nil {
		return nil, fmt.Errorf("error parsing configuration (%v) (%w)", err, expenses.ErrConfig)
	}

	conf.defaults()

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) defaults() {
	if strings.TrimSpace(c.Splitwise.GroupID) == "" {
		c.Splitwise.GroupID = DefaultGroupID
	}

	if c.Splitwise.Limit == 0 {
		c.Splitwise.Limit = DefaultLimit
	}
}

func (c *Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"GoogleDrive_config.drive_folder", c.Google.Folder},
		{"GoogleDrive_config.spreadsheet_name", c.Google.SpreadsheetName},
		{"API_keys.consumer_key", c.Splitwise.ConsumerKey},
		{"API_keys.consumer_secret", c.Splitwise.ConsumerSecret},
		{"API_keys.api_key", c.Splitwise.APIKey},
	}

	for _, v := range required {
		if strings.TrimSpace(v.value) == "" {
			return fmt.Errorf("missing '%v' (%w)", v.key, expenses.ErrConfig)
		}
	}

	if c.Splitwise.Limit < 0 {
		return fmt.Errorf("invalid 'API_keys.limit' %v (%w)", c.Splitwise.Limit, expenses.ErrConfig)
	}

	return nil
}
