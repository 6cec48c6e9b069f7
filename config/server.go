package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Envelope struct {
	Server Server `yaml:"server"`
}

type Server struct {
	Address string `yaml:"address"`
	// Database is the SQLite file holding the detection history.
	Database string `yaml:"database"`
	// Tokens enables bearer authentication on the API when non-empty.
	Tokens []string `yaml:"tokens"`
	// ProfileDir optionally loads a custom profile directory into a
	// named registry at startup.
	ProfileDir  string `yaml:"profile_dir"`
	ProfileName string `yaml:"profile_name"`
	// SimplifyCJK folds Traditional Chinese input onto Simplified
	// forms before detection.
	SimplifyCJK bool `yaml:"simplify_cjk"`
}

func LoadConfigFromFile(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	envelope := &Envelope{}
	if err := yaml.Unmarshal(data, envelope); err != nil {
		return nil, err
	}
	return envelope, nil
}
