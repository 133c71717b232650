package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds run settings loaded from multinight.yml. Every field is
// optional; command-line flags override anything set here.
type ProjectConfig struct {
	Sessions        []string `yaml:"sessions,omitempty"`
	Output          string   `yaml:"output,omitempty"`
	CalibrateScript string   `yaml:"calibrateScript,omitempty"`
	StackScript     string   `yaml:"stackScript,omitempty"`
	ProcessDir      string   `yaml:"processDir,omitempty"`
	SeqName         string   `yaml:"seqName,omitempty"`
	SirilBinary     string   `yaml:"sirilBinary,omitempty"`
}

// Load attempts to read multinight.yml or multinight.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"multinight.yml", "multinight.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
