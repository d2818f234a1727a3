package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
)

// ToYaml formats the configuration into YAML and returns the bytes.
func ToYaml(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// ToYamlFile writes the configuration to a YAML file.
func ToYamlFile(c Config, path string) error {
	b, err := ToYaml(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// Parse parses a YAML doc into the given Config instance.
func Parse(raw []byte, conf *Config) error {
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return err
	}
	return loadTemplateFiles(conf)
}

// ParseFile parses an mdsub config file, which is formatted in YAML,
// into the given Config struct.
func ParseFile(relpath string, conf *Config) error {
	if relpath == "" {
		return nil
	}

	path, abserr := filepath.Abs(relpath)
	if abserr != nil {
		path = relpath
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config at path %s: %v", path, err)
	}

	if err := Parse(source, conf); err != nil {
		return fmt.Errorf("failed to parse config at path %s: %v", path, err)
	}
	return nil
}

// loadTemplateFiles resolves TemplateFile references into inline
// template text for every scheduler section.
func loadTemplateFiles(conf *Config) error {
	for _, sc := range []*SchedulerConfig{
		&conf.PBS, &conf.Slurm, &conf.GridEngine, &conf.HTCondor,
	} {
		if sc.TemplateFile == "" {
			continue
		}
		content, err := os.ReadFile(sc.TemplateFile)
		if err != nil {
			return fmt.Errorf("reading template: %v", err)
		}
		sc.Template = string(content)
	}
	return nil
}
