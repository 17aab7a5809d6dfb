package category

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultConfig []byte

type registryFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadDefault parses the embedded category configuration.
func LoadDefault() (*Registry, error) {
	return parse(defaultConfig)
}

// LoadFromPath reads a category configuration from a YAML file. Used to
// override the embedded registry via the --categories flag.
func LoadFromPath(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse categories yaml: %w", err)
	}
	return NewRegistry(f.Categories)
}
