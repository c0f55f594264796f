package config

// Qebfile represents the structure of the qeb.yaml configuration file.
type Qebfile struct {
	Version   string         `yaml:"version"`
	Entry     string         `yaml:"entry"`
	Externals []string       `yaml:"externals"`
	Disabled  []string       `yaml:"disabled"`
	Defines   map[string]any `yaml:"defines"`
	Plugins   []string       `yaml:"plugins"`
	Node      string         `yaml:"node"`
}

// SupportedVersion is the only configuration file version understood by the loader.
const SupportedVersion = "1"
