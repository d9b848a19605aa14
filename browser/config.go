package browser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML shape of a tabctl browser section plus the
// string-typed fields that need decoding into Config.
type FileConfig struct {
	Config `yaml:",inline"`
	// ModeName: "headless" (default) or "headful".
	ModeName string `yaml:"mode"`
}

// LoadConfig reads a YAML browser configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("browser: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration bytes.
func ParseConfig(data []byte) (Config, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("browser: parse config: %w", err)
	}
	switch fc.ModeName {
	case "", "headless":
		fc.Config.Mode = ModeHeadless
	case "headful":
		fc.Config.Mode = ModeHeadful
	default:
		return Config{}, fmt.Errorf("browser: unknown mode %q", fc.ModeName)
	}
	fc.Config.defaults()
	return fc.Config, nil
}
