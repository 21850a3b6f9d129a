package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// PackageJSONKey is the package.json field holding the configuration
const PackageJSONKey = "cssvar"

// rcFiles are checked in order before package.json
var rcFiles = []string{".cssvarrc.json", ".cssvarrc.yaml", ".cssvarrc.yml"}

// Load reads the configuration of the workspace root. Fields that are not
// set keep their defaults. A root without any configuration gets Default().
func Load(root string) (*Config, error) {
	for _, name := range rcFiles {
		path := filepath.Join(root, name)
		data, err := readOptional(path)
		if err != nil {
			return nil, err
		}
		if data == nil {
			continue
		}
		cfg := Default()
		if filepath.Ext(name) == ".json" {
			err = json.Unmarshal(jsonc.ToJSON(data), cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return cfg, nil
	}

	raw, err := readPackageJSONConfig(root)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if raw == nil {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid %s configuration in package.json: %w", PackageJSONKey, err)
	}
	return cfg, nil
}

// readOptional returns nil, nil when the file does not exist
func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: workspace configuration
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// readPackageJSONConfig returns the raw configuration object from package.json,
// or nil if there is no package.json or it has no configuration.
func readPackageJSONConfig(root string) (json.RawMessage, error) {
	data, err := readOptional(filepath.Join(root, "package.json"))
	if err != nil || data == nil {
		return nil, err
	}

	// package.json in the wild sometimes carries comments
	data = jsonc.ToJSON(data)

	var pkgJSON map[string]json.RawMessage
	if err := json.Unmarshal(data, &pkgJSON); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	raw, ok := pkgJSON[PackageJSONKey]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%s must be an object", PackageJSONKey)
	}
	return raw, nil
}
