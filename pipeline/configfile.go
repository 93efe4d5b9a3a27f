package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ApplyConfigFile reads a YAML mapping from long flag names to values
// and sets the flags of `fs` not given on the command line.
// Lists are joined with commas, and a mapping (for vectorizer-map)
// is written as id=value pairs.
func ApplyConfigFile(path string, fs *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigurationError{Option: "config", Err: err}
	}
	return applyConfig(data, fs)
}

func applyConfig(data []byte, fs *pflag.FlagSet) error {
	var values map[string]yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigurationError{Option: "config", Err: err}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		flag := fs.Lookup(key)
		if flag == nil || key == "config" {
			return configError("config", "unknown setting %q", key)
		}
		if flag.Changed {
			continue
		}
		node := values[key]
		value, err := nodeValue(&node)
		if err != nil {
			return configError("config", "setting %q: %s", key, err)
		}
		if err := fs.Set(key, value); err != nil {
			return configError(key, "%s (from config file)", err)
		}
		// config values act as defaults
		flag.Changed = false
	}
	return nil
}

func nodeValue(node *yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value, nil
	case yaml.SequenceNode:
		var items []string
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return "", fmt.Errorf("expected a list of values")
			}
			items = append(items, item.Value)
		}
		return strings.Join(items, ","), nil
	case yaml.MappingNode:
		var pairs []string
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
				return "", fmt.Errorf("expected a mapping of values")
			}
			pairs = append(pairs, k.Value+"="+v.Value)
		}
		return strings.Join(pairs, ","), nil
	}
	return "", fmt.Errorf("unsupported value")
}
