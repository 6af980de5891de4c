package configparser

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a YAML file and exports its leaves as environment variables.
// Nested keys are joined with "_" and upper-cased: database.host -> DATABASE_HOST.
// Variables that are already set in the environment are left untouched.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	vars, err := Flatten(data)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, vars[key]); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}
	return nil
}

// Flatten parses YAML into a flat map of env var names to values.
func Flatten(data []byte) (map[string]string, error) {
	var root yaml.MapSlice
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	out := make(map[string]string)
	flatten(nil, root, out)
	return out, nil
}

func flatten(prefix []string, node yaml.MapSlice, out map[string]string) {
	for _, item := range node {
		key := fmt.Sprint(item.Key)
		path := append(append([]string{}, prefix...), key)

		switch v := item.Value.(type) {
		case yaml.MapSlice:
			flatten(path, v, out)
		case nil:
			// "key:" with no value is a section header or an unset value
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			out[envName(path)] = strings.Join(parts, ",")
		default:
			out[envName(path)] = substitute(fmt.Sprint(v))
		}
	}
}

func envName(path []string) string {
	return strings.ToUpper(strings.Join(path, "_"))
}

// substitute resolves the ${VAR:-default} syntax.
func substitute(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	inner := value[2 : len(value)-1]
	name, def, hasDefault := strings.Cut(inner, ":-")
	name = strings.TrimSpace(name)

	if envValue := os.Getenv(name); envValue != "" {
		return envValue
	}
	if hasDefault {
		return strings.TrimSpace(def)
	}
	return ""
}

// LoadAndParseYaml loads the YAML file into the environment (when it exists)
// and then fills cfg from env/default struct tags.
func LoadAndParseYaml(filepath string, cfg any) error {
	if filepath != "" {
		if err := LoadYamlFile(filepath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return ParseEnv(cfg)
}
