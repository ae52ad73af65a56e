package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/neewerctl/neewerctl/pkg/util"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the optional config file location used when the caller
// doesn't name one explicitly, matching the original CLI's `~/.neewer`.
var DefaultPath = "~/.neewer"

// Load reads and normalizes the configuration document at path. An empty
// path returns an empty Document. A missing DefaultPath is not an error (the
// file is optional); a missing explicit path is.
func Load(path string) (*Document, error) {
	if path == "" {
		return newDocument(), nil
	}

	expanded := expandHome(path)
	if _, err := os.Stat(expanded); err != nil {
		if os.IsNotExist(err) && samePath(expanded, expandHome(DefaultPath)) {
			return newDocument(), nil
		}
		return nil, newError(path, "config file not found")
	}

	raw, err := parseFile(expanded)
	if err != nil {
		return nil, err
	}

	doc := newDocument()

	lights, err := normalizeLights(raw["lights"])
	if err != nil {
		return nil, err
	}
	doc.Lights = lights

	groups, err := normalizeGroups(raw["groups"])
	if err != nil {
		return nil, err
	}
	doc.Groups = groups

	presets, err := normalizePresets(raw["presets"])
	if err != nil {
		return nil, err
	}
	doc.Presets = presets

	if rawDefaults, ok := raw["defaults"]; ok && rawDefaults != nil {
		m, ok := rawDefaults.(map[string]interface{})
		if !ok {
			return nil, newError(path, "'defaults' must be an object")
		}
		doc.Defaults = m
	}

	util.WithField("path", expanded).
		WithField("lights", len(doc.Lights)).
		WithField("groups", len(doc.Groups)).
		WithField("presets", len(doc.Presets)).
		Debug("config: loaded")

	return doc, nil
}

func parseFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(path, "reading config: %v", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var parsed interface{}
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, newError(path, "parsing YAML: %v", err)
		}
		parsed = convertYAMLMaps(parsed)
	} else {
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, newError(path, "parsing JSON: %v", err)
		}
	}

	if parsed == nil {
		return map[string]interface{}{}, nil
	}
	root, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, newError(path, "config root must be a JSON/YAML object")
	}
	return root, nil
}

// convertYAMLMaps recursively rewrites map[string]interface{} subtrees that
// yaml.v3 may represent with non-string keys into the same shape
// encoding/json produces, so downstream normalization code handles both
// formats identically.
func convertYAMLMaps(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = convertYAMLMaps(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[toString(k)] = convertYAMLMaps(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = convertYAMLMaps(val)
		}
		return out
	default:
		return v
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func expandHome(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
