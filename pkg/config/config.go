package config

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v2"
)

// FromFile reads the YAML config at filePath, renders it as a text/template
// with the process environment as data, expands $VAR references and
// unmarshals the result into cfg.
func FromFile(filePath string, cfg interface{}) error {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read config %q: %w", filePath, err)
	}
	return FromBytes(raw, cfg)
}

// FromBytes is FromFile for in-memory content.
func FromBytes(raw []byte, cfg interface{}) error {
	t, err := template.New("config").Option("missingkey=zero").Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parse config template: %w", err)
	}

	strWriter := &strings.Builder{}
	if err := t.Execute(strWriter, environMap()); err != nil {
		return fmt.Errorf("render config template: %w", err)
	}

	content := os.ExpandEnv(strWriter.String())
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func environMap() map[string]string {
	envMap := make(map[string]string)
	for _, envStr := range os.Environ() {
		key, value, _ := strings.Cut(envStr, "=")
		envMap[key] = value
	}
	return envMap
}
