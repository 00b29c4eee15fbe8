package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Toggle is a boolean setting that also accepts the quoted forms "true" and
// "false", as written by appsettings.json files of earlier releases.
type Toggle bool

func (t *Toggle) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*t = Toggle(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a boolean or \"true\"/\"false\", got %s", data)
	}
	return t.parse(s)
}

func (t *Toggle) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a boolean", value.Line)
	}
	return t.parse(value.Value)
}

func (t *Toggle) parse(s string) error {
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return fmt.Errorf("invalid boolean %q", s)
	}
	*t = Toggle(b)
	return nil
}
