// Package ecuinfo parses the otaclient ecu_info.yaml and derives the set of
// ECU ids allowed to push logs. The file is optional; without it, ingress
// filtering is disabled.
package ecuinfo

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"sigs.k8s.io/yaml"
)

// ECUContact describes one secondary ECU reachable from the main ECU.
type ECUContact struct {
	ECUID  string `json:"ecu_id"`
	IPAddr string `json:"ip_addr"`
	Port   int    `json:"port,omitempty"`
}

// ECUInfo is the subset of ecu_info.yaml the logging server cares about: the
// main ECU id and the ids of its secondaries.
type ECUInfo struct {
	FormatVersion int          `json:"format_version,omitempty"`
	ECUID         string       `json:"ecu_id"`
	Secondaries   []ECUContact `json:"secondaries,omitempty"`
}

// Load reads and parses the ECU info file.
func Load(path string) (*ECUInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ecu info: %w", err)
	}

	var info ECUInfo
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("parsing ecu info %s: %w", path, err)
	}
	if info.ECUID == "" {
		return nil, fmt.Errorf("parsing ecu info %s: ecu_id is missing", path)
	}
	return &info, nil
}

// ECUIDSet returns the allow-list: the main ECU id plus every secondary's id.
func (e *ECUInfo) ECUIDSet() map[string]struct{} {
	ids := lo.Map(e.Secondaries, func(c ECUContact, _ int) string { return c.ECUID })
	ids = append(ids, e.ECUID)
	return lo.Associate(ids, func(id string) (string, struct{}) { return id, struct{}{} })
}
