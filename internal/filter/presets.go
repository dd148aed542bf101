package filter

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// presets maps an industry tag to its default type filter. Loaded once at
// startup and never mutated afterwards.
var presets = mustLoadPresets()

func mustLoadPresets() map[string]TypeFilter {
	var wrapper struct {
		Presets map[string]TypeFilter `yaml:"presets"`
	}
	if err := yaml.Unmarshal(presetsYAML, &wrapper); err != nil {
		panic(fmt.Sprintf("filter: parse embedded presets: %v", err))
	}
	return wrapper.Presets
}

// Preset returns the default type filter for an industry tag.
func Preset(industryTag string) (TypeFilter, bool) {
	p, ok := presets[industryTag]
	return p, ok
}

// PresetTags lists the known industry tags in sorted order.
func PresetTags() []string {
	tags := make([]string, 0, len(presets))
	for tag := range presets {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
