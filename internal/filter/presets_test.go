package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_Loaded(t *testing.T) {
	tags := PresetTags()
	require.NotEmpty(t, tags)
	assert.Contains(t, tags, "food-service")
	assert.Contains(t, tags, "retail")
}

func TestPresets_EveryPresetHasInclusions(t *testing.T) {
	// A preset that cannot satisfy the type-inclusion invariant on its
	// own would make Build fail for callers supplying only an industry.
	for _, tag := range PresetTags() {
		preset, ok := Preset(tag)
		require.True(t, ok)
		assert.NoError(t, preset.Validate(), "preset %s", tag)
	}
}

func TestPresets_PrimaryTypesInVocabulary(t *testing.T) {
	// Presets must not ship primary-type tags the repair pass would drop.
	for _, tag := range PresetTags() {
		preset, _ := Preset(tag)
		repaired := RepairTypes(preset)
		assert.Equal(t, preset.IncludedPrimaryTypes, repaired.IncludedPrimaryTypes, "preset %s", tag)
	}
}

func TestPreset_UnknownTag(t *testing.T) {
	_, ok := Preset("cold-fusion")
	assert.False(t, ok)
}
