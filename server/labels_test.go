package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLabelsKeepsBuiltinsFirst(t *testing.T) {
	custom := []Label{
		{ID: "7", Name: "Urgent", Color: "#f59e0b"},
		{ID: "9", Name: "Bug", Color: "#000000"}, // same name as a builtin: no de-dup
	}
	merged := mergeLabels(custom)
	require.Len(t, merged, len(builtinLabels)+2)
	for i, b := range builtinLabels {
		assert.Equal(t, b, merged[i])
		assert.True(t, merged[i].Builtin)
	}
	assert.Equal(t, "Urgent", merged[5].Name)
	assert.Equal(t, "Bug", merged[6].Name)
}

func TestMergeLabelsWithoutCustom(t *testing.T) {
	merged := mergeLabels(nil)
	require.Len(t, merged, 5)
	names := []string{}
	for _, l := range merged {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"Bug", "Enhancement", "Chore", "Question", "Docs"}, names)
}

func TestColorForLabels(t *testing.T) {
	all := mergeLabels([]Label{{ID: "3", Name: "Urgent", Color: "#f59e0b"}})

	t.Run("first label wins", func(t *testing.T) {
		assert.Equal(t, "#ef4444", colorForLabels([]string{"Bug", "Urgent"}, all))
		assert.Equal(t, "#f59e0b", colorForLabels([]string{"Urgent", "Bug"}, all))
	})

	t.Run("no labels falls back to gray", func(t *testing.T) {
		assert.Equal(t, fallbackLabelColor, colorForLabels(nil, all))
		assert.Equal(t, fallbackLabelColor, colorForLabels([]string{}, all))
	})

	t.Run("orphaned name falls back to gray", func(t *testing.T) {
		// label deleted, issue still references it by name
		assert.Equal(t, fallbackLabelColor, colorForLabels([]string{"Deleted"}, all))
	})
}

func TestMissingLabels(t *testing.T) {
	existing := []Label{{ID: "1", Name: "Bug", Color: "#123456"}}

	t.Run("already-present name is skipped", func(t *testing.T) {
		snap := []LabelSnapshot{{Name: "Bug", Color: "#ef4444"}}
		assert.Empty(t, missingLabels(snap, existing))
	})

	t.Run("absent name is kept with its color", func(t *testing.T) {
		snap := []LabelSnapshot{{Name: "Urgent", Color: "#f59e0b"}}
		out := missingLabels(snap, existing)
		require.Len(t, out, 1)
		assert.Equal(t, LabelSnapshot{Name: "Urgent", Color: "#f59e0b"}, out[0])
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		snap := []LabelSnapshot{{Name: "bug", Color: "#ef4444"}}
		out := missingLabels(snap, existing)
		require.Len(t, out, 1)
		assert.Equal(t, "bug", out[0].Name)
	})

	t.Run("snapshot order preserved", func(t *testing.T) {
		snap := []LabelSnapshot{
			{Name: "Z", Color: "#1"},
			{Name: "Bug", Color: "#2"},
			{Name: "A", Color: "#3"},
		}
		out := missingLabels(snap, existing)
		require.Len(t, out, 2)
		assert.Equal(t, "Z", out[0].Name)
		assert.Equal(t, "A", out[1].Name)
	})
}
