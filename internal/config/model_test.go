package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Add(t *testing.T) {
	var m Model
	require.NoError(t, m.Add(&Run{Pipeline: "a"}))
	require.NoError(t, m.Add(&Run{Pipeline: "b"}))
	assert.ErrorContains(t, m.Add(&Run{Pipeline: "a"}), `"a" is configured more than once`)
	assert.Error(t, m.Add(&Run{}))
	assert.Error(t, m.Add(nil))

	r, ok := m.Run("b")
	require.True(t, ok)
	assert.Equal(t, "b", r.Pipeline)
	_, ok = m.Run("c")
	assert.False(t, ok)

	var nilModel *Model
	_, ok = nilModel.Run("a")
	assert.False(t, ok)
}

func TestRun_Merge(t *testing.T) {
	base := &Run{
		Pipeline:   "p",
		RunID:      "from-file",
		Suffix:     "FILE01",
		Output:     "file.yaml",
		Parameters: map[string]string{"project": "file", "namespace": "kubeflow"},
		Images:     map[string]string{"update_index": "gcr.io/file/img:v1"},
	}
	override := &Run{
		RunID:      "from-flag",
		Parameters: map[string]string{"project": "flag"},
		Images:     map[string]string{"search_index_creator": "gcr.io/flag/img:v2"},
	}

	got := base.Merge(override)
	assert.Equal(t, &Run{
		Pipeline:   "p",
		RunID:      "from-flag",
		Suffix:     "FILE01",
		Output:     "file.yaml",
		Parameters: map[string]string{"project": "flag", "namespace": "kubeflow"},
		Images: map[string]string{
			"update_index":         "gcr.io/file/img:v1",
			"search_index_creator": "gcr.io/flag/img:v2",
		},
	}, got)

	assert.Equal(t, "file", base.Parameters["project"], "receiver is not modified")
	assert.Len(t, base.Images, 1)

	var nilRun *Run
	assert.Equal(t, &Run{Pipeline: "x"}, nilRun.Merge(&Run{Pipeline: "x"}))
	assert.Equal(t, base, base.Merge(nil))
}
