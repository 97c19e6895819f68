package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		{Name: "project", Type: String, Default: Default("code-search-demo")},
		{Name: "num_workers", Type: Int, Default: Default("5")},
		{Name: "working_dir", Type: URI, Default: Default("gs://code-search-demo/pipeline")},
		{Name: "bot_email", Type: String},
	}
}

func TestResolve(t *testing.T) {
	t.Run("defaults and overrides", func(t *testing.T) {
		v, err := testSchema().Resolve(map[string]string{
			"project":   "demo",
			"bot_email": "bot@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "demo", v.String("project"))
		assert.Equal(t, 5, v.Int("num_workers"))
		assert.Equal(t, "gs://code-search-demo/pipeline", v.String("working_dir"))
		assert.Equal(t, []string{"project", "num_workers", "working_dir", "bot_email"}, v.Names())
		assert.NoError(t, v.Check())
	})

	t.Run("missing required parameter", func(t *testing.T) {
		_, err := testSchema().Resolve(nil)
		assert.ErrorIs(t, err, ErrMissingParameter)
		assert.ErrorContains(t, err, `"bot_email"`)
	})

	t.Run("unknown override", func(t *testing.T) {
		_, err := testSchema().Resolve(map[string]string{"bot_email": "x", "nope": "1"})
		assert.ErrorIs(t, err, ErrUnknownParameter)
		assert.ErrorContains(t, err, `"nope"`)
	})

	t.Run("type checks", func(t *testing.T) {
		_, err := testSchema().Resolve(map[string]string{"bot_email": "x", "num_workers": "five"})
		assert.ErrorIs(t, err, ErrInvalidParameter)
		assert.ErrorContains(t, err, "num_workers")

		_, err = testSchema().Resolve(map[string]string{"bot_email": "x", "working_dir": "/local/dir"})
		assert.ErrorIs(t, err, ErrInvalidParameter)
		assert.ErrorContains(t, err, "working_dir")
	})
}

func TestSchemaValidate(t *testing.T) {
	assert.NoError(t, testSchema().Validate())

	dup := Schema{{Name: "a"}, {Name: "a"}}
	assert.ErrorContains(t, dup.Validate(), `"a" declared twice`)

	badDefault := Schema{{Name: "n", Type: Int, Default: Default("x")}}
	assert.ErrorIs(t, badDefault.Validate(), ErrInvalidParameter)

	assert.Error(t, Schema{{Name: ""}}.Validate())
}

func TestHasScheme(t *testing.T) {
	testCases := []struct {
		in   string
		want bool
	}{
		{"gs://bucket/dir", true},
		{"s3://b", true},
		{"https://example.com/x", true},
		{"/abs/path", false},
		{"gs://", false},
		{"://x", false},
		{"1gs://x", false},
		{"kubeflow/examples", false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, HasScheme(tc.in))
		})
	}
}

func TestValuesPanicsOnUndeclared(t *testing.T) {
	v, err := testSchema().Resolve(map[string]string{"bot_email": "x"})
	require.NoError(t, err)
	assert.Panics(t, func() { v.String("undeclared") })
	assert.Panics(t, func() { v.Int("project") })
}
