package pipeline

import (
	"testing"

	"github.com/specialistvlad/pipegridgo/internal/dag"
	"github.com/specialistvlad/pipegridgo/internal/op"
	"github.com/specialistvlad/pipegridgo/internal/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptor(t *testing.T, name string) *op.Descriptor {
	t.Helper()
	d, err := op.New(name, op.Spec{Image: "gcr.io/example/job:v1", Command: []string{"/bin/" + name}})
	require.NoError(t, err)
	return d
}

func newPipeline(t *testing.T, names ...string) *Pipeline {
	t.Helper()
	p := New(Metadata{Name: "test"}, param.Values{})
	for _, name := range names {
		require.NoError(t, p.Add(descriptor(t, name)))
	}
	return p
}

func TestAdd(t *testing.T) {
	p := newPipeline(t, "embed", "index")
	assert.Equal(t, 2, p.Len())

	err := p.Add(descriptor(t, "embed"))
	assert.ErrorIs(t, err, dag.ErrDuplicateNode)
	assert.ErrorContains(t, err, `"embed"`)

	assert.Error(t, p.Add(nil))

	d, ok := p.Node("index")
	require.True(t, ok)
	assert.Equal(t, "index", d.Name())
	_, ok = p.Node("missing")
	assert.False(t, ok)
}

func TestAfter(t *testing.T) {
	t.Run("linear chain", func(t *testing.T) {
		p := newPipeline(t, "publish", "index", "embed")
		require.NoError(t, p.After("index", "embed"))
		require.NoError(t, p.After("publish", "index"))

		deps, err := p.DependenciesOf("publish")
		require.NoError(t, err)
		assert.Equal(t, []string{"index"}, deps)

		deps, err = p.DependenciesOf("index")
		require.NoError(t, err)
		assert.Equal(t, []string{"embed"}, deps)

		ordered, err := p.Ordered()
		require.NoError(t, err)
		names := make([]string, 0, len(ordered))
		for _, d := range ordered {
			names = append(names, d.Name())
		}
		assert.Equal(t, []string{"embed", "index", "publish"}, names)
		assert.Equal(t, []dag.Edge{{From: "embed", To: "index"}, {From: "index", To: "publish"}}, p.Edges())
		assert.NoError(t, p.Validate())
	})

	t.Run("cycle is rejected at declaration", func(t *testing.T) {
		p := newPipeline(t, "a", "b")
		require.NoError(t, p.After("a", "b"))
		err := p.After("b", "a")
		assert.ErrorIs(t, err, dag.ErrCycle)
		assert.ErrorContains(t, err, `"b" after "a"`)
	})

	t.Run("unknown node is rejected at declaration", func(t *testing.T) {
		p := newPipeline(t, "a")
		err := p.After("a", "ghost")
		assert.ErrorIs(t, err, dag.ErrUnknownNode)
		assert.ErrorContains(t, err, "ghost")

		err = p.After("ghost", "a")
		assert.ErrorIs(t, err, dag.ErrUnknownNode)
	})

	t.Run("fan-in", func(t *testing.T) {
		p := newPipeline(t, "a", "b", "join")
		require.NoError(t, p.After("join", "b", "a"))
		deps, err := p.DependenciesOf("join")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, deps)
	})
}

func TestValidate(t *testing.T) {
	assert.ErrorContains(t, New(Metadata{}, param.Values{}).Validate(), "name is required")
	assert.ErrorContains(t, New(Metadata{Name: "x"}, param.Values{}).Validate(), "no operations")

	nodes := newPipeline(t, "a", "b").Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[0].Name())
	assert.Equal(t, "b", nodes[1].Name())
}
