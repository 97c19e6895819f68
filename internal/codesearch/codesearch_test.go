package codesearch

import (
	"testing"

	"github.com/specialistvlad/pipegridgo/internal/jobs"
	"github.com/specialistvlad/pipegridgo/internal/op"
	"github.com/specialistvlad/pipegridgo/internal/template"
	"github.com/specialistvlad/pipegridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePaths(t *testing.T) {
	want := Paths{
		WorkingDir:    "gs://bucket/run123",
		LookupFile:    "gs://bucket/run123/code-embeddings-index/embedding-to-info.csv",
		IndexFile:     "gs://bucket/run123/code-embeddings-index/embeddings.index",
		EmbeddingsDir: "gs://bucket/run123/code_embeddings",
		BQTable:       "demo:code_search.function_embeddings_ABC123",
	}
	assert.Equal(t, want, DerivePaths("gs://bucket", "run123", "demo", "code_search", "ABC123"))
	assert.Equal(t, want, DerivePaths("gs://bucket//", "run123", "demo", "code_search", "ABC123"), "trailing slashes are trimmed")
}

func instantiate(t *testing.T, in template.Inputs) map[string]*op.Descriptor {
	t.Helper()
	p, err := NewTemplate(nil).Instantiate(testutil.Context(t), in)
	require.NoError(t, err)
	out := make(map[string]*op.Descriptor)
	for _, d := range p.Nodes() {
		out[d.Name()] = d
	}
	return out
}

func TestTemplate_PathAgreement(t *testing.T) {
	nodes := instantiate(t, template.Inputs{
		RunID:     "run123",
		Suffix:    "ABC123",
		Overrides: map[string]string{ParamWorkingDir: "gs://bucket"},
	})
	require.Len(t, nodes, 3)

	index := "--indexFile=gs://bucket/run123/code-embeddings-index/embeddings.index"
	lookup := "--lookupFile=gs://bucket/run123/code-embeddings-index/embedding-to-info.csv"
	embeddings := "--functionEmbeddingsDir=gs://bucket/run123/code_embeddings"

	creator := nodes[string(jobs.KindSearchIndexCreator)].Args()
	update := nodes[string(jobs.KindUpdateIndex)].Args()
	embedding := nodes[string(jobs.KindFunctionEmbedding)].Args()

	assert.Contains(t, creator, index)
	assert.Contains(t, creator, lookup)
	assert.Contains(t, update, index)
	assert.Contains(t, update, lookup)
	assert.Contains(t, embedding, embeddings)
	assert.Contains(t, creator, embeddings)
	assert.Contains(t, embedding, "--workingDir=gs://bucket/run123")
}

func TestTemplate_TableName(t *testing.T) {
	nodes := instantiate(t, template.Inputs{
		RunID:     "run123",
		Suffix:    "ABC123",
		Overrides: map[string]string{ParamProject: "demo", ParamTargetDataset: "code_search"},
	})
	assert.Contains(t, nodes[string(jobs.KindFunctionEmbedding)].Args(), "--functionEmbeddingsBQTable=demo:code_search.function_embeddings_ABC123")
	assert.Contains(t, nodes[string(jobs.KindFunctionEmbedding)].Args(), "--project=demo")
}

func TestTemplate_DataDir(t *testing.T) {
	nodes := instantiate(t, template.Inputs{
		Suffix:    "ABC123",
		Overrides: map[string]string{ParamDataDir: "gs://other/data"},
	})
	assert.Contains(t, nodes[string(jobs.KindFunctionEmbedding)].Args(), "--dataDir=gs://other/data")
}

func TestTemplate_Defaults(t *testing.T) {
	nodes := instantiate(t, template.Inputs{Suffix: "ABC123"})
	embedding := nodes[string(jobs.KindFunctionEmbedding)].Args()

	assert.Equal(t, []string{
		"--cluster=cs-demo-1103",
		"--dataDir=gs://code-search-demo/20181104/data",
		"--functionEmbeddingsDir=gs://code-search-demo/pipeline/{{workflow.name}}/code_embeddings",
		"--functionEmbeddingsBQTable=code-search-demo:code_search.function_embeddings_ABC123",
		"--modelDir=gs://code-search-demo/models/20181107-dist-sync-gpu/export/1541712907/",
		"--namespace=kubeflow",
		"--numWorkers=5",
		"--project=code-search-demo",
		"--workerMachineType=n1-highcpu-32",
		"--workflowId={{workflow.name}}",
		"--workingDir=gs://code-search-demo/pipeline/{{workflow.name}}",
	}, embedding)
	assert.Contains(t, nodes[string(jobs.KindUpdateIndex)].Args(), "--forkGitRepo=IronPan/examples")
}

func TestTemplate_Chain(t *testing.T) {
	p, err := NewTemplate(nil).Instantiate(testutil.Context(t), template.Inputs{RunID: "run123", Suffix: "ABC123"})
	require.NoError(t, err)

	deps, err := p.DependenciesOf(string(jobs.KindSearchIndexCreator))
	require.NoError(t, err)
	assert.Equal(t, []string{string(jobs.KindFunctionEmbedding)}, deps)

	deps, err = p.DependenciesOf(string(jobs.KindUpdateIndex))
	require.NoError(t, err)
	assert.Equal(t, []string{string(jobs.KindSearchIndexCreator)}, deps)

	deps, err = p.DependenciesOf(string(jobs.KindFunctionEmbedding))
	require.NoError(t, err)
	assert.Empty(t, deps)

	ordered, err := p.Ordered()
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, string(jobs.KindFunctionEmbedding), ordered[0].Name())
	assert.Equal(t, string(jobs.KindSearchIndexCreator), ordered[1].Name())
	assert.Equal(t, string(jobs.KindUpdateIndex), ordered[2].Name())
}

func TestTemplate_InvalidOverride(t *testing.T) {
	_, err := NewTemplate(nil).Instantiate(testutil.Context(t), template.Inputs{
		Overrides: map[string]string{ParamNumWorkers: "0"},
	})
	assert.ErrorIs(t, err, jobs.ErrInvalidInput)

	_, err = NewTemplate(nil).Instantiate(testutil.Context(t), template.Inputs{
		Overrides: map[string]string{ParamNumWorkers: "five"},
	})
	assert.ErrorContains(t, err, "not an integer")
}

func TestTemplate_ImageOverride(t *testing.T) {
	images, err := jobs.DefaultImages().With(map[string]string{"update_index": "gcr.io/x/y:v2"})
	require.NoError(t, err)

	p, err := NewTemplate(images).Instantiate(testutil.Context(t), template.Inputs{Suffix: "ABC123"})
	require.NoError(t, err)
	d, ok := p.Node(string(jobs.KindUpdateIndex))
	require.True(t, ok)
	assert.Equal(t, "gcr.io/x/y:v2", d.Image())
}
