package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kubecore "k8s.io/api/core/v1"
)

func embeddingInput() EmbeddingInput {
	return EmbeddingInput{
		ClusterName:           "cs-demo-1103",
		DataDir:               "gs://bucket/data",
		FunctionEmbeddingsDir: "gs://bucket/run123/code_embeddings",
		BQTable:               "demo:code_search.function_embeddings_ABC123",
		ModelDir:              "gs://bucket/model/",
		Namespace:             "kubeflow",
		NumWorkers:            5,
		Project:               "demo",
		WorkerMachineType:     "n1-highcpu-32",
		WorkflowID:            "run123",
		WorkingDir:            "gs://bucket/run123",
	}
}

func indexCreatorInput() IndexCreatorInput {
	return IndexCreatorInput{
		ClusterName:           "cs-demo-1103",
		FunctionEmbeddingsDir: "gs://bucket/run123/code_embeddings",
		IndexFile:             "gs://bucket/run123/code-embeddings-index/embeddings.index",
		LookupFile:            "gs://bucket/run123/code-embeddings-index/embedding-to-info.csv",
		Namespace:             "kubeflow",
		WorkflowID:            "run123",
	}
}

func updateIndexInput() UpdateIndexInput {
	return UpdateIndexInput{
		AppDir:      "code_search/ks-web-app",
		BaseBranch:  "master",
		BaseGitRepo: "kubeflow/examples",
		BotEmail:    "bot@example.com",
		ForkGitRepo: "someone/examples",
		IndexFile:   "gs://bucket/run123/code-embeddings-index/embeddings.index",
		LookupFile:  "gs://bucket/run123/code-embeddings-index/embedding-to-info.csv",
		WorkflowID:  "run123",
	}
}

func TestFunctionEmbedding(t *testing.T) {
	d, err := FunctionEmbedding(DefaultImages(), embeddingInput())
	require.NoError(t, err)

	assert.Equal(t, "dataflow_function_embedding", d.Name())
	assert.Equal(t, DefaultImage, d.Image())
	assert.Equal(t, []string{"/usr/local/src/submit_code_embeddings_job.sh"}, d.Command())
	assert.Equal(t, []string{
		"--cluster=cs-demo-1103",
		"--dataDir=gs://bucket/data",
		"--functionEmbeddingsDir=gs://bucket/run123/code_embeddings",
		"--functionEmbeddingsBQTable=demo:code_search.function_embeddings_ABC123",
		"--modelDir=gs://bucket/model/",
		"--namespace=kubeflow",
		"--numWorkers=5",
		"--project=demo",
		"--workerMachineType=n1-highcpu-32",
		"--workflowId=run123",
		"--workingDir=gs://bucket/run123",
	}, d.Args())

	volumes := d.Volumes()
	require.Len(t, volumes, 1)
	assert.Equal(t, "gcp-credentials-user-gcp-sa", volumes[0].Name)
	require.NotNil(t, volumes[0].Secret)
	assert.Equal(t, "user-gcp-sa", volumes[0].Secret.SecretName)
	assert.Equal(t, "/secret/gcp-credentials", d.MountPath("gcp-credentials-user-gcp-sa"))
	assert.Equal(t, []kubecore.EnvVar{{
		Name:  "GOOGLE_APPLICATION_CREDENTIALS",
		Value: "/secret/gcp-credentials/user-gcp-sa.json",
	}}, d.Env())
}

func TestSearchIndexCreator(t *testing.T) {
	d, err := SearchIndexCreator(DefaultImages(), indexCreatorInput())
	require.NoError(t, err)

	assert.Equal(t, "search_index_creator", d.Name())
	assert.Equal(t, []string{"/usr/local/src/launch_search_index_creator_job.sh"}, d.Command())
	assert.Equal(t, []string{
		"--cluster=cs-demo-1103",
		"--functionEmbeddingsDir=gs://bucket/run123/code_embeddings",
		"--indexFile=gs://bucket/run123/code-embeddings-index/embeddings.index",
		"--lookupFile=gs://bucket/run123/code-embeddings-index/embedding-to-info.csv",
		"--namespace=kubeflow",
		"--workflowId=run123",
	}, d.Args())
	assert.Empty(t, d.Volumes())
	assert.Empty(t, d.Env())
}

func TestUpdateIndex(t *testing.T) {
	d, err := UpdateIndex(DefaultImages(), updateIndexInput())
	require.NoError(t, err)

	assert.Equal(t, "update_index", d.Name())
	assert.Equal(t, []string{"/usr/local/src/update_index.sh"}, d.Command())
	assert.Equal(t, []string{
		"--appDir=code_search/ks-web-app",
		"--baseBranch=master",
		"--baseGitRepo=kubeflow/examples",
		"--botEmail=bot@example.com",
		"--forkGitRepo=someone/examples",
		"--indexFile=gs://bucket/run123/code-embeddings-index/embeddings.index",
		"--lookupFile=gs://bucket/run123/code-embeddings-index/embedding-to-info.csv",
		"--workflowId=run123",
	}, d.Args())

	volumes := d.Volumes()
	require.Len(t, volumes, 1)
	assert.Equal(t, "github-access-token", volumes[0].Name)
	assert.Equal(t, "github-access-token", volumes[0].Secret.SecretName)
	assert.Empty(t, d.VolumeMounts())

	env := d.Env()
	require.Len(t, env, 1)
	assert.Equal(t, "GITHUB_TOKEN", env[0].Name)
	assert.Empty(t, env[0].Value, "secret value must never be baked in")
	require.NotNil(t, env[0].ValueFrom)
	require.NotNil(t, env[0].ValueFrom.SecretKeyRef)
	assert.Equal(t, "github-access-token", env[0].ValueFrom.SecretKeyRef.Name)
	assert.Equal(t, "token", env[0].ValueFrom.SecretKeyRef.Key)
}

func TestBuilders_DoNotMutateInput(t *testing.T) {
	in := embeddingInput()
	before := in
	_, err := FunctionEmbedding(DefaultImages(), in)
	require.NoError(t, err)
	assert.Equal(t, before, in)
}

func TestBuilders_InvalidInput(t *testing.T) {
	testCases := []struct {
		name  string
		build func() error
		want  string
	}{
		{
			name: "missing cluster",
			build: func() error {
				in := embeddingInput()
				in.ClusterName = ""
				_, err := FunctionEmbedding(nil, in)
				return err
			},
			want: "ClusterName is required",
		},
		{
			name: "zero workers",
			build: func() error {
				in := embeddingInput()
				in.NumWorkers = 0
				_, err := FunctionEmbedding(nil, in)
				return err
			},
			want: "NumWorkers must be at least 1",
		},
		{
			name: "index file without scheme",
			build: func() error {
				in := indexCreatorInput()
				in.IndexFile = "bucket/embeddings.index"
				_, err := SearchIndexCreator(nil, in)
				return err
			},
			want: "IndexFile=\"bucket/embeddings.index\" is not a URI",
		},
		{
			name: "missing workflow id",
			build: func() error {
				in := updateIndexInput()
				in.WorkflowID = " "
				_, err := UpdateIndex(nil, in)
				return err
			},
			want: "WorkflowID is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.build()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestImages(t *testing.T) {
	t.Run("nil map falls back to the pinned build", func(t *testing.T) {
		d, err := SearchIndexCreator(nil, indexCreatorInput())
		require.NoError(t, err)
		assert.Equal(t, DefaultImage, d.Image())
	})

	t.Run("override one kind", func(t *testing.T) {
		images, err := DefaultImages().With(map[string]string{"update_index": "gcr.io/x/y:v2"})
		require.NoError(t, err)
		assert.Equal(t, "gcr.io/x/y:v2", images[KindUpdateIndex])
		assert.Equal(t, DefaultImage, images[KindFunctionEmbedding])

		d, err := UpdateIndex(images, updateIndexInput())
		require.NoError(t, err)
		assert.Equal(t, "gcr.io/x/y:v2", d.Image())
	})

	t.Run("override does not touch the receiver", func(t *testing.T) {
		base := DefaultImages()
		_, err := base.With(map[string]string{"update_index": "gcr.io/x/y:v2"})
		require.NoError(t, err)
		assert.Equal(t, DefaultImage, base[KindUpdateIndex])
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := DefaultImages().With(map[string]string{"train": "gcr.io/x/y:v2"})
		assert.ErrorContains(t, err, `unknown job kind "train"`)
	})

	t.Run("missing kind in a partial map", func(t *testing.T) {
		_, err := UpdateIndex(Images{KindFunctionEmbedding: DefaultImage}, updateIndexInput())
		assert.ErrorContains(t, err, "no image configured for update_index")
	})

	t.Run("malformed reference is rejected by the descriptor", func(t *testing.T) {
		_, err := UpdateIndex(Images{KindUpdateIndex: "gcr.io/Bad/Image"}, updateIndexInput())
		assert.Error(t, err)
	})
}
