package jobs

import (
	"fmt"

	"github.com/specialistvlad/pipegridgo/internal/op"
)

const (
	embeddingCommand    = "/usr/local/src/submit_code_embeddings_job.sh"
	indexCreatorCommand = "/usr/local/src/launch_search_index_creator_job.sh"
	updateIndexCommand  = "/usr/local/src/update_index.sh"
)

// GCP service account credential mounted into the embedding job.
const (
	GCPSecretName    = "user-gcp-sa"
	GCPVolumeName    = "gcp-credentials-" + GCPSecretName
	GCPMountPath     = "/secret/gcp-credentials"
	GCPCredentialEnv = "GOOGLE_APPLICATION_CREDENTIALS"
)

// GitHub token used by the update job to push the new index.
const (
	GitHubSecretName = "github-access-token"
	GitHubSecretKey  = "token"
	GitHubTokenEnv   = "GITHUB_TOKEN"
)

// FunctionEmbedding builds the job that computes function embeddings with
// Dataflow and writes them to BigQuery and the embeddings directory.
func FunctionEmbedding(images Images, in EmbeddingInput) (*op.Descriptor, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", KindFunctionEmbedding, err)
	}
	image, err := images.lookup(KindFunctionEmbedding)
	if err != nil {
		return nil, err
	}
	return op.New(string(KindFunctionEmbedding), op.Spec{
		Image:   image,
		Command: []string{embeddingCommand},
		Args: []string{
			op.Flag("cluster", in.ClusterName),
			op.Flag("dataDir", in.DataDir),
			op.Flag("functionEmbeddingsDir", in.FunctionEmbeddingsDir),
			op.Flag("functionEmbeddingsBQTable", in.BQTable),
			op.Flag("modelDir", in.ModelDir),
			op.Flag("namespace", in.Namespace),
			op.IntFlag("numWorkers", in.NumWorkers),
			op.Flag("project", in.Project),
			op.Flag("workerMachineType", in.WorkerMachineType),
			op.Flag("workflowId", in.WorkflowID),
			op.Flag("workingDir", in.WorkingDir),
		},
	},
		op.WithSecretVolume(GCPVolumeName, GCPSecretName, GCPMountPath),
		op.WithEnv(GCPCredentialEnv, GCPMountPath+"/"+GCPSecretName+".json"),
	)
}

// SearchIndexCreator builds the job that turns the embeddings directory
// into a search index and its lookup table.
func SearchIndexCreator(images Images, in IndexCreatorInput) (*op.Descriptor, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", KindSearchIndexCreator, err)
	}
	image, err := images.lookup(KindSearchIndexCreator)
	if err != nil {
		return nil, err
	}
	return op.New(string(KindSearchIndexCreator), op.Spec{
		Image:   image,
		Command: []string{indexCreatorCommand},
		Args: []string{
			op.Flag("cluster", in.ClusterName),
			op.Flag("functionEmbeddingsDir", in.FunctionEmbeddingsDir),
			op.Flag("indexFile", in.IndexFile),
			op.Flag("lookupFile", in.LookupFile),
			op.Flag("namespace", in.Namespace),
			op.Flag("workflowId", in.WorkflowID),
		},
	})
}

// UpdateIndex builds the job that opens a pull request pointing the web app
// at the new index. The GitHub token is read from the secret by the
// execution engine when the step starts.
func UpdateIndex(images Images, in UpdateIndexInput) (*op.Descriptor, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", KindUpdateIndex, err)
	}
	image, err := images.lookup(KindUpdateIndex)
	if err != nil {
		return nil, err
	}
	return op.New(string(KindUpdateIndex), op.Spec{
		Image:   image,
		Command: []string{updateIndexCommand},
		Args: []string{
			op.Flag("appDir", in.AppDir),
			op.Flag("baseBranch", in.BaseBranch),
			op.Flag("baseGitRepo", in.BaseGitRepo),
			op.Flag("botEmail", in.BotEmail),
			op.Flag("forkGitRepo", in.ForkGitRepo),
			op.Flag("indexFile", in.IndexFile),
			op.Flag("lookupFile", in.LookupFile),
			op.Flag("workflowId", in.WorkflowID),
		},
	},
		op.WithSecretVolume(GitHubSecretName, GitHubSecretName, ""),
		op.WithSecretEnv(GitHubTokenEnv, GitHubSecretName, GitHubSecretKey),
	)
}
