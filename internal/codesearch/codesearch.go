// Package codesearch defines the github_code_index_update pipeline. It
// embeds the functions of a code corpus, then builds a search index from the
// embeddings and publishes it to the search web app by pull request.
package codesearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/pipegridgo/internal/ctxlog"
	"github.com/specialistvlad/pipegridgo/internal/jobs"
	"github.com/specialistvlad/pipegridgo/internal/op"
	"github.com/specialistvlad/pipegridgo/internal/param"
	"github.com/specialistvlad/pipegridgo/internal/template"
)

const (
	// Name is the template's registry name.
	Name    = "github_code_index_update"
	Version = "0.1.0"
)

// Parameter names.
const (
	ParamProject           = "project"
	ParamClusterName       = "cluster_name"
	ParamNamespace         = "namespace"
	ParamWorkingDir        = "working_dir"
	ParamSavedModelDir     = "saved_model_dir"
	ParamTargetDataset     = "target_dataset"
	ParamWorkerMachineType = "worker_machine_type"
	ParamNumWorkers        = "num_workers"
	ParamDataDir           = "data_dir"
	ParamBaseGitRepo       = "base_git_repo"
	ParamBaseBranch        = "base_branch"
	ParamAppDir            = "app_dir"
	ParamForkGitRepo       = "fork_git_repo"
	ParamBotEmail          = "bot_email"
)

// Schema returns the template's parameters with their defaults.
func Schema() param.Schema {
	return param.Schema{
		{Name: ParamProject, Type: param.String, Default: param.Default("code-search-demo"), Description: "GCP project running the Dataflow job and owning the BigQuery dataset."},
		{Name: ParamClusterName, Type: param.String, Default: param.Default("cs-demo-1103"), Description: "Kubernetes cluster the index creator runs on."},
		{Name: ParamNamespace, Type: param.String, Default: param.Default("kubeflow")},
		{Name: ParamWorkingDir, Type: param.URI, Default: param.Default("gs://code-search-demo/pipeline"), Description: "Base directory; each run writes under <working_dir>/<run id>."},
		{Name: ParamSavedModelDir, Type: param.URI, Default: param.Default("gs://code-search-demo/models/20181107-dist-sync-gpu/export/1541712907/")},
		{Name: ParamTargetDataset, Type: param.String, Default: param.Default("code_search")},
		{Name: ParamWorkerMachineType, Type: param.String, Default: param.Default("n1-highcpu-32")},
		{Name: ParamNumWorkers, Type: param.Int, Default: param.Default("5")},
		{Name: ParamDataDir, Type: param.URI, Default: param.Default("gs://code-search-demo/20181104/data")},
		{Name: ParamBaseGitRepo, Type: param.String, Default: param.Default("kubeflow/examples")},
		{Name: ParamBaseBranch, Type: param.String, Default: param.Default("master")},
		{Name: ParamAppDir, Type: param.String, Default: param.Default("code_search/ks-web-app")},
		{Name: ParamForkGitRepo, Type: param.String, Default: param.Default("IronPan/examples")},
		{Name: ParamBotEmail, Type: param.String, Default: param.Default("kf.sample.bot@gmail.com")},
	}
}

// Paths are the run-scoped locations shared between producer and consumer
// jobs.
type Paths struct {
	WorkingDir    string
	LookupFile    string
	IndexFile     string
	EmbeddingsDir string
	// BQTable is "project:dataset.function_embeddings_<suffix>".
	BQTable string
}

// DerivePaths computes the run's paths. It is a pure function of its
// arguments. Trailing slashes on baseWorkingDir are dropped.
func DerivePaths(baseWorkingDir, runID, project, dataset, suffix string) Paths {
	wd := strings.TrimRight(baseWorkingDir, "/") + "/" + runID
	return Paths{
		WorkingDir:    wd,
		LookupFile:    wd + "/code-embeddings-index/embedding-to-info.csv",
		IndexFile:     wd + "/code-embeddings-index/embeddings.index",
		EmbeddingsDir: wd + "/code_embeddings",
		BQTable:       fmt.Sprintf("%s:%s.function_embeddings_%s", project, dataset, suffix),
	}
}

// NewTemplate returns the template using the given job images. A nil map
// uses jobs.DefaultImages.
func NewTemplate(images jobs.Images) *template.Template {
	if images == nil {
		images = jobs.DefaultImages()
	}
	return &template.Template{
		Name:        Name,
		Description: "Compute function embeddings, build a search index and publish it to the search web app.",
		Version:     Version,
		Params:      Schema(),
		Assemble: func(ctx context.Context, run *template.Run) error {
			return assemble(ctx, images, run)
		},
	}
}

func assemble(ctx context.Context, images jobs.Images, run *template.Run) error {
	logger := ctxlog.FromContext(ctx)
	v := run.Values

	paths := DerivePaths(v.String(ParamWorkingDir), run.RunID, v.String(ParamProject), v.String(ParamTargetDataset), run.Suffix)
	logger.Debug("Derived run paths.", "working_dir", paths.WorkingDir, "bq_table", paths.BQTable)

	embedding, err := jobs.FunctionEmbedding(images, jobs.EmbeddingInput{
		ClusterName:           v.String(ParamClusterName),
		DataDir:               v.String(ParamDataDir),
		FunctionEmbeddingsDir: paths.EmbeddingsDir,
		BQTable:               paths.BQTable,
		ModelDir:              v.String(ParamSavedModelDir),
		Namespace:             v.String(ParamNamespace),
		NumWorkers:            v.Int(ParamNumWorkers),
		Project:               v.String(ParamProject),
		WorkerMachineType:     v.String(ParamWorkerMachineType),
		WorkflowID:            run.RunID,
		WorkingDir:            paths.WorkingDir,
	})
	if err != nil {
		return err
	}

	indexCreator, err := jobs.SearchIndexCreator(images, jobs.IndexCreatorInput{
		ClusterName:           v.String(ParamClusterName),
		FunctionEmbeddingsDir: paths.EmbeddingsDir,
		IndexFile:             paths.IndexFile,
		LookupFile:            paths.LookupFile,
		Namespace:             v.String(ParamNamespace),
		WorkflowID:            run.RunID,
	})
	if err != nil {
		return err
	}

	updateIndex, err := jobs.UpdateIndex(images, jobs.UpdateIndexInput{
		AppDir:      v.String(ParamAppDir),
		BaseBranch:  v.String(ParamBaseBranch),
		BaseGitRepo: v.String(ParamBaseGitRepo),
		BotEmail:    v.String(ParamBotEmail),
		ForkGitRepo: v.String(ParamForkGitRepo),
		IndexFile:   paths.IndexFile,
		LookupFile:  paths.LookupFile,
		WorkflowID:  run.RunID,
	})
	if err != nil {
		return err
	}

	p := run.Pipeline
	for _, d := range []*op.Descriptor{embedding, indexCreator, updateIndex} {
		if err := p.Add(d); err != nil {
			return err
		}
	}
	if err := p.After(indexCreator.Name(), embedding.Name()); err != nil {
		return err
	}
	if err := p.After(updateIndex.Name(), indexCreator.Name()); err != nil {
		return err
	}
	logger.Debug("Linked operations.", "edges", len(p.Edges()))
	return nil
}
