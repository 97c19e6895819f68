package jobs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/pipegridgo/internal/param"
)

// ErrInvalidInput is wrapped by every builder input validation error.
var ErrInvalidInput = errors.New("invalid job input")

// EmbeddingInput configures the Dataflow function embedding job.
type EmbeddingInput struct {
	ClusterName           string
	DataDir               string
	FunctionEmbeddingsDir string
	// BQTable is the BigQuery table the embeddings are written to, in
	// "project:dataset.table" form.
	BQTable           string
	ModelDir          string
	Namespace         string
	NumWorkers        int
	Project           string
	WorkerMachineType string
	WorkflowID        string
	WorkingDir        string
}

// Validate reports the first malformed field.
func (in EmbeddingInput) Validate() error {
	return firstError(
		required("ClusterName", in.ClusterName),
		uri("DataDir", in.DataDir),
		uri("FunctionEmbeddingsDir", in.FunctionEmbeddingsDir),
		required("BQTable", in.BQTable),
		uri("ModelDir", in.ModelDir),
		required("Namespace", in.Namespace),
		positive("NumWorkers", in.NumWorkers),
		required("Project", in.Project),
		required("WorkerMachineType", in.WorkerMachineType),
		required("WorkflowID", in.WorkflowID),
		uri("WorkingDir", in.WorkingDir),
	)
}

// IndexCreatorInput configures the search index creator job.
type IndexCreatorInput struct {
	ClusterName           string
	FunctionEmbeddingsDir string
	IndexFile             string
	LookupFile            string
	Namespace             string
	WorkflowID            string
}

// Validate reports the first malformed field.
func (in IndexCreatorInput) Validate() error {
	return firstError(
		required("ClusterName", in.ClusterName),
		uri("FunctionEmbeddingsDir", in.FunctionEmbeddingsDir),
		uri("IndexFile", in.IndexFile),
		uri("LookupFile", in.LookupFile),
		required("Namespace", in.Namespace),
		required("WorkflowID", in.WorkflowID),
	)
}

// UpdateIndexInput configures the job that publishes the new index to the
// web app's git repository.
type UpdateIndexInput struct {
	AppDir      string
	BaseBranch  string
	BaseGitRepo string
	BotEmail    string
	ForkGitRepo string
	IndexFile   string
	LookupFile  string
	WorkflowID  string
}

// Validate reports the first malformed field.
func (in UpdateIndexInput) Validate() error {
	return firstError(
		required("AppDir", in.AppDir),
		required("BaseBranch", in.BaseBranch),
		required("BaseGitRepo", in.BaseGitRepo),
		required("BotEmail", in.BotEmail),
		required("ForkGitRepo", in.ForkGitRepo),
		uri("IndexFile", in.IndexFile),
		uri("LookupFile", in.LookupFile),
		required("WorkflowID", in.WorkflowID),
	)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

func uri(field, value string) error {
	if err := required(field, value); err != nil {
		return err
	}
	if !param.HasScheme(value) {
		return fmt.Errorf("%w: %s=%q is not a URI", ErrInvalidInput, field, value)
	}
	return nil
}

func positive(field string, value int) error {
	if value < 1 {
		return fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalidInput, field, value)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
