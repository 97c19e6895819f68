package compiler

// Schema identifiers written into every artifact.
const (
	APIVersion = "pipegrid.dev/v1alpha1"
	Kind       = "CompiledPipeline"
)

// Artifact is the serialized form of a compiled pipeline. It is built once
// per compilation and is not modified afterwards.
type Artifact struct {
	APIVersion string      `yaml:"apiVersion" json:"apiVersion"`
	Kind       string      `yaml:"kind" json:"kind"`
	Metadata   Metadata    `yaml:"metadata" json:"metadata"`
	Parameters []Parameter `yaml:"parameters" json:"parameters"`
	Nodes      []Node      `yaml:"nodes" json:"nodes"`
	Edges      []Edge      `yaml:"edges" json:"edges"`
}

// Metadata identifies one compilation. RunID and Suffix are the values
// every node name and path in the artifact was derived from.
type Metadata struct {
	Name            string `yaml:"name" json:"name"`
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
	TemplateVersion string `yaml:"templateVersion,omitempty" json:"templateVersion,omitempty"`
	RunID           string `yaml:"runId" json:"runId"`
	Suffix          string `yaml:"suffix" json:"suffix"`
}

// Parameter records the declared type and default of a parameter next to
// the value this compilation resolved it to.
type Parameter struct {
	Name        string  `yaml:"name" json:"name"`
	Type        string  `yaml:"type" json:"type"`
	Default     *string `yaml:"default,omitempty" json:"default,omitempty"`
	Value       string  `yaml:"value" json:"value"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Node is one step of the pipeline. Dependencies names the nodes that must
// finish before it starts.
type Node struct {
	Name         string   `yaml:"name" json:"name"`
	Image        string   `yaml:"image" json:"image"`
	Command      []string `yaml:"command" json:"command"`
	Arguments    []string `yaml:"arguments" json:"arguments"`
	Volumes      []Volume `yaml:"volumes,omitempty" json:"volumes,omitempty"`
	Env          []EnvVar `yaml:"env,omitempty" json:"env,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Volume is a secret-backed volume. MountPath is empty for a volume that
// is declared but not mounted.
type Volume struct {
	Name      string `yaml:"name" json:"name"`
	Secret    string `yaml:"secret" json:"secret"`
	MountPath string `yaml:"mountPath,omitempty" json:"mountPath,omitempty"`
}

// EnvVar holds either a literal Value or a SecretKeyRef resolved by the
// execution engine.
type EnvVar struct {
	Name         string        `yaml:"name" json:"name"`
	Value        string        `yaml:"value,omitempty" json:"value,omitempty"`
	SecretKeyRef *SecretKeyRef `yaml:"secretKeyRef,omitempty" json:"secretKeyRef,omitempty"`
}

// SecretKeyRef selects a single key from a named secret.
type SecretKeyRef struct {
	Name string `yaml:"name" json:"name"`
	Key  string `yaml:"key" json:"key"`
}

// Edge reads "To runs after From".
type Edge struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}
