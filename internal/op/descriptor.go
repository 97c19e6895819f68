package op

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	kubecore "k8s.io/api/core/v1"
)

// nameRegex accepts lower-case step names such as "search_index_creator".
var nameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9_-]*[a-z0-9])?$`)

const maxNameLength = 63

// Spec is the invocation contract of a containerized step.
type Spec struct {
	// Image is a container image reference, e.g. "gcr.io/project/img:tag".
	Image string
	// Command is the executable path and its fixed leading tokens.
	Command []string
	// Args are fully resolved `--flag=value` tokens.
	Args []string
}

// Descriptor is a single named, containerized operation. The zero value is
// not usable; build descriptors with New.
type Descriptor struct {
	name    string
	image   string
	command []string
	args    []string
	volumes []kubecore.Volume
	mounts  []kubecore.VolumeMount
	env     []kubecore.EnvVar
}

// Option attaches credentials or environment to a descriptor while it is
// being constructed.
type Option func(*Descriptor)

// WithSecretVolume mounts the named secret as a volume. An empty mountPath
// declares the volume without mounting it into the container.
func WithSecretVolume(volumeName, secretName, mountPath string) Option {
	return func(d *Descriptor) {
		d.volumes = append(d.volumes, kubecore.Volume{
			Name: volumeName,
			VolumeSource: kubecore.VolumeSource{
				Secret: &kubecore.SecretVolumeSource{SecretName: secretName},
			},
		})
		if mountPath != "" {
			d.mounts = append(d.mounts, kubecore.VolumeMount{
				Name:      volumeName,
				MountPath: mountPath,
				ReadOnly:  true,
			})
		}
	}
}

// WithSecretEnv injects an environment variable whose value the execution
// engine reads from key of secretName when the step starts.
func WithSecretEnv(envName, secretName, key string) Option {
	return func(d *Descriptor) {
		d.env = append(d.env, kubecore.EnvVar{
			Name: envName,
			ValueFrom: &kubecore.EnvVarSource{
				SecretKeyRef: &kubecore.SecretKeySelector{
					LocalObjectReference: kubecore.LocalObjectReference{Name: secretName},
					Key:                  key,
				},
			},
		})
	}
}

// WithEnv injects a literal environment variable.
func WithEnv(envName, value string) Option {
	return func(d *Descriptor) {
		d.env = append(d.env, kubecore.EnvVar{Name: envName, Value: value})
	}
}

// New builds an immutable descriptor. Slices in spec are copied, so the
// caller may reuse them freely afterwards.
func New(stepName string, spec Spec, opts ...Option) (*Descriptor, error) {
	d := &Descriptor{
		name:    stepName,
		image:   spec.Image,
		command: clone(spec.Command),
		args:    clone(spec.Args),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidDescriptor, stepName, err)
	}
	return d, nil
}

func (d *Descriptor) validate() error {
	if d.name == "" {
		return fmt.Errorf("name is required")
	}
	if len(d.name) > maxNameLength || !nameRegex.MatchString(d.name) {
		return fmt.Errorf("name must match %s and be at most %d characters", nameRegex, maxNameLength)
	}
	if strings.TrimSpace(d.image) == "" {
		return fmt.Errorf("image is required")
	}
	if _, err := name.ParseReference(d.image); err != nil {
		return fmt.Errorf("image %q: %w", d.image, err)
	}
	if len(d.command) == 0 || strings.TrimSpace(d.command[0]) == "" {
		return fmt.Errorf("command is required")
	}

	volumes := make(map[string]struct{}, len(d.volumes))
	for _, v := range d.volumes {
		if v.Name == "" {
			return fmt.Errorf("volume name is required")
		}
		if v.Secret == nil || v.Secret.SecretName == "" {
			return fmt.Errorf("volume %q: secret name is required", v.Name)
		}
		if _, dup := volumes[v.Name]; dup {
			return fmt.Errorf("volume %q declared twice", v.Name)
		}
		volumes[v.Name] = struct{}{}
	}
	for _, m := range d.mounts {
		if !strings.HasPrefix(m.MountPath, "/") {
			return fmt.Errorf("volume %q: mount path %q must be absolute", m.Name, m.MountPath)
		}
	}

	envs := make(map[string]struct{}, len(d.env))
	for _, e := range d.env {
		if e.Name == "" {
			return fmt.Errorf("env name is required")
		}
		if _, dup := envs[e.Name]; dup {
			return fmt.Errorf("env %q declared twice", e.Name)
		}
		envs[e.Name] = struct{}{}
		if e.ValueFrom != nil {
			ref := e.ValueFrom.SecretKeyRef
			if ref == nil || ref.Name == "" || ref.Key == "" {
				return fmt.Errorf("env %q: secret reference needs both name and key", e.Name)
			}
		}
	}
	return nil
}

// Name returns the descriptor's unique step name.
func (d *Descriptor) Name() string { return d.name }

// Image returns the container image reference.
func (d *Descriptor) Image() string { return d.image }

// Command returns a copy of the command tokens.
func (d *Descriptor) Command() []string { return clone(d.command) }

// Args returns a copy of the argument tokens.
func (d *Descriptor) Args() []string { return clone(d.args) }

// Volumes returns deep copies of the declared volumes.
func (d *Descriptor) Volumes() []kubecore.Volume {
	out := make([]kubecore.Volume, 0, len(d.volumes))
	for _, v := range d.volumes {
		out = append(out, *v.DeepCopy())
	}
	return out
}

// VolumeMounts returns copies of the container mounts.
func (d *Descriptor) VolumeMounts() []kubecore.VolumeMount {
	out := make([]kubecore.VolumeMount, 0, len(d.mounts))
	for _, m := range d.mounts {
		out = append(out, *m.DeepCopy())
	}
	return out
}

// Env returns deep copies of the environment variables.
func (d *Descriptor) Env() []kubecore.EnvVar {
	out := make([]kubecore.EnvVar, 0, len(d.env))
	for _, e := range d.env {
		out = append(out, *e.DeepCopy())
	}
	return out
}

// MountPath returns where the named volume is mounted, or "" if it is only
// declared.
func (d *Descriptor) MountPath(volumeName string) string {
	for _, m := range d.mounts {
		if m.Name == volumeName {
			return m.MountPath
		}
	}
	return ""
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
