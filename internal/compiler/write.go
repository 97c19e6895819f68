package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/pipegridgo/internal/ctxlog"
)

// WriteFile serializes a in the format implied by path and atomically
// replaces path with the result. On error nothing is left at path.
func WriteFile(ctx context.Context, path string, a *Artifact) error {
	return WriteFiles(ctx, path, "", a)
}

// WriteFiles writes the artifact to path and, when dotPath is not empty,
// its Graphviz rendering to dotPath. Both are serialized and staged next to
// their targets before either is published, so a serialization or disk
// error leaves neither file behind.
func WriteFiles(ctx context.Context, path, dotPath string, a *Artifact) (err error) {
	logger := ctxlog.FromContext(ctx).With("path", path)

	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	logger.Debug("Serializing artifact...", "format", format)
	data, err := Marshal(a, format)
	if err != nil {
		return err
	}
	var dot bytes.Buffer
	if dotPath != "" {
		if err := WriteDot(&dot, a); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	artifactTmp, err := stage(path, data)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(artifactTmp)
		}
	}()

	if dotPath == "" {
		if err = publish(artifactTmp, path); err != nil {
			return err
		}
		logger.Debug("Artifact written.", "bytes", len(data))
		return nil
	}

	dotTmp, err := stage(dotPath, dot.Bytes())
	if err != nil {
		return err
	}
	if err = publish(dotTmp, dotPath); err != nil {
		os.Remove(dotTmp)
		return err
	}
	if err = publish(artifactTmp, path); err != nil {
		os.Remove(dotPath)
		return err
	}
	logger.Debug("Artifact written.", "bytes", len(data), "dot", dotPath)
	return nil
}

// stage writes data to a synced temporary file in path's directory and
// returns its name.
func stage(path string, data []byte) (name string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return "", fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return "", fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}

func publish(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publishing %s: %w", path, err)
	}
	return nil
}
