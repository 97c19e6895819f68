package hcl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/pipegridgo/internal/config"
	"github.com/specialistvlad/pipegridgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateRun converts a decoded pipeline block into the agnostic model.
func translateRun(ctx context.Context, b *pipelineBlock, evalCtx *hcl.EvalContext) (*config.Run, error) {
	logger := ctxlog.FromContext(ctx).With("pipeline", b.Name)
	logger.Debug("Translating HCL pipeline block to internal config model.")

	params, err := stringMap(b.Parameters, evalCtx, "parameters")
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", b.Name, err)
	}
	images, err := stringMap(b.Images, evalCtx, "images")
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", b.Name, err)
	}

	return &config.Run{
		Pipeline:   b.Name,
		RunID:      deref(b.RunID),
		Suffix:     deref(b.Suffix),
		Output:     deref(b.Output),
		Dot:        deref(b.Dot),
		Parameters: params,
		Images:     images,
	}, nil
}

// stringMap evaluates an object or map expression whose values are
// primitives and renders every value as a string. An absent attribute
// yields nil.
func stringMap(expr hcl.Expression, evalCtx *hcl.EvalContext, attr string) (map[string]string, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating %s: %w", attr, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%s must be an object, got %s", attr, ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("%s contains unknown values", attr)
	}

	out := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		if v.IsNull() {
			return nil, fmt.Errorf("%s.%s must not be null", attr, key)
		}
		if !v.Type().IsPrimitiveType() {
			return nil, fmt.Errorf("%s.%s must be a string, number or bool, got %s", attr, key, v.Type().FriendlyName())
		}
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", attr, key, err)
		}
		var s string
		if err := gocty.FromCtyValue(sv, &s); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", attr, key, err)
		}
		out[key] = s
	}
	return out, nil
}

// isExprDefined reports whether an optional attribute was set. gohcl
// fills an absent optional hcl.Expression with a synthetic null literal.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.Start != rng.End
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// evalContext exposes the environment as `env` and a few string functions.
func (l *Loader) evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	if l.environ != nil {
		vars := l.environ()
		sort.Strings(vars)
		for _, kv := range vars {
			k, v, ok := strings.Cut(kv, "=")
			if ok && k != "" {
				env[k] = cty.StringVal(v)
			}
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
		},
	}
}
