// Package param declares the typed parameter schema of a pipeline template
// and resolves caller overrides against it.
package param

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingParameter means a parameter has neither a default nor an override.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrUnknownParameter means an override names a parameter the schema does not declare.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidParameter means a value does not match its declared type.
	ErrInvalidParameter = errors.New("invalid parameter value")
)

// Type is the declared type of a parameter.
type Type string

const (
	String Type = "string"
	Int    Type = "int"
	// URI is a string that must carry a scheme, e.g. "gs://bucket/dir".
	URI Type = "uri"
)

// Param declares one template parameter.
type Param struct {
	Name        string
	Type        Type
	Default     *string
	Description string
}

// Required reports whether the parameter must be supplied by the caller.
func (p Param) Required() bool { return p.Default == nil }

// Check validates a raw value against the parameter's type.
func (p Param) Check(value string) error {
	switch p.Type {
	case String, "":
		return nil
	case Int:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidParameter, p.Name, value)
		}
		return nil
	case URI:
		if !HasScheme(value) {
			return fmt.Errorf("%w: %s=%q is not a URI (expected scheme://...)", ErrInvalidParameter, p.Name, value)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s has unsupported type %q", ErrInvalidParameter, p.Name, p.Type)
	}
}

// HasScheme reports whether s looks like "scheme://rest".
func HasScheme(s string) bool {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok || scheme == "" || rest == "" {
		return false
	}
	for i, r := range scheme {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 && !isAlpha {
			return false
		}
		if !isAlpha && !(r >= '0' && r <= '9') && r != '+' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

// Default is a helper for declaring a parameter default inline.
func Default(v string) *string { return &v }

// Schema is an ordered list of parameters. Order is preserved in every
// serialized form.
type Schema []Param

// Lookup returns the parameter with the given name.
func (s Schema) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Validate checks the schema itself: names are unique and non-empty and
// every default matches its type.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, p := range s {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("parameter[%d] name is required", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("parameter %q declared twice", p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.Default != nil {
			if err := p.Check(*p.Default); err != nil {
				return fmt.Errorf("parameter %q default: %w", p.Name, err)
			}
		}
	}
	return nil
}

// Resolve merges overrides over defaults. Each parameter resolves to its
// override when one is given and to its default otherwise.
func (s Schema) Resolve(overrides map[string]string) (Values, error) {
	if err := s.Validate(); err != nil {
		return Values{}, err
	}
	for name := range overrides {
		if _, ok := s.Lookup(name); !ok {
			return Values{}, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
	}

	values := Values{schema: s, values: make(map[string]string, len(s))}
	for _, p := range s {
		v, ok := overrides[p.Name]
		if !ok {
			if p.Default == nil {
				return Values{}, fmt.Errorf("%w: %q has no default and no override", ErrMissingParameter, p.Name)
			}
			v = *p.Default
		}
		if err := p.Check(v); err != nil {
			return Values{}, err
		}
		values.values[p.Name] = v
	}
	return values, nil
}
