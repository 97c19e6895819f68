package param

import (
	"fmt"
	"strconv"
)

// Values is the resolved parameter set of one template instantiation.
type Values struct {
	schema Schema
	values map[string]string
}

// Schema returns the schema the values were resolved against.
func (v Values) Schema() Schema { return v.schema }

// Names returns parameter names in schema order.
func (v Values) Names() []string {
	names := make([]string, 0, len(v.schema))
	for _, p := range v.schema {
		names = append(names, p.Name)
	}
	return names
}

// Lookup returns the raw value of a parameter.
func (v Values) Lookup(name string) (string, bool) {
	s, ok := v.values[name]
	return s, ok
}

// String returns the value of a parameter. It panics on an undeclared name,
// which is a programming error in the template, not a user error.
func (v Values) String(name string) string {
	s, ok := v.values[name]
	if !ok {
		panic(fmt.Sprintf("param: %q is not declared in the schema", name))
	}
	return s
}

// Int returns the integer value of a parameter.
func (v Values) Int(name string) int {
	n, err := strconv.Atoi(v.String(name))
	if err != nil {
		panic(fmt.Sprintf("param: %q is not an integer: %v", name, err))
	}
	return n
}

// Check verifies that every declared parameter has a value.
func (v Values) Check() error {
	for _, p := range v.schema {
		if _, ok := v.values[p.Name]; !ok {
			return fmt.Errorf("%w: %q has no default and no override", ErrMissingParameter, p.Name)
		}
	}
	return nil
}
