package cli

import (
	"fmt"
	"sort"
	"strings"
)

// keyValueFlag collects repeated `-flag key=value` occurrences.
type keyValueFlag struct {
	values map[string]string
}

func (f *keyValueFlag) String() string {
	if f == nil || len(f.values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+f.values[k])
	}
	return strings.Join(pairs, ",")
}

func (f *keyValueFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, dup := f.values[k]; dup {
		return fmt.Errorf("%q given more than once", k)
	}
	f.values[k] = v
	return nil
}
