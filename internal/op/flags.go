package op

import (
	"fmt"
	"strconv"
)

// Flag formats a single `--name=value` invocation token.
func Flag(name, value string) string {
	return fmt.Sprintf("--%s=%s", name, value)
}

// IntFlag formats an integer-valued `--name=value` token.
func IntFlag(name string, value int) string {
	return Flag(name, strconv.Itoa(value))
}
