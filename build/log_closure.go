package build

import (
	"github.com/davecgh/go-spew/spew"
)

// LogClosure defers an expensive log argument until a handler actually formats
// the line.
type LogClosure func() string

// String invokes the underlying function and returns the result.
func (c LogClosure) String() string {
	return c()
}

// NewLogClosure wraps c so it can be passed to a log call as a fmt.Stringer.
func NewLogClosure(c func() string) LogClosure {
	return LogClosure(c)
}

// SpewLogClosure returns a LogClosure dumping a with spew.
func SpewLogClosure(a any) LogClosure {
	return func() string {
		return spew.Sdump(a)
	}
}
