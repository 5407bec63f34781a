// Package extract flattens a runner's reported entity tree into an ordered
// list of test-case results.
package extract

import "ptb/internal/runner"

// Kind is the classified shape of a reported entity.
type Kind int

const (
	// KindCollection groups child entities and has no outcome of its own.
	KindCollection Kind = iota
	// KindCase is a leaf with a terminal outcome.
	KindCase
)

// Classify decides whether an entity is a grouping or a test case. The
// decision rests only on structural shape: a terminal status makes a case,
// children make a collection. A node with neither shape (e.g. one that
// errored before a status was assigned) is treated as a case so that its
// presence survives into the output instead of aborting the walk. Classify
// is total: it never fails, including on nil.
func Classify(e *runner.Entity) Kind {
	if e == nil {
		return KindCase
	}
	if e.Status != "" {
		return KindCase
	}
	if e.Children != nil {
		return KindCollection
	}
	return KindCase
}
