package lazy

import (
	"fmt"
	"strings"
)

// CycleError reports a cyclic dependency: a key requested its own evaluation
// while that evaluation was still in progress. Chain holds the key labels on
// the logical evaluation stack from the first occurrence of the key through
// the re-entrant request.
type CycleError struct {
	Graph string
	Key   string
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("lazy: cyclic dependency at %s[%s]: %s",
		e.Graph, e.Key, strings.Join(e.Chain, " -> "))
}

// EvaluationError wraps whatever a defining function returned (or panicked
// with) for one key. It is memoized on the failed node and returned
// identically on every later Get.
type EvaluationError struct {
	Graph string
	Key   string
	Err   error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("lazy: evaluating %s[%s]: %v", e.Graph, e.Key, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
