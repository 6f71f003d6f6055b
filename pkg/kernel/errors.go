package kernel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrNotFound is matched by every *NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrUnknownParameter is returned when a step has no parameter of the given name
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidArgument is returned for malformed mutation requests
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundError reports an unknown workbench or step name
type NotFoundError struct {
	Kind       string // "workbench" or "step"
	Name       string
	Workbench  string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q not found", e.Kind, e.Name)
	if e.Workbench != "" {
		fmt.Fprintf(&b, " in workbench %q", e.Workbench)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	return b.String()
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func newNotFound(kind, name, workbench string, candidates []string) *NotFoundError {
	return &NotFoundError{
		Kind:       kind,
		Name:       name,
		Workbench:  workbench,
		Suggestion: closest(name, candidates),
	}
}

// closest returns the candidate with the smallest edit distance, as long as
// it is close enough to be a plausible typo
func closest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/3) {
		return ""
	}
	return best
}
