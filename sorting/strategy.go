// Package sorting provides interchangeable integer sort strategies: an
// adaptive merge sort (TimSort) and a gapped insertion sort (library sort),
// plus helpers to sort only the even or only the odd elements of a slice.
//
// Every Sort call reports the number of elementary operations it performed.
// The count is for diagnostics only and is reset on every call.
package sorting

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Strategy sorts a slice in place in ascending order.
//
// Sort must handle empty and single-element slices, must not change the
// slice length, and returns the operation count of the call. The only error
// a Strategy returns is ErrOrderingViolated.
type Strategy[T constraints.Integer] interface {
	Name() string
	Sort(a []T) (int, error)
}

// Kind selects one of the built-in strategies.
type Kind int

const (
	KindTimSort Kind = iota
	KindLibrary
)

func (k Kind) String() string {
	switch k {
	case KindTimSort:
		return "timsort"
	case KindLibrary:
		return "library"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a strategy name ("timsort", "library") to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "timsort", "tim":
		return KindTimSort, nil
	case "library", "librarysort", "library-sort":
		return KindLibrary, nil
	}
	return 0, fmt.Errorf("unknown sort strategy %q", s)
}

// New returns the strategy for k. It panics on an unknown Kind.
func New[T constraints.Integer](k Kind) Strategy[T] {
	switch k {
	case KindTimSort:
		return TimSort[T]{}
	case KindLibrary:
		return LibrarySort[T]{}
	}
	panic(fmt.Sprintf("assert known strategy kind, got %v", k))
}

// IsSorted reports whether a is in ascending order.
func IsSorted[T constraints.Ordered](a []T) bool {
	for i := len(a) - 1; i > 0; i-- {
		if a[i] < a[i-1] {
			return false
		}
	}
	return true
}
