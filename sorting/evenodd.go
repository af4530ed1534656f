package sorting

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
)

// Mode restricts a sort to a parity class.
type Mode int

const (
	ModeAll Mode = iota
	ModeEven
	ModeOdd
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeEven:
		return "even"
	case ModeOdd:
		return "odd"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "all", "even" or "odd" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return ModeAll, nil
	case "even":
		return ModeEven, nil
	case "odd":
		return ModeOdd, nil
	}
	return 0, fmt.Errorf("unknown sort mode %q", s)
}

func isEven[T constraints.Integer](v T) bool {
	return v%2 == 0
}

/**
SortEvenOdd sorts only the even (even == true) or only the odd elements of a
with s. The matching elements are pulled out in order, sorted, and written
back to the positions they came from; every other element keeps its
position and value.

  [5,3,4,1,2] even => [5,3,2,1,4]
*/
func SortEvenOdd[T constraints.Integer](a []T, s Strategy[T], even bool) (int, error) {
	if s == nil {
		panic("assert strategy != nil")
	}
	match := func(v T, _ int) bool { return isEven(v) == even }

	sub := lo.Filter(a, match)
	if len(sub) == 0 {
		return 0, nil
	}
	steps, err := s.Sort(sub)
	if err != nil {
		return steps, fmt.Errorf("sort %s elements with %s: %w", parityName(even), s.Name(), err)
	}

	j := 0
	for i, v := range a {
		if match(v, i) {
			a[i] = sub[j]
			j++
		}
	}
	return steps, nil
}

func parityName(even bool) string {
	if even {
		return "even"
	}
	return "odd"
}
