package sorting

import "golang.org/x/exp/constraints"

// LibrarySort is a gapped insertion sort. Elements are dropped into free
// gaps of a sorted "library"; when a gap is already taken the library is
// rebuilt with the gaps folded in. Equal elements are not guaranteed to keep
// their relative order.
type LibrarySort[T constraints.Integer] struct{}

func (LibrarySort[T]) Name() string { return "library" }

func (LibrarySort[T]) Sort(a []T) (int, error) {
	if len(a) < 2 {
		return 0, nil
	}
	return librarySort(a, len(a)), nil
}

// library is the working state of one librarySort call.
//   shelf[active][:size] is sorted;
//   gap k, when marked, holds a value that sorts right before shelf[active][k].
type library[T constraints.Integer] struct {
	shelf  [2][]T
	active int
	size   int
	gaps   []T
	marked []bool
	steps  int
}

func librarySort[T constraints.Integer](a []T, n int) int {
	if n <= 0 || n != len(a) {
		panic("assert length > 0 && length == len(a)")
	}
	lib := &library[T]{
		shelf:  [2][]T{make([]T, n), make([]T, n)},
		gaps:   make([]T, n+1),
		marked: make([]bool, n+1),
	}
	lib.shelf[lib.active][0] = a[0]
	lib.size = 1

	for i := 1; i < n; {
		slot := lib.search(a[i])
		if lib.marked[slot] {
			// gap taken: fold all gaps into a fresh shelf and retry a[i]
			lib.rebuild()
			continue
		}
		lib.marked[slot] = true
		lib.gaps[slot] = a[i]
		lib.steps++
		i++
	}

	lib.drainInto(a)
	return lib.steps
}

// search returns the gap index for v: the first shelf position holding a
// value greater than v, so v lands after its equals.
func (l *library[T]) search(v T) int {
	books := l.shelf[l.active]
	lo, hi := 0, l.size
	for lo < hi {
		l.steps++
		mid := int(uint(lo+hi) >> 1)
		if books[mid] <= v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// rebuild interleaves the marked gaps with the shelf into the standby shelf,
// clears every mark and makes the standby shelf active.
func (l *library[T]) rebuild() {
	next := 1 - l.active
	l.size = l.interleave(l.shelf[next])
	l.active = next
}

// drainInto writes the final ordering into out.
func (l *library[T]) drainInto(out []T) {
	if n := l.interleave(out); n != len(out) {
		panic("assert drained == length")
	}
}

func (l *library[T]) interleave(dst []T) int {
	books := l.shelf[l.active]
	w := 0
	for k := 0; k <= l.size; k++ {
		if l.marked[k] {
			dst[w] = l.gaps[k]
			w++
			l.marked[k] = false
			l.steps++
		}
		if k < l.size {
			dst[w] = books[k]
			w++
			l.steps++
		}
	}
	return w
}
