package sorting

import (
	"errors"
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

const (
	// inputs shorter than this are sorted with a single binary insertion sort
	minMerge = 32
	// consecutive wins before a merge switches to galloping
	defaultMinGallop = 7
	// upper bound of the initial merge buffer
	initialTmpStorageLength = 256
)

// ErrOrderingViolated is returned when a merge reaches a state that is
// impossible under a total order, which means the comparison function is not
// a valid ordering. The slice is left in an unspecified order.
var ErrOrderingViolated = errors.New("comparison method violates its general contract")

// TimSort is the adaptive merge sort strategy: natural runs, binary insertion
// for short runs and galloping merges. It is stable.
type TimSort[T constraints.Integer] struct{}

func (TimSort[T]) Name() string { return "timsort" }

func (TimSort[T]) Sort(a []T) (int, error) {
	return SortFunc(a, func(x, y T) bool { return x < y })
}

// SortFunc sorts a in place with TimSort using less as the ordering and
// returns the number of operations performed. Elements that compare equal
// keep their relative order.
//
// less must be a strict weak ordering. If it is not, SortFunc may return an
// error wrapping ErrOrderingViolated.
func SortFunc[T any](a []T, less func(a, b T) bool) (int, error) {
	if less == nil {
		panic("assert less != nil")
	}
	ts := &timSort[T]{a: a, less: less, minGallop: defaultMinGallop}
	err := ts.sort()
	return ts.steps, err
}

// timSort is the state of one sort call. Nothing in it outlives the call.
type timSort[T any] struct {
	a         []T
	less      func(a, b T) bool
	minGallop int // adapts across the merges of this call
	tmp       []T // merge buffer, grown on demand
	stack     *runStack
	steps     int
}

/**
1. Split the slice into runs (ascending stretches). A run shorter than minRun is
   extended with binary insertion sort.
2. Push each run on the stack and merge adjacent runs while the stack invariant
   is violated; when the input is exhausted merge everything down to one run.
*/
func (ts *timSort[T]) sort() error {
	lo, hi := 0, len(ts.a)
	nRemaining := hi - lo
	if nRemaining < 2 {
		return nil
	}
	if nRemaining < minMerge {
		initRunLen := ts.countRunAndMakeAscending(lo, hi)
		ts.binarySort(lo, hi, lo+initRunLen)
		return nil
	}

	ts.stack = newRunStack(nRemaining)
	tlen := initialTmpStorageLength
	if nRemaining < 2*initialTmpStorageLength {
		tlen = nRemaining >> 1
	}
	ts.tmp = make([]T, tlen)

	minRun := minRunLength(nRemaining)
	for {
		runLen := ts.countRunAndMakeAscending(lo, hi)
		// extend short runs to min(minRun, nRemaining)
		if runLen < minRun {
			force := minRun
			if nRemaining <= minRun {
				force = nRemaining
			}
			ts.binarySort(lo, lo+force, lo+runLen)
			runLen = force
		}
		ts.stack.push(lo, runLen)
		ts.steps++
		if err := ts.mergeCollapse(); err != nil {
			return err
		}

		lo += runLen
		nRemaining -= runLen
		if nRemaining == 0 {
			break
		}
	}
	if lo != hi {
		panic("assert lo == hi")
	}

	if err := ts.mergeForceCollapse(); err != nil {
		return err
	}
	if ts.stack.size() != 1 {
		panic("assert stackSize == 1")
	}
	return nil
}

func (ts *timSort[T]) mergeCollapse() error {
	for {
		i, ok := ts.stack.collapseAt()
		if !ok {
			return nil
		}
		if err := ts.mergeAt(i); err != nil {
			return err
		}
	}
}

func (ts *timSort[T]) mergeForceCollapse() error {
	for {
		i, ok := ts.stack.forceCollapseAt()
		if !ok {
			return nil
		}
		if err := ts.mergeAt(i); err != nil {
			return err
		}
	}
}

// mergeAt merges the runs at stack indices i and i+1.
func (ts *timSort[T]) mergeAt(i int) error {
	r1, r2 := ts.stack.merge(i)
	base1, len1 := r1.base, r1.len
	base2, len2 := r2.base, r2.len

	// elements of run1 not greater than run2's head are already in place
	k := ts.gallopRight(ts.a[base2], ts.a, base1, len1, 0)
	base1 += k
	len1 -= k
	if len1 == 0 {
		return nil
	}
	// elements of run2 not less than run1's tail are already in place
	len2 = ts.gallopLeft(ts.a[base1+len1-1], ts.a, base2, len2, len2-1)
	if len2 == 0 {
		return nil
	}

	if len1 <= len2 {
		return ts.mergeLo(base1, len1, base2, len2)
	}
	return ts.mergeHi(base1, len1, base2, len2)
}

/**
mergeLo merges two adjacent runs front to back, buffering the first one.
It should be called only when len1 <= len2, and expects that the first
element of run1 is greater than the first element of run2 and the last
element of run1 is greater than every element of run2.
*/
func (ts *timSort[T]) mergeLo(base1, len1, base2, len2 int) error {
	if len1 <= 0 || len2 <= 0 || base1+len1 != base2 {
		panic("assert len1 > 0 && len2 > 0 && base1 + len1 == base2")
	}
	a := ts.a
	tmp := ts.ensureCapacity(len1)
	copy(tmp, a[base1:base1+len1])
	ts.steps += len1

	cursor1 := 0     // index into tmp
	cursor2 := base2 // index into a
	dest := base1    // index into a

	a[dest] = a[cursor2]
	dest++
	cursor2++
	len2--
	if len2 == 0 {
		copy(a[dest:], tmp[cursor1:cursor1+len1])
		return nil
	}
	if len1 == 1 {
		copy(a[dest:], a[cursor2:cursor2+len2])
		a[dest+len2] = tmp[cursor1]
		return nil
	}

	minGallop := ts.minGallop
outer:
	for {
		count1 := 0 // times in a row run1 won
		count2 := 0 // times in a row run2 won

		// one pair at a time until one run starts winning consistently
		for {
			ts.steps++
			if ts.less(a[cursor2], tmp[cursor1]) {
				a[dest] = a[cursor2]
				dest++
				cursor2++
				count2++
				count1 = 0
				len2--
				if len2 == 0 {
					break outer
				}
			} else {
				a[dest] = tmp[cursor1]
				dest++
				cursor1++
				count1++
				count2 = 0
				len1--
				if len1 == 1 {
					break outer
				}
			}
			if (count1 | count2) >= minGallop {
				break
			}
		}

		// gallop until neither run wins defaultMinGallop in a row
		for {
			ts.steps++
			count1 = ts.gallopRight(a[cursor2], tmp, cursor1, len1, 0)
			if count1 != 0 {
				copy(a[dest:], tmp[cursor1:cursor1+count1])
				dest += count1
				cursor1 += count1
				len1 -= count1
				if len1 <= 1 {
					break outer
				}
			}
			a[dest] = a[cursor2]
			dest++
			cursor2++
			len2--
			if len2 == 0 {
				break outer
			}

			count2 = ts.gallopLeft(tmp[cursor1], a, cursor2, len2, 0)
			if count2 != 0 {
				copy(a[dest:], a[cursor2:cursor2+count2])
				dest += count2
				cursor2 += count2
				len2 -= count2
				if len2 == 0 {
					break outer
				}
			}
			a[dest] = tmp[cursor1]
			dest++
			cursor1++
			len1--
			if len1 == 1 {
				break outer
			}
			minGallop--
			if count1 < defaultMinGallop && count2 < defaultMinGallop {
				break
			}
		}
		if minGallop < 0 {
			minGallop = 0
		}
		minGallop += 2 // penalty for leaving gallop mode
	}
	if minGallop < 1 {
		minGallop = 1
	}
	ts.minGallop = minGallop

	switch {
	case len1 == 1:
		copy(a[dest:], a[cursor2:cursor2+len2])
		a[dest+len2] = tmp[cursor1] // last element of run1 goes last
	case len1 == 0:
		return fmt.Errorf("merge lo at %d: %w", base1, ErrOrderingViolated)
	default:
		copy(a[dest:], tmp[cursor1:cursor1+len1])
	}
	return nil
}

/**
mergeHi is the mirror of mergeLo: it buffers the second run and merges back
to front. It should be called only when len1 >= len2.
*/
func (ts *timSort[T]) mergeHi(base1, len1, base2, len2 int) error {
	if len1 <= 0 || len2 <= 0 || base1+len1 != base2 {
		panic("assert len1 > 0 && len2 > 0 && base1 + len1 == base2")
	}
	a := ts.a
	tmp := ts.ensureCapacity(len2)
	copy(tmp, a[base2:base2+len2])
	ts.steps += len2

	cursor1 := base1 + len1 - 1 // index into a
	cursor2 := len2 - 1         // index into tmp
	dest := base2 + len2 - 1    // index into a

	a[dest] = a[cursor1]
	dest--
	cursor1--
	len1--
	if len1 == 0 {
		copy(a[dest-(len2-1):], tmp[:len2])
		return nil
	}
	if len2 == 1 {
		dest -= len1
		cursor1 -= len1
		copy(a[dest+1:], a[cursor1+1:cursor1+1+len1])
		a[dest] = tmp[cursor2]
		return nil
	}

	minGallop := ts.minGallop
outer:
	for {
		count1 := 0
		count2 := 0

		for {
			ts.steps++
			if ts.less(tmp[cursor2], a[cursor1]) {
				a[dest] = a[cursor1]
				dest--
				cursor1--
				count1++
				count2 = 0
				len1--
				if len1 == 0 {
					break outer
				}
			} else {
				a[dest] = tmp[cursor2]
				dest--
				cursor2--
				count2++
				count1 = 0
				len2--
				if len2 == 1 {
					break outer
				}
			}
			if (count1 | count2) >= minGallop {
				break
			}
		}

		for {
			ts.steps++
			count1 = len1 - ts.gallopRight(tmp[cursor2], a, base1, len1, len1-1)
			if count1 != 0 {
				dest -= count1
				cursor1 -= count1
				len1 -= count1
				copy(a[dest+1:], a[cursor1+1:cursor1+1+count1])
				if len1 == 0 {
					break outer
				}
			}
			a[dest] = tmp[cursor2]
			dest--
			cursor2--
			len2--
			if len2 == 1 {
				break outer
			}

			count2 = len2 - ts.gallopLeft(a[cursor1], tmp, 0, len2, len2-1)
			if count2 != 0 {
				dest -= count2
				cursor2 -= count2
				len2 -= count2
				copy(a[dest+1:], tmp[cursor2+1:cursor2+1+count2])
				if len2 <= 1 {
					break outer
				}
			}
			a[dest] = a[cursor1]
			dest--
			cursor1--
			len1--
			if len1 == 0 {
				break outer
			}
			minGallop--
			if count1 < defaultMinGallop && count2 < defaultMinGallop {
				break
			}
		}
		if minGallop < 0 {
			minGallop = 0
		}
		minGallop += 2
	}
	if minGallop < 1 {
		minGallop = 1
	}
	ts.minGallop = minGallop

	switch {
	case len2 == 1:
		dest -= len1
		cursor1 -= len1
		copy(a[dest+1:], a[cursor1+1:cursor1+1+len1])
		a[dest] = tmp[cursor2] // first element of run2 goes first
	case len2 == 0:
		return fmt.Errorf("merge hi at %d: %w", base1, ErrOrderingViolated)
	default:
		copy(a[dest-(len2-1):], tmp[:len2])
	}
	return nil
}

/**
gallopLeft locates the position at which to insert key into the sorted range
a[base:base+length]; if the range holds elements equal to key it returns the
index of the leftmost one. hint (0 <= hint < length) is where the search
starts; the closer it is to the result the faster the search.
Returns k, 0 <= k <= length, such that a[base+k-1] < key <= a[base+k].
*/
func (ts *timSort[T]) gallopLeft(key T, a []T, base, length, hint int) int {
	if length <= 0 || hint < 0 || hint >= length {
		panic("assert len > 0 && hint >= 0 && hint < len")
	}
	lastOfs := 0
	ofs := 1
	if ts.less(a[base+hint], key) {
		// gallop right until a[base+hint+lastOfs] < key <= a[base+hint+ofs]
		maxOfs := length - hint
		for ofs < maxOfs && ts.less(a[base+hint+ofs], key) {
			ts.steps++
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 { // overflow
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs += hint
		ofs += hint
	} else {
		// gallop left until a[base+hint-ofs] < key <= a[base+hint-lastOfs]
		maxOfs := hint + 1
		for ofs < maxOfs && !ts.less(a[base+hint-ofs], key) {
			ts.steps++
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs, ofs = hint-ofs, hint-lastOfs
	}
	if -1 > lastOfs || lastOfs >= ofs || ofs > length {
		panic("assert -1 <= lastOfs && lastOfs < ofs && ofs <= len")
	}

	// binary search with a[base+lastOfs-1] < key <= a[base+ofs]
	lastOfs++
	for lastOfs < ofs {
		ts.steps++
		m := lastOfs + ((ofs - lastOfs) >> 1)
		if ts.less(a[base+m], key) {
			lastOfs = m + 1
		} else {
			ofs = m
		}
	}
	return ofs
}

/**
gallopRight is like gallopLeft, except that if the range holds elements equal
to key it returns the index after the rightmost one.
Returns k, 0 <= k <= length, such that a[base+k-1] <= key < a[base+k].
*/
func (ts *timSort[T]) gallopRight(key T, a []T, base, length, hint int) int {
	if length <= 0 || hint < 0 || hint >= length {
		panic("assert len > 0 && hint >= 0 && hint < len")
	}
	ofs := 1
	lastOfs := 0
	if ts.less(key, a[base+hint]) {
		// gallop left until a[base+hint-ofs] <= key < a[base+hint-lastOfs]
		maxOfs := hint + 1
		for ofs < maxOfs && ts.less(key, a[base+hint-ofs]) {
			ts.steps++
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs, ofs = hint-ofs, hint-lastOfs
	} else {
		// gallop right until a[base+hint+lastOfs] <= key < a[base+hint+ofs]
		maxOfs := length - hint
		for ofs < maxOfs && !ts.less(key, a[base+hint+ofs]) {
			ts.steps++
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs += hint
		ofs += hint
	}
	if -1 > lastOfs || lastOfs >= ofs || ofs > length {
		panic("assert -1 <= lastOfs && lastOfs < ofs && ofs <= len")
	}

	lastOfs++
	for lastOfs < ofs {
		ts.steps++
		m := lastOfs + ((ofs - lastOfs) >> 1)
		if ts.less(key, a[base+m]) {
			ofs = m
		} else {
			lastOfs = m + 1
		}
	}
	return ofs
}

/**
binarySort sorts a[lo:hi] with binary insertion sort, assuming a[lo:start] is
already sorted. O(n log n) comparisons but O(n^2) moves, which is the best
trade-off for short ranges.
*/
func (ts *timSort[T]) binarySort(lo, hi, start int) {
	if lo > start || start > hi {
		panic("assert lo <= start && start <= hi")
	}
	a := ts.a
	if start == lo {
		start++
	}
	for ; start < hi; start++ {
		pivot := a[start]
		left, right := lo, start
		// pivot >= all in [lo, left), pivot < all in [right, start)
		for left < right {
			ts.steps++
			mid := int(uint(left+right) >> 1)
			if ts.less(pivot, a[mid]) {
				right = mid
			} else {
				left = mid + 1
			}
		}
		n := start - left // elements to shift right
		switch n {
		case 2:
			a[left+2] = a[left+1]
			a[left+1] = a[left]
		case 1:
			a[left+1] = a[left]
		default:
			copy(a[left+1:], a[left:left+n])
		}
		a[left] = pivot
		ts.steps++
	}
}

/**
countRunAndMakeAscending returns the length of the run starting at lo and
reverses it in place if it is descending. A descending run must be strictly
descending so that the reversal keeps equal elements in order.
*/
func (ts *timSort[T]) countRunAndMakeAscending(lo, hi int) int {
	a := ts.a
	runHi := lo + 1
	if runHi == hi {
		return 1
	}
	ts.steps++
	if ts.less(a[runHi], a[lo]) {
		runHi++
		for runHi < hi && ts.less(a[runHi], a[runHi-1]) {
			ts.steps++
			runHi++
		}
		reverseRange(a, lo, runHi)
	} else {
		runHi++
		for runHi < hi && !ts.less(a[runHi], a[runHi-1]) {
			ts.steps++
			runHi++
		}
	}
	return runHi - lo
}

// ensureCapacity grows the merge buffer to at least minCapacity, rounding up
// to a power of two but never past half the input.
func (ts *timSort[T]) ensureCapacity(minCapacity int) []T {
	if len(ts.tmp) < minCapacity {
		newSize := 1 << bits.Len(uint(minCapacity))
		if half := len(ts.a) >> 1; newSize > half {
			newSize = half
		}
		if newSize < minCapacity {
			newSize = minCapacity
		}
		ts.tmp = make([]T, newSize)
		ts.steps++
	}
	return ts.tmp
}

func reverseRange[T any](a []T, lo, hi int) {
	hi--
	for lo < hi {
		a[lo], a[hi] = a[hi], a[lo]
		lo++
		hi--
	}
}

/**
minRunLength returns the minimum acceptable run length for n elements.
  if n < minMerge, n itself;
  if n is an exact power of two, minMerge/2;
  otherwise k, minMerge/2 <= k <= minMerge, such that n/k is close to, but
  strictly less than, an exact power of two.
*/
func minRunLength(n int) int {
	if n < 0 {
		panic("assert n >= 0")
	}
	r := 0 // becomes 1 if any 1 bits are shifted off
	for n >= minMerge {
		r |= n & 1
		n >>= 1
	}
	return n + r
}
