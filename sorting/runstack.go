package sorting

// run is a sorted stretch a[base:base+len] waiting to be merged.
type run struct {
	base int
	len  int
}

/**
runStack holds the runs that have been found but not yet merged.
Adjacent entries are contiguous: runs[i].base + runs[i].len == runs[i+1].base.

After every collapse the stack satisfies, for all valid i:
  ① runs[i-2].len > runs[i-1].len + runs[i].len
  ② runs[i-1].len > runs[i].len
so run lengths grow at least as fast as the Fibonacci numbers and the depth
is logarithmic in the input length.
*/
type runStack struct {
	runs []run
}

// newRunStack sizes the stack for an input of n elements. Pushing beyond
// that depth means the invariant was broken and panics.
func newRunStack(n int) *runStack {
	return &runStack{runs: make([]run, 0, stackLen(n))}
}

func stackLen(n int) int {
	switch {
	case n < 120:
		return 5
	case n < 1542:
		return 10
	case n < 119151:
		return 24
	default:
		return 49
	}
}

func (s *runStack) size() int {
	return len(s.runs)
}

func (s *runStack) push(base, n int) {
	if len(s.runs) == cap(s.runs) {
		panic("assert stackSize < maxStackSize")
	}
	s.runs = append(s.runs, run{base: base, len: n})
}

/**
collapseAt picks the pair (i, i+1) that has to be merged to restore the
invariant, looking at the top three runs and the one below them. When both
conditions fail the smaller neighbour of the middle run is merged first.
ok is false when the stack is already balanced.
*/
func (s *runStack) collapseAt() (i int, ok bool) {
	if len(s.runs) < 2 {
		return 0, false
	}
	r := s.runs
	n := len(r) - 2
	if (n > 0 && r[n-1].len <= r[n].len+r[n+1].len) ||
		(n > 1 && r[n-2].len <= r[n-1].len+r[n].len) {
		if r[n-1].len < r[n+1].len {
			n--
		}
		return n, true
	}
	if r[n].len <= r[n+1].len {
		return n, true
	}
	return 0, false
}

// forceCollapseAt picks the next pair to merge once the input is exhausted.
func (s *runStack) forceCollapseAt() (i int, ok bool) {
	if len(s.runs) < 2 {
		return 0, false
	}
	r := s.runs
	n := len(r) - 2
	if n > 0 && r[n-1].len < r[n+1].len {
		n--
	}
	return n, true
}

/**
merge replaces runs i and i+1 with their union and returns the two runs as
they were. i must be the second-last or third-last entry.
[run1,run2,run3,run4] merge(1) => [run1,run2+run3,run4]
*/
func (s *runStack) merge(i int) (run, run) {
	size := len(s.runs)
	if size < 2 {
		panic("assert stackSize >= 2")
	}
	if i < 0 || i != size-2 && i != size-3 {
		panic("assert i >= 0 && (i == stackSize - 2 || i == stackSize - 3)")
	}
	r1, r2 := s.runs[i], s.runs[i+1]
	if r1.len <= 0 || r2.len <= 0 || r1.base+r1.len != r2.base {
		panic("assert len1 > 0 && len2 > 0 && base1 + len1 == base2")
	}
	s.runs[i].len = r1.len + r2.len
	if i == size-3 {
		s.runs[i+1] = s.runs[i+2]
	}
	s.runs = s.runs[:size-1]
	return r1, r2
}

// invariantHolds checks ① and ② over the whole stack.
func (s *runStack) invariantHolds() bool {
	r := s.runs
	for i := 1; i < len(r); i++ {
		if r[i-1].len <= r[i].len {
			return false
		}
		if i >= 2 && r[i-2].len <= r[i-1].len+r[i].len {
			return false
		}
	}
	return true
}
