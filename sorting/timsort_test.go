package sorting

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func intLess(a, b int) bool { return a < b }

func strategies() []Strategy[int] {
	return []Strategy[int]{TimSort[int]{}, LibrarySort[int]{}}
}

func sortedCopy(a []int) []int {
	b := slices.Clone(a)
	sort.Ints(b)
	return b
}

func TestSortEdgeCases(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := make([]int, 500)
	for i := range random {
		random[i] = rng.Intn(1000) - 500
	}
	ascending := make([]int, 300)
	descending := make([]int, 300)
	for i := range ascending {
		ascending[i] = i
		descending[i] = len(descending) - i
	}

	tests := []struct {
		name string
		in   []int
	}{
		{"empty", []int{}},
		{"nil", nil},
		{"single", []int{5}},
		{"two reversed", []int{2, 1}},
		{"small mixed", []int{5, 3, 4, 1, 2}},
		{"all equal", []int{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}},
		{"ascending", ascending},
		{"descending", descending},
		{"negatives", []int{-3, 10, -7, 0, 4, -1, 2}},
		{"random", random},
	}
	for _, s := range strategies() {
		for _, tt := range tests {
			t.Run(s.Name()+"/"+tt.name, func(t *testing.T) {
				got := slices.Clone(tt.in)
				_, err := s.Sort(got)
				require.NoError(t, err)
				assert.Len(t, got, len(tt.in))
				assert.True(t, IsSorted(got), "not sorted: %v", got)
				assert.Equal(t, sortedCopy(tt.in), got)
			})
		}
	}
}

func TestTimSortSmallScenario(t *testing.T) {
	a := []int{5, 3, 4, 1, 2}
	steps, err := TimSort[int]{}.Sort(a)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, a)
	assert.Positive(t, steps)
}

func TestTimSortRandomSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{31, 32, 33, 63, 64, 65, 255, 256, 257, 511, 512, 1000, 4096, 10007, 100000} {
		a := make([]int, n)
		for i := range a {
			a[i] = rng.Intn(n)
		}
		want := sortedCopy(a)
		_, err := TimSort[int]{}.Sort(a)
		require.NoError(t, err, "n=%d", n)
		require.Equal(t, want, a, "n=%d", n)
	}
}

// Partially ordered input exercises run detection, galloping and both merge
// directions.
func TestTimSortStructuredInput(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	build := map[string]func(n int) []int{
		"sawtooth": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i % 97
			}
			return a
		},
		"descending blocks": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = (i/200)*1000 - i%200
			}
			return a
		},
		"sorted with noise": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			for k := 0; k < n/50; k++ {
				i, j := rng.Intn(n), rng.Intn(n)
				a[i], a[j] = a[j], a[i]
			}
			return a
		},
		"two interleaved ranges": func(n int) []int {
			a := make([]int, n)
			for i := 0; i < n/2; i++ {
				a[i] = 2 * i
			}
			for i := n / 2; i < n; i++ {
				a[i] = 2*(i-n/2) + 1
			}
			return a
		},
		"big run then small run": func(n int) []int {
			a := make([]int, n)
			for i := 0; i < n-100; i++ {
				a[i] = i + 1000
			}
			for i := n - 100; i < n; i++ {
				a[i] = rng.Intn(n + 1000)
			}
			return a
		},
		"few distinct": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = rng.Intn(4)
			}
			return a
		},
	}
	for name, gen := range build {
		t.Run(name, func(t *testing.T) {
			a := gen(20000)
			want := sortedCopy(a)
			_, err := TimSort[int]{}.Sort(a)
			require.NoError(t, err)
			assert.Equal(t, want, a)
		})
	}
}

func TestSortFuncStable(t *testing.T) {
	type pair struct {
		key, idx int
	}
	rng := rand.New(rand.NewSource(11))
	for _, n := range []int{20, 100, 5000} {
		a := make([]pair, n)
		for i := range a {
			a[i] = pair{key: rng.Intn(10), idx: i}
		}
		_, err := SortFunc(a, func(x, y pair) bool { return x.key < y.key })
		require.NoError(t, err)
		for i := 1; i < n; i++ {
			require.LessOrEqual(t, a[i-1].key, a[i].key)
			if a[i-1].key == a[i].key {
				require.Less(t, a[i-1].idx, a[i].idx, "n=%d, position %d", n, i)
			}
		}
	}
}

func TestSortFuncDescendingRunStaysStable(t *testing.T) {
	type pair struct {
		key, idx int
	}
	// strictly descending keys with a plateau: only the strict part may be reversed
	keys := []int{9, 8, 7, 7, 7, 6, 5, 4, 3, 2, 1, 0}
	a := make([]pair, len(keys))
	for i, k := range keys {
		a[i] = pair{k, i}
	}
	_, err := SortFunc(a, func(x, y pair) bool { return x.key < y.key })
	require.NoError(t, err)
	var sevens []int
	for _, p := range a {
		if p.key == 7 {
			sevens = append(sevens, p.idx)
		}
	}
	assert.Equal(t, []int{2, 3, 4}, sevens)
}

func TestSortIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := make([]int, 3000)
	for i := range a {
		a[i] = rng.Intn(100)
	}
	for _, s := range strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			once := slices.Clone(a)
			_, err := s.Sort(once)
			require.NoError(t, err)
			twice := slices.Clone(once)
			_, err = s.Sort(twice)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(1000))
	a := make([]int, 1000)
	for i := range a {
		a[i] = rng.Intn(100)
	}
	tim := slices.Clone(a)
	lib := slices.Clone(a)
	_, err := TimSort[int]{}.Sort(tim)
	require.NoError(t, err)
	_, err = LibrarySort[int]{}.Sort(lib)
	require.NoError(t, err)
	assert.Equal(t, tim, lib)
}

func TestSortStepsResetPerCall(t *testing.T) {
	for _, s := range strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			in := []int{9, 1, 8, 2, 7, 3, 6, 4, 5}
			first, err := s.Sort(slices.Clone(in))
			require.NoError(t, err)
			second, err := s.Sort(slices.Clone(in))
			require.NoError(t, err)
			assert.Equal(t, first, second)
			assert.Positive(t, first)

			steps, err := s.Sort([]int{})
			require.NoError(t, err)
			assert.Zero(t, steps)
		})
	}
}

func TestMinRunLength(t *testing.T) {
	assert.Equal(t, 0, minRunLength(0))
	assert.Equal(t, 31, minRunLength(31))
	assert.Equal(t, 16, minRunLength(32))
	assert.Equal(t, 16, minRunLength(64))
	assert.Equal(t, 17, minRunLength(65))
	assert.Equal(t, 16, minRunLength(1<<20))
	assert.Equal(t, 31, minRunLength(1_000_000))

	for n := minMerge; n < 1<<16; n++ {
		k := minRunLength(n)
		require.GreaterOrEqual(t, k, minMerge/2, "n=%d", n)
		require.LessOrEqual(t, k, minMerge, "n=%d", n)
		// n/k is at most 2^shift and more than (n/(k-1)) allows
		shift := 0
		for m := n; m >= minMerge; m >>= 1 {
			shift++
		}
		require.GreaterOrEqual(t, k<<shift, n, "n=%d", n)
		require.Less(t, (k-1)<<shift, n, "n=%d", n)
	}
}

func TestMergeLoDetectsBrokenOrdering(t *testing.T) {
	// run1 = 1..10, run2 = [0 100 100 100 100]; the last element of run1 is
	// not greater than run2, which no valid ordering lets mergeAt hand over.
	a := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 0, 100, 100, 100, 100}
	ts := &timSort[int]{a: a, less: intLess, minGallop: defaultMinGallop}
	err := ts.mergeLo(0, 10, 10, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderingViolated)
	assert.Len(t, a, 15)
}

func TestMergeHiDetectsBrokenOrdering(t *testing.T) {
	a := []int{-5, -4, 50, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	ts := &timSort[int]{a: a, less: intLess, minGallop: defaultMinGallop}
	err := ts.mergeHi(0, 3, 3, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderingViolated)
	assert.Len(t, a, 13)
}

func TestGallop(t *testing.T) {
	a := []int{1, 3, 3, 3, 5, 7, 9, 11}
	ts := &timSort[int]{a: a, less: intLess}
	for hint := 0; hint < len(a); hint++ {
		assert.Equal(t, 1, ts.gallopLeft(3, a, 0, len(a), hint), "hint=%d", hint)
		assert.Equal(t, 4, ts.gallopRight(3, a, 0, len(a), hint), "hint=%d", hint)
		assert.Equal(t, 0, ts.gallopLeft(0, a, 0, len(a), hint))
		assert.Equal(t, len(a), ts.gallopRight(20, a, 0, len(a), hint))
	}
	assert.Equal(t, 2, ts.gallopLeft(7, a, 3, 5, 0))
}

func TestSortFuncNilLessPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = SortFunc([]int{2, 1}, nil) })
}

func TestEnsureCapacity(t *testing.T) {
	ts := &timSort[int]{a: make([]int, 1000)}
	assert.Len(t, ts.ensureCapacity(100), 128)
	assert.Len(t, ts.ensureCapacity(50), 128, "buffer is reused")
	assert.Len(t, ts.ensureCapacity(300), 500, "capped at half the input")
}
