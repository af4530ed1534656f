package sorting

import "golang.org/x/exp/constraints"

// Context holds the selected Strategy and runs sorts with it.
// The zero value has no strategy; executing it panics.
type Context[T constraints.Integer] struct {
	strategy Strategy[T]
}

// NewContext returns a Context using s.
func NewContext[T constraints.Integer](s Strategy[T]) *Context[T] {
	return &Context[T]{strategy: s}
}

func (c *Context[T]) SetStrategy(s Strategy[T]) {
	c.strategy = s
}

func (c *Context[T]) Strategy() Strategy[T] {
	return c.strategy
}

// ExecuteStrategy sorts the whole of a.
func (c *Context[T]) ExecuteStrategy(a []T) (int, error) {
	return c.mustStrategy().Sort(a)
}

// Execute sorts a, or only its even or odd elements, depending on mode.
func (c *Context[T]) Execute(a []T, mode Mode) (int, error) {
	s := c.mustStrategy()
	switch mode {
	case ModeAll:
		return s.Sort(a)
	case ModeEven:
		return SortEvenOdd(a, s, true)
	case ModeOdd:
		return SortEvenOdd(a, s, false)
	}
	panic("assert mode in {all, even, odd}")
}

func (c *Context[T]) mustStrategy() Strategy[T] {
	if c.strategy == nil {
		panic("assert strategy != nil: no sort strategy set")
	}
	return c.strategy
}
