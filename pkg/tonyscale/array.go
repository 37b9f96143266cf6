package tonyscale

import (
	"fmt"
	"math"
)

// Array is a read-only N-dimensional array of float64 values stored in
// row-major order. The transform borrows it and never writes to Data.
type Array struct {
	Shape []int
	Data  []float64
}

// IntArray is the result of a transform: same shape as the input, one color
// index per element.
type IntArray struct {
	Shape []int
	Data  []int64
}

// NewArray wraps data with the given shape after checking that the shape
// accounts for every element.
func NewArray(shape []int, data []float64) (*Array, error) {
	a := &Array{Shape: shape, Data: data}
	if err := a.check(); err != nil {
		return nil, err
	}
	return a, nil
}

// Len returns the element count implied by the shape. A zero-length shape is
// a scalar.
func (a *Array) Len() int {
	return shapeLen(a.Shape)
}

func shapeLen(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// check validates structure only; element values are checked by scanRange.
func (a *Array) check() error {
	if a == nil {
		return fmt.Errorf("%w: array is nil", ErrValidation)
	}
	n := 1
	for i, d := range a.Shape {
		if d < 0 {
			return fmt.Errorf("%w: dimension %d is negative (%d)", ErrValidation, i, d)
		}
		if d > 0 && n > math.MaxInt/d {
			return fmt.Errorf("%w: shape %v overflows element count", ErrValidation, a.Shape)
		}
		n *= d
	}
	if n != len(a.Data) {
		return fmt.Errorf("%w: shape %v holds %d elements, data has %d", ErrValidation, a.Shape, n, len(a.Data))
	}
	if n == 0 {
		return fmt.Errorf("%w: array is empty", ErrValidation)
	}
	return nil
}

// newIntArray allocates an output buffer shaped like a.
func newIntArray(a *Array) *IntArray {
	shape := make([]int, len(a.Shape))
	copy(shape, a.Shape)
	return &IntArray{Shape: shape, Data: make([]int64, len(a.Data))}
}

// At returns the element at the given multi-dimensional index.
func (o *IntArray) At(idx ...int) int64 {
	if len(idx) != len(o.Shape) {
		panic(fmt.Sprintf("tonyscale: index rank %d does not match shape %v", len(idx), o.Shape))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= o.Shape[i] {
			panic(fmt.Sprintf("tonyscale: index %v out of range for shape %v", idx, o.Shape))
		}
		off = off*o.Shape[i] + x
	}
	return o.Data[off]
}
