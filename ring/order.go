// File: ring/order.go
// Author: momentics <momentics@gmail.com>
//
// Capacity model: capacity = 2^order, bounded by page granularity below
// and by address space above.

package ring

import (
	"math/bits"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/mirror"
)

const (
	// DefaultOrder yields a 4096-byte ring.
	DefaultOrder = 12

	// MaxOrder bounds capacity so that the double mapping (2*capacity)
	// stays well inside the address space.
	MaxOrder = 30 + (bits.UintSize/64)*10
)

// MinOrder returns log2 of the platform page size.
func MinOrder() int {
	return bits.TrailingZeros(uint(mirror.PageSize()))
}

// ValidateOrder reports a configuration error for orders outside
// [MinOrder, MaxOrder].
func ValidateOrder(order int) error {
	lo := MinOrder()
	if order < lo || order > MaxOrder {
		return api.NewError(api.ErrCodeConfiguration, "order out of range").
			WithContext("order", order).
			WithContext("min", lo).
			WithContext("max", MaxOrder)
	}
	return nil
}

// CapacityForOrder returns 2^order after validating the order.
func CapacityForOrder(order int) (int, error) {
	if err := ValidateOrder(order); err != nil {
		return 0, err
	}
	return 1 << order, nil
}

// OrderForSize returns the smallest valid order whose capacity holds n
// bytes.
func OrderForSize(n int) (int, error) {
	if n < 0 {
		return 0, api.NewError(api.ErrCodeConfiguration, "negative size").
			WithContext("size", n)
	}
	order := MinOrder()
	if n > 1<<order {
		order = bits.Len(uint(n - 1))
	}
	if err := ValidateOrder(order); err != nil {
		return 0, err
	}
	return order, nil
}
