package model

import (
	"fmt"
	"math"
)

// Price is an amount of points. Zero means the event is free.
type Price uint32

// NewPrice narrows a stored wide integer into a Price.
func NewPrice(amount int64) (Price, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidPrice, amount)
	}

	if amount > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d overflows", ErrInvalidPrice, amount)
	}

	return Price(amount), nil
}

// IsFree reports whether the price is zero.
func (p Price) IsFree() bool {
	return p == 0
}
