package domain

import "fmt"

const (
	DefaultMinItemQuantity = 1
	DefaultMaxItemQuantity = 99
)

type QuantityLimits struct {
	Min int
	Max int
}

func DefaultQuantityLimits() QuantityLimits {
	return QuantityLimits{Min: DefaultMinItemQuantity, Max: DefaultMaxItemQuantity}
}

func (l QuantityLimits) Validate() error {
	if l.Min < 1 {
		return fmt.Errorf("min item quantity[%d] must be positive", l.Min)
	}
	if l.Max < l.Min {
		return fmt.Errorf("max item quantity[%d] is below min[%d]", l.Max, l.Min)
	}
	return nil
}

func (l QuantityLimits) Check(quantity int) error {
	if quantity < l.Min || quantity > l.Max {
		return fmt.Errorf("quantity[%d] must be between %d and %d: %w", quantity, l.Min, l.Max, ErrBadRequest)
	}
	return nil
}

func (l QuantityLimits) Clamp(quantity int) int {
	return min(quantity, l.Max)
}
