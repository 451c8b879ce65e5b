package pricing

import "errors"

var (
	// ErrInvalidDiscount возвращается, когда параметры акции не позволяют посчитать цену
	ErrInvalidDiscount = errors.New("pricing: invalid discount configuration")

	// ErrInvalidInput возвращается при некорректной процедуре
	ErrInvalidInput = errors.New("pricing: invalid input")
)
