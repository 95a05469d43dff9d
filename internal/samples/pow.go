package samples

// Power functions over wrapping uint64 arithmetic. All three agree for every
// input since multiplication mod 2^64 is associative.

// RecursivePow computes base^exp by recursion on exp.
func RecursivePow(base uint64, exp uint32) uint64 {
	switch exp {
	case 0:
		return 1
	case 1:
		return base
	default:
		return base * RecursivePow(base, exp-1)
	}
}

// LinearPow computes base^exp with exp multiplications.
func LinearPow(base uint64, exp uint32) uint64 {
	acc := uint64(1)
	for range exp {
		acc *= base
	}
	return acc
}

// SquarePow computes base^exp by square-and-multiply.
func SquarePow(base uint64, exp uint32) uint64 {
	if exp == 0 {
		return 1
	}
	acc := uint64(1)
	for exp > 1 {
		if exp&1 == 1 {
			acc *= base
		}
		exp /= 2
		base *= base
	}
	return acc * base
}
