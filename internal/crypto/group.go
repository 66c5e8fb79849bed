package crypto

import (
	"math/bits"
	"sort"
)

// MaxPrimitiveRoots caps how many generators PrimitiveRoots collects.
const MaxPrimitiveRoots = 81

// mulMod returns a*b mod m using a 128-bit intermediate product.
func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// ModExp computes base^exp mod modulus by square-and-multiply.
//
// The result is exact for every uint64 input. modulus must be non-zero.
func ModExp(base, exp, modulus uint64) uint64 {
	result := 1 % modulus
	base %= modulus
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, modulus)
		}
		base = mulMod(base, base, modulus)
		exp >>= 1
	}
	return result
}

// PrimeFactors returns the distinct prime factors of n in ascending order,
// found by trial division up to sqrt(n). It returns nil for n < 2.
func PrimeFactors(n uint64) []uint64 {
	var factors []uint64
	for p := uint64(2); p <= n/p; p++ {
		if n%p != 0 {
			continue
		}
		factors = append(factors, p)
		for n%p == 0 {
			n /= p
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// IsPrime reports whether n is prime.
func IsPrime(n uint64) bool {
	f := PrimeFactors(n)
	return len(f) == 1 && f[0] == n
}

// RootExponents returns {(n-1)/p : p prime factor of n-1} sorted ascending,
// the exponents IsPrimitiveRoot tests against.
func RootExponents(n uint64) []uint64 {
	if n < 2 {
		return nil
	}
	phi := n - 1
	factors := PrimeFactors(phi)
	exps := make([]uint64, 0, len(factors))
	for _, p := range factors {
		exps = append(exps, phi/p)
	}
	sort.Slice(exps, func(i, j int) bool { return exps[i] < exps[j] })
	return exps
}

// IsPrimitiveRoot raises x through the ascending exponents cumulatively and
// rejects it as soon as a partial power equals 1.
//
// exponents must be sorted ascending, as returned by RootExponents.
func IsPrimitiveRoot(x, modulus uint64, exponents []uint64) bool {
	acc := 1 % modulus
	var current uint64
	for _, e := range exponents {
		acc = mulMod(acc, ModExp(x, e-current, modulus), modulus)
		if acc == 1 {
			return false
		}
		current = e
	}
	return true
}

// PrimitiveRoots scans [n/3, 2n/3) for primitive roots modulo n and stops
// after MaxPrimitiveRoots matches. The window and cap are part of the
// protocol's generator policy, not general number theory.
func PrimitiveRoots(n uint64) []uint64 {
	if n < 2 {
		return nil
	}
	exps := RootExponents(n)
	upper := n/3*2 + (n%3)*2/3

	var roots []uint64
	for x := n / 3; x < upper; x++ {
		if !IsPrimitiveRoot(x, n, exps) {
			continue
		}
		roots = append(roots, x)
		if len(roots) >= MaxPrimitiveRoots {
			break
		}
	}
	return roots
}
