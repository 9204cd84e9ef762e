package ecverify

import "math/bits"

// maxLimbs bounds every operand handled by the engine. 16 limbs covers moduli
// up to 1024 bits, which leaves room for P-521 and for even moduli used in
// testing the reduction routines.
const maxLimbs = 16

// Nat is an unsigned integer stored as little-endian 64-bit limbs. The width of
// a Nat is fixed by whoever owns it (usually a Modulus) and no operation ever
// grows it.
type Nat []uint64

// flags mirror the zero and carry outputs of a big-number ALU compare
type flags uint8

const (
	flagZero  flags = 1 << iota // operands were equal
	flagCarry                   // first operand was smaller than the second
)

// limbsFor returns the number of limbs needed to hold byteLen bytes
func limbsFor(byteLen int) int {
	return (byteLen + 7) / 8
}

func newNat(limbs int) Nat {
	return make(Nat, limbs)
}

// setBytes loads the big-endian byte string b into x. Bytes that do not fit in
// x are dropped from the most significant end.
func (x Nat) setBytes(b []byte) Nat {
	x.clear()
	for i := 0; i < len(b) && i/8 < len(x); i++ {
		x[i/8] |= uint64(b[len(b)-1-i]) << (8 * uint(i%8))
	}
	return x
}

// fillBytes writes x big-endian into out, zero padding or truncating at the
// most significant end, and returns out.
func (x Nat) fillBytes(out []byte) []byte {
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < len(out) && i/8 < len(x); i++ {
		out[len(out)-1-i] = byte(x[i/8] >> (8 * uint(i%8)))
	}
	return out
}

func (x Nat) clear() Nat {
	for i := range x {
		x[i] = 0
	}
	return x
}

// set copies y into x, zero extending or truncating to the width of x
func (x Nat) set(y Nat) Nat {
	n := copy(x, y)
	for i := n; i < len(x); i++ {
		x[i] = 0
	}
	return x
}

func (x Nat) setUint64(v uint64) Nat {
	x.clear()
	if len(x) > 0 {
		x[0] = v
	}
	return x
}

// ctIsZero returns 1 if v == 0 and 0 otherwise, without branching
func ctIsZero(v uint64) uint64 {
	return 1 ^ ((v | -v) >> 63)
}

// isZero returns 1 if x == 0 and 0 otherwise
func (x Nat) isZero() uint64 {
	var acc uint64
	for _, l := range x {
		acc |= l
	}
	return ctIsZero(acc)
}

// isOne returns 1 if x == 1 and 0 otherwise
func (x Nat) isOne() uint64 {
	if len(x) == 0 {
		return 0
	}
	acc := x[0] ^ 1
	for _, l := range x[1:] {
		acc |= l
	}
	return ctIsZero(acc)
}

func (x Nat) isOdd() uint64 {
	if len(x) == 0 {
		return 0
	}
	return x[0] & 1
}

// bit returns bit i of x, or 0 past the top limb
func (x Nat) bit(i int) uint64 {
	if i < 0 || i/64 >= len(x) {
		return 0
	}
	return (x[i/64] >> uint(i%64)) & 1
}

// bitLen returns the position of the highest set bit plus one. It runs in time
// depending on the value and is only used on public moduli.
func (x Nat) bitLen() int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return i*64 + bits.Len64(x[i])
		}
	}
	return 0
}

// trailingZeros returns the number of trailing zero bits of x, or 64*len(x)
// for zero. Like bitLen it is reserved for public values.
func (x Nat) trailingZeros() int {
	for i, l := range x {
		if l != 0 {
			return i*64 + bits.TrailingZeros64(l)
		}
	}
	return 64 * len(x)
}

// assign sets x = y when on == 1 and leaves x untouched when on == 0
func (x Nat) assign(on uint64, y Nat) Nat {
	mask := -on
	for i := range x {
		x[i] ^= mask & (x[i] ^ y[i])
	}
	return x
}

// condSwap exchanges x and y when on == 1
func condSwap(on uint64, x, y Nat) {
	mask := -on
	for i := range x {
		t := mask & (x[i] ^ y[i])
		x[i] ^= t
		y[i] ^= t
	}
}

// addVV sets z = x + y over len(z) limbs and returns the carry
func addVV(z, x, y Nat) (c uint64) {
	for i := range z {
		z[i], c = bits.Add64(x[i], y[i], c)
	}
	return c
}

// subVV sets z = x - y over len(z) limbs and returns the borrow
func subVV(z, x, y Nat) (b uint64) {
	for i := range z {
		z[i], b = bits.Sub64(x[i], y[i], b)
	}
	return b
}

// negVV sets z = -x mod 2^(64*len(z))
func negVV(z, x Nat) {
	c := uint64(1)
	for i := range z {
		z[i], c = bits.Add64(^x[i], 0, c)
	}
}

// shr sets x = x >> s in place
func (x Nat) shr(s uint) Nat {
	w, b := int(s/64), s%64
	n := len(x)
	for i := 0; i < n; i++ {
		var lo, hi uint64
		if i+w < n {
			lo = x[i+w]
		}
		if i+w+1 < n {
			hi = x[i+w+1]
		}
		// a shift by 64 yields zero, which covers b == 0
		x[i] = lo>>b | hi<<(64-b)
	}
	return x
}

// shl sets x = x << s in place, discarding bits shifted past the top limb
func (x Nat) shl(s uint) Nat {
	w, b := int(s/64), s%64
	for i := len(x) - 1; i >= 0; i-- {
		var lo, hi uint64
		if i-w >= 0 {
			hi = x[i-w]
		}
		if i-w-1 >= 0 {
			lo = x[i-w-1]
		}
		x[i] = hi<<b | lo>>(64-b)
	}
	return x
}

// maskBits keeps the low k bits of x and clears the rest
func (x Nat) maskBits(k uint) Nat {
	for i := range x {
		lo := uint(i) * 64
		switch {
		case lo >= k:
			x[i] = 0
		case k-lo < 64:
			x[i] &= (uint64(1) << (k - lo)) - 1
		}
	}
	return x
}

// cmp compares two operands of equal width the way the coprocessor does: by
// subtracting and reporting the zero and borrow flags.
func cmp(x, y Nat) flags {
	var b, acc uint64
	for i := range x {
		var d uint64
		d, b = bits.Sub64(x[i], y[i], b)
		acc |= d
	}
	return flags(ctIsZero(acc)) | flags(b)<<1
}

// mulNat sets z = x*y mod 2^(64*len(z)). A z at least len(x)+len(y) limbs wide
// receives the full product. z must not alias x or y.
func mulNat(z, x, y Nat) {
	z.clear()
	for i := 0; i < len(y) && i < len(z); i++ {
		var c uint64
		j := 0
		for ; j < len(x) && i+j < len(z); j++ {
			hi, lo := bits.Mul64(x[j], y[i])
			var cc uint64
			lo, cc = bits.Add64(lo, z[i+j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			z[i+j] = lo
			c = hi
		}
		if i+j < len(z) {
			z[i+j] = c
		}
	}
}
