package ecverify

import (
	"math/bits"
)

// Modulus is a prepared modulus. Odd moduli carry Montgomery constants for
// R = 2^(64*limbs). An even modulus m = m'*2^k keeps the prepared odd part m'
// and the shift k, and is served by ReduceModEven and the CRT inverse.
type Modulus struct {
	m      Nat
	bitLen int
	odd    bool

	// odd moduli
	m0inv uint64 // -m^-1 mod 2^64
	one   Nat    // R mod m, the Montgomery form of 1
	rr    Nat    // R^2 mod m

	// even moduli
	tz      int      // k, the number of trailing zero bits
	oddPart *Modulus // m', nil when m is a power of two
}

// NewModulus prepares the big-endian modulus b. The modulus must be greater
// than one and at most 1024 bits long.
func NewModulus(b []byte) (*Modulus, error) {
	return newModulus(newNat(limbsFor(len(b))).setBytes(b))
}

func newModulus(x Nat) (*Modulus, error) {
	n := len(x)
	for n > 0 && x[n-1] == 0 {
		n--
	}
	if n == 0 {
		return nil, makeError(ErrInvalidModulus, "modulus is zero")
	}
	if n > maxLimbs {
		return nil, makeError(ErrInvalidModulus, "modulus exceeds 1024 bits")
	}
	m := &Modulus{m: newNat(n).set(x)}
	m.bitLen = m.m.bitLen()
	if m.bitLen == 1 {
		return nil, makeError(ErrInvalidModulus, "modulus must be greater than one")
	}

	if m.m.isOdd() == 1 {
		m.odd = true
		m.m0inv = -inverseWord(m.m[0])
		// R mod m and R^2 mod m by repeated doubling of 1
		m.one = newNat(n).setUint64(1)
		for i := 0; i < 64*n; i++ {
			m.modAdd(m.one, m.one, m.one)
		}
		m.rr = newNat(n).set(m.one)
		for i := 0; i < 64*n; i++ {
			m.modAdd(m.rr, m.rr, m.rr)
		}
		return m, nil
	}

	m.tz = m.m.trailingZeros()
	if m.bitLen-1 > m.tz {
		op, err := newModulus(newNat(n).set(m.m).shr(uint(m.tz)))
		if err != nil {
			return nil, err
		}
		m.oddPart = op
	}
	return m, nil
}

// inverseWord returns w^-1 mod 2^64 for odd w. Each Newton step doubles the
// number of correct low bits, starting from the 3 bits w already provides.
func inverseWord(w uint64) uint64 {
	x := w
	for i := 0; i < 5; i++ {
		x *= 2 - w*x
	}
	return x
}

// BitLen returns the bit length of the modulus
func (m *Modulus) BitLen() int { return m.bitLen }

// byteLen returns the byte length of the modulus
func (m *Modulus) byteLen() int { return (m.bitLen + 7) / 8 }

// Bytes returns the modulus big-endian
func (m *Modulus) Bytes() []byte {
	return m.m.fillBytes(make([]byte, m.byteLen()))
}

// limbs returns the operand width for values reduced modulo m
func (m *Modulus) limbs() int { return len(m.m) }

// matches reports whether the big-endian b still encodes this modulus. The
// comparison goes through the same subtract-and-flag path as every other
// compare, so a corrupted copy of either side shows up as a mismatch.
func (m *Modulus) matches(b []byte) bool {
	if limbsFor(len(b)) < len(m.m) {
		return false
	}
	x := newNat(limbsFor(len(b))).setBytes(b)
	for _, l := range x[len(m.m):] {
		if l != 0 {
			return false
		}
	}
	return cmp(x[:len(m.m)], m.m)&flagZero != 0
}

// inRange returns 1 if 0 < x < m and 0 otherwise
func (m *Modulus) inRange(x Nat) uint64 {
	return (1 ^ x.isZero()) & (uint64(cmp(x, m.m)&flagCarry) >> 1)
}

// condSub subtracts m from x once if x >= m. x must be below 2m.
func (m *Modulus) condSub(x Nat) {
	var buf [maxLimbs]uint64
	t := Nat(buf[:len(m.m)])
	b := subVV(t, x, m.m)
	x.assign(1^b, t)
}

// modAdd sets z = x + y mod m for reduced x and y
func (m *Modulus) modAdd(z, x, y Nat) {
	var buf [maxLimbs]uint64
	t := Nat(buf[:len(m.m)])
	c := addVV(z, x, y)
	b := subVV(t, z, m.m)
	// take the subtracted value if the sum overflowed or did not borrow
	z.assign(c|(1^b), t)
}

// modSub sets z = x - y mod m for reduced x and y
func (m *Modulus) modSub(z, x, y Nat) {
	var buf [maxLimbs]uint64
	t := Nat(buf[:len(m.m)])
	b := subVV(z, x, y)
	addVV(t, z, m.m)
	z.assign(b, t)
}

// montMul sets z = x*y*R^-1 mod m using coarsely integrated operand scanning.
// The inputs must satisfy x*y < m*R, which holds whenever one of them is
// reduced and the other fits the width of m. z may alias x or y.
func (m *Modulus) montMul(z, x, y Nat) {
	n := len(m.m)
	var buf [maxLimbs + 2]uint64
	t := buf[:n+2]
	for i := 0; i < n; i++ {
		// t += x*y[i]
		var c, cc uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(x[j], y[i])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		t[n], cc = bits.Add64(t[n], c, 0)
		t[n+1] = cc

		// t = (t + q*m) / 2^64, with q chosen to clear the low limb
		q := t[0] * m.m0inv
		hi, lo := bits.Mul64(q, m.m[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < n; j++ {
			hi, lo = bits.Mul64(q, m.m[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[n-1], cc = bits.Add64(t[n], c, 0)
		t[n] = t[n+1] + cc
	}
	// t < 2m: one conditional subtraction
	b := subVV(z, Nat(t[:n]), m.m)
	z.assign(1^(t[n]|(1^b)), Nat(t[:n]))
}

// toMont sets z = x*R mod m
func (m *Modulus) toMont(z, x Nat) {
	m.montMul(z, x, m.rr)
}

// fromMont sets z = x*R^-1 mod m
func (m *Modulus) fromMont(z, x Nat) {
	var buf [maxLimbs]uint64
	unit := Nat(buf[:len(m.m)]).setUint64(1)
	m.montMul(z, x, unit)
}

// reduce sets z = x mod m for an x of any width
func (m *Modulus) reduce(z, x Nat) {
	if !m.odd {
		m.reduceModEven(z, x)
		return
	}
	m.reduceOdd(z, x)
}

// reduceOdd folds x into the Montgomery domain one m-wide chunk at a time,
// from the most significant chunk down:
//
//	A' = A*R + chunk, held as A'*R = montMul(A, R^2) + montMul(chunk, R^2)
//
// and leaves it with a final montMul by 1.
func (m *Modulus) reduceOdd(z, x Nat) {
	n := len(m.m)
	var abuf, cbuf [maxLimbs]uint64
	acc := Nat(abuf[:n]).clear()
	chunk := Nat(cbuf[:n])
	for top := ((len(x) + n - 1) / n) * n; top > 0; top -= n {
		chunk.set(x[top-n : min(top, len(x))])
		m.montMul(acc, acc, m.rr)
		m.montMul(chunk, chunk, m.rr)
		m.modAdd(acc, acc, chunk)
	}
	m.fromMont(z, acc)
}

// mulMod sets z = x*y mod m for reduced x and y
func (m *Modulus) mulMod(z, x, y Nat) {
	if m.odd {
		m.montMul(z, x, y)
		m.montMul(z, z, m.rr)
		return
	}
	p := newNat(2 * len(m.m))
	mulNat(p, x, y)
	m.reduceModEven(z, p)
}

// Reduce returns x mod m, big-endian and as long as the modulus
func (m *Modulus) Reduce(x []byte) []byte {
	z := newNat(len(m.m))
	m.reduce(z, newNat(limbsFor(len(x))).setBytes(x))
	return z.fillBytes(make([]byte, m.byteLen()))
}

// Mul returns x*y mod m. The operands are reduced first.
func (m *Modulus) Mul(x, y []byte) []byte {
	xn, yn, z := newNat(len(m.m)), newNat(len(m.m)), newNat(len(m.m))
	m.reduce(xn, newNat(limbsFor(len(x))).setBytes(x))
	m.reduce(yn, newNat(limbsFor(len(y))).setBytes(y))
	m.mulMod(z, xn, yn)
	return z.fillBytes(make([]byte, m.byteLen()))
}

// Compare compares two big-endian values of any width, reporting -1, 0 or 1.
// Both are loaded at the width of the longer operand and compared through the
// zero and carry flags.
func Compare(x, y []byte) int {
	l := limbsFor(max(len(x), len(y)))
	f := cmp(newNat(l).setBytes(x), newNat(l).setBytes(y))
	switch {
	case f&flagZero != 0:
		return 0
	case f&flagCarry != 0:
		return -1
	}
	return 1
}
