package ecverify

// reduceModEven sets z = x mod m for an even modulus m = m'*2^k. The low k bits
// of x pass through unchanged and only the high part is reduced by the odd
// factor:
//
//	x mod m = ((x >> k) mod m') << k  |  (x mod 2^k)
//
// k comes from the trailing zero count of m, so shifts of a whole limb or more
// are routine here.
func (m *Modulus) reduceModEven(z, x Nat) {
	k := uint(m.tz)
	low := newNat(len(m.m)).set(x).maskBits(k)

	z.clear()
	if m.oddPart != nil {
		high := newNat(len(x)).set(x).shr(k)
		q := newNat(m.oddPart.limbs())
		m.oddPart.reduce(q, high)
		// q < m', so q*2^k still fits the width of m
		z.set(q).shl(k)
	}
	// the shifted quotient has no bits below k, so OR is addition here
	for i := range z {
		z[i] |= low[i]
	}
}

// ReduceModEven returns x mod m for an even modulus m, big-endian and as long
// as m. It fails for odd or invalid moduli.
func ReduceModEven(x, m []byte) ([]byte, error) {
	mod, err := NewModulus(m)
	if err != nil {
		return nil, err
	}
	if mod.odd {
		return nil, makeError(ErrInvalidModulus, "modulus is odd")
	}
	return mod.Reduce(x), nil
}
