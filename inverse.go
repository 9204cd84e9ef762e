package ecverify

// inverse sets z = x^-1 mod m for a reduced x. It fails with ErrNotInvertible
// when gcd(x, m) != 1.
func (m *Modulus) inverse(z, x Nat) error {
	if m.odd {
		if m.inverseOdd(z, x) == 0 {
			return makeError(ErrNotInvertible, "value has no inverse modulo m")
		}
		return nil
	}
	return m.inverseEven(z, x)
}

// inverseOdd computes x^-1 mod m for odd m with the constant-time binary
// extended Euclidean algorithm (Möller): a fixed 2*bitLen(m) iterations, each
// one halving a and conditionally subtracting and swapping through masks.
//
// Invariants: a ≡ u*x and b ≡ v*x (mod m), with b ending at gcd(x, m), so v
// is the inverse once b is 1. It returns 1 on success.
func (m *Modulus) inverseOdd(z, x Nat) uint64 {
	n := len(m.m)
	var ab, bb, ub, vb, tb [maxLimbs]uint64
	a := Nat(ab[:n]).set(x)
	b := Nat(bb[:n]).set(m.m)
	u := Nat(ub[:n]).setUint64(1)
	v := Nat(vb[:n]).clear()
	t := Nat(tb[:n])

	for i := 0; i < 2*m.bitLen; i++ {
		odd := a.isOdd()

		// a -= b when a is odd
		borrow := subVV(t, a, b)
		a.assign(odd, t)

		// if that went negative: b = old a, a = -(a - b), u and v trade places
		swap := odd & borrow
		addVV(t, b, a)
		b.assign(swap, t)
		negVV(t, a)
		a.assign(swap, t)
		condSwap(swap, u, v)

		// u -= v when a was odd
		m.modSub(t, u, v)
		u.assign(odd, t)

		a.shr(1)
		m.halve(u)
	}
	ok := b.isOne()
	z.set(v)
	return ok
}

// halve sets x = x/2 mod m for odd m
func (m *Modulus) halve(x Nat) {
	var buf [maxLimbs]uint64
	t := Nat(buf[:len(x)])
	c := addVV(t, x, m.m)
	odd := x.isOdd()
	x.assign(odd, t)
	x.shr(1)
	x[len(x)-1] |= (c & odd) << 63
}

// inverseEven computes x^-1 mod m for m = m'*2^k by the Chinese remainder
// theorem: a_o = x^-1 mod m' and a_2 = x^-1 mod 2^k recombine as
//
//	y = a_o + m'*(((a_2 - a_o)*m'^-1) mod 2^k)
func (m *Modulus) inverseEven(z, x Nat) error {
	if x.isOdd() == 0 {
		return makeError(ErrNotInvertible, "even value has no inverse modulo an even modulus")
	}
	k := uint(m.tz)
	kl := int(k+63) / 64

	a2 := newNat(kl).set(x).maskBits(k)
	inversePow2(a2, a2, k)
	if m.oddPart == nil {
		z.set(a2)
		return nil
	}

	op := m.oddPart
	xo := newNat(op.limbs())
	op.reduce(xo, x)
	ao := newNat(op.limbs())
	if op.inverseOdd(ao, xo) == 0 {
		return makeError(ErrNotInvertible, "value has no inverse modulo the odd part of m")
	}

	mi := newNat(kl).set(op.m).maskBits(k)
	inversePow2(mi, mi, k)

	d := newNat(kl).set(ao).maskBits(k)
	subVV(d, a2, d)
	t := newNat(kl)
	mulNat(t, d, mi)
	t.maskBits(k)

	// a_o + m'*t ≤ m - 1, so the sum fits the width of m
	p := newNat(len(m.m))
	mulNat(p, op.m, t)
	addVV(z, p, newNat(len(m.m)).set(ao))
	return nil
}

// inversePow2 sets z = x^-1 mod 2^k for odd x by Newton iteration,
// y = y*(2 - x*y), which doubles the number of correct bits every round. z
// and x share the width of ceil(k/64) limbs and may alias.
func inversePow2(z, x Nat, k uint) {
	n := len(z)
	xc := newNat(n).set(x)
	y := newNat(n).set(xc)
	t, u := newNat(n), newNat(n)
	two := newNat(n).setUint64(2)
	for prec := uint(3); prec < k; prec *= 2 {
		mulNat(t, xc, y)
		subVV(t, two, t)
		mulNat(u, y, t)
		y.set(u)
	}
	z.set(y).maskBits(k)
}

// Inverse returns x^-1 mod m, big-endian and as long as the modulus. x is
// reduced first. Both odd and even moduli are supported.
func (m *Modulus) Inverse(x []byte) ([]byte, error) {
	xn, z := newNat(len(m.m)), newNat(len(m.m))
	m.reduce(xn, newNat(limbsFor(len(x))).setBytes(x))
	if err := m.inverse(z, xn); err != nil {
		return nil, err
	}
	return z.fillBytes(make([]byte, m.byteLen())), nil
}

// ExactDivide returns x / y for a y that divides x, with the length of x. The
// trailing zero bits of y are shifted out of both operands, after which the
// quotient is x'*y'^-1 mod 2^(64*limbs(x)).
func ExactDivide(x, y []byte) ([]byte, error) {
	n := limbsFor(len(x))
	xn := newNat(n).setBytes(x)
	yn := newNat(max(n, limbsFor(len(y)))).setBytes(y)
	if yn.isZero() == 1 {
		return nil, makeError(ErrInvalidModulus, "division by zero")
	}
	if n == 0 {
		return []byte{}, nil
	}
	k := uint(yn.trailingZeros())
	xs := newNat(n).set(xn).shr(k)
	ys := newNat(len(yn)).set(yn).shr(k)

	yi := newNat(n).set(ys)
	inversePow2(yi, yi, uint(64*n))
	q := newNat(n)
	mulNat(q, xs, yi)

	// q*y must give back x exactly
	check := newNat(len(yn) + n)
	mulNat(check, q, yn)
	if cmp(check, newNat(len(check)).set(xn))&flagZero == 0 {
		return nil, makeError(ErrNotDivisible, "divisor does not divide the dividend")
	}
	return q.fillBytes(make([]byte, len(x))), nil
}
