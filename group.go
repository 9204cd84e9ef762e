package ecverify

// affinePoint represents a curve point (x, y) with Montgomery-form coordinates
type affinePoint struct {
	x, y Nat
}

// jacobianPoint represents the point (x/z^2, y/z^3). z == 0 encodes the point
// at infinity, which the doubling formula preserves without a branch.
type jacobianPoint struct {
	x, y, z Nat
}

func (r *affinePoint) set(a *affinePoint) {
	r.x.set(a.x)
	r.y.set(a.y)
}

// assign sets r = a when on == 1
func (r *affinePoint) assign(on uint64, a *affinePoint) {
	r.x.assign(on, a.x)
	r.y.assign(on, a.y)
}

func (r *jacobianPoint) set(a *jacobianPoint) {
	r.x.set(a.x)
	r.y.set(a.y)
	r.z.set(a.z)
}

// assign sets r = a when on == 1
func (r *jacobianPoint) assign(on uint64, a *jacobianPoint) {
	r.x.assign(on, a.x)
	r.y.assign(on, a.y)
	r.z.assign(on, a.z)
}

// setInfinity sets r to the point at infinity
func (f *field) setInfinity(r *jacobianPoint) {
	r.x.set(f.one)
	r.y.set(f.one)
	r.z.clear()
}

// setGE sets a Jacobian point from an affine one
func (f *field) setGE(r *jacobianPoint, a *affinePoint) {
	r.x.set(a.x)
	r.y.set(a.y)
	r.z.set(f.one)
}

func (r *jacobianPoint) isInfinity() bool {
	return r.z.isZero() == 1
}

// isOnCurve checks y^2 = x^3 + a*x + b for an affine point whose coordinates
// were already range checked on import
func (f *field) isOnCurve(pt *affinePoint, a, b Nat) bool {
	lhs, rhs := f.t[0], f.t[1]
	f.sqr(lhs, pt.y)
	// x^3 + a*x = x*(x^2 + a)
	f.sqr(rhs, pt.x)
	f.add(rhs, rhs, a)
	f.mul(rhs, rhs, pt.x)
	f.add(rhs, rhs, b)
	return cmp(lhs, rhs)&flagZero != 0
}

// double sets r = 2*a on the curve with coefficient ca:
//
//	M = 3*X^2 + a*Z^4, S = 4*X*Y^2
//	X3 = M^2 - 2*S, Y3 = M*(S - X3) - 8*Y^4, Z3 = 2*Y*Z
//
// r may alias a. Doubling the point at infinity gives Z3 = 0 again.
func (f *field) double(r, a *jacobianPoint, ca Nat) {
	xx, yy, zz, s, m := f.t[0], f.t[1], f.t[2], f.t[3], f.t[4]

	f.sqr(xx, a.x)
	f.sqr(yy, a.y)
	f.sqr(zz, a.z)
	f.sqr(zz, zz)
	f.mul(zz, zz, ca)

	// M = 3*X^2 + a*Z^4
	f.add(m, xx, xx)
	f.add(m, m, xx)
	f.add(m, m, zz)

	// S = 4*X*Y^2
	f.mul(s, a.x, yy)
	f.add(s, s, s)
	f.add(s, s, s)

	// Z3 = 2*Y*Z, the last use of a.y and a.z
	f.mul(r.z, a.y, a.z)
	f.add(r.z, r.z, r.z)

	// 8*Y^4
	f.sqr(yy, yy)
	f.add(yy, yy, yy)
	f.add(yy, yy, yy)
	f.add(yy, yy, yy)

	f.sqr(r.x, m)
	f.sub(r.x, r.x, s)
	f.sub(r.x, r.x, s)

	f.sub(s, s, r.x)
	f.mul(r.y, m, s)
	f.sub(r.y, r.y, yy)
}

// addMixed sets r = a + q for a Jacobian a and an affine q. When a is the point
// at infinity the result is q, chosen by mask. When a equals ±q the formula
// degenerates and the result is computed by doubling or set to infinity; the
// ladder only reaches that branch for scalars that make two partial sums
// collide, which public scalars from a prime-order group essentially never do.
func (f *field) addMixed(r, a *jacobianPoint, q *affinePoint, ca Nat) {
	z12, u2, s2, h, i, h2, h3, t := f.t[5], f.t[6], f.t[7], f.t[8], f.t[9], f.t[10], f.t[11], f.t[0]
	inf := a.z.isZero()

	f.sqr(z12, a.z)
	f.mul(u2, q.x, z12)
	f.mul(s2, q.y, z12)
	f.mul(s2, s2, a.z)
	f.sub(h, u2, a.x)
	f.sub(i, s2, a.y)

	if h.isZero()&(1^inf) == 1 {
		if i.isZero() == 1 {
			f.double(r, a, ca)
		} else {
			f.setInfinity(r)
		}
		return
	}

	// Z3 = Z1*h
	f.mul(z12, a.z, h)
	f.sqr(h2, h)
	f.mul(h3, h2, h)
	f.mul(t, a.x, h2)

	// X3 = i^2 - h^3 - 2*X1*h^2
	f.sqr(u2, i)
	f.sub(u2, u2, h3)
	f.sub(u2, u2, t)
	f.sub(u2, u2, t)

	// Y3 = i*(X1*h^2 - X3) - Y1*h^3
	f.sub(t, t, u2)
	f.mul(s2, i, t)
	f.mul(h3, h3, a.y)
	f.sub(s2, s2, h3)

	r.x.set(u2)
	r.y.set(s2)
	r.z.set(z12)

	r.x.assign(inf, q.x)
	r.y.assign(inf, q.y)
	r.z.assign(inf, f.one)
}

// addFull sets r = a + b for two Jacobian points and reports whether the sum
// is the neutral point. It branches on its inputs and is only applied to the
// two public halves of the verification sum.
func (f *field) addFull(r, a, b *jacobianPoint, ca Nat) (neutral bool) {
	if a.isInfinity() {
		r.set(b)
		return b.isInfinity()
	}
	if b.isInfinity() {
		r.set(a)
		return false
	}

	z22, z12, u1, u2, s1, s2, h, i, h2, h3, t := f.t[0], f.t[1], f.t[2], f.t[3], f.t[4], f.t[5], f.t[6], f.t[7], f.t[8], f.t[9], f.t[10]

	f.sqr(z22, b.z)
	f.sqr(z12, a.z)
	f.mul(u1, a.x, z22)
	f.mul(u2, b.x, z12)
	f.mul(s1, a.y, z22)
	f.mul(s1, s1, b.z)
	f.mul(s2, b.y, z12)
	f.mul(s2, s2, a.z)
	f.sub(h, u2, u1)
	f.sub(i, s2, s1)

	if h.isZero() == 1 {
		if i.isZero() == 1 {
			f.double(r, a, ca)
			return false
		}
		f.setInfinity(r)
		return true
	}

	// Z3 = Z1*Z2*h
	f.mul(z12, a.z, b.z)
	f.mul(z12, z12, h)
	f.sqr(h2, h)
	f.mul(h3, h2, h)
	f.mul(t, u1, h2)

	// X3 = i^2 - h^3 - 2*U1*h^2
	f.sqr(u2, i)
	f.sub(u2, u2, h3)
	f.sub(u2, u2, t)
	f.sub(u2, u2, t)

	// Y3 = i*(U1*h^2 - X3) - S1*h^3
	f.sub(t, t, u2)
	f.mul(z22, i, t)
	f.mul(h3, h3, s1)
	f.sub(z22, z22, h3)

	r.x.set(u2)
	r.y.set(z22)
	r.z.set(z12)
	return false
}

// zaddu adds two points that share one Z coordinate (co-Z addition) and
// rewrites both inputs onto the Z of the sum:
//
//	h = X2 - X1, C = h^2, W1 = X1*C, W2 = X2*C, D = Y2 - Y1
//	X3 = D^2 - W1 - W2, Y3 = D*(W1 - X3) - Y1*(W2 - W1)
//	p <- (W1, Y1*(W2 - W1)), q <- (W2, Y2*(W2 - W1))
//
// The common Z of all three results is Z*h, with h left in zh. It returns
// false when h is zero, that is when p = ±q.
func (f *field) zaddu(s, p, q *affinePoint, zh Nat) bool {
	c, w1, w2, d, e, sx, sy := f.t[0], f.t[1], f.t[2], f.t[3], f.t[4], f.t[5], f.t[6]

	f.sub(zh, q.x, p.x)
	if zh.isZero() == 1 {
		return false
	}
	f.sqr(c, zh)
	f.mul(w1, p.x, c)
	f.mul(w2, q.x, c)
	f.sub(d, q.y, p.y)
	f.sub(e, w2, w1)

	f.sqr(sx, d)
	f.sub(sx, sx, w1)
	f.sub(sx, sx, w2)

	f.mul(p.y, p.y, e)
	f.sub(sy, w1, sx)
	f.mul(sy, sy, d)
	f.sub(sy, sy, p.y)

	f.mul(q.y, q.y, e)
	p.x.set(w1)
	q.x.set(w2)
	s.x.set(sx)
	s.y.set(sy)
	return true
}

// toAffine converts a finite Jacobian point with one field inversion
func (f *field) toAffine(r *affinePoint, a *jacobianPoint) error {
	zi, zi2 := f.t[0], f.t[1]
	if err := f.inv(zi, a.z); err != nil {
		return err
	}
	f.sqr(zi2, zi)
	f.mul(r.x, a.x, zi2)
	f.mul(zi2, zi2, zi)
	f.mul(r.y, a.y, zi2)
	return nil
}
