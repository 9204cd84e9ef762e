package ecverify

// sameZTable holds a base point P, its multiple Prec = 2^(L/2)*P and P + Prec
// as (X, Y) pairs sharing one Z: entry i is the Jacobian point (X, Y, z). Read
// as affine points they lie on the isomorphic curve with coefficient a*z^4,
// which is the curve the ladder runs on, so every addition is a mixed one.
type sameZTable struct {
	pts [3]affinePoint // entry d-1 serves digit d
	z   Nat
	az4 Nat
}

// lookup copies entry d (1..3) into r, touching every entry
func (tbl *sameZTable) lookup(r *affinePoint, d uint64) {
	for j := range tbl.pts {
		r.assign(ctIsZero(uint64(j+1)^d), &tbl.pts[j])
	}
}

// buildTable fills tbl from p and prec, two points that share the Z
// coordinate z. It returns false when p = ±prec, which valid parameters never
// produce.
func (w *workarea) buildTable(tbl *sameZTable, p, prec *affinePoint, z Nat) bool {
	f := &w.f
	tbl.pts[0].set(p)
	tbl.pts[1].set(prec)
	// az4 holds h until the common Z is known
	if !f.zaddu(&tbl.pts[2], &tbl.pts[0], &tbl.pts[1], tbl.az4) {
		return false
	}
	f.mul(tbl.z, z, tbl.az4)
	f.sqr(tbl.az4, tbl.z)
	f.sqr(tbl.az4, tbl.az4)
	f.mul(tbl.az4, tbl.az4, w.c.a)
	return true
}

// fixedBaseTable builds the table of a base point whose multiple was supplied
// with the domain parameters. Both are affine, so they share Z = 1.
func (w *workarea) fixedBaseTable(tbl *sameZTable, g, precG *affinePoint) bool {
	return w.buildTable(tbl, g, precG, w.f.one)
}

// precompute sets r = 2^(L/2)*p by repeated doubling
func (w *workarea) precompute(r *jacobianPoint, p *affinePoint) {
	f := &w.f
	f.setGE(r, p)
	for i := 0; i < w.c.ladderBits/2; i++ {
		f.double(r, r, w.c.a)
	}
}

// variableBaseTable builds the table of q from its computed multiple prec:
// q is moved onto the Z of prec, (q.x*Z^2, q.y*Z^3), so the two share it.
func (w *workarea) variableBaseTable(tbl *sameZTable, q *affinePoint, prec *jacobianPoint) bool {
	f := &w.f
	zz := f.t[11]
	scaled := &w.sel
	f.sqr(zz, prec.z)
	f.mul(scaled.x, q.x, zz)
	f.mul(zz, zz, prec.z)
	f.mul(scaled.y, q.y, zz)
	return w.buildTable(tbl, scaled, &affinePoint{x: prec.x, y: prec.y}, prec.z)
}

// pointMult sets r = k*P for the base P behind tbl. The scalar is read as L/2
// two-bit digits (k[i+L/2], k[i]) from the top, so every step is one doubling
// followed by one mixed addition of P, Prec or P + Prec. A zero digit still
// performs the addition and drops the sum by mask.
func (w *workarea) pointMult(r *jacobianPoint, tbl *sameZTable, k Nat) {
	f := &w.f
	half := w.c.ladderBits / 2
	f.setInfinity(&w.acc)
	for i := half - 1; i >= 0; i-- {
		d := k.bit(i+half)<<1 | k.bit(i)
		f.double(&w.acc, &w.acc, tbl.az4)
		tbl.lookup(&w.sel, d|ctIsZero(d))
		f.addMixed(&w.sum, &w.acc, &w.sel, tbl.az4)
		w.acc.assign(1^ctIsZero(d), &w.sum)
	}
	// back from the isomorphic curve: (X, Y, Z*z)
	r.x.set(w.acc.x)
	r.y.set(w.acc.y)
	f.mul(r.z, w.acc.z, tbl.z)
}
