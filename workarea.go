package ecverify

import (
	"github.com/pkg/errors"
)

// curve is a DomainParams imported into arithmetic form
type curve struct {
	params     *DomainParams
	p, n       *Modulus
	a, b       Nat // Montgomery form mod p
	ladderBits int // L = 8*ByteLenN, the scalar width the ladder walks
}

// newCurve validates d and prepares its moduli and coefficients. PrecG is
// not required here.
func newCurve(d *DomainParams) (*curve, error) {
	if err := d.validateCurve(); err != nil {
		return nil, err
	}
	p, err := NewModulus(d.P)
	if err != nil {
		return nil, errors.Wrapf(err, "curve %s: field prime", d.Name)
	}
	n, err := NewModulus(d.N)
	if err != nil {
		return nil, errors.Wrapf(err, "curve %s: group order", d.Name)
	}
	c := &curve{params: d, p: p, n: n, ladderBits: 8 * d.ByteLenN}
	c.a = newNat(p.limbs()).setBytes(d.A)
	c.b = newNat(p.limbs()).setBytes(d.B)
	p.toMont(c.a, c.a)
	p.toMont(c.b, c.b)
	return c, nil
}

// Register counts for the arena. Scalar registers are sized for n and
// everything else for p.
const (
	// r, s, e, sInv, u1, u2, rRec
	scalarRegisters = 7
	// x, the field temporaries, five affine points, the table (three points,
	// z, az4) and five Jacobian points
	fieldRegisters = 1 + fieldTemps + 5*2 + (3*2 + 2) + 5*3
)

// workarea is the scratch register file of one operation. Every register is
// carved out of a single arena that release wipes, so no intermediate value
// outlives the call that produced it. A workarea is never shared between
// goroutines.
type workarea struct {
	c     *curve
	arena []uint64
	f     field
	flow  flowMonitor

	// S0..S3: signature scalars, digest and s^-1, all mod n
	r, s, e, sInv Nat
	// T0..T2: derived scalars and the recovered R, mod n
	u1, u2, rRec Nat
	// T3: the affine X of the final point, out of Montgomery form
	x Nat

	g, precG, q affinePoint // imported points
	sel         affinePoint // table entry for the current digit, scratch
	res         affinePoint // affine result
	tbl         sameZTable

	prec     jacobianPoint // 2^(L/2)*Q
	acc, sum jacobianPoint // ladder accumulator and candidate
	p1, p2   jacobianPoint // u1*G and u2*Q, later their sum
}

// newWorkarea binds a fresh register file to c
func newWorkarea(c *curve) *workarea {
	lp, ln := c.p.limbs(), c.n.limbs()
	w := &workarea{
		c:     c,
		arena: make([]uint64, scalarRegisters*ln+fieldRegisters*lp),
	}
	off := 0
	take := func(l int) Nat {
		x := Nat(w.arena[off : off+l : off+l])
		off += l
		return x
	}
	for _, reg := range []*Nat{&w.r, &w.s, &w.e, &w.sInv, &w.u1, &w.u2, &w.rRec} {
		*reg = take(ln)
	}
	w.x = take(lp)

	w.f.p = c.p
	w.f.one = c.p.one
	for i := range w.f.t {
		w.f.t[i] = take(lp)
	}
	for _, pt := range []*affinePoint{&w.g, &w.precG, &w.q, &w.sel, &w.res,
		&w.tbl.pts[0], &w.tbl.pts[1], &w.tbl.pts[2]} {
		pt.x, pt.y = take(lp), take(lp)
	}
	w.tbl.z, w.tbl.az4 = take(lp), take(lp)
	for _, pt := range []*jacobianPoint{&w.prec, &w.acc, &w.sum, &w.p1, &w.p2} {
		pt.x, pt.y, pt.z = take(lp), take(lp), take(lp)
	}
	return w
}

// release wipes every register. It runs on every exit path through defer.
func (w *workarea) release() {
	clear(w.arena)
	*w = workarea{}
}

// importPoint loads X || Y into r. It returns false when the encoding has the
// wrong length, a coordinate is not below p, or the point is off the curve.
func (w *workarea) importPoint(r *affinePoint, b []byte) bool {
	lp := w.c.params.ByteLenP
	if len(b) != 2*lp {
		return false
	}
	okX := w.f.importElement(r.x, b[:lp])
	okY := w.f.importElement(r.y, b[lp:])
	if okX&okY != 1 {
		return false
	}
	return w.f.isOnCurve(r, w.c.a, w.c.b)
}

// exportPoint encodes a as X || Y
func (w *workarea) exportPoint(a *affinePoint) []byte {
	lp := w.c.params.ByteLenP
	out := make([]byte, 2*lp)
	w.f.exportElement(out[:lp], a.x, w.x)
	w.f.exportElement(out[lp:], a.y, w.x)
	return out
}
