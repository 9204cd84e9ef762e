package ecverify

// ComputePrecomputedPoint returns PrecG = 2^(L/2)*G, L = 8*ByteLenN, encoded
// X || Y. Only the curve and G need to be set in params.
func ComputePrecomputedPoint(params *DomainParams) ([]byte, error) {
	c, err := newCurve(params)
	if err != nil {
		return nil, err
	}
	w := newWorkarea(c)
	defer w.release()

	if !w.importPoint(&w.g, params.G) {
		return nil, makeError(ErrPointNotOnCurve, "base point is not on the curve")
	}
	w.precompute(&w.prec, &w.g)
	if w.prec.isInfinity() {
		return nil, makeError(ErrPointAtInfinity, "precomputed point is at infinity")
	}
	if err := w.f.toAffine(&w.res, &w.prec); err != nil {
		return nil, err
	}
	return w.exportPoint(&w.res), nil
}

// IsOnCurve reports whether point, encoded X || Y, is a valid affine point of
// the curve: both coordinates below p and the curve equation satisfied
func IsOnCurve(params *DomainParams, point []byte) bool {
	c, err := newCurve(params)
	if err != nil {
		return false
	}
	w := newWorkarea(c)
	defer w.release()
	return w.importPoint(&w.q, point)
}

// scalarOperand reduces a big-endian scalar of at most ByteLenN bytes mod n
// into z and reports whether the result is zero
func (w *workarea) scalarOperand(z Nat, k []byte) (bool, error) {
	if len(k) > w.c.params.ByteLenN {
		return false, makeError(ErrInvalidLength, "scalar is longer than ByteLenN")
	}
	w.c.n.reduce(z, newNat(limbsFor(len(k))).setBytes(k))
	return z.isZero() == 1, nil
}

// finishMult converts a ladder result to an encoded affine point
func (w *workarea) finishMult(r *jacobianPoint) ([]byte, error) {
	if r.isInfinity() {
		return nil, makeError(ErrPointAtInfinity, "result is the point at infinity")
	}
	if err := w.f.toAffine(&w.res, r); err != nil {
		return nil, err
	}
	return w.exportPoint(&w.res), nil
}

// ScalarBaseMult returns k*G with the fixed-base table built from G and
// PrecG. k is reduced mod n; a result at infinity is an error.
func ScalarBaseMult(params *DomainParams, k []byte) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	c, err := newCurve(params)
	if err != nil {
		return nil, err
	}
	w := newWorkarea(c)
	defer w.release()

	zero, err := w.scalarOperand(w.u1, k)
	if err != nil {
		return nil, err
	}
	if zero {
		return nil, makeError(ErrPointAtInfinity, "scalar is zero mod n")
	}
	if !w.importPoint(&w.g, params.G) || !w.importPoint(&w.precG, params.PrecG) {
		return nil, makeError(ErrPointNotOnCurve, "base point or its multiple is not on the curve")
	}
	if !w.fixedBaseTable(&w.tbl, &w.g, &w.precG) {
		return nil, makeError(ErrInvalidParams, "base point and its multiple coincide")
	}
	w.pointMult(&w.p1, &w.tbl, w.u1)
	return w.finishMult(&w.p1)
}

// ScalarMult returns k*Q for a point Q encoded X || Y. Q is checked against
// the curve equation first.
func ScalarMult(params *DomainParams, point, k []byte) ([]byte, error) {
	c, err := newCurve(params)
	if err != nil {
		return nil, err
	}
	w := newWorkarea(c)
	defer w.release()

	zero, err := w.scalarOperand(w.u2, k)
	if err != nil {
		return nil, err
	}
	if !w.importPoint(&w.q, point) {
		return nil, makeError(ErrPointNotOnCurve, "point is not on the curve")
	}
	if zero {
		return nil, makeError(ErrPointAtInfinity, "scalar is zero mod n")
	}
	w.precompute(&w.prec, &w.q)
	if w.prec.isInfinity() {
		return nil, makeError(ErrPointAtInfinity, "precomputed multiple is at infinity")
	}
	if !w.variableBaseTable(&w.tbl, &w.q, &w.prec) {
		return nil, makeError(ErrInvalidParams, "point and its multiple coincide")
	}
	w.pointMult(&w.p2, &w.tbl, w.u2)
	return w.finishMult(&w.p2)
}

// PublicKey returns d*G for a private scalar d in [1, n-1]
func PublicKey(params *DomainParams, d []byte) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(d) != params.ByteLenN {
		return nil, makeError(ErrInvalidLength, "private key must be ByteLenN long")
	}
	n, err := NewModulus(params.N)
	if err != nil {
		return nil, err
	}
	if importScalar(newNat(n.limbs()), n, d) != 1 {
		return nil, makeError(ErrInvalidPrivateKey, "private key is not in [1, n-1]")
	}
	return ScalarBaseMult(params, d)
}
