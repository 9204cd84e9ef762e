package ecverify

// maxNonceAttempts bounds the RFC 6979 retry loop. A valid curve needs a
// second candidate with probability about 2^-128.
const maxNonceAttempts = 64

// Sign creates a deterministic ECDSA signature r || s over hash with the
// private scalar d, which must be ByteLenN bytes long and in [1, n-1]. The
// nonce is derived as in RFC 6979 with HMAC-SHA256, and the digest is
// truncated the same way Verify truncates it.
func Sign(params *DomainParams, d, hash []byte) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	ln := params.ByteLenN
	if len(d) != ln {
		return nil, makeError(ErrInvalidLength, "private key must be ByteLenN long")
	}
	c, err := newCurve(params)
	if err != nil {
		return nil, err
	}
	w := newWorkarea(c)
	defer w.release()
	n := c.n

	// u2 holds d, u1 the nonce k
	sec, k := w.u2, w.u1
	if importScalar(sec, n, d) != 1 {
		return nil, makeError(ErrInvalidPrivateKey, "private key is not in [1, n-1]")
	}
	hashToScalar(w.e, n, ln, hash)

	if !w.importPoint(&w.g, params.G) || !w.importPoint(&w.precG, params.PrecG) {
		return nil, makeError(ErrPointNotOnCurve, "base point or its multiple is not on the curve")
	}
	if !w.fixedBaseTable(&w.tbl, &w.g, &w.precG) {
		return nil, makeError(ErrInvalidParams, "base point and its multiple coincide")
	}

	// int2octets(d) || bits2octets(h)
	seed := make([]byte, 2*ln)
	copy(seed, d)
	w.e.fillBytes(seed[ln:])
	rng := NewRFC6979HMACSHA256(seed)
	defer rng.Clear()
	clear(seed)

	cand := make([]byte, ln)
	defer clear(cand)
	for attempt := 0; attempt < maxNonceAttempts; attempt++ {
		rng.Generate(cand)
		// bits2int: keep the leftmost bitLen(n) bits
		k.setBytes(cand)
		truncateDigest(k, n, ln)
		if n.inRange(k) != 1 {
			continue
		}

		w.pointMult(&w.p1, &w.tbl, k)
		if w.p1.isInfinity() {
			continue
		}
		if err := w.f.toAffine(&w.res, &w.p1); err != nil {
			return nil, err
		}
		w.f.fromMont(w.x, w.res.x)
		n.reduce(w.r, w.x)
		if w.r.isZero() == 1 {
			continue
		}

		// s = k^-1*(e + r*d) mod n
		if err := n.inverse(w.sInv, k); err != nil {
			return nil, err
		}
		n.mulMod(w.s, w.r, sec)
		n.modAdd(w.s, w.s, w.e)
		n.mulMod(w.s, w.s, w.sInv)
		if w.s.isZero() == 1 {
			continue
		}

		sig := make([]byte, 2*ln)
		w.r.fillBytes(sig[:ln])
		w.s.fillBytes(sig[ln:])
		return sig, nil
	}
	return nil, makeError(ErrInvalidParams, "no usable nonce found")
}
