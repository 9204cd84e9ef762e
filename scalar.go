package ecverify

// Scalars are values mod n held in n-sized registers. The helpers here cover
// the two ways a scalar enters the engine: as a signature component, which is
// range checked, and as a message digest, which is truncated and reduced.

// importScalar loads a ByteLenN-byte big-endian scalar into z and returns 1 if
// it lies in [1, n-1]
func importScalar(z Nat, n *Modulus, b []byte) uint64 {
	z.setBytes(b)
	return n.inRange(z)
}

// loadDigest loads the leading min(len(hash), byteLenN) bytes of hash into e.
// It reports whether the digest is at least byteLenN bytes long, in which case
// it may be wider than n and must be truncated.
func loadDigest(e Nat, hash []byte, byteLenN int) bool {
	if len(hash) >= byteLenN {
		e.setBytes(hash[:byteLenN])
		return true
	}
	e.setBytes(hash)
	return false
}

// truncateDigest keeps the leftmost bitLen(n) bits of a byteLenN-byte digest.
// The shift is the number of leading zero bits in the top byte of n.
func truncateDigest(e Nat, n *Modulus, byteLenN int) {
	e.shr(uint(8*byteLenN - n.BitLen()))
}

// reduceDigest brings a truncated digest below n. It has at most bitLen(n)
// bits, so one conditional subtraction suffices.
func reduceDigest(e Nat, n *Modulus) {
	n.condSub(e)
}

// hashToScalar is bits2int(hash) mod n: the whole digest preparation in one
// call, for callers that do not trace the individual steps
func hashToScalar(e Nat, n *Modulus, byteLenN int, hash []byte) {
	if loadDigest(e, hash, byteLenN) {
		truncateDigest(e, n, byteLenN)
	}
	reduceDigest(e, n)
}
