package ecverify

import (
	"crypto/hmac"
	"crypto/sha512"
	"hash"

	sha256simd "github.com/minio/sha256-simd"
)

// HashSHA256 returns the SHA-256 digest of msg
func HashSHA256(msg []byte) [32]byte {
	return sha256simd.Sum256(msg)
}

// HashForCurve hashes msg with the SHA-2 function matching the size of the
// curve order: SHA-256 up to 256 bits, SHA-384 up to 384 bits and SHA-512
// above. The digest is returned untruncated; Verify and Sign truncate it.
func HashForCurve(params *DomainParams, msg []byte) []byte {
	var h hash.Hash
	switch {
	case params.ByteLenN <= 32:
		h = sha256simd.New()
	case params.ByteLenN <= 48:
		h = sha512.New384()
	default:
		h = sha512.New()
	}
	h.Write(msg)
	return h.Sum(nil)
}

// RFC6979HMACSHA256 is the HMAC-SHA256 DRBG of RFC 6979 section 3.2
type RFC6979HMACSHA256 struct {
	v     [32]byte
	k     [32]byte
	retry bool
}

// hmacSHA256 writes HMAC_key(parts...) into out
func hmacSHA256(out, key []byte, parts ...[]byte) {
	mac := hmac.New(sha256simd.New, key)
	for _, p := range parts {
		mac.Write(p)
	}
	mac.Sum(out[:0])
}

// NewRFC6979HMACSHA256 seeds the generator with key, which for ECDSA is
// int2octets(d) || bits2octets(h)
func NewRFC6979HMACSHA256(key []byte) *RFC6979HMACSHA256 {
	rng := &RFC6979HMACSHA256{}

	// 3.2.b and 3.2.c: V = 0x01 0x01 ..., K = 0x00 0x00 ...
	for i := range rng.v {
		rng.v[i] = 0x01
	}

	// 3.2.d: K = HMAC_K(V || 0x00 || key), V = HMAC_K(V)
	hmacSHA256(rng.k[:], rng.k[:], rng.v[:], []byte{0x00}, key)
	hmacSHA256(rng.v[:], rng.k[:], rng.v[:])

	// 3.2.f: K = HMAC_K(V || 0x01 || key), V = HMAC_K(V)
	hmacSHA256(rng.k[:], rng.k[:], rng.v[:], []byte{0x01}, key)
	hmacSHA256(rng.v[:], rng.k[:], rng.v[:])
	return rng
}

// Generate fills out with the next candidate nonce. Every call after the
// first performs the 3.2.h.3 update of K and V.
func (rng *RFC6979HMACSHA256) Generate(out []byte) {
	if rng.retry {
		hmacSHA256(rng.k[:], rng.k[:], rng.v[:], []byte{0x00})
		hmacSHA256(rng.v[:], rng.k[:], rng.v[:])
	}
	for len(out) > 0 {
		hmacSHA256(rng.v[:], rng.k[:], rng.v[:])
		n := copy(out, rng.v[:])
		out = out[n:]
	}
	rng.retry = true
}

// Clear wipes the generator state
func (rng *RFC6979HMACSHA256) Clear() {
	*rng = RFC6979HMACSHA256{}
}
