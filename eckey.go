package ecverify

import (
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// SEC1 point encoding prefixes
const (
	pubkeyCompressedEven byte = 0x02
	pubkeyCompressedOdd  byte = 0x03
	pubkeyUncompressed   byte = 0x04
)

// ECSeckeyVerify reports whether seckey is a valid private scalar for the
// curve: ByteLenN bytes long and in [1, n-1]
func ECSeckeyVerify(params *DomainParams, seckey []byte) bool {
	if params.validateCurve() != nil || len(seckey) != params.ByteLenN {
		return false
	}
	n, err := NewModulus(params.N)
	if err != nil {
		return false
	}
	return importScalar(newNat(n.limbs()), n, seckey) == 1
}

// maxKeyAttempts bounds rejection sampling in ECSeckeyGenerate. A draw cut to
// the bit length of n is rejected with probability below 1/2, so an honest
// source fails all attempts with probability below 2^-64.
const maxKeyAttempts = 64

// ECSeckeyGenerate draws a private scalar from r by rejection sampling. A nil
// r means crypto/rand. A source that yields no valid scalar in maxKeyAttempts
// draws is reported as an error.
func ECSeckeyGenerate(params *DomainParams, r io.Reader) ([]byte, error) {
	if err := params.validateCurve(); err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.Reader
	}
	n, err := NewModulus(params.N)
	if err != nil {
		return nil, err
	}
	ln := params.ByteLenN
	k := newNat(n.limbs())
	buf := make([]byte, ln)
	defer clear(buf)
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrap(err, "reading random bytes")
		}
		k.setBytes(buf)
		truncateDigest(k, n, ln)
		if n.inRange(k) == 1 {
			out := k.fillBytes(make([]byte, ln))
			k.clear()
			return out, nil
		}
	}
	return nil, makeError(ErrInvalidPrivateKey, "random source yields no scalar in [1, n-1]")
}

// ECKeyPairGenerate returns a fresh private scalar and its public key X || Y
func ECKeyPairGenerate(params *DomainParams, r io.Reader) (seckey, pubkey []byte, err error) {
	if seckey, err = ECSeckeyGenerate(params, r); err != nil {
		return nil, nil, err
	}
	if pubkey, err = PublicKey(params, seckey); err != nil {
		return nil, nil, err
	}
	return seckey, pubkey, nil
}

// nistCurves maps catalogue names to the crypto/elliptic implementations used
// for point decompression
var nistCurves = map[string]func() elliptic.Curve{
	"P-224": elliptic.P224,
	"P-256": elliptic.P256,
	"P-384": elliptic.P384,
	"P-521": elliptic.P521,
}

// ParsePublicKey accepts a SEC1 compressed or uncompressed public key, or a
// bare X || Y, and returns it as X || Y after checking it is on the curve
func ParsePublicKey(params *DomainParams, b []byte) ([]byte, error) {
	if err := params.validateCurve(); err != nil {
		return nil, err
	}
	lp := params.ByteLenP
	var point []byte
	switch {
	case len(b) == 2*lp:
		point = append([]byte(nil), b...)
	case len(b) == 2*lp+1 && b[0] == pubkeyUncompressed:
		point = append([]byte(nil), b[1:]...)
	case len(b) == lp+1 && (b[0] == pubkeyCompressedEven || b[0] == pubkeyCompressedOdd):
		var err error
		if point, err = decompress(params, b); err != nil {
			return nil, err
		}
	default:
		return nil, makeError(ErrInvalidLength, "malformed public key encoding")
	}
	if !IsOnCurve(params, point) {
		return nil, makeError(ErrPointNotOnCurve, "public key is not on the curve")
	}
	return point, nil
}

// decompress recovers Y from a compressed key. secp256k1 goes through the
// decred implementation and the NIST curves through crypto/elliptic; other
// curves take the square root with math/big.
func decompress(params *DomainParams, b []byte) ([]byte, error) {
	lp := params.ByteLenP
	point := make([]byte, 2*lp)
	if params.Name == "secp256k1" && lp == 32 {
		pub, err := secp256k1.ParsePubKey(b)
		if err != nil {
			return nil, errors.Wrap(makeError(ErrPointNotOnCurve, err.Error()), "secp256k1 public key")
		}
		copy(point, pub.SerializeUncompressed()[1:])
		return point, nil
	}
	if c, ok := nistCurves[params.Name]; ok && (c().Params().BitSize+7)/8 == lp {
		x, y := elliptic.UnmarshalCompressed(c(), b)
		if x == nil {
			return nil, makeError(ErrPointNotOnCurve, "invalid compressed public key")
		}
		x.FillBytes(point[:lp])
		y.FillBytes(point[lp:])
		return point, nil
	}

	p := new(big.Int).SetBytes(params.P)
	x := new(big.Int).SetBytes(b[1:])
	if x.Cmp(p) >= 0 {
		return nil, makeError(ErrPointNotOnCurve, "x coordinate is not below p")
	}
	// y^2 = x^3 + a*x + b
	rhs := new(big.Int).Mul(x, x)
	rhs.Add(rhs, new(big.Int).SetBytes(params.A))
	rhs.Mul(rhs, x)
	rhs.Add(rhs, new(big.Int).SetBytes(params.B))
	rhs.Mod(rhs, p)
	y := new(big.Int).ModSqrt(rhs, p)
	if y == nil {
		return nil, makeError(ErrPointNotOnCurve, "x coordinate is not on the curve")
	}
	if y.Bit(0) != uint(b[0]&1) {
		y.Sub(p, y)
	}
	x.FillBytes(point[:lp])
	y.FillBytes(point[lp:])
	return point, nil
}

// SerializePublicKey encodes X || Y in SEC1 form
func SerializePublicKey(params *DomainParams, point []byte, compressed bool) ([]byte, error) {
	lp := params.ByteLenP
	if len(point) != 2*lp {
		return nil, makeError(ErrInvalidLength, "point must be 2*ByteLenP long")
	}
	if !compressed {
		return append([]byte{pubkeyUncompressed}, point...), nil
	}
	out := make([]byte, lp+1)
	out[0] = pubkeyCompressedEven | point[2*lp-1]&1
	copy(out[1:], point[:lp])
	return out, nil
}
