package ecverify

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	becdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

func TestSignRFC6979Vector(t *testing.T) {
	// RFC 6979 A.2.5: P-256, SHA-256, message "sample"
	x, _ := hex.DecodeString("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721")
	hash := HashSHA256([]byte("sample"))

	sig, err := Sign(P256(), x, hash[:])
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	want := "efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716" +
		"f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8"
	if hex.EncodeToString(sig) != want {
		t.Errorf("signature = %x, want %s", sig, want)
	}

	// deterministic
	again, err := Sign(P256(), x, hash[:])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(sig, again) {
		t.Error("signing twice gave different signatures")
	}
}

func TestSignVerifyAllCurves(t *testing.T) {
	for _, name := range []string{"P-224", "P-256", "P-384", "P-521", "secp256k1", "brainpoolP256r1"} {
		t.Run(name, func(t *testing.T) {
			d, err := Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			sec, pub, err := ECKeyPairGenerate(d, nil)
			if err != nil {
				t.Fatalf("failed to generate key: %v", err)
			}
			hash := HashForCurve(d, []byte("message for "+name))

			sig, err := Sign(d, sec, hash)
			if err != nil {
				t.Fatalf("failed to sign: %v", err)
			}
			if len(sig) != 2*d.ByteLenN {
				t.Fatalf("signature length %d, want %d", len(sig), 2*d.ByteLenN)
			}
			res, err := Verify(d, pub, sig, hash)
			if err != nil || res.Status != StatusOK {
				t.Fatalf("verification failed: %v %v", res.Status, err)
			}

			// wrong message
			hash[len(hash)/2] ^= 1
			if res, _ := Verify(d, pub, sig, hash); res.Status != StatusInvalidSignature {
				t.Errorf("verification of wrong message = %v", res.Status)
			}
		})
	}
}

func TestSignCryptoECDSAVerifies(t *testing.T) {
	for _, c := range []elliptic.Curve{elliptic.P224(), elliptic.P256(), elliptic.P384(), elliptic.P521()} {
		d, err := Lookup(c.Params().Name)
		if err != nil {
			t.Fatal(err)
		}
		sec, pub, err := ECKeyPairGenerate(d, nil)
		if err != nil {
			t.Fatal(err)
		}
		hash := HashForCurve(d, []byte("interop"))
		sig, err := Sign(d, sec, hash)
		if err != nil {
			t.Fatal(err)
		}
		lp, ln := d.ByteLenP, d.ByteLenN
		key := &ecdsa.PublicKey{
			Curve: c,
			X:     new(big.Int).SetBytes(pub[:lp]),
			Y:     new(big.Int).SetBytes(pub[lp:]),
		}
		r := new(big.Int).SetBytes(sig[:ln])
		s := new(big.Int).SetBytes(sig[ln:])
		if !ecdsa.Verify(key, hash, r, s) {
			t.Errorf("%s: crypto/ecdsa rejected the signature", d.Name)
		}
	}
}

func TestSignBtcecVerifies(t *testing.T) {
	d := Secp256k1()
	sec, pub, err := ECKeyPairGenerate(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	hash := HashSHA256([]byte("interop"))
	sig, err := Sign(d, sec, hash[:])
	if err != nil {
		t.Fatal(err)
	}

	var r, s btcec.ModNScalar
	r.SetByteSlice(sig[:32])
	s.SetByteSlice(sig[32:])
	key, err := btcec.ParsePubKey(append([]byte{0x04}, pub...))
	if err != nil {
		t.Fatal(err)
	}
	if !becdsa.NewSignature(&r, &s).Verify(hash[:], key) {
		t.Error("btcec rejected the signature")
	}
}

func TestSignErrors(t *testing.T) {
	d := P256()
	hash := HashSHA256([]byte("sample"))
	zero := make([]byte, 32)
	tests := []struct {
		name string
		key  []byte
		kind ErrorKind
	}{
		{"short key", make([]byte, 31), ErrInvalidLength},
		{"zero key", zero, ErrInvalidPrivateKey},
		{"key equal to n", d.N, ErrInvalidPrivateKey},
	}
	for _, tt := range tests {
		_, err := Sign(d, tt.key, hash[:])
		if !errors.Is(err, tt.kind) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.kind)
		}
	}

	broken := P256()
	broken.G[0] ^= 1
	key := make([]byte, 32)
	key[31] = 1
	if _, err := Sign(broken, key, hash[:]); !errors.Is(err, ErrPointNotOnCurve) {
		t.Errorf("off-curve base point: got %v", err)
	}
	if _, err := Sign(nil, key, hash[:]); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("nil params: got %v", err)
	}
}

func TestSignDoesNotModifyInputs(t *testing.T) {
	d := P256()
	sec, _, err := ECKeyPairGenerate(d, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	hash := HashSHA256([]byte("inputs"))
	secCopy := append([]byte(nil), sec...)
	hashCopy := hash
	if _, err := Sign(d, sec, hash[:]); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(sec, secCopy) || hash != hashCopy {
		t.Error("Sign modified its inputs")
	}
}
