package signer

import (
	"github.com/pkg/errors"

	"ecverify.mleku.dev"
)

var _ I = (*CurveSigner)(nil)

// CurveSigner implements I on any catalogue curve with the engine's own
// deterministic signing
type CurveSigner struct {
	params *ecverify.DomainParams
	sec    []byte
	pub    []byte // X || Y
}

// NewCurveSigner creates a signer for params
func NewCurveSigner(params *ecverify.DomainParams) *CurveSigner {
	return &CurveSigner{params: params}
}

// NewCurveSignerByName creates a signer for a registered curve
func NewCurveSignerByName(name string) (*CurveSigner, error) {
	params, err := ecverify.Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewCurveSigner(params), nil
}

// Generate creates a fresh key pair from system entropy
func (s *CurveSigner) Generate() error {
	sec, pub, err := ecverify.ECKeyPairGenerate(s.params, nil)
	if err != nil {
		return err
	}
	s.sec, s.pub = sec, pub
	return nil
}

// InitSec sets the secret key and derives the public key
func (s *CurveSigner) InitSec(sec []byte) error {
	pub, err := ecverify.PublicKey(s.params, sec)
	if err != nil {
		return err
	}
	s.sec = append([]byte(nil), sec...)
	s.pub = pub
	return nil
}

// InitPub sets the public key from a SEC1 or bare X || Y encoding
func (s *CurveSigner) InitPub(pub []byte) error {
	point, err := ecverify.ParsePublicKey(s.params, pub)
	if err != nil {
		return err
	}
	s.Zero()
	s.pub = point
	return nil
}

// Sec returns the secret key bytes
func (s *CurveSigner) Sec() []byte {
	return s.sec
}

// Pub returns the compressed public key
func (s *CurveSigner) Pub() []byte {
	if s.pub == nil {
		return nil
	}
	out, err := ecverify.SerializePublicKey(s.params, s.pub, true)
	if err != nil {
		return nil
	}
	return out
}

// Sign signs the digest msg
func (s *CurveSigner) Sign(msg []byte) (sig []byte, err error) {
	if s.sec == nil {
		return nil, errors.New("no secret key available for signing")
	}
	return ecverify.Sign(s.params, s.sec, msg)
}

// Verify checks sig over the digest msg
func (s *CurveSigner) Verify(msg, sig []byte) (valid bool, err error) {
	if s.pub == nil {
		return false, errors.New("no public key available for verification")
	}
	return verify(s.params, s.pub, msg, sig)
}

// ECDH returns the X coordinate of the point shared with pub
func (s *CurveSigner) ECDH(pub []byte) (secret []byte, err error) {
	if s.sec == nil {
		return nil, errors.New("no secret key available for ECDH")
	}
	return ecverify.ECDH(s.params, s.sec, pub)
}

// Zero wipes the secret key
func (s *CurveSigner) Zero() {
	clear(s.sec)
	s.sec = nil
	s.pub = nil
}

// verify maps engine outcomes onto the (valid, err) pair of I: a rejected
// signature is (false, nil) and every other failure is an error
func verify(params *ecverify.DomainParams, pub, msg, sig []byte) (bool, error) {
	res, err := ecverify.Verify(params, pub, sig, msg)
	switch res.Status {
	case ecverify.StatusOK:
		return true, nil
	case ecverify.StatusInvalidSignature:
		return false, nil
	}
	return false, errors.Wrap(err, "verification failed")
}
