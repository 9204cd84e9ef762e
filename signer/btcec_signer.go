package signer

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"

	"ecverify.mleku.dev"
)

var _ I = (*BtcecSigner)(nil)

// BtcecSigner implements I on secp256k1 with btcec keys and btcec signing
type BtcecSigner struct {
	privKey   *btcec.PrivateKey
	pubKey    *btcec.PublicKey
	hasSecret bool
}

// NewBtcecSigner creates a new BtcecSigner instance
func NewBtcecSigner() *BtcecSigner {
	return &BtcecSigner{}
}

// Generate creates a fresh new key pair from system entropy
func (s *BtcecSigner) Generate() error {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}
	s.privKey = privKey
	s.pubKey = privKey.PubKey()
	s.hasSecret = true
	return nil
}

// InitSec initialises the secret (signing) key from the raw bytes, and also derives the public key
func (s *BtcecSigner) InitSec(sec []byte) error {
	if !ecverify.ECSeckeyVerify(ecverify.Secp256k1(), sec) {
		return errors.New("invalid secret key")
	}
	s.privKey, s.pubKey = btcec.PrivKeyFromBytes(sec)
	s.hasSecret = true
	return nil
}

// InitPub initializes the public (verification) key from a SEC1 encoding
func (s *BtcecSigner) InitPub(pub []byte) error {
	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return err
	}
	s.pubKey = pubKey
	s.privKey = nil
	s.hasSecret = false
	return nil
}

// Sec returns the secret key bytes
func (s *BtcecSigner) Sec() []byte {
	if !s.hasSecret || s.privKey == nil {
		return nil
	}
	return s.privKey.Serialize()
}

// Pub returns the compressed public key
func (s *BtcecSigner) Pub() []byte {
	if s.pubKey == nil {
		return nil
	}
	return s.pubKey.SerializeCompressed()
}

// Sign creates a deterministic, low-S signature over the 32-byte digest msg
func (s *BtcecSigner) Sign(msg []byte) (sig []byte, err error) {
	if !s.hasSecret || s.privKey == nil {
		return nil, errors.New("no secret key available for signing")
	}
	if len(msg) != 32 {
		return nil, errors.New("message must be 32 bytes")
	}
	// [recovery code][R][S]
	compact := ecdsa.SignCompact(s.privKey, msg, true)
	return compact[1:], nil
}

// Verify checks a message digest and signature against the stored public key
func (s *BtcecSigner) Verify(msg, sig []byte) (valid bool, err error) {
	if s.pubKey == nil {
		return false, errors.New("no public key available for verification")
	}
	if len(sig) != 64 {
		return false, errors.New("signature must be 64 bytes")
	}
	return verify(ecverify.Secp256k1(), s.pubKey.SerializeUncompressed()[1:], msg, sig)
}

// ECDH returns a shared secret derived using Elliptic Curve Diffie-Hellman on the I secret and provided pubkey
func (s *BtcecSigner) ECDH(pub []byte) (secret []byte, err error) {
	if !s.hasSecret || s.privKey == nil {
		return nil, errors.New("no secret key available for ECDH")
	}
	sec := s.privKey.Serialize()
	defer clear(sec)
	return ecverify.ECDH(ecverify.Secp256k1(), sec, pub)
}

// Zero wipes the secret key to prevent memory leaks
func (s *BtcecSigner) Zero() {
	if s.privKey != nil {
		s.privKey.Zero()
		s.privKey = nil
	}
	s.hasSecret = false
	s.pubKey = nil
}
