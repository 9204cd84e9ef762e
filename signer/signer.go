// Package signer wraps key pairs behind a common interface so that callers can
// sign and verify without caring which curve or backend holds the key.
// Verification always goes through the ecverify engine.
package signer

// I is a key pair that signs and verifies message digests. Signatures are
// r || s with each half as long as the curve order.
type I interface {
	// Generate creates a fresh key pair from system entropy
	Generate() error
	// InitSec sets the secret key and derives the public key
	InitSec(sec []byte) error
	// InitPub sets only the public key, from any SEC1 encoding
	InitPub(pub []byte) error
	// Sec returns the secret key, or nil
	Sec() []byte
	// Pub returns the compressed SEC1 public key, or nil
	Pub() []byte
	// Sign signs a message digest with the secret key
	Sign(msg []byte) (sig []byte, err error)
	// Verify checks sig over the message digest against the public key
	Verify(msg, sig []byte) (valid bool, err error)
	// ECDH returns the X coordinate of the shared point of the secret key
	// and pub, which may use any SEC1 encoding
	ECDH(pub []byte) (secret []byte, err error)
	// Zero wipes the secret key
	Zero()
}
