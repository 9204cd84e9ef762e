package ecverify

// ECDH computes the Diffie-Hellman shared secret of seckey and pubkey: the X
// coordinate of seckey*Q, ByteLenP bytes long (SEC 1 section 3.3.1). pubkey
// may use any encoding ParsePublicKey accepts.
func ECDH(params *DomainParams, seckey, pubkey []byte) ([]byte, error) {
	if !ECSeckeyVerify(params, seckey) {
		return nil, makeError(ErrInvalidPrivateKey, "private key is not in [1, n-1]")
	}
	point, err := ParsePublicKey(params, pubkey)
	if err != nil {
		return nil, err
	}
	shared, err := ScalarMult(params, point, seckey)
	if err != nil {
		return nil, err
	}
	x := shared[:params.ByteLenP]
	clear(shared[params.ByteLenP:])
	return x, nil
}

// ECDHSHA256 returns SHA-256 of the compressed shared point, the default
// hashed form used by libsecp256k1
func ECDHSHA256(params *DomainParams, seckey, pubkey []byte) ([32]byte, error) {
	point, err := ParsePublicKey(params, pubkey)
	if err != nil {
		return [32]byte{}, err
	}
	if !ECSeckeyVerify(params, seckey) {
		return [32]byte{}, makeError(ErrInvalidPrivateKey, "private key is not in [1, n-1]")
	}
	shared, err := ScalarMult(params, point, seckey)
	if err != nil {
		return [32]byte{}, err
	}
	enc, err := SerializePublicKey(params, shared, true)
	clear(shared)
	if err != nil {
		return [32]byte{}, err
	}
	return HashSHA256(enc), nil
}
