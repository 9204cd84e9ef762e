package ecverify

import (
	"bytes"
	"crypto/elliptic"
	"encoding/hex"
	"math/big"
	"sort"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// DomainParams describes a short Weierstrass curve y^2 = x^3 + a*x + b over
// GF(p) with a base point G of prime order n. All integers are big-endian:
// P, A and B are ByteLenP bytes long and N is ByteLenN bytes long. G and PrecG
// are encoded X || Y with 2*ByteLenP bytes, where PrecG = 2^(4*ByteLenN)*G.
//
// Domain parameters are never modified by the engine.
type DomainParams struct {
	Name     string
	P, N     []byte
	A, B     []byte
	G, PrecG []byte
	ByteLenP int
	ByteLenN int
}

// validateCurve checks everything except PrecG
func (d *DomainParams) validateCurve() error {
	if d == nil {
		return makeError(ErrInvalidParams, "nil domain parameters")
	}
	if d.ByteLenP <= 0 || d.ByteLenN <= 0 {
		return makeError(ErrInvalidLength, "byte lengths must be positive")
	}
	if 8*d.ByteLenP > 64*maxLimbs || 8*d.ByteLenN > 64*maxLimbs {
		return makeError(ErrInvalidLength, "curve exceeds 1024 bits")
	}
	lp, ln := d.ByteLenP, d.ByteLenN
	switch {
	case len(d.P) != lp:
		return makeError(ErrInvalidLength, "p length does not match ByteLenP")
	case len(d.N) != ln:
		return makeError(ErrInvalidLength, "n length does not match ByteLenN")
	case len(d.A) != lp || len(d.B) != lp:
		return makeError(ErrInvalidLength, "curve coefficients must be ByteLenP long")
	case len(d.G) != 2*lp:
		return makeError(ErrInvalidLength, "base point must be 2*ByteLenP long")
	}
	if d.P[0] == 0 || d.N[0] == 0 {
		return makeError(ErrInvalidParams, "p and n must use their full byte length")
	}
	if d.P[lp-1]&1 == 0 || d.N[ln-1]&1 == 0 {
		return makeError(ErrInvalidParams, "p and n must be odd")
	}
	if Compare(d.A, d.P) >= 0 || Compare(d.B, d.P) >= 0 {
		return makeError(ErrInvalidParams, "curve coefficients must be below p")
	}
	return nil
}

// Validate checks the lengths and basic shape of the parameters. It does not
// check primality or that G and PrecG are on the curve; Verify does the latter.
func (d *DomainParams) Validate() error {
	if err := d.validateCurve(); err != nil {
		return err
	}
	if len(d.PrecG) != 2*d.ByteLenP {
		return makeError(ErrInvalidLength, "precomputed point must be 2*ByteLenP long")
	}
	return nil
}

// Clone returns a deep copy of d
func (d *DomainParams) Clone() *DomainParams {
	c := *d
	for _, f := range []*[]byte{&c.P, &c.N, &c.A, &c.B, &c.G, &c.PrecG} {
		*f = bytes.Clone(*f)
	}
	return &c
}

// paramsFromCurve converts crypto/elliptic style parameters with a given a
func paramsFromCurve(name string, cp *elliptic.CurveParams, a *big.Int) *DomainParams {
	lp := (cp.P.BitLen() + 7) / 8
	ln := (cp.N.BitLen() + 7) / 8
	d := &DomainParams{
		Name:     name,
		P:        cp.P.FillBytes(make([]byte, lp)),
		N:        cp.N.FillBytes(make([]byte, ln)),
		A:        a.FillBytes(make([]byte, lp)),
		B:        cp.B.FillBytes(make([]byte, lp)),
		G:        make([]byte, 2*lp),
		ByteLenP: lp,
		ByteLenN: ln,
	}
	cp.Gx.FillBytes(d.G[:lp])
	cp.Gy.FillBytes(d.G[lp:])
	return d
}

// nistParams builds a NIST curve entry, for which a = p - 3
func nistParams(name string, c elliptic.Curve) *DomainParams {
	cp := c.Params()
	return paramsFromCurve(name, cp, new(big.Int).Sub(cp.P, big.NewInt(3)))
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// brainpoolP256r1 as given in RFC 5639
func brainpoolP256r1() *DomainParams {
	return &DomainParams{
		Name: "brainpoolP256r1",
		P:    mustHex("a9fb57dba1eea9bc3e660a909d838d726e3bf623d52620282013481d1f6e5377"),
		N:    mustHex("a9fb57dba1eea9bc3e660a909d838d718c397aa3b561a6f7901e0e82974856a7"),
		A:    mustHex("7d5a0975fc2c3057eef67530417affe7fb8055c126dc5c6ce94a4b44f330b5d9"),
		B:    mustHex("26dc5c6ce94a4b44f330b5d9bbd77cbf958416295cf7e1ce6bccdc18ff8c07b6"),
		G: mustHex("8bd2aeb9cb7e57cb2c4b482ffc81b7afb9de27e1e3bd23c23a4453bd9ace3262" +
			"547ef835c3dac4fd97f8461a14611dc9c27745132ded8e545c1d54c72f046997"),
		ByteLenP: 32,
		ByteLenN: 32,
	}
}

// builtinCurves returns the catalogue without PrecG
func builtinCurves() []*DomainParams {
	return []*DomainParams{
		nistParams("P-224", elliptic.P224()),
		nistParams("P-256", elliptic.P256()),
		nistParams("P-384", elliptic.P384()),
		nistParams("P-521", elliptic.P521()),
		paramsFromCurve("secp256k1", btcec.S256().Params(), new(big.Int)),
		brainpoolP256r1(),
	}
}

// registry maps curve names to domain parameters. The built-in curves are
// loaded on first use, which is when their PrecG points are computed.
type registry struct {
	once   sync.Once
	mu     sync.RWMutex
	curves map[string]*DomainParams
}

var curveRegistry registry

func (r *registry) init() {
	r.once.Do(func() {
		r.curves = make(map[string]*DomainParams)
		for _, d := range builtinCurves() {
			prec, err := ComputePrecomputedPoint(d)
			if err != nil {
				panic(errors.Wrapf(err, "built-in curve %s", d.Name))
			}
			d.PrecG = prec
			r.curves[d.Name] = d
		}
	})
}

func (r *registry) add(d *DomainParams) error {
	if d == nil || d.Name == "" {
		return makeError(ErrInvalidParams, "curve must have a name")
	}
	if err := d.Validate(); err != nil {
		return errors.Wrapf(err, "curve %s", d.Name)
	}
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.curves[d.Name]; ok {
		return errors.Errorf("curve %s is already registered", d.Name)
	}
	r.curves[d.Name] = d.Clone()
	return nil
}

func (r *registry) lookup(name string) (*DomainParams, error) {
	r.init()
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.curves[name]
	if !ok {
		return nil, errors.Wrapf(makeError(ErrUnknownCurve, "unknown curve"), "curve %q", name)
	}
	return d.Clone(), nil
}

func (r *registry) names() []string {
	r.init()
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.curves))
	for name := range r.curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a named curve to the catalogue. Names are unique.
func Register(params *DomainParams) error {
	return curveRegistry.add(params)
}

// Lookup returns a copy of the named curve
func Lookup(name string) (*DomainParams, error) {
	return curveRegistry.lookup(name)
}

// Curves returns the registered curve names in sorted order
func Curves() []string {
	return curveRegistry.names()
}

func mustLookup(name string) *DomainParams {
	d, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return d
}

// P224 returns the NIST P-224 domain parameters
func P224() *DomainParams { return mustLookup("P-224") }

// P256 returns the NIST P-256 domain parameters
func P256() *DomainParams { return mustLookup("P-256") }

// P384 returns the NIST P-384 domain parameters
func P384() *DomainParams { return mustLookup("P-384") }

// P521 returns the NIST P-521 domain parameters
func P521() *DomainParams { return mustLookup("P-521") }

// Secp256k1 returns the SEC 2 secp256k1 domain parameters
func Secp256k1() *DomainParams { return mustLookup("secp256k1") }

// BrainpoolP256r1 returns the RFC 5639 brainpoolP256r1 domain parameters
func BrainpoolP256r1() *DomainParams { return mustLookup("brainpoolP256r1") }
