package ecverify

// fieldTemps is the number of scratch registers the point formulas need
const fieldTemps = 12

// field is arithmetic mod p on Montgomery residues. The scratch registers in
// t belong to the workarea that owns the field; a point routine may use any of
// them and nothing survives across calls.
type field struct {
	p   *Modulus
	one Nat // R mod p
	t   [fieldTemps]Nat
}

func (f *field) mul(z, x, y Nat) { f.p.montMul(z, x, y) }

func (f *field) sqr(z, x Nat) { f.p.montMul(z, x, x) }

func (f *field) add(z, x, y Nat) { f.p.modAdd(z, x, y) }

func (f *field) sub(z, x, y Nat) { f.p.modSub(z, x, y) }

// toMont converts a reduced x into Montgomery form
func (f *field) toMont(z, x Nat) { f.p.toMont(z, x) }

// fromMont converts out of Montgomery form
func (f *field) fromMont(z, x Nat) { f.p.fromMont(z, x) }

// inv sets z = x^-1 with both sides in Montgomery form
func (f *field) inv(z, x Nat) error {
	f.fromMont(z, x)
	if err := f.p.inverse(z, z); err != nil {
		return err
	}
	f.toMont(z, z)
	return nil
}

// importElement loads a big-endian coordinate into Montgomery form. It
// returns 1 if the value is below p and 0 otherwise; z is only meaningful in
// the first case.
func (f *field) importElement(z Nat, b []byte) uint64 {
	z.setBytes(b)
	below := uint64(cmp(z, f.p.m)&flagCarry) >> 1
	f.toMont(z, z)
	return below
}

// exportElement writes a Montgomery-form element big-endian into out
func (f *field) exportElement(out []byte, x Nat, scratch Nat) []byte {
	f.fromMont(scratch, x)
	return scratch.fillBytes(out)
}
