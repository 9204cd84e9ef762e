package ecverify

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalogueEntry renders d in the YAML catalogue format
func catalogueEntry(name string, d *DomainParams, withPrec bool) string {
	lp := d.ByteLenP
	h := hex.EncodeToString
	var b strings.Builder
	fmt.Fprintf(&b, "  - name: %s\n", name)
	fmt.Fprintf(&b, "    p: %s\n    n: %s\n", h(d.P), h(d.N))
	fmt.Fprintf(&b, "    a: \"0x%s\"\n    b: %s\n", h(d.A), h(d.B))
	fmt.Fprintf(&b, "    gx: %s\n    gy: %s\n", h(d.G[:lp]), h(d.G[lp:]))
	if withPrec {
		fmt.Fprintf(&b, "    precgx: %s\n    precgy: %s\n", h(d.PrecG[:lp]), h(d.PrecG[lp:]))
	}
	return b.String()
}

func TestLoadCurves(t *testing.T) {
	bp, k1 := BrainpoolP256r1(), Secp256k1()
	doc := "curves:\n" + catalogueEntry("bp", bp, false) + catalogueEntry("k1", k1, true)

	curves, err := LoadCurves(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, curves, 2)

	bp.Name, k1.Name = "bp", "k1"
	assert.Equal(t, bp, curves[0])
	assert.Equal(t, k1, curves[1])
}

func TestLoadCurvesShortHex(t *testing.T) {
	// secp256k1 has a = 0, which a catalogue may write as a bare 0
	k1 := Secp256k1()
	doc := "curves:\n" + strings.Replace(catalogueEntry("k1", k1, false),
		"\"0x"+hex.EncodeToString(k1.A)+"\"", "\"0\"", 1)

	curves, err := LoadCurves(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, curves, 1)
	assert.Equal(t, k1.A, curves[0].A)
	assert.Equal(t, k1.PrecG, curves[0].PrecG)
}

func TestLoadCurvesErrors(t *testing.T) {
	bp := BrainpoolP256r1()
	entry := catalogueEntry("bp", bp, true)
	lp := bp.ByteLenP
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "curves:\n" + entry + "    cofactor: 1\n"},
		{"missing name", "curves:\n" + strings.Replace(entry, "name: bp", "name: \"\"", 1)},
		{"bad hex", "curves:\n" + strings.Replace(entry, "    b: ", "    b: zz", 1)},
		{"oversized coordinate", "curves:\n" + strings.Replace(entry, "    gx: ", "    gx: 01", 1)},
		{"half of PrecG", "curves:\n" + strings.Split(entry, "    precgy:")[0]},
		{"G off curve", "curves:\n" + strings.Replace(catalogueEntry("bp", bp, false),
			hex.EncodeToString(bp.G[lp:]), strings.Repeat("11", lp), 1)},
		{"not yaml", "curves: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCurves(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestRegisterCurves(t *testing.T) {
	name := uniqueCurveName(t)
	bp := BrainpoolP256r1()
	require.NoError(t, RegisterCurves(strings.NewReader("curves:\n"+catalogueEntry(name, bp, false))))

	d, err := Lookup(name)
	require.NoError(t, err)
	assert.Equal(t, bp.PrecG, d.PrecG)

	sec, pub, err := ECKeyPairGenerate(d, nil)
	require.NoError(t, err)
	hash := HashForCurve(d, []byte("catalogue"))
	sig, err := Sign(d, sec, hash)
	require.NoError(t, err)
	res, err := Verify(d, pub, sig, hash)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)

	// registering the same catalogue twice fails on the duplicate name
	assert.Error(t, RegisterCurves(strings.NewReader("curves:\n"+catalogueEntry(name, bp, false))))
}
