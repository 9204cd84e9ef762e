package ecverify

import (
	"encoding/hex"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// curveDocument is the YAML form of a curve catalogue:
//
//	curves:
//	  - name: brainpoolP256r1
//	    p: a9fb57db...
//	    n: a9fb57db...
//	    a: 7d5a0975...
//	    b: 26dc5c6c...
//	    gx: 8bd2aeb9...
//	    gy: 547ef835...
//
// Integers are hex strings, with an optional 0x prefix. precgx and precgy may
// be given; when absent PrecG is computed on load.
type curveDocument struct {
	Curves []curveEntry `yaml:"curves"`
}

type curveEntry struct {
	Name   string `yaml:"name"`
	P      string `yaml:"p"`
	N      string `yaml:"n"`
	A      string `yaml:"a"`
	B      string `yaml:"b"`
	Gx     string `yaml:"gx"`
	Gy     string `yaml:"gy"`
	PrecGx string `yaml:"precgx,omitempty"`
	PrecGy string `yaml:"precgy,omitempty"`
}

// decodeInt decodes a hex integer into exactly size bytes
func decodeInt(field, s string, size int) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "field %s", field)
	}
	for len(raw) > 0 && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) > size {
		return nil, errors.Errorf("field %s is longer than %d bytes", field, size)
	}
	out := make([]byte, size)
	copy(out[size-len(raw):], raw)
	return out, nil
}

// hexLen is the byte length of a hex integer without leading zeros
func hexLen(s string) int {
	s = strings.TrimLeft(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X"), "0")
	return (len(s) + 1) / 2
}

func (e *curveEntry) params() (*DomainParams, error) {
	if e.Name == "" {
		return nil, errors.New("curve entry without a name")
	}
	d := &DomainParams{Name: e.Name, ByteLenP: hexLen(e.P), ByteLenN: hexLen(e.N)}
	lp := d.ByteLenP
	fields := []struct {
		name string
		src  string
		dst  *[]byte
		size int
	}{
		{"p", e.P, &d.P, lp},
		{"n", e.N, &d.N, d.ByteLenN},
		{"a", e.A, &d.A, lp},
		{"b", e.B, &d.B, lp},
	}
	for _, f := range fields {
		v, err := decodeInt(f.name, f.src, f.size)
		if err != nil {
			return nil, errors.Wrapf(err, "curve %s", e.Name)
		}
		*f.dst = v
	}

	point := func(xname, x, yname, y string) ([]byte, error) {
		bx, err := decodeInt(xname, x, lp)
		if err != nil {
			return nil, err
		}
		by, err := decodeInt(yname, y, lp)
		if err != nil {
			return nil, err
		}
		return append(bx, by...), nil
	}
	var err error
	if d.G, err = point("gx", e.Gx, "gy", e.Gy); err != nil {
		return nil, errors.Wrapf(err, "curve %s", e.Name)
	}
	switch {
	case e.PrecGx == "" && e.PrecGy == "":
		if d.PrecG, err = ComputePrecomputedPoint(d); err != nil {
			return nil, errors.Wrapf(err, "curve %s: computing PrecG", e.Name)
		}
	case e.PrecGx == "" || e.PrecGy == "":
		return nil, errors.Errorf("curve %s: precgx and precgy must be given together", e.Name)
	default:
		if d.PrecG, err = point("precgx", e.PrecGx, "precgy", e.PrecGy); err != nil {
			return nil, errors.Wrapf(err, "curve %s", e.Name)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrapf(err, "curve %s", e.Name)
	}
	return d, nil
}

// LoadCurves parses a YAML curve catalogue. Nothing is registered.
func LoadCurves(r io.Reader) ([]*DomainParams, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading curve catalogue")
	}
	var doc curveDocument
	if err := yaml.UnmarshalStrict(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing curve catalogue")
	}
	out := make([]*DomainParams, 0, len(doc.Curves))
	for i := range doc.Curves {
		d, err := doc.Curves[i].params()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// RegisterCurves loads a YAML catalogue and registers every curve in it. It
// stops at the first curve that fails to register.
func RegisterCurves(r io.Reader) error {
	curves, err := LoadCurves(r)
	if err != nil {
		return err
	}
	for _, d := range curves {
		if err := Register(d); err != nil {
			return err
		}
	}
	return nil
}
