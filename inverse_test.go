package ecverify

import (
	"crypto/elliptic"
	"errors"
	"math/big"
	"testing"
)

func checkInverse(t *testing.T, m, a *big.Int) {
	t.Helper()
	mod := mustModulus(t, m)
	got, err := mod.Inverse(a.Bytes())
	want := new(big.Int).ModInverse(a, m)
	if want == nil {
		if !errors.Is(err, ErrNotInvertible) {
			t.Fatalf("m=%x a=%x: got %v, want ErrNotInvertible", m, a, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("m=%x a=%x: Inverse failed: %v", m, a, err)
	}
	if new(big.Int).SetBytes(got).Cmp(want) != 0 {
		t.Fatalf("m=%x a=%x: got %x want %x", m, a, got, want)
	}
	// a*a^-1 == 1 through the modular multiply
	if one := new(big.Int).SetBytes(mod.Mul(a.Bytes(), got)); one.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("m=%x a=%x: a*a^-1 = %x", m, a, one)
	}
}

func TestInverseOddPrime(t *testing.T) {
	for _, m := range testModuli() {
		for i := 0; i < 20; i++ {
			a := randBig(t, m)
			if a.Sign() == 0 {
				continue
			}
			checkInverse(t, m, a)
		}
		checkInverse(t, m, big.NewInt(1))
		checkInverse(t, m, new(big.Int).Sub(m, big.NewInt(1)))
	}
}

func TestInverseOddComposite(t *testing.T) {
	p := elliptic.P224().Params().N
	q := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	m := new(big.Int).Mul(p, q)
	for i := 0; i < 20; i++ {
		checkInverse(t, m, randBig(t, m))
	}
	// shares the factor q
	checkInverse(t, m, new(big.Int).Mul(q, big.NewInt(3)))
}

func TestInverseEven(t *testing.T) {
	for _, k := range []uint{1, 2, 31, 63, 64, 65, 128, 130} {
		for _, oddBits := range []int{1, 5, 64, 190} {
			var m *big.Int
			if oddBits == 1 {
				m = new(big.Int).Lsh(big.NewInt(1), k)
			} else {
				m = evenModulus(t, oddBits, k)
			}
			for i := 0; i < 10; i++ {
				checkInverse(t, m, randBig(t, m))
			}
			checkInverse(t, m, big.NewInt(1))
			checkInverse(t, m, big.NewInt(2))
		}
	}
}

func TestInverseZero(t *testing.T) {
	mod := mustModulus(t, elliptic.P256().Params().N)
	if _, err := mod.Inverse(nil); !errors.Is(err, ErrNotInvertible) {
		t.Errorf("inverse of zero: got %v", err)
	}
	if _, err := mod.Inverse(elliptic.P256().Params().N.Bytes()); !errors.Is(err, ErrNotInvertible) {
		t.Errorf("inverse of n mod n: got %v", err)
	}
}

func TestExactDivide(t *testing.T) {
	limit := new(big.Int).Lsh(big.NewInt(1), 300)
	for i := 0; i < 50; i++ {
		q := randBig(t, limit)
		y := randBig(t, limit)
		y.Add(y, big.NewInt(1))
		if i%3 == 0 {
			y.Lsh(y, uint(i))
		}
		x := new(big.Int).Mul(q, y)
		xb := x.FillBytes(make([]byte, len(x.Bytes())+3))

		got, err := ExactDivide(xb, y.Bytes())
		if err != nil {
			t.Fatalf("ExactDivide(%x, %x) failed: %v", x, y, err)
		}
		if len(got) != len(xb) {
			t.Fatalf("output length %d, want %d", len(got), len(xb))
		}
		if new(big.Int).SetBytes(got).Cmp(q) != 0 {
			t.Fatalf("ExactDivide(%x, %x) = %x, want %x", x, y, got, q)
		}
	}
}

func TestExactDivideErrors(t *testing.T) {
	if _, err := ExactDivide([]byte{10}, []byte{3}); !errors.Is(err, ErrNotDivisible) {
		t.Errorf("10/3: got %v", err)
	}
	if _, err := ExactDivide([]byte{10}, []byte{4}); !errors.Is(err, ErrNotDivisible) {
		t.Errorf("10/4: got %v", err)
	}
	if _, err := ExactDivide([]byte{10}, []byte{0, 0}); !errors.Is(err, ErrInvalidModulus) {
		t.Errorf("10/0: got %v", err)
	}
	got, err := ExactDivide([]byte{0, 0}, []byte{7})
	if err != nil || len(got) != 2 || got[0] != 0 || got[1] != 0 {
		t.Errorf("0/7 = %x, %v", got, err)
	}
}
