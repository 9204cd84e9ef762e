package ecverify

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"testing"

	sha256simd "github.com/minio/sha256-simd"
)

type benchData struct {
	params       *DomainParams
	sec, pub     []byte
	msghash, sig []byte
}

var benchCache = map[string]*benchData{}

func benchmarkData(b *testing.B, name string) *benchData {
	if d, ok := benchCache[name]; ok {
		return d
	}
	params, err := Lookup(name)
	if err != nil {
		b.Fatal(err)
	}
	d := &benchData{params: params}
	// fixed secret key so runs are comparable
	d.sec = make([]byte, params.ByteLenN)
	for i := range d.sec {
		d.sec[i] = 0x01
	}
	if d.pub, err = PublicKey(params, d.sec); err != nil {
		b.Fatal(err)
	}
	d.msghash = HashForCurve(params, []byte("benchmark message"))
	if d.sig, err = Sign(params, d.sec, d.msghash); err != nil {
		b.Fatal(err)
	}
	benchCache[name] = d
	return d
}

func benchCurves() []string {
	return []string{"P-256", "P-384", "P-521", "secp256k1", "brainpoolP256r1"}
}

func BenchmarkVerify(b *testing.B) {
	for _, name := range benchCurves() {
		b.Run(name, func(b *testing.B) {
			d := benchmarkData(b, name)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if res, _ := Verify(d.params, d.pub, d.sig, d.msghash); res.Status != StatusOK {
					b.Fatal(res.Status)
				}
			}
		})
	}
}

func BenchmarkVerifyParallel(b *testing.B) {
	d := benchmarkData(b, "P-256")
	v := NewVerifier()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			v.Verify(ctx, d.params, d.pub, d.sig, d.msghash)
		}
	})
}

func BenchmarkSign(b *testing.B) {
	for _, name := range benchCurves() {
		b.Run(name, func(b *testing.B) {
			d := benchmarkData(b, name)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				Sign(d.params, d.sec, d.msghash)
			}
		})
	}
}

func BenchmarkPublicKey(b *testing.B) {
	d := benchmarkData(b, "P-256")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PublicKey(d.params, d.sec)
	}
}

func BenchmarkScalarMult(b *testing.B) {
	d := benchmarkData(b, "P-256")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ScalarMult(d.params, d.pub, d.sec)
	}
}

func BenchmarkComputePrecomputedPoint(b *testing.B) {
	d := benchmarkData(b, "P-256")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputePrecomputedPoint(d.params)
	}
}

func BenchmarkECKeyPairGenerate(b *testing.B) {
	params := P256()
	for i := 0; i < b.N; i++ {
		ECKeyPairGenerate(params, nil)
	}
}

func BenchmarkModulusInverse(b *testing.B) {
	params := P256()
	n, err := NewModulus(params.N)
	if err != nil {
		b.Fatal(err)
	}
	x := make([]byte, 32)
	if _, err := rand.Read(x); err != nil {
		b.Fatal(err)
	}
	x[0] &= 0x7f
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.Inverse(x)
	}
}

func BenchmarkSHA256(b *testing.B) {
	data := make([]byte, 64)
	rand.Read(data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		HashSHA256(data)
	}
}

func BenchmarkHMACSHA256(b *testing.B) {
	key := make([]byte, 32)
	data := make([]byte, 64)
	rand.Read(key)
	rand.Read(data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mac := hmac.New(sha256simd.New, key)
		mac.Write(data)
		mac.Sum(nil)
	}
}

func BenchmarkRFC6979(b *testing.B) {
	seed := make([]byte, 64)
	rand.Read(seed)
	nonce := make([]byte, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng := NewRFC6979HMACSHA256(seed)
		rng.Generate(nonce)
		rng.Clear()
	}
}
