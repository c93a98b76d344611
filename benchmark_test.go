package visualcrypt

import "testing"

func benchmarkEncode(b *testing.B, opt Options) {
	src := gradientImage(256, 256)
	b.SetBytes(256 * 256 * 4)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(src, opt); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeColor2(b *testing.B) {
	benchmarkEncode(b, Options{Shares: 2, Color: true})
}

func BenchmarkEncodeGray4(b *testing.B) {
	benchmarkEncode(b, Options{Shares: 4})
}

func BenchmarkEncodeWorkers(b *testing.B) {
	benchmarkEncode(b, Options{Shares: 2, Color: true, Workers: 4})
}
