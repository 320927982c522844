package feature

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestSpectrum_Cosine(t *testing.T) {
	// 8-point spectrum of a pure cosine at bin 2
	n := 8
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * 2 * float64(i) / float64(n))
	}
	mag := Spectrum(x)
	if len(mag) != n/2 {
		t.Fatalf("len = %d, want %d", len(mag), n/2)
	}
	for i, m := range mag {
		want := 0.0
		if i == 2 {
			want = 4.0 // N/2
		}
		if math.Abs(m-want) > 1e-10 {
			t.Errorf("|X[%d]| = %f, want %f", i, m, want)
		}
	}
}

func TestSpectrum_Impulse(t *testing.T) {
	frame := make([]float64, 16)
	frame[0] = 1.0
	mag := Spectrum(frame)
	if len(mag) != 8 {
		t.Fatalf("len(mag) = %d, want 8", len(mag))
	}
	for i, v := range mag {
		if math.Abs(v-1.0) > 1e-10 {
			t.Errorf("mag[%d] = %f, want 1.0", i, v)
		}
	}
}

func TestSpectrum_MatchesDFT(t *testing.T) {
	for _, n := range []int{2, 8, 12, 64, 100, 441, 1024} {
		frame := make([]float64, n)
		for i := range frame {
			frame[i] = math.Sin(2*math.Pi*3.3*float64(i)/float64(n)) + 0.25*math.Cos(2*math.Pi*7*float64(i)/float64(n))
		}
		got := Spectrum(frame)
		want := DFT(frame)
		if len(got) != n/2 {
			t.Fatalf("n=%d: len = %d, want %d", n, len(got), n/2)
		}
		for k := range got {
			if d := math.Abs(got[k] - cmplx.Abs(want[k])); d > 1e-8 {
				t.Errorf("n=%d: mag[%d] = %f, DFT %f", n, k, got[k], cmplx.Abs(want[k]))
			}
		}
	}
}

func TestSpectrum_Short(t *testing.T) {
	if got := Spectrum(nil); len(got) != 0 {
		t.Errorf("Spectrum(nil) = %v, want empty", got)
	}
	if got := Spectrum([]float64{1}); len(got) != 0 {
		t.Errorf("Spectrum([1]) = %v, want empty", got)
	}
}

func TestSpectrum_Pure(t *testing.T) {
	frame := []float64{0.5, -1, 0.25, 2, 0, 1, -0.5, 0.75}
	orig := append([]float64(nil), frame...)
	a := Spectrum(frame)
	b := Spectrum(frame)
	for i := range frame {
		if frame[i] != orig[i] {
			t.Fatalf("input modified at %d", i)
		}
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("mag[%d] differs between calls: %f vs %f", i, a[i], b[i])
		}
	}
}
