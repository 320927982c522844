package feature

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/ieee0824/recite-go/internal/simd"
)

// DFT computes the discrete Fourier transform of a real signal directly in
// O(N^2). It is the reference the fast paths are checked against.
func DFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var re, im float64
		for j, v := range x {
			angle := -2.0 * math.Pi * float64(k) * float64(j) / float64(n)
			re += v * math.Cos(angle)
			im += v * math.Sin(angle)
		}
		out[k] = complex(re, im)
	}
	return out
}

// Spectrum returns the magnitude spectrum sqrt(re^2+im^2) of frame for the
// first len(frame)/2 bins. Power-of-two lengths take the radix-2 path; other
// lengths go through a mixed-radix/Bluestein transform.
func Spectrum(frame []float64) []float64 {
	n := len(frame)
	if n < 2 {
		return []float64{}
	}
	if isPowerOfTwo(n) {
		ws := newFFTWorkspace(n)
		ws.computeMagnitude(frame)
		out := make([]float64, n/2)
		copy(out, ws.mag)
		return out
	}
	return magnitudeHalf(fft.FFTReal(frame))
}

func magnitudeHalf(x []complex128) []float64 {
	mag := make([]float64, len(x)/2)
	for i := range mag {
		r, im := real(x[i]), imag(x[i])
		mag[i] = math.Sqrt(r*r + im*im)
	}
	return mag
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func log2(n int) int {
	bits := 0
	for v := n; v > 1; v >>= 1 {
		bits++
	}
	return bits
}

func bitReverse(x, bits int) int {
	var result int
	for i := 0; i < bits; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}

// fftWorkspace holds scratch buffers for one magnitude-spectrum computation.
// Uses split real/imaginary layout for SIMD-friendly butterfly operations.
// A workspace belongs to a single call chain and is never shared.
type fftWorkspace struct {
	bufRe []float64 // [fftSize] real part
	bufIm []float64 // [fftSize] imaginary part
	mag   []float64 // [fftSize/2]
	perm  []int     // bit-reversal permutation table
	twRe  [][]float64
	twIm  [][]float64
	dft   []float64 // scratch for non power-of-two sizes
}

func newFFTWorkspace(fftSize int) *fftWorkspace {
	ws := &fftWorkspace{mag: make([]float64, fftSize/2)}
	if !isPowerOfTwo(fftSize) {
		ws.dft = make([]float64, fftSize)
		return ws
	}
	bits := log2(fftSize)

	// Pre-compute bit-reversal permutation
	perm := make([]int, fftSize)
	for i := 0; i < fftSize; i++ {
		perm[i] = bitReverse(i, bits)
	}

	// Pre-compute twiddle factors in split R/I layout
	var twRe, twIm [][]float64
	for size := 2; size <= fftSize; size *= 2 {
		halfSize := size / 2
		re := make([]float64, halfSize)
		im := make([]float64, halfSize)
		w := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		wn := complex(1, 0)
		for k := 0; k < halfSize; k++ {
			re[k] = real(wn)
			im[k] = imag(wn)
			wn *= w
		}
		twRe = append(twRe, re)
		twIm = append(twIm, im)
	}

	ws.bufRe = make([]float64, fftSize)
	ws.bufIm = make([]float64, fftSize)
	ws.perm = perm
	ws.twRe = twRe
	ws.twIm = twIm
	return ws
}

// computeMagnitude transforms frame (already windowed) and writes the
// magnitudes of the first fftSize/2 bins into ws.mag.
func (ws *fftWorkspace) computeMagnitude(frame []float64) {
	if ws.dft != nil {
		copy(ws.dft, frame)
		copy(ws.mag, magnitudeHalf(fft.FFTReal(ws.dft)))
		return
	}
	n := len(ws.bufRe)
	copy(ws.bufRe, frame)
	clear(ws.bufIm)

	// In-place bit-reversal using pre-computed permutation
	for i := 0; i < n; i++ {
		j := ws.perm[i]
		if i < j {
			ws.bufRe[i], ws.bufRe[j] = ws.bufRe[j], ws.bufRe[i]
		}
	}

	for stage, size := 0, 2; size <= n; stage, size = stage+1, size*2 {
		halfSize := size / 2
		for start := 0; start < n; start += size {
			simd.ButterflyBlock(
				ws.bufRe[start:start+halfSize],
				ws.bufIm[start:start+halfSize],
				ws.bufRe[start+halfSize:start+size],
				ws.bufIm[start+halfSize:start+size],
				ws.twRe[stage],
				ws.twIm[stage])
		}
	}

	for i := range ws.mag {
		r := ws.bufRe[i]
		im := ws.bufIm[i]
		ws.mag[i] = math.Sqrt(r*r + im*im)
	}
}
