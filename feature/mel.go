package feature

import "math"

// MelFloor is the lower bound applied to every filter energy before the log.
const MelFloor = 1e-10

// sparseFilter stores only the non-zero range of a triangular filter.
type sparseFilter struct {
	start  int       // first non-zero bin index
	coeffs []float64 // non-zero coefficient values
}

// MelFilterbank represents the triangular Mel-spaced filterbank applied to a
// magnitude spectrum of fftSize/2 bins.
type MelFilterbank struct {
	Filters [][]float64    // [numFilters][fftSize/2]
	sparse  []sparseFilter // sparse representation for fast inner loop
}

// NewMelFilterbank constructs numFilters triangular filters whose vertices
// are spaced uniformly on the mel scale between 0 Hz and the Nyquist
// frequency. Vertex bins are int(hz*fftSize/sampleRate).
func NewMelFilterbank(numFilters, fftSize int, sampleRate float64) *MelFilterbank {
	nBins := fftSize / 2
	melMin := hzToMel(0)
	melMax := hzToMel(sampleRate / 2.0)

	// numFilters+2 equally spaced points on the mel scale, mapped to bins
	binPoints := make([]int, numFilters+2)
	for i := range binPoints {
		mel := melMin + (melMax-melMin)*float64(i)/float64(numFilters+1)
		binPoints[i] = int(melToHz(mel) * float64(fftSize) / sampleRate)
	}

	filters := make([][]float64, numFilters)
	for i := 1; i <= numFilters; i++ {
		f := make([]float64, nBins)
		left, center, right := binPoints[i-1], binPoints[i], binPoints[i+1]
		for j := left; j < center && j < nBins; j++ {
			f[j] = float64(j-left) / float64(center-left)
		}
		for j := center; j < right && j < nBins; j++ {
			f[j] = float64(right-j) / float64(right-center)
		}
		filters[i-1] = f
	}

	fb := &MelFilterbank{Filters: filters}

	// Build sparse representation: only store non-zero coefficients per filter
	fb.sparse = make([]sparseFilter, numFilters)
	for i, f := range filters {
		start, end := 0, 0
		found := false
		for j, v := range f {
			if v != 0 {
				if !found {
					start = j
					found = true
				}
				end = j + 1
			}
		}
		if found {
			fb.sparse[i] = sparseFilter{
				start:  start,
				coeffs: make([]float64, end-start),
			}
			copy(fb.sparse[i].coeffs, f[start:end])
		}
	}

	return fb
}

// Apply multiplies the magnitude spectrum through each filter and returns
// log(max(energy, MelFloor)) per filter.
func (fb *MelFilterbank) Apply(spectrum []float64) []float64 {
	energies := make([]float64, len(fb.sparse))
	fb.applyInto(spectrum, energies)
	return energies
}

// applyInto writes log mel energies into dst using the sparse representation.
func (fb *MelFilterbank) applyInto(spectrum, dst []float64) {
	for i, sf := range fb.sparse {
		sum := 0.0
		end := sf.start + len(sf.coeffs)
		if end > len(spectrum) {
			end = len(spectrum)
		}
		if sf.start < end {
			ps := spectrum[sf.start:end]
			coeffs := sf.coeffs[:len(ps)]
			for j, p := range ps {
				sum += p * coeffs[j]
			}
		}
		dst[i] = math.Log(math.Max(sum, MelFloor))
	}
}

// DCT applies Type-II DCT to extract cepstral coefficients:
// c[k] = sum_j x[j] * cos(pi*k*(j+0.5)/n).
func DCT(logMelEnergies []float64, numCepstra int) []float64 {
	t := newDCTTable(numCepstra, len(logMelEnergies))
	cepstra := make([]float64, numCepstra)
	t.applyInto(logMelEnergies, cepstra)
	return cepstra
}

// dctTable holds precomputed cosine values for DCT.
type dctTable struct {
	cos [][]float64 // [numCepstra][numFilters]
}

func newDCTTable(numCepstra, numFilters int) *dctTable {
	t := &dctTable{cos: make([][]float64, numCepstra)}
	for k := 0; k < numCepstra; k++ {
		t.cos[k] = make([]float64, numFilters)
		for j := 0; j < numFilters; j++ {
			t.cos[k][j] = math.Cos(math.Pi * float64(k) * (float64(j) + 0.5) / float64(numFilters))
		}
	}
	return t
}

// applyInto computes DCT into dst using precomputed cosine table (no allocation).
func (t *dctTable) applyInto(logMelEnergies, dst []float64) {
	for k := range t.cos {
		sum := 0.0
		row := t.cos[k]
		for j, c := range row {
			sum += logMelEnergies[j] * c
		}
		dst[k] = sum
	}
}

func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10, mel/2595.0) - 1.0)
}
