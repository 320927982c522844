package feature

import (
	"fmt"
	"math"
)

// WindowType selects the taper applied to each frame before the FFT.
type WindowType string

const (
	WindowHamming  WindowType = "hamming"
	WindowHann     WindowType = "hann"
	WindowBlackman WindowType = "blackman"
)

// ParseWindowType converts a configuration string into a WindowType.
// The empty string maps to WindowHann.
func ParseWindowType(s string) (WindowType, error) {
	switch WindowType(s) {
	case "":
		return WindowHann, nil
	case WindowHamming, WindowHann, WindowBlackman:
		return WindowType(s), nil
	}
	return "", fmt.Errorf("%w: unknown window type %q", ErrInvalidConfig, s)
}

// Window returns the n coefficients of the requested window function.
func Window(t WindowType, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: window length %d", ErrInvalidConfig, n)
	}
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w, nil
	}
	den := float64(n - 1)
	switch t {
	case WindowHamming:
		for i := range w {
			w[i] = 0.54 - 0.46*math.Cos(2.0*math.Pi*float64(i)/den)
		}
	case WindowHann:
		for i := range w {
			w[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/den))
		}
	case WindowBlackman:
		for i := range w {
			x := 2.0 * math.Pi * float64(i) / den
			w[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		}
	default:
		return nil, fmt.Errorf("%w: unknown window type %q", ErrInvalidConfig, t)
	}
	return w, nil
}

// applyWindow writes src[i]*w[i] into dst.
func applyWindow(dst, src, w []float64) {
	src = src[:len(dst)]
	w = w[:len(dst)]
	for i := range dst {
		dst[i] = src[i] * w[i]
	}
}

// PreEmphasize applies a first-order high-pass filter: y[n] = x[n] - alpha*x[n-1].
func PreEmphasize(samples []float64, alpha float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	out[0] = samples[0]
	for i := 1; i < len(samples); i++ {
		out[i] = samples[i] - alpha*samples[i-1]
	}
	return out
}

// Frame is one fixed-length analysis window cut from a sample buffer.
// Raw holds the untouched samples and Samples the windowed copy. Both are
// owned by the Frame and never alias the caller's buffer.
type Frame struct {
	Index   int // frame (hop) index
	Start   int // offset of the first sample in the source buffer
	Raw     []float64
	Samples []float64
}

// NumFrames returns how many full frames fit into n samples.
func NumFrames(n, frameSize, hopSize int) int {
	if frameSize <= 0 || hopSize <= 0 || n < frameSize {
		return 0
	}
	return (n-frameSize)/hopSize + 1
}

// ExtractFrames splits samples into overlapping frames of frameSize samples,
// advancing hopSize samples per frame, and applies the window to each one.
// It yields floor((len(samples)-frameSize)/hopSize)+1 frames, or none when
// the input is shorter than a frame.
func ExtractFrames(samples []float64, frameSize, hopSize int, window WindowType) ([]Frame, error) {
	if err := checkFraming(frameSize, hopSize); err != nil {
		return nil, err
	}
	w, err := Window(window, frameSize)
	if err != nil {
		return nil, err
	}
	n := NumFrames(len(samples), frameSize, hopSize)
	frames := make([]Frame, n)
	buf := make([]float64, 2*n*frameSize)
	for i := range frames {
		start := i * hopSize
		raw := buf[2*i*frameSize : (2*i+1)*frameSize : (2*i+1)*frameSize]
		win := buf[(2*i+1)*frameSize : (2*i+2)*frameSize : (2*i+2)*frameSize]
		copy(raw, samples[start:start+frameSize])
		applyWindow(win, raw, w)
		frames[i] = Frame{Index: i, Start: start, Raw: raw, Samples: win}
	}
	return frames, nil
}

func checkFraming(frameSize, hopSize int) error {
	if frameSize <= 0 {
		return fmt.Errorf("%w: frame size %d must be positive", ErrInvalidConfig, frameSize)
	}
	if hopSize <= 0 {
		return fmt.Errorf("%w: hop size %d must be positive", ErrInvalidConfig, hopSize)
	}
	if hopSize > frameSize {
		return fmt.Errorf("%w: hop size %d exceeds frame size %d", ErrInvalidConfig, hopSize, frameSize)
	}
	return nil
}
