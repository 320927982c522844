package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// buildWAV constructs a minimal valid WAV file in memory.
func buildWAV(sampleRate uint32, bitsPerSample, numChannels uint16, samples []int16) []byte {
	var buf bytes.Buffer
	dataSize := uint32(len(samples) * 2)
	byteRate := sampleRate * uint32(numChannels) * uint32(bitsPerSample) / 8
	blockAlign := numChannels * bitsPerSample / 8

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))    // chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(&buf, binary.LittleEndian, numChannels)
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, bitsPerSample)

	// data chunk
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

func TestReadWAV_Valid(t *testing.T) {
	// Generate a 440Hz sine wave, 100 samples at 16kHz
	n := 100
	raw := make([]int16, n)
	for i := range raw {
		raw[i] = int16(16000 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}

	data := buildWAV(16000, 16, 1, raw)
	r := bytes.NewReader(data)

	samples, header, err := ReadWAV(r)
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}

	if header.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", header.SampleRate)
	}
	if header.NumChannels != 1 {
		t.Errorf("NumChannels = %d, want 1", header.NumChannels)
	}
	if header.BitsPerSample != 16 {
		t.Errorf("BitsPerSample = %d, want 16", header.BitsPerSample)
	}
	if header.NumSamples != n {
		t.Errorf("NumSamples = %d, want %d", header.NumSamples, n)
	}
	if len(samples) != n {
		t.Fatalf("len(samples) = %d, want %d", len(samples), n)
	}

	// Verify conversion: int16 -> float64
	for i := 0; i < n; i++ {
		want := float64(raw[i]) / 32768.0
		if math.Abs(samples[i]-want) > 1e-10 {
			t.Errorf("samples[%d] = %f, want %f", i, samples[i], want)
		}
	}
}

func TestReadWAV_NotRIFF(t *testing.T) {
	data := []byte("NOT_RIFF_DATA_HERE_EXTRA")
	r := bytes.NewReader(data)
	_, _, err := ReadWAV(r)
	if !errors.Is(err, ErrNotWAV) {
		t.Fatalf("err = %v, want ErrNotWAV", err)
	}
}

func TestReadWAV_AnySampleRate(t *testing.T) {
	raw := []int16{0, 16384, -16384, 0}
	data := buildWAV(44100, 16, 1, raw)
	samples, header, err := ReadWAV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if header.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", header.SampleRate)
	}
	if len(samples) != 4 || samples[1] != 0.5 || samples[2] != -0.5 {
		t.Errorf("samples = %v, want [0 0.5 -0.5 0]", samples)
	}
}

func TestReadWAV_StereoDownmix(t *testing.T) {
	// interleaved L/R frames
	raw := []int16{16384, 0, -16384, -16384, 8192, 24576}
	data := buildWAV(22050, 16, 2, raw)
	samples, header, err := ReadWAV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if header.NumChannels != 2 || header.NumSamples != 3 {
		t.Errorf("header = %+v, want 2 channels, 3 samples", header)
	}
	want := []float64{0.25, -0.5, 0.5}
	if len(samples) != len(want) {
		t.Fatalf("len(samples) = %d, want %d", len(samples), len(want))
	}
	for i := range want {
		if math.Abs(samples[i]-want[i]) > 1e-12 {
			t.Errorf("samples[%d] = %f, want %f", i, samples[i], want[i])
		}
	}
}

func TestReadWAV_UnsupportedBits(t *testing.T) {
	data := buildWAV(16000, 8, 1, []int16{0, 0})
	_, _, err := ReadWAV(bytes.NewReader(data))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadWAV_SkipsUnknownChunk(t *testing.T) {
	data := buildWAV(16000, 16, 1, []int16{100, 200})
	// splice a 3-byte "LIST" chunk (padded to 4) between fmt and data
	extra := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	spliced := append(append(append([]byte(nil), data[:36]...), extra...), data[36:]...)
	samples, _, err := ReadWAV(bytes.NewReader(spliced))
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if len(samples) != 2 || samples[0] != 100.0/32768.0 {
		t.Errorf("samples = %v", samples)
	}
}

func TestWriteWAV_RoundTrip(t *testing.T) {
	in := []float64{0, 0.5, -0.5, 1.5, -1.5}
	var buf bytes.Buffer
	if err := WriteWAV(&buf, in, 8000); err != nil {
		t.Fatalf("WriteWAV error: %v", err)
	}
	out, header, err := ReadWAV(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if header.SampleRate != 8000 || header.NumChannels != 1 || header.NumSamples != len(in) {
		t.Errorf("header = %+v", header)
	}
	want := []float64{0, 0.5, -0.5, 1, -1}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-4 {
			t.Errorf("out[%d] = %f, want %f", i, out[i], want[i])
		}
	}
}
