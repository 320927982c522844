// Package audio decodes PCM recordings into normalised mono samples and
// adapts their rate and tempo for feature extraction.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	// ErrNotWAV indicates input that is not a RIFF/WAVE stream.
	ErrNotWAV = errors.New("audio: not a RIFF/WAVE stream")

	// ErrUnsupportedFormat indicates a WAV encoding other than 16-bit PCM.
	ErrUnsupportedFormat = errors.New("audio: unsupported WAV format")
)

// WAVHeader holds the parsed RIFF/WAV header fields.
type WAVHeader struct {
	SampleRate    uint32
	BitsPerSample uint16
	NumChannels   uint16
	NumSamples    int // samples per channel
}

// ReadWAV reads a 16-bit PCM WAV stream of any sample rate and channel
// count and returns mono float64 samples in [-1.0, 1.0). Multi-channel
// input is downmixed by averaging the channels of each frame.
func ReadWAV(r io.ReadSeeker) ([]float64, WAVHeader, error) {
	var header WAVHeader

	// Read RIFF header
	var riffID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &riffID); err != nil {
		return nil, header, fmt.Errorf("read RIFF ID: %w", err)
	}
	if string(riffID[:]) != "RIFF" {
		return nil, header, ErrNotWAV
	}

	var fileSize uint32
	if err := binary.Read(r, binary.LittleEndian, &fileSize); err != nil {
		return nil, header, fmt.Errorf("read file size: %w", err)
	}

	var waveID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &waveID); err != nil {
		return nil, header, fmt.Errorf("read WAVE ID: %w", err)
	}
	if string(waveID[:]) != "WAVE" {
		return nil, header, ErrNotWAV
	}

	// Read chunks
	var fmtFound, dataFound bool
	var samples []float64

	for {
		var chunkID [4]byte
		if err := binary.Read(r, binary.LittleEndian, &chunkID); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, header, fmt.Errorf("read chunk ID: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, header, fmt.Errorf("read chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if err := readFmtChunk(r, chunkSize, &header); err != nil {
				return nil, header, err
			}
			fmtFound = true

		case "data":
			if !fmtFound {
				return nil, header, fmt.Errorf("%w: data chunk before fmt chunk", ErrNotWAV)
			}
			var err error
			samples, err = readDataChunk(r, chunkSize, &header)
			if err != nil {
				return nil, header, err
			}
			dataFound = true

		default:
			// Skip unknown chunks; align to even boundary
			skip := int64(chunkSize)
			if chunkSize%2 != 0 {
				skip++
			}
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return nil, header, fmt.Errorf("skip chunk %q: %w", chunkID, err)
			}
		}

		if fmtFound && dataFound {
			break
		}
	}

	if !fmtFound {
		return nil, header, fmt.Errorf("%w: missing fmt chunk", ErrNotWAV)
	}
	if !dataFound {
		return nil, header, fmt.Errorf("%w: missing data chunk", ErrNotWAV)
	}

	return samples, header, nil
}

// ReadWAVFile is a convenience wrapper that opens a file path.
func ReadWAVFile(path string) ([]float64, WAVHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WAVHeader{}, err
	}
	defer f.Close()
	return ReadWAV(f)
}

func readFmtChunk(r io.ReadSeeker, size uint32, h *WAVHeader) error {
	var audioFormat uint16
	if err := binary.Read(r, binary.LittleEndian, &audioFormat); err != nil {
		return fmt.Errorf("read audio format: %w", err)
	}
	if audioFormat != 1 {
		return fmt.Errorf("%w: audio format %d (only PCM=1 supported)", ErrUnsupportedFormat, audioFormat)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.NumChannels); err != nil {
		return fmt.Errorf("read num channels: %w", err)
	}
	if h.NumChannels == 0 {
		return fmt.Errorf("%w: zero channels", ErrUnsupportedFormat)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.SampleRate); err != nil {
		return fmt.Errorf("read sample rate: %w", err)
	}
	if h.SampleRate == 0 {
		return fmt.Errorf("%w: zero sample rate", ErrUnsupportedFormat)
	}

	// Skip byteRate (4 bytes) and blockAlign (2 bytes)
	if _, err := r.Seek(6, io.SeekCurrent); err != nil {
		return fmt.Errorf("skip byte rate / block align: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.BitsPerSample); err != nil {
		return fmt.Errorf("read bits per sample: %w", err)
	}
	if h.BitsPerSample != 16 {
		return fmt.Errorf("%w: %d bits per sample (only 16 supported)", ErrUnsupportedFormat, h.BitsPerSample)
	}

	// Skip any extra fmt bytes
	consumed := uint32(16) // audioFormat(2) + numChannels(2) + sampleRate(4) + byteRate(4) + blockAlign(2) + bitsPerSample(2)
	if size > consumed {
		if _, err := r.Seek(int64(size-consumed), io.SeekCurrent); err != nil {
			return fmt.Errorf("skip extra fmt bytes: %w", err)
		}
	}

	return nil
}

func readDataChunk(r io.Reader, size uint32, h *WAVHeader) ([]float64, error) {
	channels := int(h.NumChannels)
	frameBytes := channels * int(h.BitsPerSample) / 8
	numFrames := int(size) / frameBytes
	h.NumSamples = numFrames

	raw := make([]int16, numFrames*channels)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("read PCM data: %w", err)
	}

	samples := make([]float64, numFrames)
	scale := 1.0 / (32768.0 * float64(channels))
	for i := range samples {
		sum := 0.0
		for _, s := range raw[i*channels : (i+1)*channels] {
			sum += float64(s)
		}
		samples[i] = sum * scale
	}

	return samples, nil
}

// WriteWAV writes mono samples as a 16-bit PCM WAV stream. Samples are
// clipped to [-1, 1].
func WriteWAV(w io.Writer, samples []float64, sampleRate int) error {
	dataSize := uint32(len(samples) * 2)
	hdr := struct {
		RIFF       [4]byte
		Size       uint32
		WAVE       [4]byte
		Fmt        [4]byte
		FmtSize    uint32
		Format     uint16
		Channels   uint16
		SampleRate uint32
		ByteRate   uint32
		BlockAlign uint16
		Bits       uint16
		Data       [4]byte
		DataSize   uint32
	}{
		RIFF:       [4]byte{'R', 'I', 'F', 'F'},
		Size:       36 + dataSize,
		WAVE:       [4]byte{'W', 'A', 'V', 'E'},
		Fmt:        [4]byte{'f', 'm', 't', ' '},
		FmtSize:    16,
		Format:     1,
		Channels:   1,
		SampleRate: uint32(sampleRate),
		ByteRate:   uint32(sampleRate) * 2,
		BlockAlign: 2,
		Bits:       16,
		Data:       [4]byte{'d', 'a', 't', 'a'},
		DataSize:   dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write WAV header: %w", err)
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		pcm[i] = int16(math.Round(s * 32767))
	}
	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("write PCM data: %w", err)
	}
	return nil
}
