package stream

import (
	"bytes"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/recite-go/feature"
)

func testSignal(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 0.6*math.Sin(2*math.Pi*440*float64(i)/16000) + 0.2*math.Sin(float64(i)*0.013)
	}
	return s
}

func testExtractor(t *testing.T, preEmphasis float64) *feature.Extractor {
	t.Helper()
	cfg := feature.DefaultConfig()
	cfg.SampleRate = 16000
	cfg.FrameSize = 512
	cfg.HopSize = 160
	cfg.PreEmphasis = preEmphasis
	ext, err := feature.NewExtractor(cfg)
	require.NoError(t, err)
	return ext
}

func TestCoordinator_MatchesBatch(t *testing.T) {
	for _, alpha := range []float64{0, 0.97} {
		ext := testExtractor(t, alpha)
		samples := testSignal(8000)
		want, err := ext.Extract(samples)
		require.NoError(t, err)

		c := NewCoordinator(ext)
		var got []feature.Vector
		chunks := []int{1, 7, 160, 511, 2, 1000, 33}
		for pos, k := 0, 0; pos < len(samples); k++ {
			n := min(chunks[k%len(chunks)], len(samples)-pos)
			got = append(got, c.Push(samples[pos:pos+n])...)
			pos += n
		}

		require.Len(t, got, len(want), "alpha=%v", alpha)
		for i := range want {
			assert.Equal(t, want[i].Values(), got[i].Values(), "alpha=%v frame %d", alpha, i)
			assert.Equal(t, want[i].Timestamp, got[i].Timestamp)
		}
		st := c.Stats()
		assert.Equal(t, len(want), st.Frames)
		assert.Equal(t, len(samples), st.Samples)
	}
}

func TestCoordinator_Timestamps(t *testing.T) {
	ext := testExtractor(t, 0)
	c := NewCoordinator(ext)

	assert.Nil(t, c.Push(make([]float64, 511)))
	first := c.Push([]float64{0})
	require.Len(t, first, 1)
	assert.Equal(t, 0.0, first[0].Timestamp)

	assert.Empty(t, c.Push(make([]float64, 159)))
	second := c.Push([]float64{0})
	require.Len(t, second, 1)
	assert.InDelta(t, 160.0/16000.0, second[0].Timestamp, 1e-12)

	many := c.Push(make([]float64, 160*5))
	require.Len(t, many, 5)
	for k, v := range many {
		assert.InDelta(t, float64(k+2)*0.01, v.Timestamp, 1e-12)
	}
}

func TestCoordinator_HandlerAndReset(t *testing.T) {
	ext := testExtractor(t, 0.97)
	var handled []feature.Vector
	c := NewCoordinator(ext, WithHandler(func(v feature.Vector) { handled = append(handled, v) }), WithID("session-1"))
	assert.Equal(t, "session-1", c.ID())

	samples := testSignal(2000)
	first := c.Push(samples)
	assert.Equal(t, first, handled)

	c.Reset()
	assert.Equal(t, Stats{}, c.Stats())
	again := c.Push(samples)
	require.Equal(t, len(first), len(again))
	for i := range first {
		assert.Equal(t, first[i].Values(), again[i].Values())
		assert.Equal(t, first[i].Timestamp, again[i].Timestamp)
	}
}

func TestCoordinator_HandlerCallsBack(t *testing.T) {
	ext := testExtractor(t, 0)
	var c *Coordinator
	var seen []int
	c = NewCoordinator(ext, WithHandler(func(feature.Vector) {
		seen = append(seen, c.Stats().Frames)
	}))

	done := make(chan []feature.Vector)
	go func() { done <- c.Push(make([]float64, 512+2*160)) }()
	select {
	case out := <-done:
		require.Len(t, out, 3)
		assert.Equal(t, []int{3, 3, 3}, seen)
	case <-time.After(5 * time.Second):
		t.Fatal("Push blocked while the handler read Stats")
	}
}

func TestCoordinator_Overrun(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	c := NewCoordinator(testExtractor(t, 0), WithLogger(logger))
	c.budget = -1

	out := c.Push(testSignal(512 + 160))
	require.Len(t, out, 2)
	st := c.Stats()
	assert.Equal(t, 2, st.Overruns)
	assert.Positive(t, st.MaxCompute)
	assert.Contains(t, logs.String(), "hop overrun")
	assert.Contains(t, logs.String(), "session="+c.ID())
}

func TestCoordinator_GeneratedIDs(t *testing.T) {
	ext := testExtractor(t, 0)
	a, b := NewCoordinator(ext), NewCoordinator(ext, WithLogger(nil))
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestCoordinator_ConcurrentPush(t *testing.T) {
	c := NewCoordinator(testExtractor(t, 0))
	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 10; k++ {
				n := len(c.Push(make([]float64, 160)))
				mu.Lock()
				total += n
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	// 6400 samples: 1 + (6400-512)/160 = 37 frames
	assert.Equal(t, 37, total)
	assert.Equal(t, 37, c.Stats().Frames)
}
