// Package stream turns a live sample feed into feature vectors at the hop
// cadence of an Extractor.
package stream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ieee0824/recite-go/feature"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithHandler registers fn to receive every emitted vector. It runs on the
// pushing goroutine after Push releases the coordinator and must return
// quickly. Concurrent pushes may call it concurrently.
func WithHandler(fn func(feature.Vector)) Option {
	return func(c *Coordinator) { c.handler = fn }
}

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(c *Coordinator) { c.id = id }
}

// Stats summarises a coordinator's activity since creation or the last Reset.
type Stats struct {
	Samples    int           // samples pushed
	Frames     int           // vectors emitted
	Overruns   int           // hops whose compute time exceeded the hop budget
	MaxCompute time.Duration // slowest single hop
}

// Coordinator buffers pushed samples and emits one feature vector per hop,
// for the frame that ends at the current write position. The sequence it
// produces over a recording is identical to Extractor.Extract over the
// same samples.
//
// A Coordinator is safe for concurrent use; pushes are serialised.
type Coordinator struct {
	ext     *feature.Extractor
	cfg     feature.Config
	budget  time.Duration
	handler func(feature.Vector)
	log     *slog.Logger
	id      string

	mu       sync.Mutex
	window   []float64 // pre-emphasised samples starting at the next frame
	hopIndex int
	last     float64 // previous raw sample, for pre-emphasis
	started  bool
	stats    Stats
}

// NewCoordinator creates a coordinator emitting vectors computed by ext.
func NewCoordinator(ext *feature.Extractor, opts ...Option) *Coordinator {
	cfg := ext.Config()
	c := &Coordinator{
		ext:    ext,
		cfg:    cfg,
		budget: time.Duration(cfg.HopSeconds() * float64(time.Second)),
		log:    slog.Default(),
		id:     uuid.NewString(),
		window: make([]float64, 0, 2*cfg.FrameSize),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("session", c.id)
	return c
}

// ID returns the session ID attached to every log record.
func (c *Coordinator) ID() string {
	return c.id
}

// Push appends samples and returns the vectors of every hop boundary they
// complete, in order. It returns nil when no boundary was crossed.
// The handler, if any, runs after the coordinator is unlocked, so it may
// call back into the coordinator.
func (c *Coordinator) Push(samples []float64) []feature.Vector {
	out := c.push(samples)
	if c.handler != nil {
		for _, v := range out {
			c.handler(v)
		}
	}
	return out
}

func (c *Coordinator) push(samples []float64) []feature.Vector {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []feature.Vector
	frameSize, hop := c.cfg.FrameSize, c.cfg.HopSize
	for len(samples) > 0 {
		need := frameSize - len(c.window)
		n := min(need, len(samples))
		c.appendEmphasized(samples[:n])
		samples = samples[n:]
		c.stats.Samples += n
		if len(c.window) < frameSize {
			break
		}

		v := c.emit(c.window[:frameSize])
		out = append(out, v)

		// slide by one hop
		kept := copy(c.window, c.window[hop:])
		c.window = c.window[:kept]
	}
	return out
}

func (c *Coordinator) appendEmphasized(samples []float64) {
	alpha := c.cfg.PreEmphasis
	for _, x := range samples {
		y := x
		if alpha > 0 && c.started {
			y = x - alpha*c.last
		}
		c.window = append(c.window, y)
		c.last = x
		c.started = true
	}
}

func (c *Coordinator) emit(frame []float64) feature.Vector {
	start := time.Now()
	v := c.ext.Compute(frame, c.hopIndex)
	elapsed := time.Since(start)

	c.stats.Frames++
	c.stats.MaxCompute = max(c.stats.MaxCompute, elapsed)
	if elapsed > c.budget {
		c.stats.Overruns++
		c.log.Warn("stream: hop overrun",
			"hop", c.hopIndex,
			"elapsed", elapsed,
			"budget", c.budget)
	}
	c.hopIndex++
	return v
}

// Stats returns a snapshot of the counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Reset discards buffered samples, the hop counter and the pre-emphasis
// state so the next Push starts a new recording.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Debug("stream: reset", "frames", c.stats.Frames, "overruns", c.stats.Overruns)
	c.window = c.window[:0]
	c.hopIndex = 0
	c.last = 0
	c.started = false
	c.stats = Stats{}
}
