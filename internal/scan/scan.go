// Package scan turns a stream of camera frames into a decoded QR payload.
// The camera and the decoder are both capability interfaces so the loop is
// testable without real hardware.
package scan

import (
	"context"
	"errors"
	"image"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrNoCode is returned by a Decoder when the frame contains no readable code.
var ErrNoCode = errors.New("no code found")

// FrameSource provides live frames. NextFrame blocks for the next frame and
// returns io.EOF when the source is exhausted. Stop releases the underlying
// capture resource and must be safe to call more than once.
type FrameSource interface {
	NextFrame(ctx context.Context) (image.Image, error)
	Stop()
}

// Decoder extracts a QR payload from a single frame.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// Scanner polls frames at a fixed cadence and decodes each until one yields
// a payload.
type Scanner struct {
	src      FrameSource
	dec      Decoder
	interval time.Duration
	clock    clockwork.Clock
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithInterval sets the delay between frame attempts. Zero polls as fast as
// frames arrive.
func WithInterval(d time.Duration) Option {
	return func(s *Scanner) { s.interval = d }
}

// WithClock substitutes the clock used for pacing.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scanner) { s.clock = c }
}

func New(src FrameSource, dec Decoder, opts ...Option) *Scanner {
	s := &Scanner{
		src:      src,
		dec:      dec,
		interval: 100 * time.Millisecond,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads frames until one decodes, the context is cancelled, or the
// source fails. The decoded payload is uppercased to match the QR token
// contract. The frame source is stopped on every exit path.
func (s *Scanner) Run(ctx context.Context) (string, error) {
	defer s.src.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		frame, err := s.src.NextFrame(ctx)
		if err != nil {
			return "", err
		}

		code, err := s.dec.Decode(frame)
		if err == nil {
			return strings.ToUpper(strings.TrimSpace(code)), nil
		}
		if !errors.Is(err, ErrNoCode) {
			return "", err
		}

		if s.interval > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-s.clock.After(s.interval):
			}
		}
	}
}
