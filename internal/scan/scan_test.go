package scan

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type fakeSource struct {
	frames  int
	served  int
	stopped int
}

func (f *fakeSource) NextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.served >= f.frames {
		return nil, io.EOF
	}
	f.served++
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func (f *fakeSource) Stop() { f.stopped++ }

// fakeDecoder reports ErrNoCode until frame number hitAt.
type fakeDecoder struct {
	calls int
	hitAt int
	code  string
}

func (f *fakeDecoder) Decode(img image.Image) (string, error) {
	f.calls++
	if f.calls == f.hitAt {
		return f.code, nil
	}
	return "", ErrNoCode
}

func TestRunFindsCode(t *testing.T) {
	src := &fakeSource{frames: 10}
	dec := &fakeDecoder{hitAt: 3, code: "clue_2_qr"}

	code, err := New(src, dec, WithInterval(0)).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != "CLUE_2_QR" {
		t.Errorf("expected uppercased CLUE_2_QR, got %q", code)
	}
	if src.served != 3 {
		t.Errorf("expected 3 frames read, got %d", src.served)
	}
	if src.stopped == 0 {
		t.Error("source not stopped after success")
	}
}

func TestRunPacesFramesWithClock(t *testing.T) {
	fc := clockwork.NewFakeClock()
	src := &fakeSource{frames: 10}
	dec := &fakeDecoder{hitAt: 3, code: "clue_4_qr"}

	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := New(src, dec, WithInterval(50*time.Millisecond), WithClock(fc)).Run(context.Background())
		done <- result{code, err}
	}()

	// After each failed decode the loop parks on the clock; no further
	// frames are read until the interval elapses.
	for i := 1; i <= 2; i++ {
		fc.BlockUntil(1)
		if src.served != i {
			t.Errorf("while waiting on tick %d: expected %d frames read, got %d", i, i, src.served)
		}
		fc.Advance(50 * time.Millisecond)
	}

	res := <-done
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.code != "CLUE_4_QR" {
		t.Errorf("expected CLUE_4_QR, got %q", res.code)
	}
	if src.served != 3 {
		t.Errorf("expected 3 frames read, got %d", src.served)
	}
}

func TestRunStopsSourceOnExhaustion(t *testing.T) {
	src := &fakeSource{frames: 2}
	dec := &fakeDecoder{hitAt: 99}

	_, err := New(src, dec, WithInterval(0)).Run(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
	if src.stopped == 0 {
		t.Error("source not stopped after exhaustion")
	}
}

func TestRunStopsSourceOnCancel(t *testing.T) {
	src := &fakeSource{frames: 100}
	dec := &fakeDecoder{hitAt: 99}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(src, dec, WithInterval(0)).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if src.stopped == 0 {
		t.Error("source not stopped after cancellation")
	}
}

type failingDecoder struct{}

var errBroken = errors.New("decoder broken")

func (failingDecoder) Decode(img image.Image) (string, error) { return "", errBroken }

func TestRunPropagatesDecoderFailure(t *testing.T) {
	src := &fakeSource{frames: 5}

	_, err := New(src, failingDecoder{}, WithInterval(0)).Run(context.Background())
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected decoder error, got %v", err)
	}
	if src.stopped == 0 {
		t.Error("source not stopped after decoder failure")
	}
}
