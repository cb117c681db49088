package scan

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"

	"medicine-reminder/internal/ports/barcode"
)

// -------------------------
// Fakes
// -------------------------

type fakeStream struct {
	frames  []image.Image
	readErr error
	pulled  int
	closed  int
}

func (s *fakeStream) NextFrame(ctx context.Context) (image.Image, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.pulled >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pulled]
	s.pulled++
	return f, nil
}

func (s *fakeStream) Close() error { s.closed++; return nil }

type fakeCamera struct {
	stream  *fakeStream
	openErr error
}

func (c *fakeCamera) Open(ctx context.Context) (barcode.Stream, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.stream, nil
}

// fakeDecoder reconoce frames con ancho > 1; el código es "W<ancho>".
type fakeDecoder struct{ calls int }

func (d *fakeDecoder) Decode(img image.Image) (string, error) {
	d.calls++
	w := img.Bounds().Dx()
	if w <= 1 {
		return "", barcode.ErrNoSymbol
	}
	if w == 99 {
		return "", errors.New("corrupt frame")
	}
	return "W" + string(rune('0'+w)), nil
}

func frame(w int) image.Image { return image.NewGray(image.Rect(0, 0, w, 1)) }

func TestScan_FirstDecodeWinsAndStopsConsuming(t *testing.T) {
	s := &fakeStream{frames: []image.Image{frame(1), frame(99), frame(5), frame(7)}}
	dec := &fakeDecoder{}

	code, err := NewScanner(dec, nil).Scan(context.Background(), &fakeCamera{stream: s})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if code != "W5" {
		t.Fatalf("expected W5, got %q", code)
	}
	if s.pulled != 3 || dec.calls != 3 {
		t.Fatalf("expected to stop after third frame, pulled=%d calls=%d", s.pulled, dec.calls)
	}
	if s.closed != 1 {
		t.Fatalf("expected stream closed once, got %d", s.closed)
	}
}

func TestScan_ExhaustedStreamIsNoSymbol(t *testing.T) {
	s := &fakeStream{frames: []image.Image{frame(1), frame(1)}}

	_, err := NewScanner(&fakeDecoder{}, nil).Scan(context.Background(), &fakeCamera{stream: s})
	if !errors.Is(err, barcode.ErrNoSymbol) {
		t.Fatalf("expected ErrNoSymbol, got %v", err)
	}
	if errors.Is(err, barcode.ErrCameraUnavailable) {
		t.Fatalf("decode failure must not look like a capability error")
	}
	if s.closed != 1 {
		t.Fatalf("expected stream closed, got %d", s.closed)
	}
}

func TestScan_CameraUnavailable(t *testing.T) {
	_, err := NewScanner(&fakeDecoder{}, nil).Scan(context.Background(), &fakeCamera{openErr: errors.New("permission denied")})
	if !errors.Is(err, barcode.ErrCameraUnavailable) {
		t.Fatalf("expected ErrCameraUnavailable, got %v", err)
	}
	if errors.Is(err, barcode.ErrNoSymbol) {
		t.Fatalf("capability error must not look like a decode failure")
	}

	if _, err := NewScanner(&fakeDecoder{}, nil).Scan(context.Background(), nil); !errors.Is(err, barcode.ErrCameraUnavailable) {
		t.Fatalf("expected ErrCameraUnavailable for nil camera, got %v", err)
	}
}

func TestScan_ClosesOnReadErrorAndCancel(t *testing.T) {
	s := &fakeStream{readErr: errors.New("device lost")}
	if _, err := NewScanner(&fakeDecoder{}, nil).Scan(context.Background(), &fakeCamera{stream: s}); err == nil {
		t.Fatalf("expected read error")
	}
	if s.closed != 1 {
		t.Fatalf("expected close on read error, got %d", s.closed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s = &fakeStream{frames: []image.Image{frame(5)}}
	if _, err := NewScanner(&fakeDecoder{}, nil).Scan(ctx, &fakeCamera{stream: s}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s.closed != 1 || s.pulled != 0 {
		t.Fatalf("expected close without pulling, closed=%d pulled=%d", s.closed, s.pulled)
	}
}
