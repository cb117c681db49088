package zxing

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"

	"medicine-reminder/internal/ports/barcode"
)

// FrameCamera expone imágenes codificadas (png/jpeg/gif) como un stream de frames.
// Cada frame se decodifica recién cuando se pide.
type FrameCamera struct {
	raw [][]byte
}

var _ barcode.Camera = (*FrameCamera)(nil)

func NewFrameCamera(raw ...[]byte) *FrameCamera {
	return &FrameCamera{raw: raw}
}

// NewCamera cumple barcode.CameraFactory.
func NewCamera(raw [][]byte) barcode.Camera {
	return NewFrameCamera(raw...)
}

func (c *FrameCamera) Open(ctx context.Context) (barcode.Stream, error) {
	if c == nil || len(c.raw) == 0 {
		return nil, barcode.ErrCameraUnavailable
	}
	return &frameStream{raw: c.raw}, nil
}

type frameStream struct {
	mu     sync.Mutex
	raw    [][]byte
	next   int
	closed bool
}

func (s *frameStream) NextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.next >= len(s.raw) {
		return nil, io.EOF
	}
	i := s.next
	s.next++

	img, _, err := image.Decode(bytes.NewReader(s.raw[i]))
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w: %v", i, barcode.ErrUnsupportedFrame, err)
	}
	return img, nil
}

func (s *frameStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.raw = nil
	return nil
}
