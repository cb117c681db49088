package scan

import (
	"context"
	"errors"
	"fmt"
	"io"

	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/ports/barcode"
)

// Scanner toma frames de una cámara hasta el primer código legible.
type Scanner struct {
	decoder barcode.Decoder
	log     logger.Logger
}

func NewScanner(decoder barcode.Decoder, log logger.Logger) *Scanner {
	if log == nil {
		log = logger.Discard()
	}
	return &Scanner{decoder: decoder, log: log}
}

// Scan abre la cámara y pide frames de a uno. Devuelve el primer código decodificado;
// barcode.ErrNoSymbol si el stream se agota sin lectura; barcode.ErrCameraUnavailable
// si no hay cámara. El stream se cierra siempre.
func (s *Scanner) Scan(ctx context.Context, cam barcode.Camera) (string, error) {
	if cam == nil {
		return "", barcode.ErrCameraUnavailable
	}

	stream, err := cam.Open(ctx)
	if err != nil {
		if errors.Is(err, barcode.ErrCameraUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", barcode.ErrCameraUnavailable, err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			s.log.Warn("close camera stream", logger.Fields{"err": cerr})
		}
	}()

	frames := 0
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		frame, err := stream.NextFrame(ctx)
		if errors.Is(err, io.EOF) {
			s.log.Debug("stream exhausted", logger.Fields{"frames": frames})
			return "", barcode.ErrNoSymbol
		}
		if err != nil {
			return "", fmt.Errorf("read frame: %w", err)
		}
		frames++

		code, err := s.decoder.Decode(frame)
		if err == nil {
			s.log.Debug("barcode decoded", logger.Fields{"frames": frames})
			return code, nil
		}
		if !errors.Is(err, barcode.ErrNoSymbol) {
			s.log.Debug("frame decode failed", logger.Fields{"frame": frames, "err": err})
		}
	}
}
