package barcode

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrCameraUnavailable: acceso a cámara rechazado o inexistente (error de capacidad).
	ErrCameraUnavailable = errors.New("camera access denied or not available")
	// ErrNoSymbol: no se pudo decodificar ningún código (fallo de decodificación).
	ErrNoSymbol = errors.New("no barcode detected")
	// ErrUnsupportedFrame: el frame recibido no es una imagen legible.
	ErrUnsupportedFrame = errors.New("unsupported frame image")
)

// Camera abre un stream exclusivo de video.
type Camera interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream entrega frames hasta io.EOF. Close libera la cámara.
type Stream interface {
	NextFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// CameraFactory arma una cámara sobre imágenes ya codificadas (upload o archivos).
type CameraFactory func(raw [][]byte) Camera

// Decoder extrae el texto de un código de barras de un frame.
type Decoder interface {
	Decode(img image.Image) (string, error)
}
