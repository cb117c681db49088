package zxing

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"

	"medicine-reminder/internal/ports/barcode"
)

// Formats son las simbologías 1D que aparecen en envases de medicamentos.
var Formats = []gozxing.BarcodeFormat{
	gozxing.BarcodeFormat_EAN_13,
	gozxing.BarcodeFormat_EAN_8,
	gozxing.BarcodeFormat_UPC_A,
	gozxing.BarcodeFormat_UPC_E,
	gozxing.BarcodeFormat_CODE_128,
	gozxing.BarcodeFormat_CODE_39,
}

// Decoder implementa barcode.Decoder con los lectores 1D de gozxing.
type Decoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

var _ barcode.Decoder = (*Decoder)(nil)

func NewDecoder() *Decoder {
	return &Decoder{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_POSSIBLE_FORMATS: Formats,
			gozxing.DecodeHintType_TRY_HARDER:       true,
		},
	}
}

// Decode devuelve barcode.ErrNoSymbol si el frame no tiene un código legible.
func (d *Decoder) Decode(img image.Image) (string, error) {
	if img == nil {
		return "", barcode.ErrNoSymbol
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize frame: %w", err)
	}

	res, err := d.decode(bmp)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(res.GetText())
	if text == "" {
		return "", barcode.ErrNoSymbol
	}
	return text, nil
}

// los readers guardan estado entre llamadas; se crean por frame
func (d *Decoder) readers() []gozxing.Reader {
	return []gozxing.Reader{
		oned.NewMultiFormatUPCEANReader(d.hints),
		oned.NewCode128Reader(),
		oned.NewCode39Reader(),
	}
}

func (d *Decoder) decode(bmp *gozxing.BinaryBitmap) (*gozxing.Result, error) {
	for _, reader := range d.readers() {
		res, err := reader.Decode(bmp, d.hints)
		if err == nil {
			return res, nil
		}
		var re gozxing.ReaderException
		if !errors.As(err, &re) {
			return nil, err
		}
	}
	return nil, barcode.ErrNoSymbol
}
