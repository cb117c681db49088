package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"medicine-reminder/internal/ports/barcode"
	"medicine-reminder/internal/ports/druginfo"
)

// pngCamera decodifica los frames recién al pedirlos, igual que la cámara real.
func pngCamera(raw [][]byte) barcode.Camera { return &lazyPNGCamera{raw: raw} }

type lazyPNGCamera struct{ raw [][]byte }

func (c *lazyPNGCamera) Open(ctx context.Context) (barcode.Stream, error) {
	if len(c.raw) == 0 {
		return nil, barcode.ErrCameraUnavailable
	}
	return &lazyPNGStream{raw: c.raw}, nil
}

type lazyPNGStream struct {
	raw     [][]byte
	decoded int
}

func (s *lazyPNGStream) NextFrame(ctx context.Context) (image.Image, error) {
	if s.decoded >= len(s.raw) {
		return nil, io.EOF
	}
	i := s.decoded
	s.decoded++
	img, err := png.Decode(bytes.NewReader(s.raw[i]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", barcode.ErrUnsupportedFrame, err)
	}
	return img, nil
}

func (s *lazyPNGStream) Close() error { return nil }

type fakeLookup struct{ known map[string]druginfo.InfoRecord }

func (l fakeLookup) ByName(ctx context.Context, q string) (druginfo.InfoRecord, error) {
	return druginfo.InfoRecord{}, druginfo.ErrNotFound
}

func (l fakeLookup) ByBarcode(ctx context.Context, code string) (druginfo.InfoRecord, error) {
	if rec, ok := l.known[code]; ok {
		return rec, nil
	}
	return druginfo.InfoRecord{}, druginfo.ErrNotFound
}

func multipartFrames(t *testing.T, widths ...int) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, w := range widths {
		part, err := mw.CreateFormFile("frame", "frame.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if err := png.Encode(part, image.NewGray(image.Rect(0, 0, w, 1))); err != nil {
			t.Fatalf("png: %v", err)
		}
	}
	_ = mw.Close()
	return &body, mw.FormDataContentType()
}

func doScan(t *testing.T, lookup druginfo.Lookup, widths ...int) (int, map[string]any) {
	t.Helper()
	body, ct := multipartFrames(t, widths...)
	return postScan(t, lookup, body, ct)
}

func postScan(t *testing.T, lookup druginfo.Lookup, body *bytes.Buffer, ct string) (int, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, NewScanner(&fakeDecoder{}, nil), pngCamera, lookup)

	req := httptest.NewRequest(http.MethodPost, "/barcode/scan", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var out map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return rr.Code, out
}

func TestScanHandler_FoundFillsForm(t *testing.T) {
	lookup := fakeLookup{known: map[string]druginfo.InfoRecord{
		"W5": druginfo.Normalize(druginfo.InfoRecord{Name: "Tylenol", Purpose: "Pain"}, "W5"),
	}}

	code, out := doScan(t, lookup, 1, 5)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if out["found"] != true || out["barcode"] != "W5" {
		t.Fatalf("unexpected body %#v", out)
	}
	fill := out["autofill"].(map[string]any)
	if fill["name"] != "Tylenol" || fill["used_for"] != "Pain" || fill["precautions"] != druginfo.PlaceholderWarnings {
		t.Fatalf("unexpected autofill %#v", fill)
	}
}

func TestScanHandler_NotFoundIsInformational(t *testing.T) {
	code, out := doScan(t, fakeLookup{}, 5)
	if code != http.StatusOK || out["found"] != false || out["message"] != MsgProductNotFound || out["barcode"] != "W5" {
		t.Fatalf("unexpected %d %#v", code, out)
	}

	code, out = doScan(t, fakeLookup{}, 1)
	if code != http.StatusOK || out["found"] != false || out["message"] != MsgNoBarcode {
		t.Fatalf("unexpected %d %#v", code, out)
	}
}

func TestScanHandler_NoFramesIsBadRequest(t *testing.T) {
	code, _ := doScan(t, fakeLookup{})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestScanHandler_UnreadableFrameIsBadRequest(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("frame", "frame.png")
	_, _ = part.Write([]byte("not an image"))
	_ = mw.Close()

	code, out := postScan(t, fakeLookup{}, &body, mw.FormDataContentType())
	if code != http.StatusBadRequest || out["error"] != "unsupported image" {
		t.Fatalf("unexpected %d %#v", code, out)
	}
}

func TestScanHandler_StopsBeforeTrailingGarbage(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("frame", "frame.png")
	if err := png.Encode(part, image.NewGray(image.Rect(0, 0, 5, 1))); err != nil {
		t.Fatalf("png: %v", err)
	}
	part, _ = mw.CreateFormFile("frame", "broken.png")
	_, _ = part.Write([]byte("not an image"))
	_ = mw.Close()

	code, out := postScan(t, fakeLookup{}, &body, mw.FormDataContentType())
	if code != http.StatusOK || out["barcode"] != "W5" {
		t.Fatalf("unexpected %d %#v", code, out)
	}
}
