package scan

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medicine-reminder/internal/ports/barcode"
	"medicine-reminder/internal/ports/druginfo"
)

const (
	maxUploadBytes = 16 << 20
	maxFrames      = 30

	MsgNoBarcode       = "No barcode detected. Try again or enter the medicine manually."
	MsgProductNotFound = "Product not found. Try entering the medicine name manually."
)

// cameras arma el stream de frames a partir de las imágenes subidas.
func RegisterRoutes(r chi.Router, scanner *Scanner, cameras barcode.CameraFactory, lookup druginfo.Lookup) {
	r.Post("/barcode/scan", scanHandler(scanner, cameras, lookup))
}

// AutoFill son los campos del formulario que se completan tras un escaneo.
type AutoFill struct {
	Barcode     string `json:"barcode"`
	Name        string `json:"name"`
	UsedFor     string `json:"used_for"`
	Precautions string `json:"precautions"`
	Description string `json:"description"`
}

type scanResponse struct {
	Barcode  string               `json:"barcode,omitempty"`
	Found    bool                 `json:"found"`
	Info     *druginfo.InfoRecord `json:"info,omitempty"`
	AutoFill *AutoFill            `json:"autofill,omitempty"`
	Message  string               `json:"message,omitempty"`
}

// scanHandler godoc
// @Summary Escanear código de barras
// @Description Decodifica el primer código legible entre los frames subidos y busca la ficha del medicamento.
// @Tags barcode
// @Accept mpfd
// @Produce json
// @Param frame formData file true "Frame (png/jpeg/gif); se puede repetir"
// @Success 200 {object} scanResponse
// @Failure 400 {object} map[string]string
// @Router /barcode/scan [post]
func scanHandler(scanner *Scanner, cameras barcode.CameraFactory, lookup druginfo.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
			return
		}

		files := r.MultipartForm.File["frame"]
		if len(files) > maxFrames {
			files = files[:maxFrames]
		}

		raw := make([][]byte, 0, len(files))
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid frame"})
				return
			}
			b, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid frame"})
				return
			}
			raw = append(raw, b)
		}

		code, err := scanner.Scan(r.Context(), cameras(raw))
		switch {
		case errors.Is(err, barcode.ErrCameraUnavailable):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no frames"})
			return
		case errors.Is(err, barcode.ErrUnsupportedFrame):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported image"})
			return
		case errors.Is(err, barcode.ErrNoSymbol):
			writeJSON(w, http.StatusOK, scanResponse{Found: false, Message: MsgNoBarcode})
			return
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}

		if lookup == nil {
			writeJSON(w, http.StatusOK, scanResponse{Barcode: code, Found: false, Message: MsgProductNotFound})
			return
		}

		info, err := lookup.ByBarcode(r.Context(), code)
		if err != nil {
			// cualquier fallo del lookup es "no encontrado"
			writeJSON(w, http.StatusOK, scanResponse{Barcode: code, Found: false, Message: MsgProductNotFound})
			return
		}

		writeJSON(w, http.StatusOK, scanResponse{
			Barcode: code,
			Found:   true,
			Info:    &info,
			AutoFill: &AutoFill{
				Barcode:     code,
				Name:        info.Name,
				UsedFor:     info.Purpose,
				Precautions: info.Warnings,
				Description: info.DosageAndAdministration,
			},
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
