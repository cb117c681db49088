package lookup

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"medicine-reminder/internal/ports/druginfo"
)

// MsgNotFound es el texto informativo cuando no hay ficha (no es un error HTTP).
const MsgNotFound = "Medicine not found in database"

func RegisterRoutes(r chi.Router, l druginfo.Lookup) {
	r.Route("/drug-info", func(dr chi.Router) {
		dr.Get("/", byNameHandler(l))
		dr.Get("/barcode/{code}", byBarcodeHandler(l))
	})
}

// formFill son los campos del formulario que completa una búsqueda por nombre.
type formFill struct {
	UsedFor     string `json:"used_for"`
	Precautions string `json:"precautions"`
	Description string `json:"description"`
}

type infoResponse struct {
	Found    bool                 `json:"found"`
	Info     *druginfo.InfoRecord `json:"info,omitempty"`
	AutoFill *formFill            `json:"autofill,omitempty"`
	Message  string               `json:"message,omitempty"`
}

// byNameHandler godoc
// @Summary Buscar ficha por nombre
// @Description Busca propósito, advertencias, dosis e ingredientes activos. "No encontrado" responde 200 con found=false.
// @Tags drug-info
// @Produce json
// @Param name query string true "Nombre comercial o genérico"
// @Success 200 {object} infoResponse
// @Failure 400 {object} map[string]string
// @Router /drug-info [get]
func byNameHandler(l druginfo.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
			return
		}

		rec, err := l.ByName(r.Context(), name)
		respond(w, rec, err)
	}
}

// byBarcodeHandler godoc
// @Summary Buscar ficha por código de barras
// @Tags drug-info
// @Produce json
// @Param code path string true "Código (NDC/EAN/UPC)"
// @Success 200 {object} infoResponse
// @Router /drug-info/barcode/{code} [get]
func byBarcodeHandler(l druginfo.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
			return
		}

		rec, err := l.ByBarcode(r.Context(), code)
		respond(w, rec, err)
	}
}

func respond(w http.ResponseWriter, rec druginfo.InfoRecord, err error) {
	// cualquier error del lookup se informa como "no encontrado"
	if err != nil {
		writeJSON(w, http.StatusOK, infoResponse{Found: false, Message: MsgNotFound})
		return
	}

	writeJSON(w, http.StatusOK, infoResponse{
		Found: true,
		Info:  &rec,
		AutoFill: &formFill{
			UsedFor:     rec.Purpose,
			Precautions: rec.Warnings,
			Description: rec.DosageAndAdministration,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
