package druginfo

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound es el único error que ven los callers de Lookup: cualquier fallo
// upstream se reporta como "no encontrado".
var ErrNotFound = errors.New("medicine not found in database")

const (
	PlaceholderPurpose           = "Information not available"
	PlaceholderWarnings          = "No specific warnings listed"
	PlaceholderDosage            = "Consult your healthcare provider"
	PlaceholderActiveIngredients = "Active ingredients not listed"
)

// InfoRecord es el resumen normalizado de una ficha de medicamento.
type InfoRecord struct {
	Name                    string   `json:"name"`
	Purpose                 string   `json:"purpose"`
	Warnings                string   `json:"warnings"`
	DosageAndAdministration string   `json:"dosage_and_administration"`
	ActiveIngredients       []string `json:"active_ingredients"`
}

// Lookup busca fichas por nombre o por código de barras.
type Lookup interface {
	ByName(ctx context.Context, query string) (InfoRecord, error)
	ByBarcode(ctx context.Context, code string) (InfoRecord, error)
}

// Normalize rellena con placeholders todo campo vacío. fallbackName se usa si no hay nombre.
func Normalize(r InfoRecord, fallbackName string) InfoRecord {
	r.Name = firstNonEmpty(r.Name, fallbackName)
	r.Purpose = firstNonEmpty(r.Purpose, PlaceholderPurpose)
	r.Warnings = firstNonEmpty(r.Warnings, PlaceholderWarnings)
	r.DosageAndAdministration = firstNonEmpty(r.DosageAndAdministration, PlaceholderDosage)

	ingredients := make([]string, 0, len(r.ActiveIngredients))
	for _, in := range r.ActiveIngredients {
		if in = strings.TrimSpace(in); in != "" {
			ingredients = append(ingredients, in)
		}
	}
	if len(ingredients) == 0 {
		ingredients = []string{PlaceholderActiveIngredients}
	}
	r.ActiveIngredients = ingredients
	return r
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
