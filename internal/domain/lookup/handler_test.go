package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"medicine-reminder/internal/ports/druginfo"
)

type fakeLookup struct{}

func (fakeLookup) ByName(ctx context.Context, q string) (druginfo.InfoRecord, error) {
	switch q {
	case "aspirin":
		return druginfo.Normalize(druginfo.InfoRecord{Purpose: "Pain reliever"}, q), nil
	case "boom":
		return druginfo.InfoRecord{}, errors.New("upstream exploded")
	}
	return druginfo.InfoRecord{}, druginfo.ErrNotFound
}

func (fakeLookup) ByBarcode(ctx context.Context, code string) (druginfo.InfoRecord, error) {
	return druginfo.InfoRecord{}, druginfo.ErrNotFound
}

func get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, fakeLookup{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

	var out map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return rr.Code, out
}

func TestByName_Found(t *testing.T) {
	code, out := get(t, "/drug-info?name=aspirin")
	if code != http.StatusOK || out["found"] != true {
		t.Fatalf("unexpected %d %#v", code, out)
	}
	info := out["info"].(map[string]any)
	if info["name"] != "aspirin" || info["warnings"] != druginfo.PlaceholderWarnings {
		t.Fatalf("unexpected info %#v", info)
	}
	fill := out["autofill"].(map[string]any)
	if fill["used_for"] != "Pain reliever" {
		t.Fatalf("unexpected autofill %#v", fill)
	}
}

func TestNotFoundIsInformational(t *testing.T) {
	for _, path := range []string{"/drug-info?name=ghost", "/drug-info?name=boom", "/drug-info/barcode/123"} {
		code, out := get(t, path)
		if code != http.StatusOK || out["found"] != false || out["message"] != MsgNotFound {
			t.Fatalf("%s: unexpected %d %#v", path, code, out)
		}
	}
}

func TestByName_RequiresName(t *testing.T) {
	if code, _ := get(t, "/drug-info?name=%20"); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
