package druginfo

import "testing"

func TestNormalize_FillsPlaceholders(t *testing.T) {
	got := Normalize(InfoRecord{ActiveIngredients: []string{" ", ""}}, "aspirin")

	if got.Name != "aspirin" {
		t.Fatalf("expected fallback name, got %q", got.Name)
	}
	if got.Purpose != PlaceholderPurpose || got.Warnings != PlaceholderWarnings || got.DosageAndAdministration != PlaceholderDosage {
		t.Fatalf("expected placeholders, got %#v", got)
	}
	if len(got.ActiveIngredients) != 1 || got.ActiveIngredients[0] != PlaceholderActiveIngredients {
		t.Fatalf("expected ingredient placeholder, got %#v", got.ActiveIngredients)
	}
}

func TestNormalize_KeepsUpstreamValues(t *testing.T) {
	got := Normalize(InfoRecord{
		Name:              "Advil",
		Purpose:           "Pain reliever",
		ActiveIngredients: []string{"IBUPROFEN"},
	}, "ignored")

	if got.Name != "Advil" || got.Purpose != "Pain reliever" || got.ActiveIngredients[0] != "IBUPROFEN" {
		t.Fatalf("unexpected normalize result %#v", got)
	}
}
