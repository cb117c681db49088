package router

import (
	"context"

	"medicine-reminder/internal/ports/druginfo"
)

// notFoundLookup se usa cuando no hay fuente de fichas configurada.
type notFoundLookup struct{}

func (notFoundLookup) ByName(context.Context, string) (druginfo.InfoRecord, error) {
	return druginfo.InfoRecord{}, druginfo.ErrNotFound
}

func (notFoundLookup) ByBarcode(context.Context, string) (druginfo.InfoRecord, error) {
	return druginfo.InfoRecord{}, druginfo.ErrNotFound
}
