package discord

import (
	"l10nbot/internal/ports/input"
	"l10nbot/internal/ports/output"
)

// Handler handles Discord interactions using the catalog use cases.
type Handler struct {
	catalogs input.CatalogUseCase
	i18n     output.T
}

// NewHandler creates a Handler.
func NewHandler(catalogs input.CatalogUseCase, tr output.T) *Handler {
	return &Handler{
		catalogs: catalogs,
		i18n:     tr,
	}
}
