package output

import (
	"context"

	"l10nbot/internal/domain/entities"
)

// CatalogRepository persists catalogs, one per language.
type CatalogRepository interface {
	// Save stores cat, replacing any catalog with the same language.
	Save(ctx context.Context, cat *entities.Catalog) error
	FindByLanguage(ctx context.Context, language string) (*entities.Catalog, error)
	// FindMessage returns domain.ErrCatalogNotFound for an unknown language
	// and domain.ErrMessageNotFound when the catalog has no such message.
	FindMessage(ctx context.Context, language, contextName, source string) (*entities.Message, error)
	Languages(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, language string) error
}
