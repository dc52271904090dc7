package input

import (
	"context"

	"l10nbot/internal/domain/entities"
)

// LookupResult is the outcome of resolving one source string.
type LookupResult struct {
	Language   string // language of the catalog used, empty when none matched
	Text       string
	Translated bool
	Unfinished bool
	Locations  []entities.Location
}

type CatalogUseCase interface {
	Import(ctx context.Context, cat *entities.Catalog) error
	Lookup(ctx context.Context, locale, contextName, source string) (LookupResult, error)
	LookupPlural(ctx context.Context, locale, contextName, source string, n int) (LookupResult, error)
	Catalog(ctx context.Context, locale string) (*entities.Catalog, error)
	Languages(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, locale string) (entities.Stats, error)
	Unfinished(ctx context.Context, locale, contextName string) (map[string][]string, error)
	Check(ctx context.Context, locale string) ([]entities.Issue, error)
	Delete(ctx context.Context, locale string) error
}
