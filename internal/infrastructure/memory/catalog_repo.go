package memory

import (
	"context"
	"sort"
	"sync"

	"l10nbot/internal/domain"
	"l10nbot/internal/domain/entities"
	"l10nbot/internal/ports/output"
)

var _ output.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository keeps catalogs in process memory.
type CatalogRepository struct {
	mu       sync.RWMutex
	catalogs map[string]*entities.Catalog
	nextID   uint
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{catalogs: map[string]*entities.Catalog{}}
}

func (r *CatalogRepository) Save(_ context.Context, cat *entities.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cat.ID = r.nextID
	r.catalogs[cat.Language] = clone(cat)
	return nil
}

func (r *CatalogRepository) FindByLanguage(_ context.Context, language string) (*entities.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.catalogs[language]
	if !ok {
		return nil, domain.ErrCatalogNotFound
	}
	return clone(cat), nil
}

func (r *CatalogRepository) FindMessage(_ context.Context, language, contextName, source string) (*entities.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.catalogs[language]
	if !ok {
		return nil, domain.ErrCatalogNotFound
	}
	m := cat.Find(contextName, source, "")
	if m == nil {
		return nil, domain.ErrMessageNotFound
	}
	out := cloneMessage(*m)
	return &out, nil
}

func (r *CatalogRepository) Languages(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.catalogs))
	for lang := range r.catalogs {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out, nil
}

func (r *CatalogRepository) Delete(_ context.Context, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.catalogs[language]; !ok {
		return domain.ErrCatalogNotFound
	}
	delete(r.catalogs, language)
	return nil
}

func clone(cat *entities.Catalog) *entities.Catalog {
	out := *cat
	out.Contexts = make([]entities.Context, len(cat.Contexts))
	for i, c := range cat.Contexts {
		c.Messages = append([]entities.Message(nil), c.Messages...)
		for j := range c.Messages {
			c.Messages[j] = cloneMessage(c.Messages[j])
		}
		out.Contexts[i] = c
	}
	return &out
}

func cloneMessage(m entities.Message) entities.Message {
	m.Locations = append([]entities.Location(nil), m.Locations...)
	m.NumerusForms = append([]string(nil), m.NumerusForms...)
	return m
}
