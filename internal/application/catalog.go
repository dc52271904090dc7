package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/text/language"

	"l10nbot/internal/domain"
	"l10nbot/internal/domain/entities"
	"l10nbot/internal/ports/input"
	"l10nbot/internal/ports/output"
)

var _ input.CatalogUseCase = (*CatalogService)(nil)

type CatalogService struct {
	repo          output.CatalogRepository
	defaultLocale string
	now           func() time.Time
}

func NewCatalogService(repo output.CatalogRepository, defaultLocale string) *CatalogService {
	return &CatalogService{
		repo:          repo,
		defaultLocale: defaultLocale,
		now:           time.Now,
	}
}

// Import validates cat and stores it. Catalogs with conflicting duplicate
// sources are rejected since a lookup could not pick a translation.
func (s *CatalogService) Import(ctx context.Context, cat *entities.Catalog) error {
	if strings.TrimSpace(cat.Language) == "" {
		return fmt.Errorf("%w: language attribute is missing", domain.ErrInvalidCatalog)
	}
	if _, err := language.Parse(cat.LanguageTag()); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrUnknownLocale, cat.Language)
	}
	for _, issue := range CheckCatalog(cat) {
		if issue.Blocking() {
			return fmt.Errorf("%w: %s/%s: %s", domain.ErrConflictingTranslation, issue.Context, issue.Source, issue.Detail)
		}
	}
	if cat.ImportedAt.IsZero() {
		cat.ImportedAt = s.now()
	}
	if err := s.repo.Save(ctx, cat); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	st := ComputeStats(cat)
	log.Printf("✅ Catalogue %s importé (%s) : %d/%d messages traduits", cat.Language, cat.Name, st.Finished, st.Total-st.Obsolete)
	return nil
}

// resolveLanguage matches locale against the stored catalogs. An empty or
// unparsable locale uses the default locale instead. A locale with no matching
// catalog yields ErrCatalogNotFound: its speakers get the source strings.
func (s *CatalogService) resolveLanguage(ctx context.Context, locale string) (string, error) {
	langs, err := s.repo.Languages(ctx)
	if err != nil {
		return "", fmt.Errorf("list languages: %w", err)
	}
	if len(langs) == 0 {
		return "", domain.ErrCatalogNotFound
	}
	for _, l := range langs {
		if l == locale {
			return l, nil
		}
	}

	tags := make([]language.Tag, 0, len(langs))
	names := make([]string, 0, len(langs))
	for _, l := range langs {
		tag, err := language.Parse(strings.ReplaceAll(l, "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, l)
	}
	if len(tags) == 0 {
		return "", domain.ErrCatalogNotFound
	}
	matcher := language.NewMatcher(tags)

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if strings.TrimSpace(locale) == "" || err != nil {
		tag, err = language.Parse(strings.ReplaceAll(s.defaultLocale, "_", "-"))
		if err != nil {
			return "", domain.ErrUnknownLocale
		}
	}
	if _, idx, conf := matcher.Match(tag); conf != language.No {
		return names[idx], nil
	}
	return "", domain.ErrCatalogNotFound
}

// Lookup resolves source within contextName for locale. Missing catalogs,
// contexts, messages and unfinished translations all fall back to source.
func (s *CatalogService) Lookup(ctx context.Context, locale, contextName, source string) (input.LookupResult, error) {
	res := input.LookupResult{Text: source}
	lang, err := s.resolveLanguage(ctx, locale)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	res.Language = lang

	m, err := s.repo.FindMessage(ctx, lang, contextName, source)
	if errors.Is(err, domain.ErrMessageNotFound) || errors.Is(err, domain.ErrCatalogNotFound) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("find message: %w", err)
	}
	res.Text, res.Translated = m.Resolved()
	res.Unfinished = m.Type == domain.TypeUnfinished
	res.Locations = m.Locations
	return res, nil
}

// LookupPlural is Lookup for numerus messages: the form is chosen for n
// with the plural rules of the catalog language.
func (s *CatalogService) LookupPlural(ctx context.Context, locale, contextName, source string, n int) (input.LookupResult, error) {
	res := input.LookupResult{Text: source}
	cat, err := s.Catalog(ctx, locale)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	res.Language = cat.Language

	m := cat.Find(contextName, source, "")
	if m == nil {
		return res, nil
	}
	res.Text = cat.LookupPlural(contextName, source, n)
	res.Translated = m.Usable()
	res.Unfinished = m.Type == domain.TypeUnfinished
	res.Locations = m.Locations
	return res, nil
}

func (s *CatalogService) Catalog(ctx context.Context, locale string) (*entities.Catalog, error) {
	lang, err := s.resolveLanguage(ctx, locale)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByLanguage(ctx, lang)
}

func (s *CatalogService) Languages(ctx context.Context) ([]string, error) {
	return s.repo.Languages(ctx)
}

func (s *CatalogService) Stats(ctx context.Context, locale string) (entities.Stats, error) {
	cat, err := s.Catalog(ctx, locale)
	if err != nil {
		return entities.Stats{}, err
	}
	return ComputeStats(cat), nil
}

func (s *CatalogService) Unfinished(ctx context.Context, locale, contextName string) (map[string][]string, error) {
	cat, err := s.Catalog(ctx, locale)
	if err != nil {
		return nil, err
	}
	if contextName != "" && cat.Context(contextName) == nil {
		return nil, domain.ErrContextNotFound
	}
	return UnfinishedSources(cat, contextName), nil
}

func (s *CatalogService) Check(ctx context.Context, locale string) ([]entities.Issue, error) {
	cat, err := s.Catalog(ctx, locale)
	if err != nil {
		return nil, err
	}
	return CheckCatalog(cat), nil
}

func (s *CatalogService) Delete(ctx context.Context, locale string) error {
	lang, err := s.resolveLanguage(ctx, locale)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, lang)
}
