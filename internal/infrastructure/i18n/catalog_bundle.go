package i18n

import (
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/nicksnyder/go-i18n/v2/i18n/template"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"

	"l10nbot/internal/domain/entities"
)

// Catalog strings are literal text: %n and {{ }} must reach the caller untouched.
var literal = template.IdentityParser{}

// MessageID is the go-i18n message id of a catalog entry.
func MessageID(context, source string) string {
	return context + "." + source
}

// CatalogBundle serves Qt catalogs through a go-i18n bundle. The bundle's
// default language is the catalogs' source language and holds every source
// string, so a locale without a finished translation falls back to the source.
type CatalogBundle struct {
	bundle *i18n.Bundle
	source language.Tag
}

// NewCatalogBundle loads the usable translations of each catalog.
func NewCatalogBundle(cats ...*entities.Catalog) (*CatalogBundle, error) {
	source := language.English
	for _, cat := range cats {
		if cat.SourceLanguage == "" {
			continue
		}
		if tag, err := language.Parse(normalizeLocale(cat.SourceLanguage)); err == nil {
			source = tag
			break
		}
	}

	bundle := i18n.NewBundle(source)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	b := &CatalogBundle{bundle: bundle, source: source}
	for _, cat := range cats {
		if err := b.Add(cat); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Add registers cat, replacing messages with the same id in its language.
func (b *CatalogBundle) Add(cat *entities.Catalog) error {
	tag := cat.Tag()
	if tag == language.Und {
		return fmt.Errorf("i18n: catalog %s has no usable language (%q)", cat.Name, cat.Language)
	}

	var sources, translated []*i18n.Message
	for _, c := range cat.Contexts {
		for i := range c.Messages {
			m := &c.Messages[i]
			// Ids ignore the disambiguation comment: keep the message
			// Catalog.Find picks for an empty comment.
			if m.IsObsolete() || cat.Find(c.Name, m.Source, "") != m {
				continue
			}
			id := MessageID(c.Name, m.Source)
			sources = append(sources, &i18n.Message{ID: id, One: m.Source, Other: m.Source})
			if !m.Usable() {
				continue
			}
			translated = append(translated, toBundleMessage(id, tag, m))
		}
	}

	if err := b.bundle.AddMessages(b.source, sources...); err != nil {
		return fmt.Errorf("i18n: add source strings: %w", err)
	}
	if tag == b.source {
		return nil
	}
	if err := b.bundle.AddMessages(tag, translated...); err != nil {
		return fmt.Errorf("i18n: add %s translations: %w", tag, err)
	}
	return nil
}

// LoadTOML parses a file produced by ExportTOML. The language comes from
// the file name, e.g. MagicPhotos.fr-FR.toml.
func (b *CatalogBundle) LoadTOML(data []byte, name string) error {
	if _, err := b.bundle.ParseMessageFileBytes(data, name); err != nil {
		return fmt.Errorf("i18n: parse %s: %w", name, err)
	}
	return nil
}

// Languages lists the languages known to the bundle.
func (b *CatalogBundle) Languages() []language.Tag {
	return b.bundle.LanguageTags()
}

// Tr returns the translation of source in context for locale, or source.
func (b *CatalogBundle) Tr(locale, context, source string) string {
	return b.localize(locale, context, source, nil)
}

// TrN is Tr for numerus messages.
func (b *CatalogBundle) TrN(locale, context, source string, n int) string {
	return b.localize(locale, context, source, n)
}

func (b *CatalogBundle) localize(locale, context, source string, count any) string {
	localizer := i18n.NewLocalizer(b.bundle, normalizeLocale(locale))
	cfg := &i18n.LocalizeConfig{
		MessageID:      MessageID(context, source),
		PluralCount:    count,
		TemplateParser: literal,
	}
	// go-i18n reports a MessageNotFoundErr alongside the source-language text.
	msg, err := localizer.Localize(cfg)
	if msg != "" {
		return msg
	}
	if err != nil {
		log.Printf("i18n: %s/%q not found for %q: %v", context, source, locale, err)
	}
	return source
}

// ExportTOML renders the usable translations of cat as a go-i18n message
// file. Numerus messages become plural tables keyed by CLDR form names.
func ExportTOML(cat *entities.Catalog) ([]byte, error) {
	tag := cat.Tag()
	doc := map[string]any{}
	for _, c := range cat.Contexts {
		for i := range c.Messages {
			m := &c.Messages[i]
			if m.IsObsolete() || !m.Usable() || cat.Find(c.Name, m.Source, "") != m {
				continue
			}
			id := MessageID(c.Name, m.Source)
			if !m.Numerus {
				doc[id] = m.Translation
				continue
			}
			forms := map[string]string{}
			for j, form := range entities.PluralForms(tag) {
				if j < len(m.NumerusForms) && m.NumerusForms[j] != "" {
					forms[formName(form)] = m.NumerusForms[j]
				}
			}
			doc[id] = forms
		}
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("i18n: export %s: %w", cat.Name, err)
	}
	return out, nil
}

// ExportFileName is the go-i18n file name for cat, e.g. MagicPhotos.fr-FR.toml.
func ExportFileName(cat *entities.Catalog) string {
	name := strings.TrimSuffix(cat.Name, path.Ext(cat.Name))
	if i := strings.LastIndexByte(name, '_'); i > 0 {
		name = name[:i]
	}
	if name == "" {
		name = "catalog"
	}
	return name + "." + cat.Tag().String() + ".toml"
}

func toBundleMessage(id string, tag language.Tag, m *entities.Message) *i18n.Message {
	msg := &i18n.Message{ID: id}
	if !m.Numerus {
		msg.Other = m.Translation
		return msg
	}
	for j, form := range entities.PluralForms(tag) {
		if j >= len(m.NumerusForms) {
			break
		}
		text := m.NumerusForms[j]
		switch form {
		case plural.Zero:
			msg.Zero = text
		case plural.One:
			msg.One = text
		case plural.Two:
			msg.Two = text
		case plural.Few:
			msg.Few = text
		case plural.Many:
			msg.Many = text
		default:
			msg.Other = text
		}
	}
	return msg
}

func formName(f plural.Form) string {
	switch f {
	case plural.Zero:
		return "zero"
	case plural.One:
		return "one"
	case plural.Two:
		return "two"
	case plural.Few:
		return "few"
	case plural.Many:
		return "many"
	default:
		return "other"
	}
}
