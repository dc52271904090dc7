package i18n

import (
	"embed"
	"io/fs"
	"log"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"l10nbot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var _ output.T = (*Translator)(nil)

// Translator renders the bot's own texts (replies, embeds, errors) with go-i18n.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewTranslator loads the embedded active.*.toml files. defaultLocale is the
// language used when a request matches none of them; French if it is invalid.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(normalizeLocale(defaultLocale))
	if err != nil {
		tag = language.French
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, _ := fs.Glob(localeFS, "active.*.toml")
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: failed to load %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// T renders key in the first bundle language matching locale, which may be
// an Accept-Language header, a Discord locale or a Qt name such as fr_FR.
// Data["Count"] selects the plural form. A key missing in that language is
// taken from the default language; a key missing everywhere renders as itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	cfg := &i18n.LocalizeConfig{MessageID: key, TemplateData: data}
	if count, ok := data["Count"]; ok {
		cfg.PluralCount = count
	}

	msg, err := t.localizer(locale).Localize(cfg)
	switch {
	case msg != "":
		return msg
	case err != nil:
		log.Printf("i18n: %s (%q): %v", key, locale, err)
	}
	return key
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	if locale = normalizeLocale(locale); locale == "" {
		return i18n.NewLocalizer(t.bundle, t.defaultLanguage.String())
	}
	return i18n.NewLocalizer(t.bundle, locale, t.defaultLanguage.String())
}

// normalizeLocale turns Qt and Discord locale names (fr_FR, en-US) into BCP 47.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}
