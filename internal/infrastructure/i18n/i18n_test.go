package i18n

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"l10nbot/internal/domain/entities"
	"l10nbot/internal/infrastructure/tsfile"
	"l10nbot/translations"
)

func shipped(t *testing.T) *entities.Catalog {
	t.Helper()
	cats, err := tsfile.LoadFS(translations.FS, "MagicPhotos_fr.ts")
	if err != nil || len(cats) != 1 {
		t.Fatalf("load: %v", err)
	}
	return cats[0]
}

func TestTranslatorRendersBotTexts(t *testing.T) {
	tr := NewTranslator("fr")

	got := tr.T("fr", "unfinished.none", map[string]any{"Context": "HelpPage"})
	if got != "✅ Tout est traduit dans `HelpPage`." {
		t.Errorf("fr = %q", got)
	}
	got = tr.T("en-US", "unfinished.none", map[string]any{"Context": "HelpPage"})
	if got != "✅ Everything in `HelpPage` is translated." {
		t.Errorf("en-US = %q", got)
	}
	if got := tr.T("de", "error.generic", nil); got != "Une erreur est survenue." {
		t.Errorf("unknown locale = %q", got)
	}
	if got := tr.T("fr", "no.such.key", nil); got != "no.such.key" {
		t.Errorf("missing key = %q", got)
	}
}

func TestTranslatorLocaleForms(t *testing.T) {
	tr := NewTranslator("fr_FR")
	tests := []struct {
		locale, want string
	}{
		{"en_GB", "Unknown language."},
		{"en-US,en;q=0.9,fr;q=0.5", "Unknown language."},
		{"de-DE,fr;q=0.8", "Langue inconnue."},
		{"", "Langue inconnue."},
	}
	for _, tt := range tests {
		if got := tr.T(tt.locale, "error.unknown_locale", nil); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestTranslatorPlural(t *testing.T) {
	tr := NewTranslator("fr")
	cases := []struct {
		locale string
		count  int
		want   string
	}{
		{"fr", 1, "1 message reste à traduire"},
		{"fr", 3, "3 messages restent à traduire"},
		{"en", 1, "1 message left to translate"},
		{"en", 0, "0 messages left to translate"},
	}
	for _, c := range cases {
		got := tr.T(c.locale, "unfinished.remaining", map[string]any{"Count": c.count})
		if got != c.want {
			t.Errorf("%s/%d = %q, want %q", c.locale, c.count, got, c.want)
		}
	}
}

func TestCatalogBundleFallsBackToSource(t *testing.T) {
	b, err := NewCatalogBundle(shipped(t))
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		locale, context, source, want string
	}{
		{"fr_FR", "HelpPage", "Recommend App", "Recommander"},
		{"fr", "HelpPage", "Recommend App", "Recommander"},
		{"fr-CA", "BlurPage", "Info", "Info"},
		{"fr_FR", "HelpPage", "Help browser", "Help browser"},
		{"fr_FR", "HelpPage", "Not in catalog", "Not in catalog"},
		{"en", "HelpPage", "Recommend App", "Recommend App"},
		{"ja", "HelpPage", "Recommend App", "Recommend App"},
	}
	for _, c := range cases {
		if got := b.Tr(c.locale, c.context, c.source); got != c.want {
			t.Errorf("Tr(%s, %s, %q) = %q, want %q", c.locale, c.context, c.source, got, c.want)
		}
	}
}

func TestCatalogBundleNumerus(t *testing.T) {
	cat := &entities.Catalog{
		Name:     "Gallery_fr.ts",
		Language: "fr_FR",
		Contexts: []entities.Context{{
			Name: "GalleryPage",
			Messages: []entities.Message{
				{Source: "%n image(s)", Numerus: true, NumerusForms: []string{"%n image", "%n images"}},
				{Source: "{{.Name}} saved", Translation: "{{.Name}} enregistré"},
			},
		}},
	}
	b, err := NewCatalogBundle(cat)
	if err != nil {
		t.Fatal(err)
	}
	for n, want := range map[int]string{0: "%n image", 1: "%n image", 2: "%n images", 12: "%n images"} {
		if got := b.TrN("fr", "GalleryPage", "%n image(s)", n); got != want {
			t.Errorf("TrN(%d) = %q, want %q", n, got, want)
		}
	}
	if got := b.TrN("en", "GalleryPage", "%n image(s)", 2); got != "%n image(s)" {
		t.Errorf("source numerus = %q", got)
	}
	if got := b.Tr("fr", "GalleryPage", "{{.Name}} saved"); got != "{{.Name}} enregistré" {
		t.Errorf("template text = %q", got)
	}
}

func TestExportTOMLLoadsBack(t *testing.T) {
	cat := shipped(t)
	data, err := ExportTOML(cat)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("exported TOML does not parse: %v", err)
	}
	if doc["HelpPage.Recommend App"] != "Recommander" {
		t.Errorf("Recommend App = %v", doc["HelpPage.Recommend App"])
	}
	if _, ok := doc["HelpPage.Help browser"]; ok {
		t.Error("unfinished message exported")
	}

	name := ExportFileName(cat)
	if name != "MagicPhotos.fr-FR.toml" {
		t.Errorf("file name = %q", name)
	}

	b, err := NewCatalogBundle()
	if err != nil {
		t.Fatal(err)
	}
	if err := b.LoadTOML(data, name); err != nil {
		t.Fatal(err)
	}
	if got := b.Tr("fr", "HelpPage", "Recommend App"); got != "Recommander" {
		t.Errorf("after load = %q", got)
	}
	if got := b.Tr("fr", "HelpPage", "Help browser"); got != "Help browser" {
		t.Errorf("unfinished after load = %q", got)
	}
}

func TestCatalogBundleRejectsCatalogWithoutLanguage(t *testing.T) {
	_, err := NewCatalogBundle(&entities.Catalog{Name: "x.ts"})
	if err == nil || !strings.Contains(err.Error(), "x.ts") {
		t.Errorf("err = %v", err)
	}
}
