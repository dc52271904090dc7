package tsfile

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"l10nbot/internal/domain"
	"l10nbot/internal/domain/entities"
)

func loadFixture(t *testing.T) (*entities.Catalog, []byte) {
	t.Helper()
	raw, err := os.ReadFile("testdata/MagicPhotos_fr.ts")
	if err != nil {
		t.Fatal(err)
	}
	cat, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return cat, raw
}

func TestDecodeHeaderAndContexts(t *testing.T) {
	cat, _ := loadFixture(t)
	if cat.Version != "2.0" || cat.Language != "fr_FR" {
		t.Fatalf("header = %q %q", cat.Version, cat.Language)
	}
	want := []string{
		"BlurPage", "BlurPreviewPage", "CartoonPage", "CartoonPreviewPage",
		"DecolorizePage", "HelpPage", "PixelatePage", "PixelatePreviewPage",
		"RecolorPage", "RetouchPage", "SketchPage", "SketchPreviewPage", "main",
	}
	got := cat.ContextNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("contexts = %v", got)
	}
	if n := cat.MessageCount(); n != 167 {
		t.Errorf("messages = %d, want 167", n)
	}
}

func TestDecodeMessageFields(t *testing.T) {
	cat, _ := loadFixture(t)

	info := cat.Find("BlurPage", "Info", "")
	if info == nil {
		t.Fatal("BlurPage/Info not found")
	}
	if len(info.Locations) != 2 || info.Locations[0].Line != 74 || info.Locations[1].Line != 85 {
		t.Errorf("locations = %+v", info.Locations)
	}
	if info.Locations[0].File != "../assets/BlurPage.qml" {
		t.Errorf("file = %q", info.Locations[0].File)
	}

	editor := cat.Find("BlurPage", "Editor modes", "")
	if editor == nil || editor.Type != domain.TypeUnfinished || editor.Translation != "" {
		t.Errorf("Editor modes = %+v", editor)
	}

	bp := cat.Find("BlurPreviewPage", "Could not open image", "")
	if bp == nil || bp.Translation != "Impossible d'ouvrir l'image" {
		t.Errorf("entity not unescaped: %+v", bp)
	}
}

func TestEncodeReproducesLupdateOutput(t *testing.T) {
	cat, raw := loadFixture(t)
	var buf bytes.Buffer
	if err := Encode(&buf, cat); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), raw) {
		gotLines := strings.Split(buf.String(), "\n")
		wantLines := strings.Split(string(raw), "\n")
		for i := 0; i < len(gotLines) && i < len(wantLines); i++ {
			if gotLines[i] != wantLines[i] {
				t.Fatalf("line %d:\n got %q\nwant %q", i+1, gotLines[i], wantLines[i])
			}
		}
		t.Fatalf("length differs: got %d lines, want %d", len(gotLines), len(wantLines))
	}
}

func TestRelativeLocations(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="de_DE" sourcelanguage="en_US">
<context>
    <name>main</name>
    <message>
        <location filename="main.qml" line="+10"/>
        <source>Open</source>
        <translation>Öffnen</translation>
    </message>
    <message>
        <location filename="main.qml" line="+5"/>
        <location filename="other.qml" line="3"/>
        <source>Close</source>
        <translation type="unfinished"></translation>
    </message>
</context>
</TS>
`
	cat, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	m := cat.Find("main", "Close", "")
	if m.Locations[0].Line != 15 || m.Locations[1].Line != 3 {
		t.Fatalf("locations = %+v", m.Locations)
	}
	if cat.SourceLanguage != "en_US" {
		t.Errorf("sourcelanguage = %q", cat.SourceLanguage)
	}
}

func TestNumerusRoundTrip(t *testing.T) {
	cat := &entities.Catalog{
		Version:  "2.1",
		Language: "fr_FR",
		Contexts: []entities.Context{{
			Name: "GalleryPage",
			Messages: []entities.Message{{
				Source:            "%n image(s)",
				Comment:           "gallery counter",
				ExtraComment:      "shown under the thumbnails",
				TranslatorComment: "vérifier le pluriel",
				Numerus:           true,
				NumerusForms:      []string{"%n image", "%n images"},
				Locations:         []entities.Location{{File: "GalleryPage.qml", Line: 12}, {File: "Gallery.qml"}},
			}},
		}},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, cat); err != nil {
		t.Fatal(err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	m := back.Contexts[0].Messages[0]
	if !m.Numerus || len(m.NumerusForms) != 2 || m.NumerusForms[1] != "%n images" {
		t.Fatalf("numerus = %+v", m)
	}
	if m.Comment != "gallery counter" || m.ExtraComment != "shown under the thumbnails" || m.TranslatorComment != "vérifier le pluriel" {
		t.Errorf("comments = %+v", m)
	}
	if len(m.Locations) != 2 || m.Locations[1].Line != 0 {
		t.Errorf("locations = %+v", m.Locations)
	}
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	tests := map[string]string{
		"not xml":      "hello",
		"unknown type": `<TS version="2.0"><context><name>a</name><message><source>x</source><translation type="draft">y</translation></message></context></TS>`,
		"no name":      `<TS version="2.0"><context><message><source>x</source></message></context></TS>`,
		"bad line":     `<TS version="2.0"><context><name>a</name><message><location filename="a" line="x"/><source>x</source></message></context></TS>`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(src))
			if !errors.Is(err, domain.ErrInvalidCatalog) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}
