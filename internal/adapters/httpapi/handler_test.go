package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"l10nbot/internal/application"
	"l10nbot/internal/domain"
	"l10nbot/internal/infrastructure/i18n"
	"l10nbot/internal/infrastructure/memory"
	"l10nbot/internal/infrastructure/tsfile"
	"l10nbot/translations"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, load bool) *gin.Engine {
	t.Helper()
	svc := application.NewCatalogService(memory.NewCatalogRepository(), "fr")
	if load {
		cats, err := tsfile.LoadFS(translations.FS, "*.ts")
		if err != nil {
			t.Fatal(err)
		}
		for _, cat := range cats {
			if err := svc.Import(context.Background(), cat); err != nil {
				t.Fatal(err)
			}
		}
	}
	return NewRouter(NewCatalogHandler(svc, i18n.NewTranslator("fr")))
}

func do(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("body %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t, false), http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestLookupEndpoint(t *testing.T) {
	r := newTestRouter(t, true)
	tests := []struct {
		target     string
		want       string
		translated bool
	}{
		{"/v1/catalogs/fr/lookup?context=HelpPage&source=Recommend+App", "Recommander", true},
		{"/v1/catalogs/fr_FR/lookup?context=BlurPage&source=Editor+modes", "Editor modes", false},
		{"/v1/catalogs/de/lookup?context=HelpPage&source=Recommend+App", "Recommend App", false},
		{"/v1/catalogs/fr/lookup?context=Nowhere&source=Save&n=2", "Save", false},
	}
	for _, tt := range tests {
		w := do(r, http.MethodGet, tt.target, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d (%s)", tt.target, w.Code, w.Body)
		}
		var got lookupResponse
		decodeJSON(t, w, &got)
		if got.Translation != tt.want || got.Translated != tt.translated {
			t.Errorf("%s = %+v", tt.target, got)
		}
	}

	if w := do(r, http.MethodGet, "/v1/catalogs/fr/lookup?context=HelpPage", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing source: status = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/v1/catalogs/fr/lookup?context=HelpPage&source=x&n=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad n: status = %d", w.Code)
	}
}

func TestStatsAndNotFound(t *testing.T) {
	r := newTestRouter(t, true)

	w := do(r, http.MethodGet, "/v1/catalogs/fr/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var st statsResponse
	decodeJSON(t, w, &st)
	if st.Language != "fr_FR" || st.Total != 167 || len(st.Contexts) != 13 {
		t.Errorf("stats = %+v", st)
	}

	w = do(r, http.MethodGet, "/v1/catalogs/ja/stats", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var e map[string]string
	decodeJSON(t, w, &e)
	if e["error"] != "catalog_not_found" || e["message"] == "" {
		t.Errorf("error body = %v", e)
	}

	w = do(r, http.MethodGet, "/v1/catalogs/fr/unfinished?context=NoSuchPage", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown context: status = %d", w.Code)
	}
}

func TestUnfinishedAndCheck(t *testing.T) {
	r := newTestRouter(t, true)

	w := do(r, http.MethodGet, "/v1/catalogs/fr/unfinished?context=HelpPage", nil)
	var missing struct {
		Unfinished map[string][]string `json:"unfinished"`
	}
	decodeJSON(t, w, &missing)
	if got := missing.Unfinished["HelpPage"]; len(got) != 1 || got[0] != "Help browser" {
		t.Errorf("unfinished = %v", missing.Unfinished)
	}

	w = do(r, http.MethodGet, "/v1/catalogs/fr/check", nil)
	var check struct {
		Issues []issueResponse `json:"issues"`
	}
	decodeJSON(t, w, &check)
	for _, i := range check.Issues {
		if i.Blocking {
			t.Errorf("blocking issue in shipped catalog: %+v", i)
		}
	}
}

func TestExports(t *testing.T) {
	r := newTestRouter(t, true)
	fixture, err := translations.FS.ReadFile("MagicPhotos_fr.ts")
	if err != nil {
		t.Fatal(err)
	}

	w := do(r, http.MethodGet, "/v1/catalogs/fr/export.ts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), fixture) {
		t.Error("export.ts differs from the imported file")
	}

	w = do(r, http.MethodGet, "/v1/catalogs/fr/export.toml", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "MagicPhotos.fr-FR.toml") {
		t.Errorf("disposition = %q", w.Header().Get("Content-Disposition"))
	}
	if !strings.Contains(w.Body.String(), "Recommander") {
		t.Error("export.toml lacks a finished translation")
	}
}

func TestImportAndDelete(t *testing.T) {
	r := newTestRouter(t, false)
	doc := []byte(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="de_DE">
<context>
    <name>main</name>
    <message>
        <source>Open</source>
        <translation>Öffnen</translation>
    </message>
</context>
</TS>
`)
	w := do(r, http.MethodPost, "/v1/catalogs?name=app_de.ts", doc)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", w.Code, w.Body)
	}

	w = do(r, http.MethodGet, "/v1/catalogs", nil)
	var langs struct {
		Languages []string `json:"languages"`
	}
	decodeJSON(t, w, &langs)
	if len(langs.Languages) != 1 || langs.Languages[0] != "de_DE" {
		t.Errorf("languages = %v", langs.Languages)
	}

	w = do(r, http.MethodGet, "/v1/catalogs/de/lookup?context=main&source=Open", nil)
	var got lookupResponse
	decodeJSON(t, w, &got)
	if got.Translation != "Öffnen" {
		t.Errorf("lookup = %+v", got)
	}

	if w := do(r, http.MethodDelete, "/v1/catalogs/de_DE", nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/v1/catalogs/de_DE", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", w.Code)
	}
}

func TestImportRejectsMalformedBody(t *testing.T) {
	r := newTestRouter(t, false)
	w := do(r, http.MethodPost, "/v1/catalogs", []byte("<TS><context>"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var e map[string]string
	decodeJSON(t, w, &e)
	if e["error"] != "invalid_catalog" {
		t.Errorf("error = %v", e)
	}
}

func TestErrorMessages(t *testing.T) {
	h := NewCatalogHandler(application.NewCatalogService(memory.NewCatalogRepository(), "fr"), i18n.NewTranslator("fr"))
	tests := []struct {
		err    error
		status int
		code   string
		want   string
	}{
		{fmt.Errorf("find: %w", domain.ErrMessageNotFound), http.StatusNotFound, "message_not_found", "Ce message n'existe pas dans le catalogue."},
		{domain.ErrContextNotFound, http.StatusNotFound, "context_not_found", "Ce contexte n'existe pas dans le catalogue."},
		{domain.ErrUnknownLocale, http.StatusBadRequest, "unknown_locale", "Langue inconnue."},
		{fmt.Errorf("disk full"), http.StatusInternalServerError, "internal", "Une erreur est survenue."},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/catalogs/fr/lookup", nil)
		h.fail(c, tt.err)

		var body map[string]string
		decodeJSON(t, w, &body)
		if w.Code != tt.status || body["error"] != tt.code || body["message"] != tt.want {
			t.Errorf("%v: status=%d body=%v", tt.err, w.Code, body)
		}
	}
}

func TestErrorMessageFallsBackToGeneric(t *testing.T) {
	h := NewCatalogHandler(nil, i18n.NewTranslator("en"))
	if got := h.errorMessage("en", "no_such_code"); got != "Something went wrong." {
		t.Errorf("got %q", got)
	}
	if got := h.errorMessage("en", "message_not_found"); got != "This message does not exist in the catalog." {
		t.Errorf("got %q", got)
	}
}
