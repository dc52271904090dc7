package httpapi

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"l10nbot/internal/domain"
	"l10nbot/internal/domain/entities"
	"l10nbot/internal/infrastructure/i18n"
	"l10nbot/internal/infrastructure/tsfile"
	"l10nbot/internal/ports/input"
	"l10nbot/internal/ports/output"
)

// maxCatalogSize bounds the body of an import request.
const maxCatalogSize = 16 << 20

// CatalogHandler serves the catalog API.
type CatalogHandler struct {
	catalogs input.CatalogUseCase
	i18n     output.T
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalogs input.CatalogUseCase, tr output.T) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs, i18n: tr}
}

type lookupResponse struct {
	Language    string              `json:"language"`
	Translation string              `json:"translation"`
	Translated  bool                `json:"translated"`
	Unfinished  bool                `json:"unfinished"`
	Locations   []entities.Location `json:"locations,omitempty"`
}

type contextStatsResponse struct {
	Name       string `json:"name"`
	Total      int    `json:"total"`
	Finished   int    `json:"finished"`
	Unfinished int    `json:"unfinished"`
	Obsolete   int    `json:"obsolete"`
}

type statsResponse struct {
	Language   string                 `json:"language"`
	Total      int                    `json:"total"`
	Finished   int                    `json:"finished"`
	Unfinished int                    `json:"unfinished"`
	Obsolete   int                    `json:"obsolete"`
	Percent    float64                `json:"percent"`
	Contexts   []contextStatsResponse `json:"contexts"`
}

type issueResponse struct {
	Kind     entities.IssueKind `json:"kind"`
	Context  string             `json:"context"`
	Source   string             `json:"source,omitempty"`
	Detail   string             `json:"detail"`
	Blocking bool               `json:"blocking"`
}

func toStatsResponse(st entities.Stats) statsResponse {
	out := statsResponse{
		Language:   st.Language,
		Total:      st.Total,
		Finished:   st.Finished,
		Unfinished: st.Unfinished,
		Obsolete:   st.Obsolete,
		Percent:    st.Percent(),
		Contexts:   make([]contextStatsResponse, 0, len(st.Contexts)),
	}
	for _, c := range st.Contexts {
		out.Contexts = append(out.Contexts, contextStatsResponse(c))
	}
	return out
}

// Health reports that the process is up.
func (h *CatalogHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListLanguages returns the languages of the imported catalogs.
func (h *CatalogHandler) ListLanguages(c *gin.Context) {
	langs, err := h.catalogs.Languages(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"languages": langs})
}

// Import stores the .ts document sent as request body.
func (h *CatalogHandler) Import(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxCatalogSize)
	cat, err := tsfile.Decode(body)
	if err != nil {
		h.fail(c, err)
		return
	}
	cat.Name = c.Query("name")
	if err := h.catalogs.Import(c.Request.Context(), cat); err != nil {
		h.fail(c, err)
		return
	}
	st, err := h.catalogs.Stats(c.Request.Context(), cat.Language)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStatsResponse(st))
}

// Lookup resolves one source string. It never answers 404: a missing
// catalog or message yields the source text with translated=false.
func (h *CatalogHandler) Lookup(c *gin.Context) {
	locale := c.Param("locale")
	contextName := c.Query("context")
	source, ok := c.GetQuery("source")
	if contextName == "" || !ok {
		h.badRequest(c, "context et source sont requis")
		return
	}

	var (
		res input.LookupResult
		err error
	)
	if raw := c.Query("n"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			h.badRequest(c, "n doit être un entier")
			return
		}
		res, err = h.catalogs.LookupPlural(c.Request.Context(), locale, contextName, source, n)
	} else {
		res, err = h.catalogs.Lookup(c.Request.Context(), locale, contextName, source)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lookupResponse{
		Language:    res.Language,
		Translation: res.Text,
		Translated:  res.Translated,
		Unfinished:  res.Unfinished,
		Locations:   res.Locations,
	})
}

func (h *CatalogHandler) Stats(c *gin.Context) {
	st, err := h.catalogs.Stats(c.Request.Context(), c.Param("locale"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(st))
}

func (h *CatalogHandler) Unfinished(c *gin.Context) {
	missing, err := h.catalogs.Unfinished(c.Request.Context(), c.Param("locale"), c.Query("context"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unfinished": missing})
}

func (h *CatalogHandler) Check(c *gin.Context) {
	issues, err := h.catalogs.Check(c.Request.Context(), c.Param("locale"))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]issueResponse, 0, len(issues))
	for _, i := range issues {
		out = append(out, issueResponse{
			Kind:     i.Kind,
			Context:  i.Context,
			Source:   i.Source,
			Detail:   i.Detail,
			Blocking: i.Blocking(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"issues": out})
}

// ExportTS re-encodes the catalog in lupdate's layout.
func (h *CatalogHandler) ExportTS(c *gin.Context) {
	cat, err := h.catalogs.Catalog(c.Request.Context(), c.Param("locale"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := tsfile.Encode(&buf, cat); err != nil {
		h.fail(c, err)
		return
	}
	if cat.Name != "" {
		c.Header("Content-Disposition", `attachment; filename="`+cat.Name+`"`)
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

// ExportTOML converts the catalog into a go-i18n message file.
func (h *CatalogHandler) ExportTOML(c *gin.Context) {
	cat, err := h.catalogs.Catalog(c.Request.Context(), c.Param("locale"))
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := i18n.ExportTOML(cat)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+i18n.ExportFileName(cat)+`"`)
	c.Data(http.StatusOK, "application/toml; charset=utf-8", data)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalogs.Delete(c.Request.Context(), c.Param("locale")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "bad_request",
		"message": message,
	})
}

// fail maps domain errors to a status and a localized message.
func (h *CatalogHandler) fail(c *gin.Context, err error) {
	code := domain.Code(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCatalogNotFound), errors.Is(err, domain.ErrContextNotFound),
		errors.Is(err, domain.ErrMessageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCatalog), errors.Is(err, domain.ErrUnknownLocale):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConflictingTranslation):
		status = http.StatusUnprocessableEntity
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status, code = http.StatusRequestEntityTooLarge, "too_large"
	}

	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		code = "internal"
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":   code,
		"message": h.errorMessage(c.GetHeader("Accept-Language"), code),
	})
}

// errorMessage resolves error.<code>, falling back to error.generic for codes
// without a message.
func (h *CatalogHandler) errorMessage(locale, code string) string {
	if code != "" && code != "internal" && code != "too_large" {
		key := "error." + code
		if msg := h.i18n.T(locale, key, nil); msg != key {
			return msg
		}
	}
	return h.i18n.T(locale, "error.generic", nil)
}
