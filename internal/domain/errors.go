package domain

import "errors"

// Domain errors.
var (
	ErrCatalogNotFound        = errors.New("catalogue non trouvé")
	ErrContextNotFound        = errors.New("contexte non trouvé")
	ErrMessageNotFound        = errors.New("message non trouvé")
	ErrInvalidCatalog         = errors.New("fichier de traduction invalide")
	ErrConflictingTranslation = errors.New("traductions contradictoires pour une même source")
	ErrUnknownLocale          = errors.New("langue inconnue")
)

var codes = map[error]string{
	ErrCatalogNotFound:        "catalog_not_found",
	ErrContextNotFound:        "context_not_found",
	ErrMessageNotFound:        "message_not_found",
	ErrInvalidCatalog:         "invalid_catalog",
	ErrConflictingTranslation: "conflicting_translation",
	ErrUnknownLocale:          "unknown_locale",
}

// Code returns the stable code of the first domain error wrapped in err, or "".
func Code(err error) string {
	for target, code := range codes {
		if errors.Is(err, target) {
			return code
		}
	}
	return ""
}
