package discord

import (
	"l10nbot/internal/domain"
	"l10nbot/internal/ports/output"
)

// TranslateDomainError maps a domain error code to a user-facing message
// in locale.
func TranslateDomainError(tr output.T, locale, code string) string {
	switch code {
	case "catalog_not_found", "context_not_found", "message_not_found", "invalid_catalog",
		"conflicting_translation", "unknown_locale":
		return tr.T(locale, "error."+code, nil)
	default:
		return tr.T(locale, "error.generic", nil)
	}
}

// DomainErrorMessage extracts the domain error code of err and resolves it
// to a user-facing message.
func DomainErrorMessage(tr output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	return TranslateDomainError(tr, locale, domain.Code(err))
}
