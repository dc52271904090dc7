package discord

import (
	"time"

	"l10nbot/pkg/tz"
)

// FormatImportDate renders t in Paris time (JJ/MM/AAAA à HH:MM), or "" for the zero time.
func FormatImportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(tz.Paris).Format("02/01/2006 à 15:04")
}
