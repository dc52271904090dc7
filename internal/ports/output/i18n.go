package output

// T exposes a minimal i18n contract for the bot's own user-facing texts.
type T interface {
	// T renders the message identified by key for the given locale.
	// data is an optional map used for template placeholders (may be nil).
	// A "Count" entry selects the plural form.
	T(locale, key string, data map[string]any) string
}
