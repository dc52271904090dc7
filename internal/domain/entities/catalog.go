package entities

import (
	"strings"
	"time"

	"l10nbot/internal/domain"
)

// Catalog is one translation file: an ordered list of contexts for a single target language.
type Catalog struct {
	ID             uint
	Name           string // file name the catalog was imported from (e.g. MagicPhotos_fr.ts)
	Version        string // TS format version, usually "2.0" or "2.1"
	Language       string // Qt locale name (fr_FR)
	SourceLanguage string
	Contexts       []Context
	ImportedAt     time.Time
}

// Context groups the messages of one UI screen.
type Context struct {
	Name     string
	Comment  string
	Messages []Message
}

// Message is one translatable string and its translation.
type Message struct {
	ID                string // optional message id (id-based translations)
	Source            string
	OldSource         string
	Comment           string // disambiguation comment
	ExtraComment      string
	TranslatorComment string
	Translation       string
	NumerusForms      []string
	Numerus           bool
	Type              string // one of the domain.Type* values
	Locations         []Location
}

// Location points to the UI definition that declares a message.
type Location struct {
	File string
	Line int // 0 = unknown
}

// IsFinished reports whether the translator completed the entry.
func (m *Message) IsFinished() bool {
	return m.Type == domain.TypeFinished
}

// IsObsolete reports whether the message no longer exists in the sources.
func (m *Message) IsObsolete() bool {
	return m.Type == domain.TypeObsolete || m.Type == domain.TypeVanished
}

// Usable reports whether the translation may be shown instead of the source.
func (m *Message) Usable() bool {
	if !m.IsFinished() {
		return false
	}
	if m.Numerus {
		return len(m.NumerusForms) > 0 && m.NumerusForms[0] != ""
	}
	return m.Translation != ""
}

// Resolved returns the text to display for m: its translation when usable,
// otherwise the source.
func (m *Message) Resolved() (string, bool) {
	if !m.Usable() {
		return m.Source, false
	}
	if m.Numerus {
		return m.NumerusForms[0], true
	}
	return m.Translation, true
}

// Context returns the context with the given name, or nil.
func (c *Catalog) Context(name string) *Context {
	for i := range c.Contexts {
		if c.Contexts[i].Name == name {
			return &c.Contexts[i]
		}
	}
	return nil
}

// Find returns the first non-obsolete message of context matching source and
// comment. An empty comment matches any message, preferring one without comment.
func (c *Catalog) Find(context, source, comment string) *Message {
	ctx := c.Context(context)
	if ctx == nil {
		return nil
	}
	var fallback *Message
	for i := range ctx.Messages {
		m := &ctx.Messages[i]
		if m.Source != source || m.IsObsolete() {
			continue
		}
		if m.Comment == comment {
			return m
		}
		if comment == "" && fallback == nil {
			fallback = m
		}
	}
	return fallback
}

// Translate resolves source within context. The boolean is false when the
// source string is returned because no usable translation exists.
func (c *Catalog) Translate(context, source string) (string, bool) {
	return c.translate(context, source, "")
}

// Lookup returns the translation of source, or source itself when the
// message is missing or not finished.
func (c *Catalog) Lookup(context, source string) string {
	s, _ := c.translate(context, source, "")
	return s
}

// LookupDisambiguated is Lookup restricted to messages carrying comment.
func (c *Catalog) LookupDisambiguated(context, source, comment string) string {
	s, _ := c.translate(context, source, comment)
	return s
}

func (c *Catalog) translate(context, source, comment string) (string, bool) {
	if c == nil {
		return source, false
	}
	m := c.Find(context, source, comment)
	if m == nil {
		return source, false
	}
	return m.Resolved()
}

// ContextNames returns the context names in file order.
func (c *Catalog) ContextNames() []string {
	out := make([]string, len(c.Contexts))
	for i := range c.Contexts {
		out[i] = c.Contexts[i].Name
	}
	return out
}

// MessageCount returns the number of messages across all contexts.
func (c *Catalog) MessageCount() int {
	n := 0
	for i := range c.Contexts {
		n += len(c.Contexts[i].Messages)
	}
	return n
}

// LanguageTag converts the Qt locale name into a BCP 47 string (fr_FR -> fr-FR).
func (c *Catalog) LanguageTag() string {
	return strings.ReplaceAll(c.Language, "_", "-")
}
