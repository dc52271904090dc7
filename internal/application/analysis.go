package application

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"l10nbot/internal/domain/entities"
)

// ComputeStats counts messages per context and for the whole catalog.
func ComputeStats(cat *entities.Catalog) entities.Stats {
	st := entities.Stats{Language: cat.Language}
	for _, c := range cat.Contexts {
		cs := entities.ContextStats{Name: c.Name, Total: len(c.Messages)}
		for i := range c.Messages {
			m := &c.Messages[i]
			switch {
			case m.IsObsolete():
				cs.Obsolete++
			case m.Usable():
				cs.Finished++
			default:
				cs.Unfinished++
			}
		}
		st.Contexts = append(st.Contexts, cs)
		st.Total += cs.Total
		st.Finished += cs.Finished
		st.Unfinished += cs.Unfinished
		st.Obsolete += cs.Obsolete
	}
	return st
}

// UnfinishedSources lists the sources of context that still fall back to the
// source text. An empty context name covers the whole catalog.
func UnfinishedSources(cat *entities.Catalog, context string) map[string][]string {
	out := map[string][]string{}
	for _, c := range cat.Contexts {
		if context != "" && c.Name != context {
			continue
		}
		for i := range c.Messages {
			m := &c.Messages[i]
			if m.IsObsolete() || m.Usable() {
				continue
			}
			out[c.Name] = append(out[c.Name], m.Source)
		}
	}
	return out
}

type messageKey struct {
	source  string
	comment string
}

// CheckCatalog reports conflicting duplicates and inconsistent entries.
func CheckCatalog(cat *entities.Catalog) []entities.Issue {
	var issues []entities.Issue
	tag := cat.Tag()
	var forms int
	if tag != language.Und {
		forms = len(entities.PluralForms(tag))
	}

	seenContexts := map[string]bool{}
	for _, c := range cat.Contexts {
		if seenContexts[c.Name] {
			issues = append(issues, entities.Issue{
				Kind:    entities.IssueDuplicateContext,
				Context: c.Name,
				Detail:  "context declared more than once",
			})
		}
		seenContexts[c.Name] = true

		first := map[messageKey]*entities.Message{}
		for i := range c.Messages {
			m := &c.Messages[i]
			if m.IsObsolete() {
				continue
			}
			key := messageKey{source: m.Source, comment: m.Comment}
			if prev, ok := first[key]; ok {
				if a, b := rendered(prev), rendered(m); a != "" && b != "" && a != b {
					issues = append(issues, entities.Issue{
						Kind:    entities.IssueConflict,
						Context: c.Name,
						Source:  m.Source,
						Detail:  fmt.Sprintf("%q vs %q", a, b),
					})
				}
			} else {
				first[key] = m
			}

			if m.IsFinished() && emptyTranslation(m) {
				issues = append(issues, entities.Issue{
					Kind:    entities.IssueEmptyFinished,
					Context: c.Name,
					Source:  m.Source,
					Detail:  "finished message without translation",
				})
			}
			if m.Numerus && forms > 0 && len(m.NumerusForms) != forms {
				issues = append(issues, entities.Issue{
					Kind:    entities.IssueNumerusMismatch,
					Context: c.Name,
					Source:  m.Source,
					Detail:  fmt.Sprintf("%d forms, %s expects %d", len(m.NumerusForms), cat.Language, forms),
				})
			}
		}
	}
	return issues
}

func rendered(m *entities.Message) string {
	if m.Numerus {
		if emptyTranslation(m) {
			return ""
		}
		return strings.Join(m.NumerusForms, "\x00")
	}
	return m.Translation
}

func emptyTranslation(m *entities.Message) bool {
	if !m.Numerus {
		return m.Translation == ""
	}
	if len(m.NumerusForms) == 0 {
		return true
	}
	for _, f := range m.NumerusForms {
		if f == "" {
			return true
		}
	}
	return false
}
