package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"l10nbot/internal/domain/entities"
	pkgdiscord "l10nbot/pkg/discord"
)

const (
	maxChoices     = 25
	maxChoiceValue = 100
)

// HandleAutocomplete suggests contexts and source texts of the selected catalog.
func (h *Handler) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts, focused := pkgdiscord.ExtractSubcommand(i.ApplicationCommandData())
	cat, err := h.catalogs.Catalog(context.Background(), opts[optLanguage])
	if err != nil {
		respondChoices(s, i.Interaction, nil)
		return
	}

	var candidates []string
	switch focused {
	case optContext:
		candidates = cat.ContextNames()
	case optSource:
		candidates = contextSources(cat, opts[optContext])
	}
	respondChoices(s, i.Interaction, filterChoices(candidates, opts[focused]))
}

func contextSources(cat *entities.Catalog, contextName string) []string {
	c := cat.Context(contextName)
	if c == nil {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.IsObsolete() || seen[m.Source] {
			continue
		}
		seen[m.Source] = true
		out = append(out, m.Source)
	}
	return out
}

// filterChoices keeps the candidates containing typed (case-insensitive),
// prefix matches first. Values longer than Discord accepts are skipped.
func filterChoices(candidates []string, typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(strings.TrimSpace(typed))
	var prefix, contains []string
	for _, c := range candidates {
		if c == "" || len(c) > maxChoiceValue {
			continue
		}
		lc := strings.ToLower(c)
		switch {
		case strings.HasPrefix(lc, typed):
			prefix = append(prefix, c)
		case strings.Contains(lc, typed):
			contains = append(contains, c)
		}
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)
	for _, c := range append(prefix, contains...) {
		if len(choices) == maxChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: c, Value: c})
	}
	return choices
}
