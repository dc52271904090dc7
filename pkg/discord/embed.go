package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"l10nbot/internal/domain/entities"
	"l10nbot/internal/ports/output"
)

const (
	embedColor    = 0x5865F2
	maxEmbedLines = 20
	barWidth      = 10
)

// progressBar draws percent as a fixed width bar of squares.
func progressBar(percent float64) string {
	filled := int(percent/100*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("🟩", filled) + strings.Repeat("⬜", barWidth-filled)
}

// BuildStatsEmbed summarizes the translation progress of cat, one line per context.
func BuildStatsEmbed(tr output.T, locale string, cat *entities.Catalog, st entities.Stats) *discordgo.MessageEmbed {
	active := st.Total - st.Obsolete
	var b strings.Builder
	b.WriteString(tr.T(locale, "stats.summary", map[string]any{
		"Finished": st.Finished,
		"Active":   active,
		"Percent":  fmt.Sprintf("%.0f", st.Percent()),
	}))
	b.WriteString("\n")
	b.WriteString(progressBar(st.Percent()))

	fields := make([]*discordgo.MessageEmbedField, 0, len(st.Contexts))
	for _, c := range st.Contexts {
		done := c.Total - c.Obsolete
		mark := "✅"
		if c.Unfinished > 0 {
			mark = "📝"
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s %s", mark, c.Name),
			Value:  fmt.Sprintf("%d/%d", c.Finished, done),
			Inline: true,
		})
	}
	if len(fields) > 25 {
		fields = fields[:25]
	}

	embed := &discordgo.MessageEmbed{
		Title:       tr.T(locale, "stats.title", map[string]any{"Language": st.Language}),
		Description: b.String(),
		Color:       embedColor,
		Fields:      fields,
	}
	if cat != nil && !cat.ImportedAt.IsZero() {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: tr.T(locale, "stats.footer", map[string]any{
			"Name":       cat.Name,
			"ImportedAt": FormatImportDate(cat.ImportedAt),
		})}
	}
	return embed
}

// BuildUnfinishedEmbed lists the sources still to translate in one context.
func BuildUnfinishedEmbed(tr output.T, locale, contextName string, sources []string) *discordgo.MessageEmbed {
	lines := make([]string, 0, maxEmbedLines+1)
	for i, s := range sources {
		if i == maxEmbedLines {
			lines = append(lines, tr.T(locale, "unfinished.more", map[string]any{"Count": len(sources) - maxEmbedLines}))
			break
		}
		lines = append(lines, "- "+s)
	}
	return &discordgo.MessageEmbed{
		Title:       tr.T(locale, "unfinished.title", map[string]any{"Context": contextName}),
		Description: strings.Join(lines, "\n"),
		Color:       embedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: tr.T(locale, "unfinished.remaining", map[string]any{"Count": len(sources)}),
		},
	}
}

// BuildContextsEmbed lists the contexts of cat with their message counts.
func BuildContextsEmbed(tr output.T, locale string, cat *entities.Catalog) *discordgo.MessageEmbed {
	names := cat.ContextNames()
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("- `%s` (%d)", n, len(cat.Context(n).Messages)))
	}
	return &discordgo.MessageEmbed{
		Title:       tr.T(locale, "contexts.title", map[string]any{"Language": cat.Language}),
		Description: strings.Join(lines, "\n"),
		Color:       embedColor,
	}
}
