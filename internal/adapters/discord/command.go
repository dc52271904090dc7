package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"l10nbot/internal/domain"
	"l10nbot/internal/ports/input"
	"l10nbot/internal/ports/output"
	pkgdiscord "l10nbot/pkg/discord"
)

const (
	commandName = "traduction"

	subLookup     = "chercher"
	subProgress   = "progression"
	subUnfinished = "manquants"
	subContexts   = "contextes"

	optLanguage = "langue"
	optContext  = "contexte"
	optSource   = "source"
)

func languageOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optLanguage,
		Description: "Langue du catalogue (ex: fr, fr_FR)",
		DescriptionLocalizations: map[discordgo.Locale]string{
			discordgo.EnglishUS: "Catalog language (e.g. fr, fr_FR)",
		},
	}
}

func contextOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         optContext,
		Description:  "Contexte Qt (page ou composant)",
		Required:     true,
		Autocomplete: true,
		DescriptionLocalizations: map[discordgo.Locale]string{
			discordgo.EnglishUS: "Qt context (page or component)",
		},
	}
}

// Commands returns the slash commands registered by the bot.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{{
		Name:        commandName,
		Description: "Consulter les catalogues de traduction",
		DescriptionLocalizations: &map[discordgo.Locale]string{
			discordgo.EnglishUS: "Browse the translation catalogs",
		},
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        subLookup,
				Description: "Traduire un texte source",
				Options: []*discordgo.ApplicationCommandOption{
					contextOption(),
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         optSource,
						Description:  "Texte source exact",
						Required:     true,
						Autocomplete: true,
					},
					languageOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        subProgress,
				Description: "Progression de la traduction",
				Options:     []*discordgo.ApplicationCommandOption{languageOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        subUnfinished,
				Description: "Textes restant à traduire dans un contexte",
				Options:     []*discordgo.ApplicationCommandOption{contextOption(), languageOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        subContexts,
				Description: "Lister les contextes du catalogue",
				Options:     []*discordgo.ApplicationCommandOption{languageOption()},
			},
		},
	}}
}

// HandleCommand dispatches /traduction subcommands. Every answer is ephemeral.
func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	locale := userLocale(i)
	sub, opts, _ := pkgdiscord.ExtractSubcommand(i.ApplicationCommandData())

	switch sub {
	case subLookup:
		res, err := h.catalogs.Lookup(ctx, opts[optLanguage], opts[optContext], opts[optSource])
		if err != nil {
			h.respondError(s, i, locale, err)
			return
		}
		respondEphemeral(s, i.Interaction, formatLookup(h.i18n, locale, opts[optContext], opts[optSource], res))

	case subProgress:
		cat, err := h.catalogs.Catalog(ctx, opts[optLanguage])
		if err != nil {
			h.respondError(s, i, locale, err)
			return
		}
		st, err := h.catalogs.Stats(ctx, cat.Language)
		if err != nil {
			h.respondError(s, i, locale, err)
			return
		}
		respondEmbed(s, i.Interaction, pkgdiscord.BuildStatsEmbed(h.i18n, locale, cat, st))

	case subUnfinished:
		contextName := opts[optContext]
		missing, err := h.catalogs.Unfinished(ctx, opts[optLanguage], contextName)
		if err != nil {
			h.respondError(s, i, locale, err)
			return
		}
		sources := missing[contextName]
		if len(sources) == 0 {
			respondEphemeral(s, i.Interaction, h.i18n.T(locale, "unfinished.none", map[string]any{"Context": contextName}))
			return
		}
		respondEmbed(s, i.Interaction, pkgdiscord.BuildUnfinishedEmbed(h.i18n, locale, contextName, sources))

	case subContexts:
		cat, err := h.catalogs.Catalog(ctx, opts[optLanguage])
		if err != nil {
			h.respondError(s, i, locale, err)
			return
		}
		respondEmbed(s, i.Interaction, pkgdiscord.BuildContextsEmbed(h.i18n, locale, cat))

	default:
		log.Printf("⚠️ Sous-commande inconnue: %q", sub)
	}
}

func (h *Handler) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, locale string, err error) {
	if domain.Code(err) == "" {
		log.Printf("❌ /%s: %v", commandName, err)
	}
	respondEphemeral(s, i.Interaction, "❌ "+pkgdiscord.DomainErrorMessage(h.i18n, locale, err))
}

// formatLookup renders a lookup result for the user.
func formatLookup(tr output.T, locale, contextName, source string, res input.LookupResult) string {
	data := map[string]any{
		"Context":  contextName,
		"Source":   source,
		"Text":     res.Text,
		"Language": res.Language,
	}
	var text string
	switch {
	case res.Language == "":
		text = tr.T(locale, "lookup.no_catalog", data)
	case res.Translated:
		text = tr.T(locale, "lookup.translated", data)
	case res.Unfinished || len(res.Locations) > 0:
		text = tr.T(locale, "lookup.unfinished", data)
	default:
		text = tr.T(locale, "lookup.missing", data)
	}

	if len(res.Locations) > 0 {
		locs := make([]string, 0, len(res.Locations))
		for _, l := range res.Locations {
			locs = append(locs, fmt.Sprintf("`%s:%d`", l.File, l.Line))
		}
		text += "\n" + tr.T(locale, "lookup.locations", map[string]any{"Locations": strings.Join(locs, ", ")})
	}
	return text
}
