package discord

import "github.com/bwmarrin/discordgo"

// ExtractSubcommand returns the subcommand name and its string options.
// The focused option, if any, is reported for autocomplete requests.
func ExtractSubcommand(data discordgo.ApplicationCommandInteractionData) (name string, values map[string]string, focused string) {
	values = map[string]string{}
	if len(data.Options) == 0 {
		return "", values, ""
	}
	sub := data.Options[0]
	if sub.Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", values, ""
	}
	for _, opt := range sub.Options {
		if opt.Type != discordgo.ApplicationCommandOptionString {
			continue
		}
		values[opt.Name] = opt.StringValue()
		if opt.Focused {
			focused = opt.Name
		}
	}
	return sub.Name, values, focused
}
