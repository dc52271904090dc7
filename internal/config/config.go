package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Store         string   `env:"STORE" envDefault:"memory"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	SQLitePath    string   `env:"SQLITE_PATH" envDefault:"l10nbot.db"`
	CatalogFiles  []string `env:"CATALOG_FILES" envSeparator:","`
	DefaultLocale string   `env:"DEFAULT_LOCALE" envDefault:"fr"`
	HTTPAddr      string   `env:"HTTP_ADDR" envDefault:":8080"`
	Token         string   `env:"TOKEN"`
	GuildID       string   `env:"GUILD_ID"`
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DiscordEnabled indique si le bot Discord doit être démarré.
func (c *Config) DiscordEnabled() bool {
	return strings.TrimSpace(c.Token) != ""
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case "", StoreMemory:
		c.Store = StoreMemory
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL est requis lorsque STORE=postgres")
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
		}
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("config: SQLITE_PATH ne peut pas être vide lorsque STORE=sqlite")
		}
	default:
		return fmt.Errorf("config: STORE doit valoir memory, postgres ou sqlite (reçu %q)", c.Store)
	}

	files := c.CatalogFiles[:0]
	for _, f := range c.CatalogFiles {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	c.CatalogFiles = files

	if strings.TrimSpace(c.DefaultLocale) == "" {
		c.DefaultLocale = "fr"
	}

	if c.GuildID != "" {
		for _, r := range c.GuildID {
			if r < '0' || r > '9' {
				return fmt.Errorf("config: GUILD_ID doit être un ID de serveur Discord (chiffres uniquement)")
			}
		}
	}

	return nil
}
