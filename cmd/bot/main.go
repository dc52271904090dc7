package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"l10nbot/internal/adapters/discord"
	"l10nbot/internal/adapters/httpapi"
	"l10nbot/internal/application"
	"l10nbot/internal/config"
	"l10nbot/internal/infrastructure/database"
	"l10nbot/internal/infrastructure/i18n"
	"l10nbot/internal/infrastructure/memory"
	"l10nbot/internal/infrastructure/tsfile"
	"l10nbot/internal/ports/output"
	"l10nbot/translations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation du stockage: %v", err)
	}
	defer closeStore()

	catalogs := application.NewCatalogService(repo, cfg.DefaultLocale)
	if err := importCatalogs(ctx, catalogs, cfg.CatalogFiles); err != nil {
		log.Printf("❌ Erreur lors de l'import des catalogues: %v", err)
		os.Exit(1)
	}

	tr := i18n.NewTranslator(cfg.DefaultLocale)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.Serve(ctx, cfg.HTTPAddr, httpapi.NewRouter(httpapi.NewCatalogHandler(catalogs, tr)))
	})
	if cfg.DiscordEnabled() {
		bot, err := discord.NewBot(cfg, catalogs, tr)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		g.Go(func() error { return bot.Start(ctx) })
	} else {
		log.Println("ℹ️ TOKEN absent : bot Discord désactivé.")
	}

	if err := g.Wait(); err != nil {
		log.Printf("❌ Arrêt sur erreur: %v", err)
		os.Exit(1)
	}
	log.Println("👋 Arrêt.")
}

func openStore(ctx context.Context, cfg *config.Config) (output.CatalogRepository, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return database.NewCatalogRepository(pool), pool.Close, nil
	case config.StoreSQLite:
		if err := database.RunSQLiteMigrations(cfg.SQLitePath); err != nil {
			return nil, nil, err
		}
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return database.NewSQLiteCatalogRepository(db), func() { db.Close() }, nil
	default:
		return memory.NewCatalogRepository(), func() {}, nil
	}
}

// importCatalogs loads the embedded catalogs, then CATALOG_FILES, so a file
// can replace a shipped catalog of the same language.
func importCatalogs(ctx context.Context, svc *application.CatalogService, files []string) error {
	cats, err := tsfile.LoadFS(translations.FS, "*.ts")
	if err != nil {
		return err
	}
	for _, f := range files {
		cat, err := tsfile.Load(f)
		if err != nil {
			return err
		}
		cats = append(cats, cat)
	}
	for _, cat := range cats {
		if err := svc.Import(ctx, cat); err != nil {
			return err
		}
	}
	return nil
}

