package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"l10nbot/internal/domain"
	"l10nbot/internal/domain/entities"
	"l10nbot/internal/ports/output"
)

var _ output.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository implements output.CatalogRepository on PostgreSQL with pgx.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) Save(ctx context.Context, cat *entities.Catalog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM catalogs WHERE language = $1`, cat.Language); err != nil {
		return fmt.Errorf("delete previous catalog: %w", err)
	}

	var catalogID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO catalogs (language, name, version, source_language, imported_at)
		 VALUES ($1, $2, $3, $4, COALESCE($5, now())) RETURNING id`,
		cat.Language, cat.Name, cat.Version, cat.SourceLanguage,
		pgtype.Timestamptz{Time: cat.ImportedAt, Valid: !cat.ImportedAt.IsZero()},
	).Scan(&catalogID)
	if err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}

	for ci, c := range cat.Contexts {
		var contextID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO contexts (catalog_id, position, name, comment) VALUES ($1, $2, $3, $4) RETURNING id`,
			catalogID, ci, c.Name, c.Comment,
		).Scan(&contextID)
		if err != nil {
			return fmt.Errorf("insert context %s: %w", c.Name, err)
		}

		for mi, m := range c.Messages {
			forms, err := encodeForms(m.NumerusForms)
			if err != nil {
				return err
			}
			var messageID int64
			err = tx.QueryRow(ctx,
				`INSERT INTO messages (context_id, position, message_id, source, old_source, comment,
				     extra_comment, translator_comment, translation, numerus, numerus_forms, type)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
				contextID, mi, m.ID, m.Source, m.OldSource, m.Comment,
				m.ExtraComment, m.TranslatorComment, m.Translation, m.Numerus, forms, m.Type,
			).Scan(&messageID)
			if err != nil {
				return fmt.Errorf("insert message %q: %w", m.Source, err)
			}

			if len(m.Locations) == 0 {
				continue
			}
			batch := &pgx.Batch{}
			for li, l := range m.Locations {
				batch.Queue(`INSERT INTO locations (message_id, position, file, line) VALUES ($1, $2, $3, $4)`,
					messageID, li, l.File, l.Line)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("insert locations of %q: %w", m.Source, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	cat.ID = uint(catalogID)
	return nil
}

func (r *CatalogRepository) FindByLanguage(ctx context.Context, language string) (*entities.Catalog, error) {
	var (
		catalogID  int64
		importedAt pgtype.Timestamptz
	)
	cat := &entities.Catalog{Language: language}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, version, source_language, imported_at FROM catalogs WHERE language = $1`,
		language,
	).Scan(&catalogID, &cat.Name, &cat.Version, &cat.SourceLanguage, &importedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog %s: %w", language, err)
	}
	cat.ID = uint(catalogID)
	cat.ImportedAt = pgtypeTimestamptzToTime(importedAt)

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, comment FROM contexts WHERE catalog_id = $1 ORDER BY position`, catalogID)
	if err != nil {
		return nil, fmt.Errorf("get contexts: %w", err)
	}
	var (
		contextIDs []int64
		contexts   []entities.Context
	)
	for rows.Next() {
		var (
			id int64
			c  entities.Context
		)
		if err := rows.Scan(&id, &c.Name, &c.Comment); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan context: %w", err)
		}
		contextIDs = append(contextIDs, id)
		contexts = append(contexts, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get contexts: %w", err)
	}

	messages, err := r.queryMessages(ctx,
		`SELECT m.id, m.context_id, m.message_id, m.source, m.old_source, m.comment, m.extra_comment,
		        m.translator_comment, m.translation, m.numerus, m.numerus_forms, m.type
		 FROM messages m JOIN contexts c ON c.id = m.context_id
		 WHERE c.catalog_id = $1 ORDER BY c.position, m.position`, catalogID)
	if err != nil {
		return nil, err
	}

	locations, err := r.queryLocations(ctx,
		`SELECT l.message_id, l.file, l.line
		 FROM locations l JOIN messages m ON m.id = l.message_id JOIN contexts c ON c.id = m.context_id
		 WHERE c.catalog_id = $1 ORDER BY c.position, m.position, l.position`, catalogID)
	if err != nil {
		return nil, err
	}

	if err := assemble(cat, contextIDs, contexts, messages, locations); err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *CatalogRepository) FindMessage(ctx context.Context, language, contextName, source string) (*entities.Message, error) {
	messages, err := r.queryMessages(ctx,
		`SELECT m.id, m.context_id, m.message_id, m.source, m.old_source, m.comment, m.extra_comment,
		        m.translator_comment, m.translation, m.numerus, m.numerus_forms, m.type
		 FROM messages m
		 JOIN contexts c ON c.id = m.context_id
		 JOIN catalogs k ON k.id = c.catalog_id
		 WHERE k.language = $1 AND c.name = $2 AND m.source = $3
		   AND m.type NOT IN ('obsolete', 'vanished')
		 ORDER BY (m.comment <> ''), c.position, m.position
		 LIMIT 1`, language, contextName, source)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM catalogs WHERE language = $1)`, language).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check catalog %s: %w", language, err)
		}
		if !exists {
			return nil, domain.ErrCatalogNotFound
		}
		return nil, domain.ErrMessageNotFound
	}
	m, err := messageToDomain(messages[0])
	if err != nil {
		return nil, err
	}
	locations, err := r.queryLocations(ctx,
		`SELECT message_id, file, line FROM locations WHERE message_id = $1 ORDER BY position`, messages[0].ID)
	if err != nil {
		return nil, err
	}
	for _, l := range locations {
		m.Locations = append(m.Locations, entities.Location{File: l.File, Line: l.Line})
	}
	return &m, nil
}

func (r *CatalogRepository) Languages(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT language FROM catalogs ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	langs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return langs, nil
}

func (r *CatalogRepository) Delete(ctx context.Context, language string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM catalogs WHERE language = $1`, language)
	if err != nil {
		return fmt.Errorf("delete catalog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCatalogNotFound
	}
	return nil
}

func (r *CatalogRepository) queryMessages(ctx context.Context, query string, args ...any) ([]messageRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (messageRow, error) {
		var m messageRow
		err := row.Scan(&m.ID, &m.ContextID, &m.MessageID, &m.Source, &m.OldSource, &m.Comment, &m.ExtraComment,
			&m.TranslatorComment, &m.Translation, &m.Numerus, &m.NumerusForms, &m.Type)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}
	return out, nil
}

func (r *CatalogRepository) queryLocations(ctx context.Context, query string, args ...any) ([]locationRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get locations: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (locationRow, error) {
		var l locationRow
		err := row.Scan(&l.MessageID, &l.File, &l.Line)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan locations: %w", err)
	}
	return out, nil
}
