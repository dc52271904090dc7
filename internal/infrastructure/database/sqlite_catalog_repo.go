package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"l10nbot/internal/domain"
	"l10nbot/internal/domain/entities"
	"l10nbot/internal/ports/output"
)

var _ output.CatalogRepository = (*SQLiteCatalogRepository)(nil)

// SQLiteCatalogRepository implements output.CatalogRepository on SQLite (modernc.org/sqlite).
type SQLiteCatalogRepository struct {
	db *sql.DB
}

// NewSQLiteCatalogRepository creates a SQLiteCatalogRepository.
func NewSQLiteCatalogRepository(db *sql.DB) *SQLiteCatalogRepository {
	return &SQLiteCatalogRepository{db: db}
}

func (r *SQLiteCatalogRepository) Save(ctx context.Context, cat *entities.Catalog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSQLiteCatalog(ctx, tx, cat.Language); err != nil {
		return err
	}

	importedAt := cat.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO catalogs (language, name, version, source_language, imported_at) VALUES (?, ?, ?, ?, ?)`,
		cat.Language, cat.Name, cat.Version, cat.SourceLanguage, importedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	catalogID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}

	insertContext, err := tx.PrepareContext(ctx,
		`INSERT INTO contexts (catalog_id, position, name, comment) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare contexts: %w", err)
	}
	defer insertContext.Close()
	insertMessage, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (context_id, position, message_id, source, old_source, comment,
		     extra_comment, translator_comment, translation, numerus, numerus_forms, type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare messages: %w", err)
	}
	defer insertMessage.Close()
	insertLocation, err := tx.PrepareContext(ctx,
		`INSERT INTO locations (message_id, position, file, line) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare locations: %w", err)
	}
	defer insertLocation.Close()

	for ci, c := range cat.Contexts {
		res, err := insertContext.ExecContext(ctx, catalogID, ci, c.Name, c.Comment)
		if err != nil {
			return fmt.Errorf("insert context %s: %w", c.Name, err)
		}
		contextID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert context %s: %w", c.Name, err)
		}
		for mi, m := range c.Messages {
			forms, err := encodeForms(m.NumerusForms)
			if err != nil {
				return err
			}
			res, err := insertMessage.ExecContext(ctx, contextID, mi, m.ID, m.Source, m.OldSource, m.Comment,
				m.ExtraComment, m.TranslatorComment, m.Translation, m.Numerus, forms, m.Type)
			if err != nil {
				return fmt.Errorf("insert message %q: %w", m.Source, err)
			}
			messageID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert message %q: %w", m.Source, err)
			}
			for li, l := range m.Locations {
				if _, err := insertLocation.ExecContext(ctx, messageID, li, l.File, l.Line); err != nil {
					return fmt.Errorf("insert location of %q: %w", m.Source, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	cat.ID = uint(catalogID)
	return nil
}

// deleteSQLiteCatalog removes a catalog and its children explicitly, so it
// does not depend on the foreign_keys pragma being enabled.
func deleteSQLiteCatalog(ctx context.Context, tx *sql.Tx, language string) error {
	stmts := []string{
		`DELETE FROM locations WHERE message_id IN (
		     SELECT m.id FROM messages m JOIN contexts c ON c.id = m.context_id
		     JOIN catalogs k ON k.id = c.catalog_id WHERE k.language = ?)`,
		`DELETE FROM messages WHERE context_id IN (
		     SELECT c.id FROM contexts c JOIN catalogs k ON k.id = c.catalog_id WHERE k.language = ?)`,
		`DELETE FROM contexts WHERE catalog_id IN (SELECT id FROM catalogs WHERE language = ?)`,
		`DELETE FROM catalogs WHERE language = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, language); err != nil {
			return fmt.Errorf("delete previous catalog: %w", err)
		}
	}
	return nil
}

func (r *SQLiteCatalogRepository) FindByLanguage(ctx context.Context, language string) (*entities.Catalog, error) {
	var (
		catalogID  int64
		importedAt string
	)
	cat := &entities.Catalog{Language: language}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, version, source_language, imported_at FROM catalogs WHERE language = ?`, language,
	).Scan(&catalogID, &cat.Name, &cat.Version, &cat.SourceLanguage, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog %s: %w", language, err)
	}
	cat.ID = uint(catalogID)
	if t, err := time.Parse(time.RFC3339Nano, importedAt); err == nil {
		cat.ImportedAt = t
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, comment FROM contexts WHERE catalog_id = ? ORDER BY position`, catalogID)
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
		 WHERE c.catalog_id = ? ORDER BY c.position, m.position`, catalogID)
	if err != nil {
		return nil, err
	}
	locations, err := r.queryLocations(ctx,
		`SELECT l.message_id, l.file, l.line
		 FROM locations l JOIN messages m ON m.id = l.message_id JOIN contexts c ON c.id = m.context_id
		 WHERE c.catalog_id = ? ORDER BY c.position, m.position, l.position`, catalogID)
	if err != nil {
		return nil, err
	}

	if err := assemble(cat, contextIDs, contexts, messages, locations); err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *SQLiteCatalogRepository) FindMessage(ctx context.Context, language, contextName, source string) (*entities.Message, error) {
	messages, err := r.queryMessages(ctx,
		`SELECT m.id, m.context_id, m.message_id, m.source, m.old_source, m.comment, m.extra_comment,
		        m.translator_comment, m.translation, m.numerus, m.numerus_forms, m.type
		 FROM messages m
		 JOIN contexts c ON c.id = m.context_id
		 JOIN catalogs k ON k.id = c.catalog_id
		 WHERE k.language = ? AND c.name = ? AND m.source = ?
		   AND m.type NOT IN ('obsolete', 'vanished')
		 ORDER BY (m.comment <> ''), c.position, m.position
		 LIMIT 1`, language, contextName, source)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM catalogs WHERE language = ?)`, language).Scan(&exists); err != nil {
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
		`SELECT message_id, file, line FROM locations WHERE message_id = ? ORDER BY position`, messages[0].ID)
	if err != nil {
		return nil, err
	}
	for _, l := range locations {
		m.Locations = append(m.Locations, entities.Location{File: l.File, Line: l.Line})
	}
	return &m, nil
}

func (r *SQLiteCatalogRepository) Languages(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT language FROM catalogs ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()
	langs := []string{}
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

func (r *SQLiteCatalogRepository) Delete(ctx context.Context, language string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalogs WHERE language = ?`, language).Scan(&n); err != nil {
		return fmt.Errorf("count catalogs: %w", err)
	}
	if n == 0 {
		return domain.ErrCatalogNotFound
	}
	if err := deleteSQLiteCatalog(ctx, tx, language); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteCatalogRepository) queryMessages(ctx context.Context, query string, args ...any) ([]messageRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()
	var out []messageRow
	for rows.Next() {
		var m messageRow
		if err := rows.Scan(&m.ID, &m.ContextID, &m.MessageID, &m.Source, &m.OldSource, &m.Comment, &m.ExtraComment,
			&m.TranslatorComment, &m.Translation, &m.Numerus, &m.NumerusForms, &m.Type); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteCatalogRepository) queryLocations(ctx context.Context, query string, args ...any) ([]locationRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get locations: %w", err)
	}
	defer rows.Close()
	var out []locationRow
	for rows.Next() {
		var l locationRow
		if err := rows.Scan(&l.MessageID, &l.File, &l.Line); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
