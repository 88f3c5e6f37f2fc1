package lists

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrymomot/superlists/pkg/pg"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const (
	ensureUserQuery = `INSERT INTO users (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`
	createListQuery = `INSERT INTO lists (owner_email) VALUES (NULLIF($1, '')) RETURNING id, created_at`
	insertItemQuery = `INSERT INTO items (list_id, text) VALUES ($1, $2) RETURNING id, created_at`
)

func (s *PostgresStorage) CreateList(ctx context.Context, owner, firstItem string) (List, error) {
	var l List
	err := pg.WithTx(ctx, s.db, func(ctx context.Context, tx pg.DBTX) error {
		if owner != "" {
			if _, err := tx.ExecContext(ctx, ensureUserQuery, owner); err != nil {
				return fmt.Errorf("ensure owner: %w", err)
			}
		}
		if err := tx.QueryRowContext(ctx, createListQuery, owner).Scan(&l.ID, &l.CreatedAt); err != nil {
			return fmt.Errorf("insert list: %w", err)
		}
		it, err := insertItem(ctx, tx, l.ID, firstItem)
		if err != nil {
			return err
		}
		l.OwnerEmail = owner
		l.Items = []Item{it}
		return nil
	})
	if err != nil {
		return List{}, err
	}
	return l, nil
}

const (
	getListQuery = `SELECT id, COALESCE(owner_email, ''), created_at FROM lists WHERE id = $1`
	sharesQuery  = `SELECT email FROM list_shares WHERE list_id = $1 ORDER BY email`
)

func (s *PostgresStorage) GetList(ctx context.Context, id int64) (List, error) {
	var l List
	err := s.db.QueryRowContext(ctx, getListQuery, id).Scan(&l.ID, &l.OwnerEmail, &l.CreatedAt)
	if pg.IsNotFoundError(err) {
		return List{}, ErrListNotFound
	}
	if err != nil {
		return List{}, fmt.Errorf("select list: %w", err)
	}

	if l.Items, err = s.Items(ctx, id); err != nil {
		return List{}, err
	}

	rows, err := s.db.QueryContext(ctx, sharesQuery, id)
	if err != nil {
		return List{}, fmt.Errorf("select shares: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return List{}, fmt.Errorf("scan share: %w", err)
		}
		l.SharedWith = append(l.SharedWith, email)
	}
	if err := rows.Err(); err != nil {
		return List{}, fmt.Errorf("select shares: %w", err)
	}
	return l, nil
}

const hasItemQuery = `SELECT EXISTS (SELECT 1 FROM items WHERE list_id = $1 AND text = $2)`

func (s *PostgresStorage) HasItem(ctx context.Context, listID int64, text string) (bool, error) {
	var ok bool
	if err := s.db.QueryRowContext(ctx, hasItemQuery, listID, text).Scan(&ok); err != nil {
		return false, fmt.Errorf("check item: %w", err)
	}
	return ok, nil
}

func (s *PostgresStorage) AddItem(ctx context.Context, listID int64, text string) (Item, error) {
	return insertItem(ctx, s.db, listID, text)
}

func insertItem(ctx context.Context, db pg.DBTX, listID int64, text string) (Item, error) {
	it := Item{ListID: listID, Text: text}
	err := db.QueryRowContext(ctx, insertItemQuery, listID, text).Scan(&it.ID, &it.CreatedAt)
	switch {
	case pg.IsDuplicateKeyError(err):
		return Item{}, ErrDuplicateItem
	case pg.IsForeignKeyViolationError(err):
		return Item{}, ErrListNotFound
	case err != nil:
		return Item{}, fmt.Errorf("insert item: %w", err)
	}
	return it, nil
}

const itemsQuery = `SELECT id, list_id, text, created_at FROM items WHERE list_id = $1 ORDER BY id`

func (s *PostgresStorage) Items(ctx context.Context, listID int64) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, itemsQuery, listID)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ListID, &it.Text, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

const shareQuery = `INSERT INTO list_shares (list_id, email) VALUES ($1, $2) ON CONFLICT (list_id, email) DO NOTHING`

func (s *PostgresStorage) ShareList(ctx context.Context, listID int64, email string) error {
	return pg.WithTx(ctx, s.db, func(ctx context.Context, tx pg.DBTX) error {
		if _, err := tx.ExecContext(ctx, ensureUserQuery, email); err != nil {
			return fmt.Errorf("ensure sharee: %w", err)
		}
		_, err := tx.ExecContext(ctx, shareQuery, listID, email)
		if pg.IsForeignKeyViolationError(err) {
			return ErrListNotFound
		}
		if err != nil {
			return fmt.Errorf("insert share: %w", err)
		}
		return nil
	})
}

const ownedListsQuery = `
SELECT l.id, COALESCE(l.owner_email, ''), l.created_at, i.id, i.text, i.created_at
FROM lists l
LEFT JOIN items i ON i.list_id = l.id
WHERE l.owner_email = $1
ORDER BY l.id, i.id`

func (s *PostgresStorage) ListsOwnedBy(ctx context.Context, email string) ([]List, error) {
	return s.queryLists(ctx, ownedListsQuery, email)
}

const sharedListsQuery = `
SELECT l.id, COALESCE(l.owner_email, ''), l.created_at, i.id, i.text, i.created_at
FROM lists l
JOIN list_shares s ON s.list_id = l.id
LEFT JOIN items i ON i.list_id = l.id
WHERE s.email = $1
ORDER BY l.id, i.id`

func (s *PostgresStorage) ListsSharedWith(ctx context.Context, email string) ([]List, error) {
	return s.queryLists(ctx, sharedListsQuery, email)
}

// queryLists folds list-item join rows, ordered by list then item id, into
// lists with their items.
func (s *PostgresStorage) queryLists(ctx context.Context, query string, args ...any) ([]List, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select lists: %w", err)
	}
	defer rows.Close()

	var out []List
	for rows.Next() {
		var (
			l        List
			itemID   sql.NullInt64
			itemText sql.NullString
			itemAt   sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.OwnerEmail, &l.CreatedAt, &itemID, &itemText, &itemAt); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].ID != l.ID {
			out = append(out, l)
		}
		if itemID.Valid {
			cur := &out[len(out)-1]
			cur.Items = append(cur.Items, Item{ID: itemID.Int64, ListID: l.ID, Text: itemText.String, CreatedAt: itemAt.Time})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select lists: %w", err)
	}
	return out, nil
}
