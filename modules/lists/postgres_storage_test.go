package lists_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/superlists/modules/lists"
)

var created = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newMockStorage(t *testing.T) (*lists.PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return lists.NewPostgresStorage(db), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestPostgresStorage_CreateList(t *testing.T) {
	t.Parallel()

	t.Run("with owner", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(q(`INSERT INTO users (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`)).
			WithArgs("edith@example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(q(`INSERT INTO lists (owner_email) VALUES (NULLIF($1, '')) RETURNING id, created_at`)).
			WithArgs("edith@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), created))
		mock.ExpectQuery(q(`INSERT INTO items (list_id, text) VALUES ($1, $2) RETURNING id, created_at`)).
			WithArgs(int64(1), "Buy milk").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), created))
		mock.ExpectCommit()

		l, err := store.CreateList(context.Background(), "edith@example.com", "Buy milk")
		require.NoError(t, err)
		assert.EqualValues(t, 1, l.ID)
		assert.Equal(t, "edith@example.com", l.OwnerEmail)
		assert.Equal(t, "Buy milk", l.Name())
		assert.Equal(t, []lists.Item{{ID: 10, ListID: 1, Text: "Buy milk", CreatedAt: created}}, l.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous rolls back on item failure", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(`INSERT INTO lists`)).
			WithArgs("").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), created))
		mock.ExpectQuery(q(`INSERT INTO items`)).
			WithArgs(int64(2), "Buy milk").
			WillReturnError(&pgconn.PgError{Code: "23514"})
		mock.ExpectRollback()

		_, err := store.CreateList(context.Background(), "", "Buy milk")
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStorage_AddItem(t *testing.T) {
	t.Parallel()

	insert := q(`INSERT INTO items (list_id, text) VALUES ($1, $2) RETURNING id, created_at`)

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, lists.ErrDuplicateItem},
		{"missing list", &pgconn.PgError{Code: "23503"}, lists.ErrListNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, mock := newMockStorage(t)
			mock.ExpectQuery(insert).WithArgs(int64(1), "Buy milk").WillReturnError(tt.dbErr)

			_, err := store.AddItem(context.Background(), 1, "Buy milk")
			assert.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStorage(t)
		mock.ExpectQuery(insert).WithArgs(int64(1), "Buy eggs").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

		it, err := store.AddItem(context.Background(), 1, "Buy eggs")
		require.NoError(t, err)
		assert.Equal(t, lists.Item{ID: 11, ListID: 1, Text: "Buy eggs", CreatedAt: created}, it)
	})
}

func TestPostgresStorage_HasItem(t *testing.T) {
	t.Parallel()

	store, mock := newMockStorage(t)
	mock.ExpectQuery(q(`SELECT EXISTS (SELECT 1 FROM items WHERE list_id = $1 AND text = $2)`)).
		WithArgs(int64(1), "Buy milk").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.HasItem(context.Background(), 1, "Buy milk")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostgresStorage_GetList(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStorage(t)

		mock.ExpectQuery(q(`SELECT id, COALESCE(owner_email, ''), created_at FROM lists WHERE id = $1`)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "owner_email", "created_at"}).AddRow(int64(3), "", created))
		mock.ExpectQuery(q(`SELECT id, list_id, text, created_at FROM items WHERE list_id = $1 ORDER BY id`)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "text", "created_at"}).
				AddRow(int64(5), int64(3), "Buy milk", created).
				AddRow(int64(6), int64(3), "Buy eggs", created))
		mock.ExpectQuery(q(`SELECT email FROM list_shares WHERE list_id = $1 ORDER BY email`)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("oni@example.com"))

		l, err := store.GetList(context.Background(), 3)
		require.NoError(t, err)
		assert.False(t, l.HasOwner())
		assert.Equal(t, "Buy milk", l.Name())
		assert.Len(t, l.Items, 2)
		assert.Equal(t, []string{"oni@example.com"}, l.SharedWith)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStorage(t)
		mock.ExpectQuery(q(`FROM lists WHERE id = $1`)).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

		_, err := store.GetList(context.Background(), 9)
		assert.ErrorIs(t, err, lists.ErrListNotFound)
	})
}

func TestPostgresStorage_ShareList(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(q(`INSERT INTO users (email)`)).WithArgs("oni@example.com").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(q(`INSERT INTO list_shares (list_id, email) VALUES ($1, $2) ON CONFLICT (list_id, email) DO NOTHING`)).
			WithArgs(int64(1), "oni@example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, store.ShareList(context.Background(), 1, "oni@example.com"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing list", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(q(`INSERT INTO users (email)`)).WithArgs("oni@example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q(`INSERT INTO list_shares`)).WithArgs(int64(8), "oni@example.com").
			WillReturnError(&pgconn.PgError{Code: "23503"})
		mock.ExpectRollback()

		assert.ErrorIs(t, store.ShareList(context.Background(), 8, "oni@example.com"), lists.ErrListNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStorage_ListsOwnedBy(t *testing.T) {
	t.Parallel()

	store, mock := newMockStorage(t)
	cols := []string{"id", "owner_email", "created_at", "item_id", "item_text", "item_created_at"}
	mock.ExpectQuery(`FROM lists l\s+LEFT JOIN items i ON i.list_id = l.id\s+WHERE l.owner_email = \$1`).
		WithArgs("edith@example.com").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "edith@example.com", created, int64(1), "Buy milk", created).
			AddRow(int64(1), "edith@example.com", created, int64(2), "Buy eggs", created).
			AddRow(int64(4), "edith@example.com", created, nil, nil, nil).
			AddRow(int64(5), "edith@example.com", created, int64(9), "Make a fly", created))

	got, err := store.ListsOwnedBy(context.Background(), "edith@example.com")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Buy milk", got[0].Name())
	assert.Len(t, got[0].Items, 2)
	assert.Empty(t, got[1].Items)
	assert.Equal(t, "", got[1].Name())
	assert.Equal(t, "Make a fly", got[2].Name())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_ListsSharedWith(t *testing.T) {
	t.Parallel()

	store, mock := newMockStorage(t)
	mock.ExpectQuery(`JOIN list_shares s ON s.list_id = l.id`).
		WithArgs("oni@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_email", "created_at", "item_id", "item_text", "item_created_at"}))

	got, err := store.ListsSharedWith(context.Background(), "oni@example.com")
	require.NoError(t, err)
	assert.Empty(t, got)
}
