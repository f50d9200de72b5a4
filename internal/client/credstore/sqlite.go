package credstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/avelkov/dreamchat/internal/client/migrations"
	"github.com/avelkov/dreamchat/internal/cryptox"
	"github.com/avelkov/dreamchat/internal/dbx"
	"github.com/avelkov/dreamchat/internal/models"
)

const (
	tokenKey = "access_token"
	userKey  = "current_user"
)

// SQLiteStore keeps encrypted credential records in a local SQLite
// database. Each value is sealed with AES-GCM under the key supplied at
// open time.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

// Open opens (creating if needed) the credential database at dsn, runs the
// embedded migrations, and binds the encryption key.
func Open(ctx context.Context, dsn string, key []byte) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open credential db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate credential db: %w", err)
	}
	return &SQLiteStore{db: db, key: key}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	plain, err := s.get(ctx, s.db, tokenKey)
	if err != nil || plain == nil {
		return "", err
	}
	return string(plain), nil
}

func (s *SQLiteStore) User(ctx context.Context) (*models.User, error) {
	plain, err := s.get(ctx, s.db, userKey)
	if err != nil || plain == nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(plain, &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) SetToken(ctx context.Context, token string) error {
	return s.set(ctx, s.db, tokenKey, []byte(token))
}

func (s *SQLiteStore) SetUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.set(ctx, s.db, userKey, data)
}

// SetSession writes the user and token in a single transaction so observers
// never see one without the other.
func (s *SQLiteStore) SetSession(ctx context.Context, user *models.User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, userKey, data); err != nil {
			return err
		}
		return s.set(ctx, tx, tokenKey, []byte(token))
	})
}

// Clear removes both credential records; clearing an empty store is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials`)
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, name string) ([]byte, error) {
	var value, nonce []byte
	err := q.QueryRowContext(ctx, `SELECT value, nonce FROM credentials WHERE name = ?`, name).Scan(&value, &nonce)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential[%s]: %w", name, err)
	}
	plain, err := cryptox.Open(s.key, value, nonce)
	if err != nil {
		return nil, fmt.Errorf("unseal credential[%s]: %w", name, err)
	}
	return plain, nil
}

func (s *SQLiteStore) set(ctx context.Context, q dbx.DBTX, name string, plaintext []byte) error {
	value, nonce, err := cryptox.Seal(s.key, plaintext)
	if err != nil {
		return fmt.Errorf("seal credential[%s]: %w", name, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO credentials (name, value, nonce) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, nonce = excluded.nonce
	`, name, value, nonce)
	if err != nil {
		return fmt.Errorf("set credential[%s]: %w", name, err)
	}
	return nil
}
