// Package db implements the credential and submission store on SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/lingomap/lingomap/internal/db/migrations"
	"github.com/lingomap/lingomap/internal/services"
)

type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating parent directories as needed) the SQLite file at
// path and returns the database handle.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	return sql.Open("sqlite3", dsn)
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func contextBg() context.Context { return context.Background() }

// AddUser inserts a user. The UNIQUE constraint on email makes duplicate
// detection atomic: concurrent signups race to a single winner and the
// loser gets services.ErrDuplicateEmail.
func (s *SQLiteStore) AddUser(u *services.User) error {
	_, err := s.db.ExecContext(contextBg(),
		`INSERT INTO users (id, email, pass_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PassHash, u.CreatedAt)
	if err != nil {
		var serr sqlite3.Error
		if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return services.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindUserByEmail(email string) (*services.User, error) {
	u := &services.User{}
	err := s.db.QueryRowContext(contextBg(),
		`SELECT id, email, pass_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PassHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) AddSubmission(sub *services.Submission) error {
	_, err := s.db.ExecContext(contextBg(),
		`INSERT INTO submissions
			(id, phrase, language, country, country_code, region, lat, lng, submitted_at, audio_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Phrase, sub.Language, sub.Country, sub.CountryCode, sub.Region,
		sub.Lat, sub.Lng, sub.Timestamp, sub.AudioKey, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListSubmissions() ([]*services.Submission, error) {
	rows, err := s.db.QueryContext(contextBg(),
		`SELECT id, phrase, language, country, country_code, region, lat, lng, submitted_at, audio_key, created_at
		FROM submissions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	defer rows.Close()

	var result []*services.Submission
	for rows.Next() {
		item := &services.Submission{}
		if err := rows.Scan(&item.ID, &item.Phrase, &item.Language, &item.Country, &item.CountryCode,
			&item.Region, &item.Lat, &item.Lng, &item.Timestamp, &item.AudioKey, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var (
	_ services.AuthStore       = (*SQLiteStore)(nil)
	_ services.SubmissionStore = (*SQLiteStore)(nil)
)
